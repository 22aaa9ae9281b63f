// Package telemetry wires logging, metrics and tracing for the mission server.
//
// Logging uses the zerolog global logger. SetupLogging picks the level,
// format and output once at startup, and packages derive component loggers
// with Component.
//
// Metrics are Prometheus collectors on a private registry, exposed through
// Metrics.Handler. Tracing installs an OpenTelemetry tracer provider as the
// global provider so the service can start spans with otel.Tracer.
package telemetry
