// Package service provides the business logic layer for the Mars Rover mission server.
//
// The service package implements:
//   - One-shot missions from JSON payloads or classic text input
//   - Multi-session rover management with command history
//   - Scenario loading, saving and replay
//   - Mission logging, metrics and tracing around every operation
//
// Core Interfaces:
//
// MissionService is the main service interface used by every transport.
// SessionManager stores sessions, ScenarioManager loads scenario files and
// MissionLog keeps executed missions. Metrics is optional.
//
// Usage:
//
//	sessionMgr := session.NewManager()
//	scenarioMgr, _ := scenario.NewManager("scenarios")
//	svc := service.NewMissionService(sessionMgr, scenarioMgr,
//		service.WithMissionLog(store),
//		service.WithMetrics(metrics),
//	)
//
//	result, err := svc.ExecuteMission(ctx, payload, service.ExecuteOptions{Source: "api"})
//	if err != nil {
//		// input.ErrorCode(err) tells which check failed
//	}
//	fmt.Println(result.Report)
//
// Validation errors from the input package are passed through, so callers can
// match them with errors.Is against input.ErrInvalidPlateau and the others.
package service
