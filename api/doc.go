// Package api provides the HTTP REST API of the Mars Rover server.
//
// Endpoints:
//
// Missions (one rover, one request):
//   - POST /api/missions - Run a JSON mission; ?trace=true adds per-command steps
//   - POST /api/missions/batch - Run the classic text input; ?format=text prints reports
//   - GET /api/missions - Recent missions from the mission log (?limit=)
//   - GET /api/missions/{id} - One logged mission
//
// Sessions (a rover that keeps its state between requests):
//   - POST /api/sessions - Land a rover from a scenario or explicit coordinates
//   - GET /api/sessions - List sessions (?sort=created|accessed&order=asc|desc&limit=)
//   - GET /api/sessions/{id} - Session details
//   - DELETE /api/sessions/{id} - Delete a session
//   - GET /api/sessions/{id}/state - Current rover state
//   - POST /api/sessions/{id}/commands - Send {"commands": "LMR", "reset": false}
//   - POST /api/sessions/{id}/reset - Return the rover to its landing position
//   - GET /api/sessions/{id}/history - Paginated command history (?page=&limit=&order=)
//
// Scenarios:
//   - GET /api/scenarios - List scenario files
//   - POST /api/scenarios - Save a scenario
//   - GET /api/scenarios/{name} - Load one scenario
//   - POST /api/scenarios/{name}/run - Run a scenario and check its expected report
//
// Other:
//   - GET /healthz - Liveness
//   - GET /metrics - Prometheus metrics
//   - GET /ws?session={id} - WebSocket state updates
//
// Errors are returned as {"error": "...", "code": "..."}. Rejected mission
// input answers 400 with one of invalid_input_format, invalid_plateau,
// invalid_initial_position or invalid_direction. Unknown sessions, scenarios
// and missions answer 404.
package api
