// Package mcp exposes the rover REST API as Model Context Protocol tools.
//
// The Client is a thin proxy: every tool call becomes a request against the
// REST API and the JSON response is rendered as text for the agent.
//
// Tools:
//   - execute_mission: one-shot mission, optionally traced
//   - create_session, list_sessions, get_session: session management
//   - rover_state: current rover with a plateau map
//   - send_commands, reset_rover: drive a session rover
//   - command_history: paginated processed commands
//   - list_scenarios, run_scenario: saved missions
//   - mission_instructions: rules and worked examples
//
// Served over stdio (mcp mode) or HTTP (POST /mcp):
//
//	client := mcp.NewClient("http://localhost:8080")
//	server.ServeStdio(client.GetMCPServer())
//
//	router.Handle("/mcp", client.HTTPHandler())
package mcp
