// Package websocket pushes rover session updates to browser and tool clients.
//
// A Hub keeps the clients of each session and fans messages out to them.
// Each connection gets a read pump, which only answers pings, and a write
// pump that sends one JSON message per frame:
//
//	{"session_id": "a1b2", "event": "state_update", "state": {...}}
//
// Clients attach with /ws?session=<id>. The current state is sent first, then
// every change made through the API: commands, resets and deletion.
//
// Usage:
//
//	hub := websocket.NewHub()
//	go hub.Run(ctx)
//
//	hub.BroadcastToSession(id, state)
package websocket
