// Package session provides rover session management for the mission server.
//
// The session package implements:
//   - Thread-safe session storage and retrieval
//   - Short random session ID generation
//   - Optional file persistence with lazy reload
//   - Cleanup of idle sessions
//
// Core Types:
//
// Manager keeps sessions in memory keyed by lower-cased ID. Each session owns
// one engine.MissionEngine, so every session moves its own rover. When a
// SessionPersistence is configured, sessions are saved on creation and on
// every access and are loaded back on demand.
//
// Session Identifiers:
//
// Generated IDs are 4 hex characters from crypto/rand. Caller-chosen IDs may
// use letters, digits, dashes and underscores; they also name the persisted
// file, so nothing else is accepted.
//
// Usage:
//
//	persistence, err := session.NewFilePersistence("sessions")
//	if err != nil {
//		return err
//	}
//	manager := session.NewManagerWithPersistence(persistence)
//	_ = manager.LoadPersistedSessions()
//
//	sess, err := manager.Create("", engine.ClassicMission())
package session
