// Package missionlog keeps a durable log of executed missions in SQLite.
//
// Every one-shot mission run through the service is appended as a Record with
// a UUID, its inputs, the final rover and the outcome counts. The schema is
// managed with embedded golang-migrate migrations and the pure-Go
// modernc.org/sqlite driver, so no cgo is needed.
//
// Usage:
//
//	store, err := missionlog.Open(ctx, missionlog.Config{Path: "missions.db"})
//	if err != nil {
//		return err
//	}
//	defer store.Close()
//
//	rec := missionlog.NewRecord("api", cfg, result)
//	if err := store.Append(ctx, rec); err != nil {
//		return err
//	}
package missionlog
