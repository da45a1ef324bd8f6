// Package session provides session management for rover missions.
//
// Manager keeps live sessions in memory, keyed by a case-insensitive ID, and
// optionally writes them through a SessionPersistence backend:
//
//   - FilePersistence stores one JSON document per session in a directory.
//   - SQLitePersistence stores the same document in a SQLite database (WAL mode).
//
// Each stored document embeds the scenario the session started from, so a
// session can be restored even if its scenario file later changes. Restoring
// re-registers every rover on a fresh plateau, so a stored state that breaks
// plateau invariants is rejected rather than loaded.
//
// Sessions use 4-character hex IDs generated from crypto/rand when the caller
// does not supply one.
//
// Usage:
//
//	persistence, err := session.NewSQLitePersistence("sessions.db", configManager)
//	if err != nil {
//		log.Fatal(err)
//	}
//	manager := session.NewManagerWithPersistence(persistence)
//	if err := manager.LoadPersistedSessions(); err != nil {
//		log.Printf("Warning: %v", err)
//	}
//
//	sess, err := manager.Create("", "classic", scenario)
//
// CleanupExpiredSessions evicts idle sessions from memory only; persisted
// copies reload on the next Get.
package session
