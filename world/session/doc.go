// Package session provides navigation session management.
//
// The session package implements:
//   - Thread-safe session storage and retrieval
//   - Short session ID generation
//   - Session lifecycle management and expiry
//   - JSON file persistence of grid changes, agent position and history
//
// Session Identifiers:
//
// Sessions use 4-character hex IDs for easy reference. IDs are matched
// case-insensitively and generated from crypto/rand.
//
// Persistence:
//
// A persisted session stores its map ID instead of the grid. On load the
// grid is rebuilt from the map and the recorded walkability overrides are
// applied on top, so a session survives restarts as long as its map file
// does.
//
// Usage:
//
//	persistence, err := session.NewFilePersistence("sessions", maps)
//	manager := session.NewManagerWithPersistence(persistence)
//
//	sess, err := manager.Create("", "maze", mapConfig)
//	sess, err = manager.Get(sess.ID)
package session
