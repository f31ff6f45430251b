// Package session keeps the live Fox Catcher games.
//
// A session owns one game engine plus the two player names and the layout it
// started from. Sessions are addressed by short random hex IDs, looked up
// case-insensitively.
//
// Manager is safe for concurrent use. With a SessionPersistence attached it
// writes every session through to storage and lazily loads sessions it does
// not hold in memory; FilePersistence keeps one JSON file per session holding
// the board snapshot and the move history, so a restored game continues
// exactly where it stopped.
//
//	persistence, _ := session.NewFilePersistence("sessions", layouts)
//	manager := session.NewManagerWithPersistence(persistence, session.WithLogger(logger))
//	if err := manager.LoadPersistedSessions(); err != nil {
//		return err
//	}
//
// CleanupExpiredSessions evicts idle sessions from memory only.
package session
