// Package websocket pushes Fox Catcher game updates to browsers.
//
// A Hub keeps, per session ID, the set of connected clients. Clients subscribe
// with /ws?session=<id> and receive JSON messages:
//
//	{"session_id": "ab12", "event": "state_update", "game_state": {...}}
//	{"session_id": "ab12", "event": "game_over", "game_state": {...}, "data": {...}}
//
// Incoming messages are ignored. The subscriber map belongs to the Run loop;
// publishers, registration and removal all go through channels. Run stops
// and disconnects everyone when its context is cancelled.
//
//	hub := websocket.NewHub(logger)
//	go hub.Run(ctx)
//	hub.BroadcastToSession(sessionID, state)
package websocket
