// Package api provides the HTTP REST API for Fox Catcher.
//
// Endpoints:
//
// Sessions:
//   - POST /api/sessions - Create a game ({"layout_id","player_one","player_two"}, all optional)
//   - GET /api/sessions - List games (?sort=created|accessed&order=asc|desc&limit=N)
//   - GET /api/sessions/{id} - Get one game
//   - DELETE /api/sessions/{id} - Delete a game
//
// Game Operations:
//   - GET /api/sessions/{id}/state - Current game state
//   - POST /api/sessions/{id}/move - Move a piece ({"piece":1,"direction":"up_left","reset":false})
//   - POST /api/sessions/{id}/move-from - Move by squares ({"from":{"row":7,"col":1},"to":{"row":6,"col":0}})
//   - POST /api/sessions/{id}/reset - Restore the starting layout
//   - GET /api/sessions/{id}/history - Applied moves (?page&limit&order)
//   - GET /api/sessions/{id}/pieces/{index}/moves - Legal directions for one piece
//
// Layouts and Results:
//   - GET /api/layouts, POST /api/layouts, GET /api/layouts/{name}
//   - GET /api/results/best?limit=N - Fewest-move finished games
//
// WebSocket:
//   - GET /ws?session={id} - Pushes state_update and game_over messages
//
// A rejected move is not an HTTP error: the response carries "success":false
// and the unchanged state. Errors are JSON with a status code of 400, 404 or
// 500:
//
//	{"error": "session not found"}
package api
