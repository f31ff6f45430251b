// Package mcp exposes Fox Catcher to AI agents over the Model Context Protocol.
//
// The client is thin: every tool call is proxied to the REST API and the JSON
// answer is rendered as text an agent can read. No game state lives here.
//
// MCP Tools:
//   - create_session: Start a game from a layout with two player names
//   - list_sessions, get_session: Inspect running games
//   - game_state: Board rows, side to move and each piece's legal directions
//   - possible_moves: Legal directions and target squares for one piece
//   - move: Move piece N (0 is the fox) one diagonal step
//   - move_from: Move the piece on one square to an adjacent square
//   - reset_game: Restore the starting layout
//   - move_history: Paginated applied moves
//   - list_layouts: Available starting layouts
//   - leaderboard: Best finished games
//   - game_instructions: The rules
//
// Transport Modes:
//
// The same server is served over stdio (ServeStdio) for local agents and
// over HTTP through the /mcp endpoint of the main server.
//
// Usage:
//
//	client := mcp.NewClient("http://localhost:8080")
//	server.ServeStdio(client.GetMCPServer())
package mcp
