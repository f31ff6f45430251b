// Package results records finished games and answers the ranked
// "best results" query.
//
// A result names both players, the winner, the number of moves the game took
// and when it ended. Three Repository implementations exist:
//
//   - MemoryRepository keeps results until the process exits
//   - FileRepository keeps all results in one JSON array on disk, by default
//     under the XDG data directory (foxcatcher/results.json)
//   - SQLiteRepository stores them in a game_results table
//
// Best returns the fewest-move games first; among games of equal length the
// most recent one ranks higher.
package results
