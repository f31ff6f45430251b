// Package service is the business layer every transport talks to.
//
// GameService wraps the session manager, the layout manager and the results
// repository:
//
//   - sessions are created from a named starting layout and two player names
//     (the first plays the dogs, the second the fox)
//   - moves are addressed by piece index and direction, or by source and
//     target square
//   - once a move decides the game the outcome is written to the results
//     repository, once per game
//
// Usage:
//
//	sessions := session.NewManager()
//	layouts, _ := config.NewManager("layouts")
//	svc := service.NewGameService(sessions, layouts, results.NewMemoryRepository(), logger)
//
//	info, err := svc.CreateSession(ctx, service.CreateSessionRequest{PlayerOne: "ann", PlayerTwo: "bob"})
//	if err != nil {
//		return err
//	}
//	res, err := svc.Move(ctx, info.ID, 1, "up_right", false)
//
// Errors for unknown sessions or layouts satisfy IsNotFound; errors caused by
// bad piece indexes, directions or layouts satisfy IsBadRequest.
package service
