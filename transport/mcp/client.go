package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/pkg/errors"

	"github.com/wricardo/foxcatcher/game/engine"
	"github.com/wricardo/foxcatcher/game/results"
	"github.com/wricardo/foxcatcher/game/service"
)

// Client is a thin MCP client that proxies to the REST API
type Client struct {
	baseURL    string
	httpClient *http.Client
	mcpServer  *server.MCPServer
}

// NewClient creates a new MCP client that calls the REST API
func NewClient(baseURL string) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}

	c.initMCPServer()
	return c
}

var directionEnum = []string{"up_left", "up_right", "down_left", "down_right"}

// initMCPServer initializes the MCP server with all tools
func (c *Client) initMCPServer() {
	c.mcpServer = server.NewMCPServer(
		"Fox Catcher",
		"1.0.0",
		server.WithToolCapabilities(true),
		server.WithInstructions(`Fox Catcher - MCP Interface

This is a thin client that proxies all requests to the REST API server.

GAME OBJECTIVE:
One fox (F) and four dogs (D) move diagonally on an 8x8 board. The dogs win
by leaving the fox no legal move. The fox wins by getting past every dog.

AVAILABLE TOOLS:
- create_session: Start a game, optionally from a named layout
- list_sessions / get_session: Inspect running games
- game_state: Board, side to move and each piece's legal moves
- possible_moves: Legal directions for one piece
- move: Move a piece by index (in the classic layout 0 is the fox, 1-4 are dogs)
- move_from: Move whatever stands on a square to an adjacent diagonal square
- reset_game: Back to the starting layout
- move_history: Past moves with pagination
- list_layouts: Available starting layouts
- leaderboard: Fastest finished games
- game_instructions: Full rules`),
	)

	c.registerTools()
}

func sessionIDProperty() map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": "Session ID",
	}
}

// registerTools registers all MCP tools
func (c *Client) registerTools() {
	// Session management
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "create_session",
		Description: "Create a new game session. player_one plays the dogs, player_two plays the fox.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"layout_id": map[string]interface{}{
					"type":        "string",
					"description": "Starting layout (optional, see list_layouts)",
				},
				"player_one": map[string]interface{}{
					"type":        "string",
					"description": "Name of the dogs player (optional)",
				},
				"player_two": map[string]interface{}{
					"type":        "string",
					"description": "Name of the fox player (optional)",
				},
			},
		},
	}, c.handleCreateSession)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_sessions",
		Description: "List all active game sessions",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleListSessions)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "get_session",
		Description: "Get details of a specific session",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{"session_id": sessionIDProperty()},
			Required:   []string{"session_id"},
		},
	}, c.handleGetSession)

	// Game operations
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "game_state",
		Description: "Get the board, the side to move and every piece's legal moves",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{"session_id": sessionIDProperty()},
			Required:   []string{"session_id"},
		},
	}, c.handleGameState)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "possible_moves",
		Description: "List the directions one piece may move in right now",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionIDProperty(),
				"piece": map[string]interface{}{
					"type":        "integer",
					"description": "Piece index as listed by game_state (classic layout: 0 is the fox, 1-4 are dogs)",
				},
			},
			Required: []string{"session_id", "piece"},
		},
	}, c.handlePossibleMoves)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "move",
		Description: "Move a piece one diagonal step. Dogs may only move up.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionIDProperty(),
				"piece": map[string]interface{}{
					"type":        "integer",
					"description": "Piece index as listed by game_state (classic layout: 0 is the fox, 1-4 are dogs)",
				},
				"direction": map[string]interface{}{
					"type":        "string",
					"enum":        directionEnum,
					"description": "Diagonal direction to move",
				},
				"reset": map[string]interface{}{
					"type":        "boolean",
					"description": "Reset before moving",
				},
			},
			Required: []string{"session_id", "piece", "direction"},
		},
	}, c.handleMove)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "move_from",
		Description: "Move the piece standing on one square to a diagonally adjacent square",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionIDProperty(),
				"from_row":   map[string]interface{}{"type": "integer", "description": "Row of the piece (0 is the top)"},
				"from_col":   map[string]interface{}{"type": "integer", "description": "Column of the piece"},
				"to_row":     map[string]interface{}{"type": "integer", "description": "Target row"},
				"to_col":     map[string]interface{}{"type": "integer", "description": "Target column"},
			},
			Required: []string{"session_id", "from_row", "from_col", "to_row", "to_col"},
		},
	}, c.handleMoveFrom)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "reset_game",
		Description: "Reset the game to its starting layout",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{"session_id": sessionIDProperty()},
			Required:   []string{"session_id"},
		},
	}, c.handleReset)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "move_history",
		Description: "Get move history for a session",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionIDProperty(),
				"page": map[string]interface{}{
					"type":        "integer",
					"description": "Page number",
				},
				"limit": map[string]interface{}{
					"type":        "integer",
					"description": "Items per page",
				},
				"order": map[string]interface{}{
					"type":        "string",
					"enum":        []string{"asc", "desc"},
					"description": "Oldest or newest first (default desc)",
				},
			},
			Required: []string{"session_id"},
		},
	}, c.handleMoveHistory)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_layouts",
		Description: "List available starting layouts",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleListLayouts)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "leaderboard",
		Description: "Show the best finished games, fewest moves first",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"limit": map[string]interface{}{
					"type":        "integer",
					"description": "How many results to show (default 5)",
				},
			},
		},
	}, c.handleLeaderboard)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "game_instructions",
		Description: "Get the complete rules of Fox Catcher",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleGameInstructions)
}

// GetMCPServer returns the underlying MCP server for serving
func (c *Client) GetMCPServer() *server.MCPServer {
	return c.mcpServer
}

// Helper methods for API calls

func (c *Client) apiCall(method, path string, body interface{}, result interface{}) error {
	endpoint := c.baseURL + path

	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return errors.Wrap(err, "encode request")
		}
		reqBody = bytes.NewBuffer(data)
	}

	req, err := http.NewRequest(method, endpoint, reqBody)
	if err != nil {
		return errors.Wrap(err, "build request")
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var errResp map[string]string
		_ = json.NewDecoder(resp.Body).Decode(&errResp)
		if msg, ok := errResp["error"]; ok {
			return errors.New(msg)
		}
		return errors.Errorf("API error: %d", resp.StatusCode)
	}

	if result != nil {
		return json.NewDecoder(resp.Body).Decode(result)
	}

	return nil
}

// Argument helpers. JSON numbers arrive as float64.

func arguments(request mcp.CallToolRequest) map[string]interface{} {
	args, _ := request.Params.Arguments.(map[string]interface{})
	if args == nil {
		return map[string]interface{}{}
	}
	return args
}

func intArg(args map[string]interface{}, key string) (int, bool) {
	switch v := args[key].(type) {
	case float64:
		return int(v), true
	case int:
		return v, true
	case string:
		n, err := strconv.Atoi(v)
		return n, err == nil
	}
	return 0, false
}

func sessionPath(sessionID, suffix string) string {
	return "/api/sessions/" + url.PathEscape(sessionID) + suffix
}

// Tool handlers

func (c *Client) handleCreateSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	body := service.CreateSessionRequest{}
	body.LayoutID, _ = args["layout_id"].(string)
	body.PlayerOne, _ = args["player_one"].(string)
	body.PlayerTwo, _ = args["player_two"].(string)

	var session service.SessionInfo
	if err := c.apiCall("POST", "/api/sessions", body, &session); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := fmt.Sprintf("Created session: %s\nLayout: %s\nDogs: %s\nFox: %s\n\n%s",
		session.ID, session.LayoutID, session.PlayerOne, session.PlayerTwo, formatGameState(session.GameState))
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleListSessions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var response struct {
		Count    int                   `json:"count"`
		Sessions []service.SessionInfo `json:"sessions"`
	}

	if err := c.apiCall("GET", "/api/sessions", nil, &response); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := fmt.Sprintf("Active Sessions (%d):\n\n", response.Count)
	for _, s := range response.Sessions {
		status := "in progress"
		if s.GameState != nil && s.GameState.GameOver {
			status = fmt.Sprintf("%s won", s.GameState.Winner)
		}
		result += fmt.Sprintf("- %s (Layout: %s, %s vs %s, %s, Created: %s)\n",
			s.ID, s.LayoutID, s.PlayerOne, s.PlayerTwo, status, s.CreatedAt.Format("15:04:05"))
	}

	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleGetSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, _ := arguments(request)["session_id"].(string)

	var session service.SessionInfo
	if err := c.apiCall("GET", sessionPath(sessionID, ""), nil, &session); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatSessionInfo(&session)), nil
}

func (c *Client) handleGameState(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, _ := arguments(request)["session_id"].(string)

	var state engine.GameState
	if err := c.apiCall("GET", sessionPath(sessionID, "/state"), nil, &state); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatGameState(&state)), nil
}

func (c *Client) handlePossibleMoves(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	sessionID, _ := args["session_id"].(string)
	piece, ok := intArg(args, "piece")
	if !ok {
		return mcp.NewToolResultError("piece is required"), nil
	}

	var moves service.PossibleMoves
	if err := c.apiCall("GET", sessionPath(sessionID, fmt.Sprintf("/pieces/%d/moves", piece)), nil, &moves); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatPossibleMoves(&moves)), nil
}

func (c *Client) handleMove(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	sessionID, _ := args["session_id"].(string)
	direction, _ := args["direction"].(string)
	reset, _ := args["reset"].(bool)
	piece, ok := intArg(args, "piece")
	if !ok {
		return mcp.NewToolResultError("piece is required"), nil
	}

	body := map[string]interface{}{
		"piece":     piece,
		"direction": direction,
		"reset":     reset,
	}

	var result service.MoveResult
	if err := c.apiCall("POST", sessionPath(sessionID, "/move"), body, &result); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatMoveResult(&result)), nil
}

func (c *Client) handleMoveFrom(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	sessionID, _ := args["session_id"].(string)

	var coords [4]int
	for i, key := range []string{"from_row", "from_col", "to_row", "to_col"} {
		v, ok := intArg(args, key)
		if !ok {
			return mcp.NewToolResultError(key + " is required"), nil
		}
		coords[i] = v
	}

	body := map[string]interface{}{
		"from": engine.Position{Row: coords[0], Col: coords[1]},
		"to":   engine.Position{Row: coords[2], Col: coords[3]},
	}

	var result service.MoveResult
	if err := c.apiCall("POST", sessionPath(sessionID, "/move-from"), body, &result); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatMoveResult(&result)), nil
}

func (c *Client) handleReset(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, _ := arguments(request)["session_id"].(string)

	var response struct {
		Message string            `json:"message"`
		State   *engine.GameState `json:"state"`
	}

	if err := c.apiCall("POST", sessionPath(sessionID, "/reset"), nil, &response); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := fmt.Sprintf("%s\n\n%s", response.Message, formatGameState(response.State))
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleMoveHistory(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	sessionID, _ := args["session_id"].(string)

	params := url.Values{}
	if page, ok := intArg(args, "page"); ok {
		params.Set("page", strconv.Itoa(page))
	}
	if limit, ok := intArg(args, "limit"); ok {
		params.Set("limit", strconv.Itoa(limit))
	}
	if order, ok := args["order"].(string); ok && order != "" {
		params.Set("order", order)
	}

	path := sessionPath(sessionID, "/history")
	if len(params) > 0 {
		path += "?" + params.Encode()
	}

	var history service.HistoryResponse
	if err := c.apiCall("GET", path, nil, &history); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatHistory(&history)), nil
}

func (c *Client) handleListLayouts(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var layouts []service.LayoutInfo
	if err := c.apiCall("GET", "/api/layouts", nil, &layouts); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := "Available Layouts:\n\n"
	for _, layout := range layouts {
		toMove := layout.ToMove
		if toMove == "" {
			toMove = engine.Dog
		}
		result += fmt.Sprintf("• %s (%s)\n  %s\n  First to move: %s\n\n",
			layout.LayoutID, layout.Name, layout.Description, toMove)
	}

	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleLeaderboard(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path := "/api/results/best"
	if limit, ok := intArg(arguments(request), "limit"); ok {
		path += "?limit=" + strconv.Itoa(limit)
	}

	var response struct {
		Count   int                   `json:"count"`
		Results []*results.GameResult `json:"results"`
	}
	if err := c.apiCall("GET", path, nil, &response); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatLeaderboard(response.Results)), nil
}

const gameInstructions = `Fox Catcher - Complete Instructions

THE BOARD:
An 8x8 board. Row 0 is the top, row 7 the bottom. Columns run 0-7 left to right.
Only diagonal steps exist, so pieces stay on squares of one colour.

PIECES:
• F - the fox, piece index 0 in the classic layout
• D - a dog, piece indexes 1 to 4 in the classic layout
• . - empty square

CLASSIC START:
The fox stands on the top row, the dogs fill the dark squares of the bottom row.
The dogs move first.

MOVEMENT:
• Every move is exactly one diagonal step onto an empty square inside the board
• The fox may move up_left, up_right, down_left or down_right
• Dogs may only move up_left or up_right (towards row 0), never back
• Sides alternate: one dog move, then one fox move
• Nothing is ever captured and nothing jumps

VICTORY CONDITIONS:
• Dogs win when the fox, on its turn, has no legal move
• Fox wins once every dog stands on a row above the fox: dogs never move down, so they can never come back

TOOLS:
• game_state shows each piece with its legal directions
• move takes a piece index and a direction
• move_from takes a source and a target square
• reset parameter on move starts the game over first
• leaderboard lists finished games with the fewest moves

STRATEGY HINTS:
• Dogs: advance as a line and never leave a gap the fox can slip through
• Fox: aim for gaps and force the dogs to commit on one flank`

func (c *Client) handleGameInstructions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(gameInstructions), nil
}

// Formatting helpers

func formatSessionInfo(session *service.SessionInfo) string {
	return fmt.Sprintf("Session: %s\nLayout: %s\nDogs: %s\nFox: %s\nCreated: %s\n\n%s",
		session.ID, session.LayoutID, session.PlayerOne, session.PlayerTwo,
		session.CreatedAt.Format("2006-01-02 15:04:05"),
		formatGameState(session.GameState))
}

func formatBoard(rows []string) string {
	var b strings.Builder
	b.WriteString("  ")
	for c := 0; c < engine.BoardSize; c++ {
		b.WriteString(strconv.Itoa(c))
	}
	b.WriteString("\n")
	for r, row := range rows {
		b.WriteString(fmt.Sprintf("%d %s\n", r, row))
	}
	return b.String()
}

func formatDirections(dirs []engine.Direction) string {
	if len(dirs) == 0 {
		return "none"
	}
	names := make([]string, len(dirs))
	for i, d := range dirs {
		names[i] = d.String()
	}
	return strings.Join(names, ", ")
}

func formatGameState(state *engine.GameState) string {
	if state == nil {
		return "No game state available"
	}

	var result strings.Builder
	toMove := string(state.ToMove)
	if state.GameOver {
		toMove = "-"
	}
	result.WriteString(fmt.Sprintf("Layout: %s | To move: %s | Moves: %d\n\n",
		state.LayoutName, toMove, state.MoveCount))

	result.WriteString(formatBoard(state.Board))

	if len(state.Pieces) > 0 {
		result.WriteString("\nPieces:\n")
		for _, p := range state.Pieces {
			marker := " "
			if p.Movable {
				marker = "*"
			}
			result.WriteString(fmt.Sprintf("%s %d %s at (%d,%d) moves: %s\n",
				marker, p.Index, p.Type, p.Row, p.Col, formatDirections(p.PossibleMoves)))
		}
	}

	if state.GameOver {
		if state.FoxWins {
			result.WriteString("\n🦊 FOX WINS!")
		} else {
			result.WriteString("\n🐕 DOGS WIN!")
		}
	}

	if state.Message != "" {
		result.WriteString(fmt.Sprintf("\nMessage: %s", state.Message))
	}

	return result.String()
}

func formatPossibleMoves(moves *service.PossibleMoves) string {
	result := fmt.Sprintf("Piece %d (%s) at %s\n", moves.PieceIndex, moves.PieceType, moves.Position)
	if !moves.Movable {
		result += fmt.Sprintf("Cannot move now (%s to move)\n", moves.ToMove)
	}
	result += "Directions: " + formatDirections(moves.Directions) + "\n"
	for i, target := range moves.Targets {
		if i < len(moves.Directions) {
			result += fmt.Sprintf("- %s -> %s\n", moves.Directions[i], target)
		}
	}
	return result
}

func formatMoveResult(result *service.MoveResult) string {
	response := ""
	if result.Success {
		response = "✓ Move successful\n"
	} else {
		response = "✗ Move failed\n"
		if result.Message != "" {
			response += "Reason: " + result.Message + "\n"
		}
	}

	if m := result.Move; m != nil {
		response += fmt.Sprintf("Move %d: %s %d %s %s→%s\n",
			m.MoveNumber, m.PieceType, m.PieceIndex, m.Direction, m.FromPosition, m.ToPosition)
	}

	if len(result.Events) > 0 {
		response += "Events:\n"
		for _, event := range result.Events {
			response += fmt.Sprintf("- %s: %s\n", event.Type, event.Message)
		}
	}

	if result.Result != nil {
		response += fmt.Sprintf("Winner: %s (%s) in %d moves\n",
			result.Result.Winner, result.Result.WinningSide, result.Result.NumberOfMoves)
	}

	response += "\n" + formatGameState(result.GameState)
	return response
}

func formatHistory(history *service.HistoryResponse) string {
	result := fmt.Sprintf("Move History (Page %d/%d), Total: %d\n\n",
		history.Page, history.TotalPages, history.TotalMoves)

	if len(history.Moves) == 0 {
		return result + "(no moves)"
	}
	for _, move := range history.Moves {
		result += fmt.Sprintf("%d. %s %d %s %s→%s\n",
			move.MoveNumber, move.PieceType, move.PieceIndex, move.Direction, move.FromPosition, move.ToPosition)
	}

	return result
}

func formatLeaderboard(best []*results.GameResult) string {
	if len(best) == 0 {
		return "No finished games yet"
	}
	var b strings.Builder
	b.WriteString("Best Games:\n\n")
	for i, r := range best {
		b.WriteString(fmt.Sprintf("%d. %s (%s) beat %s in %d moves on %s\n",
			i+1, r.Winner, r.WinningSide, loser(r), r.NumberOfMoves, r.TimeOfPlay.Format("2006-01-02 15:04")))
	}
	return b.String()
}

func loser(r *results.GameResult) string {
	if r.Winner == r.PlayerOne {
		return r.PlayerTwo
	}
	return r.PlayerOne
}
