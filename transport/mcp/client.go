package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/wricardo/tilenav/world/nav"
	"github.com/wricardo/tilenav/world/service"
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

// initMCPServer initializes the MCP server with all tools
func (c *Client) initMCPServer() {
	c.mcpServer = server.NewMCPServer(
		"tilenav",
		"1.0.0",
		server.WithToolCapabilities(true),
		server.WithInstructions(`tilenav - MCP Interface

This is a thin client that proxies all requests to the REST API server.

Each session holds one grid and one agent. Coordinates are (x, y) with x
the column and y the row, both 0-based. The agent moves in 8 directions;
diagonal steps cost about 1.414, straight steps cost 1.

GRID LEGEND (default maps):
  A = agent   . = floor   , = grass   : = mud
  # = wall    ~ = water   (blank) = no cell

AVAILABLE TOOLS:
- create_session: Start a session on a map
- list_sessions / get_session: Inspect sessions
- grid_state: Render the session grid
- describe_cell: Inspect one cell
- find_path: Search a path without moving the agent
- navigate: Search from the agent and move it along the path
- toggle_cell: Flip a cell between walkable and blocked
- path_history: Past searches for a session
- list_maps: Available map configurations

A search that fails is not an error: the result says why (start or goal
missing, no path, or the iteration budget ran out).`),
	)

	c.registerTools()
}

func sessionProperty() map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": "Session ID",
	}
}

func integerProperty(description string) map[string]interface{} {
	return map[string]interface{}{
		"type":        "integer",
		"description": description,
	}
}

// registerTools registers all MCP tools
func (c *Client) registerTools() {
	// Session management
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "create_session",
		Description: "Create a new navigation session on a map (the default map when map_id is omitted)",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"map_id": map[string]interface{}{
					"type":        "string",
					"description": "Map to load (optional, see list_maps)",
				},
			},
		},
	}, c.handleCreateSession)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_sessions",
		Description: "List all active navigation sessions",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleListSessions)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "get_session",
		Description: "Get details of a specific session",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionProperty(),
			},
			Required: []string{"session_id"},
		},
	}, c.handleGetSession)

	// Grid
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "grid_state",
		Description: "Render the session grid with the agent drawn as A",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionProperty(),
			},
			Required: []string{"session_id"},
		},
	}, c.handleGridState)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "describe_cell",
		Description: "Get detailed information about one cell: whether it exists, whether it is walkable, its tile and movement cost",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionProperty(),
				"x":          integerProperty("X coordinate (column), 0-based"),
				"y":          integerProperty("Y coordinate (row), 0-based"),
			},
			Required: []string{"session_id", "x", "y"},
		},
	}, c.handleDescribeCell)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "toggle_cell",
		Description: "Flip a cell between walkable and blocked. Cells that do not exist cannot be toggled.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionProperty(),
				"x":          integerProperty("X coordinate (column), 0-based"),
				"y":          integerProperty("Y coordinate (row), 0-based"),
			},
			Required: []string{"session_id", "x", "y"},
		},
	}, c.handleToggleCell)

	// Search and movement
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "find_path",
		Description: "Search a path between two cells without moving the agent. The start defaults to the agent position.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionProperty(),
				"to_x":       integerProperty("Goal column"),
				"to_y":       integerProperty("Goal row"),
				"from_x":     integerProperty("Start column (optional, requires from_y)"),
				"from_y":     integerProperty("Start row (optional, requires from_x)"),
				"budget":     integerProperty("Maximum node expansions (optional)"),
				"trace": map[string]interface{}{
					"type":        "boolean",
					"description": "Include the expansion order in the result",
				},
			},
			Required: []string{"session_id", "to_x", "to_y"},
		},
	}, c.handleFindPath)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "navigate",
		Description: "Search a path from the agent to a cell and move the agent along it. Give x/y for a cell or world_x/world_y for a world point.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionProperty(),
				"x":          integerProperty("Goal column"),
				"y":          integerProperty("Goal row"),
				"world_x": map[string]interface{}{
					"type":        "number",
					"description": "Goal world X (alternative to x/y)",
				},
				"world_y": map[string]interface{}{
					"type":        "number",
					"description": "Goal world Y (alternative to x/y)",
				},
			},
			Required: []string{"session_id"},
		},
	}, c.handleNavigate)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "path_history",
		Description: "Get past path searches for a session",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionProperty(),
				"page":       integerProperty("Page number"),
				"limit":      integerProperty("Items per page"),
				"order": map[string]interface{}{
					"type":        "string",
					"enum":        []string{"asc", "desc"},
					"description": "Sort order",
				},
			},
			Required: []string{"session_id"},
		},
	}, c.handlePathHistory)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_maps",
		Description: "List available map configurations",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleListMaps)
}

// GetMCPServer returns the underlying MCP server for serving
func (c *Client) GetMCPServer() *server.MCPServer {
	return c.mcpServer
}

// Helper methods for API calls

func (c *Client) apiCall(ctx context.Context, method, path string, body interface{}, result interface{}) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reqBody = bytes.NewBuffer(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return err
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
		json.NewDecoder(resp.Body).Decode(&errResp)
		if msg, ok := errResp["error"]; ok {
			return fmt.Errorf("%s", msg)
		}
		return fmt.Errorf("API error: %d", resp.StatusCode)
	}

	if result != nil {
		return json.NewDecoder(resp.Body).Decode(result)
	}

	return nil
}

func sessionPath(sessionID, suffix string) string {
	return "/api/sessions/" + url.PathEscape(sessionID) + suffix
}

// intArg reads a JSON number argument. Numbers arrive as float64.
func intArg(args map[string]interface{}, key string) (int, bool) {
	switch v := args[key].(type) {
	case float64:
		return int(v), true
	case int:
		return v, true
	}
	return 0, false
}

// requireSession reads session_id; an empty ID would address the session
// collection instead of a session.
func requireSession(args map[string]interface{}) (string, error) {
	id, _ := args["session_id"].(string)
	id = strings.TrimSpace(id)
	if id == "" {
		return "", fmt.Errorf("session_id is required")
	}
	return id, nil
}

func requirePosition(args map[string]interface{}, xKey, yKey string) (nav.Position, error) {
	x, okX := intArg(args, xKey)
	y, okY := intArg(args, yKey)
	if !okX || !okY {
		return nav.Position{}, fmt.Errorf("%s and %s are required integers", xKey, yKey)
	}
	return nav.Position{X: x, Y: y}, nil
}

// Tool handlers

func (c *Client) handleCreateSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	mapID, _ := args["map_id"].(string)

	body := map[string]string{}
	if mapID != "" {
		body["map_id"] = mapID
	}

	var session service.SessionInfo
	if err := c.apiCall(ctx, "POST", "/api/sessions", body, &session); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := fmt.Sprintf("Created session: %s\nMap: %s\nAgent: %s\n", session.ID, session.MapID, session.Agent)
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleListSessions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var response struct {
		Count    int                   `json:"count"`
		Sessions []service.SessionInfo `json:"sessions"`
	}

	if err := c.apiCall(ctx, "GET", "/api/sessions", nil, &response); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Active Sessions (%d):\n\n", response.Count)
	for _, s := range response.Sessions {
		fmt.Fprintf(&b, "- %s (Map: %s, Agent: %s, Created: %s)\n",
			s.ID, s.MapID, s.Agent, s.CreatedAt.Format("15:04:05"))
	}

	return mcp.NewToolResultText(b.String()), nil
}

func (c *Client) handleGetSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, err := requireSession(request.GetArguments())
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var session service.SessionInfo
	if err := c.apiCall(ctx, "GET", sessionPath(sessionID, ""), nil, &session); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatSessionInfo(&session)), nil
}

func (c *Client) handleGridState(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, err := requireSession(request.GetArguments())
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var grid service.GridView
	if err := c.apiCall(ctx, "GET", sessionPath(sessionID, "/grid"), nil, &grid); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatGrid(&grid)), nil
}

func (c *Client) handleDescribeCell(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	sessionID, err := requireSession(args)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	pos, err := requirePosition(args, "x", "y")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var cell service.CellView
	path := sessionPath(sessionID, fmt.Sprintf("/cells/%d/%d", pos.X, pos.Y))
	if err := c.apiCall(ctx, "GET", path, nil, &cell); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatCell(&cell)), nil
}

func (c *Client) handleToggleCell(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	sessionID, err := requireSession(args)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	pos, err := requirePosition(args, "x", "y")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var cell service.CellView
	if err := c.apiCall(ctx, "POST", sessionPath(sessionID, "/cells/toggle"), pos, &cell); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	state := "blocked"
	if cell.Walkable {
		state = "walkable"
	}
	result := fmt.Sprintf("Cell (%d,%d) is now %s\n\n%s", cell.X, cell.Y, state, formatCell(&cell))
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleFindPath(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	sessionID, err := requireSession(args)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	to, err := requirePosition(args, "to_x", "to_y")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	body := service.PathRequest{To: to}

	_, hasFromX := args["from_x"]
	_, hasFromY := args["from_y"]
	if hasFromX || hasFromY {
		from, err := requirePosition(args, "from_x", "from_y")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		body.From = &from
	}
	if budget, ok := intArg(args, "budget"); ok {
		body.Budget = budget
	}
	body.Trace, _ = args["trace"].(bool)

	var query service.PathQuery
	if err := c.apiCall(ctx, "POST", sessionPath(sessionID, "/path"), body, &query); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatPathQuery(&query)), nil
}

func (c *Client) handleNavigate(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	sessionID, err := requireSession(args)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var body service.NavigateRequest
	worldX, okX := args["world_x"].(float64)
	worldY, okY := args["world_y"].(float64)
	switch {
	case okX && okY:
		body.WorldX = &worldX
		body.WorldY = &worldY
	default:
		to, err := requirePosition(args, "x", "y")
		if err != nil {
			return mcp.NewToolResultError("give x and y, or world_x and world_y"), nil
		}
		body.To = &to
	}

	var result service.NavigateResult
	if err := c.apiCall(ctx, "POST", sessionPath(sessionID, "/navigate"), body, &result); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatNavigateResult(&result)), nil
}

func (c *Client) handlePathHistory(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	sessionID, err := requireSession(args)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	params := url.Values{}
	if page, ok := intArg(args, "page"); ok {
		params.Set("page", fmt.Sprint(page))
	}
	if limit, ok := intArg(args, "limit"); ok {
		params.Set("limit", fmt.Sprint(limit))
	}
	if order, ok := args["order"].(string); ok && order != "" {
		params.Set("order", order)
	}

	path := sessionPath(sessionID, "/history")
	if len(params) > 0 {
		path += "?" + params.Encode()
	}

	var history service.HistoryResponse
	if err := c.apiCall(ctx, "GET", path, nil, &history); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatHistory(&history)), nil
}

func (c *Client) handleListMaps(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var maps []service.MapInfo
	if err := c.apiCall(ctx, "GET", "/api/maps", nil, &maps); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var b strings.Builder
	b.WriteString("Available Maps:\n\n")
	for _, m := range maps {
		fmt.Fprintf(&b, "• %s (%s)\n  %s\n  Grid: %dx%d, Walkable cells: %d\n\n",
			m.MapID, m.Name, m.Description, m.Width, m.Height, m.WalkableCells)
	}

	return mcp.NewToolResultText(b.String()), nil
}

func formatSessionInfo(session *service.SessionInfo) string {
	return fmt.Sprintf("Session: %s\nMap: %s (%s)\nAgent: %s\nCells: %d (%d walkable)\nSearches: %d\nCreated: %s\nLast accessed: %s\n",
		session.ID, session.MapID, session.MapName, session.Agent,
		session.Cells, session.WalkableCells, session.Queries,
		session.CreatedAt.Format(time.RFC3339), session.LastAccessedAt.Format(time.RFC3339))
}

func formatGrid(grid *service.GridView) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Session %s on map %s (%dx%d)\nAgent: %s\n\n", grid.SessionID, grid.MapID, grid.Width, grid.Height, grid.Agent)

	// Column ruler so coordinates can be read off the grid
	b.WriteString("   ")
	for x := 0; x < grid.Width; x++ {
		b.WriteByte(byte('0' + x%10))
	}
	b.WriteString("\n")
	for y, row := range grid.Rows {
		fmt.Fprintf(&b, "%2d %s\n", y, row)
	}

	if len(grid.Legend) > 0 {
		b.WriteString("\nLegend: A=agent")
		for _, tile := range sortedTiles(grid.Legend) {
			spec := grid.Legend[tile]
			state := "blocked"
			if spec.Walkable {
				state = fmt.Sprintf("walkable, cost %g", spec.Cost)
			}
			fmt.Fprintf(&b, "  %s=%s (%s)", tile, spec.Name, state)
		}
		b.WriteString("\n")
	}
	return b.String()
}

func sortedTiles(legend map[string]nav.TileSpec) []string {
	tiles := make([]string, 0, len(legend))
	for tile := range legend {
		tiles = append(tiles, tile)
	}
	sort.Strings(tiles)
	return tiles
}

func formatCell(cell *service.CellView) string {
	if !cell.Present {
		return fmt.Sprintf("Cell (%d,%d): no cell here. Paths can never pass through it.\n", cell.X, cell.Y)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Cell (%d,%d)\n", cell.X, cell.Y)
	if cell.Tile != "" {
		fmt.Fprintf(&b, "Tile: '%s' (%s)\n", cell.Tile, cell.TileName)
	}
	if cell.Walkable {
		fmt.Fprintf(&b, "Walkable: yes (movement cost %g)\n", cell.MovementCost)
	} else {
		b.WriteString("Walkable: no\n")
	}
	if cell.Toggled {
		b.WriteString("Toggled: walkability differs from the map\n")
	}
	if cell.Agent {
		b.WriteString("The agent is here\n")
	}
	return b.String()
}

func formatPathQuery(query *service.PathQuery) string {
	var b strings.Builder
	if query.Found {
		fmt.Fprintf(&b, "✓ Path found from %s to %s\n", query.From, query.To)
		fmt.Fprintf(&b, "Steps: %d, Cost: %.3f, Expanded: %d/%d\n", len(query.Path), query.Cost, query.Expanded, query.Budget)
		if len(query.Path) > 0 {
			fmt.Fprintf(&b, "Path: %s\n", joinPositions(query.Path))
		}
	} else {
		fmt.Fprintf(&b, "✗ No path from %s to %s: %s\n", query.From, query.To, describeReason(query.Reason))
		fmt.Fprintf(&b, "Expanded: %d/%d\n", query.Expanded, query.Budget)
	}
	if len(query.Trace) > 0 {
		fmt.Fprintf(&b, "Expansion order: %s\n", joinPositions(query.Trace))
	}
	return b.String()
}

func formatNavigateResult(result *service.NavigateResult) string {
	var b strings.Builder
	b.WriteString(formatPathQuery(&result.Query))
	switch {
	case result.Moved:
		fmt.Fprintf(&b, "\nAgent moved %s → %s in %d steps\n", result.From, result.Reached, len(result.Steps))
	case result.Query.Found:
		fmt.Fprintf(&b, "\nAgent already at %s\n", result.Reached)
	default:
		fmt.Fprintf(&b, "\nAgent stayed at %s\n", result.From)
	}
	return b.String()
}

func describeReason(reason nav.Reason) string {
	switch reason {
	case nav.ReasonStartNotFound:
		return "the start is not a cell of the grid"
	case nav.ReasonGoalNotFound:
		return "the goal is not a cell of the grid"
	case nav.ReasonNoPathExists:
		return "the goal cannot be reached"
	case nav.ReasonBudgetExceeded:
		return "the iteration budget ran out"
	}
	return string(reason)
}

func joinPositions(path []nav.Position) string {
	parts := make([]string, len(path))
	for i, p := range path {
		parts[i] = p.String()
	}
	return strings.Join(parts, " → ")
}

func formatHistory(history *service.HistoryResponse) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Path History (Page %d/%d), Total: %d\n\n",
		history.Page, history.TotalPages, history.TotalQueries)

	for i, query := range history.Queries {
		num := (history.Page-1)*history.PageSize + i + 1
		status := "✓"
		detail := fmt.Sprintf("%d steps, cost %.3f", len(query.Path), query.Cost)
		if !query.Found {
			status = "✗"
			detail = string(query.Reason)
		}
		fmt.Fprintf(&b, "%d. %s → %s %s [%s, expanded %d]\n",
			num, query.From, query.To, status, detail, query.Expanded)
	}

	return b.String()
}
