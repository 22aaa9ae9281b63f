package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/rs/zerolog"

	"github.com/wricardo/mars-rover/mission/engine"
	"github.com/wricardo/mars-rover/mission/input"
	"github.com/wricardo/mars-rover/mission/service"
	"github.com/wricardo/mars-rover/telemetry"
)

// Version is reported to MCP clients
const Version = "1.0.0"

// maxMapCells bounds the plateau size drawn in tool output
const maxMapCells = 400

// Client is a thin MCP client that proxies to the REST API
type Client struct {
	baseURL    string
	httpClient *http.Client
	mcpServer  *server.MCPServer
	logger     zerolog.Logger
}

// NewClient creates a new MCP client that calls the REST API
func NewClient(baseURL string) *Client {
	c := &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		logger: telemetry.Component("mcp"),
	}

	c.initMCPServer()
	return c
}

// initMCPServer initializes the MCP server with all tools
func (c *Client) initMCPServer() {
	c.mcpServer = server.NewMCPServer(
		"Mars Rover",
		Version,
		server.WithToolCapabilities(true),
		server.WithInstructions(`Mars Rover - MCP Interface

This is a thin client that proxies all requests to the REST API server.

A rover lands on a rectangular plateau whose lower-left corner is (0,0) and
whose upper-right corner is given. It faces N, E, S or W and understands three
commands: L (turn left), R (turn right) and M (move one cell forward). A move
that would leave the plateau is skipped; any other character is ignored.

AVAILABLE TOOLS:
- execute_mission: Run one mission and get the final report ("x y D")
- create_session: Land a rover that keeps its state between calls
- list_sessions / get_session: Inspect sessions
- rover_state: Current rover position, heading and plateau map
- send_commands: Send L/R/M commands to a session rover - requires intent explanation
- reset_rover: Return a session rover to its landing position
- command_history: Review processed commands
- list_scenarios / run_scenario: Saved missions with expected reports
- mission_instructions: Full rules and examples`),
	)

	c.registerTools()
}

func sessionIDProperty() map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": "Session ID",
	}
}

func integerProperty(description string) map[string]interface{} {
	return map[string]interface{}{
		"type":        "integer",
		"minimum":     0,
		"description": description,
	}
}

func directionProperty() map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"enum":        []string{"N", "E", "S", "W"},
		"description": "Heading the rover faces when it lands",
	}
}

// registerTools registers all MCP tools
func (c *Client) registerTools() {
	// One-shot missions
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "execute_mission",
		Description: "Run a single rover mission and return its final position and heading",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"plateau_x": integerProperty("Upper-right x coordinate of the plateau"),
				"plateau_y": integerProperty("Upper-right y coordinate of the plateau"),
				"x":         integerProperty("Landing x coordinate"),
				"y":         integerProperty("Landing y coordinate"),
				"direction": directionProperty(),
				"movements": map[string]interface{}{
					"type":        "string",
					"description": "Command string, e.g. LMLMLMLMM",
				},
				"trace": map[string]interface{}{
					"type":        "boolean",
					"description": "Include the outcome of every command",
				},
			},
			Required: []string{"plateau_x", "plateau_y", "x", "y", "direction", "movements"},
		},
	}, c.handleExecuteMission)

	// Session management
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "create_session",
		Description: "Land a rover for a new session from a scenario or explicit coordinates",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"scenario": map[string]interface{}{
					"type":        "string",
					"description": "Scenario ID to land from (optional, see list_scenarios)",
				},
				"plateau_x": integerProperty("Upper-right x coordinate (with plateau_y, x, y, direction)"),
				"plateau_y": integerProperty("Upper-right y coordinate"),
				"x":         integerProperty("Landing x coordinate"),
				"y":         integerProperty("Landing y coordinate"),
				"direction": directionProperty(),
			},
		},
	}, c.handleCreateSession)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_sessions",
		Description: "List all active rover sessions",
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
				"session_id": sessionIDProperty(),
			},
			Required: []string{"session_id"},
		},
	}, c.handleGetSession)

	// Rover operations
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "rover_state",
		Description: "Get the current rover state and a map of the plateau",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionIDProperty(),
			},
			Required: []string{"session_id"},
		},
	}, c.handleRoverState)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "send_commands",
		Description: "Send L/R/M commands to a session rover",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionIDProperty(),
				"commands": map[string]interface{}{
					"type":        "string",
					"description": "Command string, e.g. MMRMMRMRRM",
				},
				"intent": map[string]interface{}{
					"type":        "string",
					"description": "Brief explanation of where you expect the rover to end up (serves as a rubber duck to help explain your reasoning)",
				},
				"reset": map[string]interface{}{
					"type":        "boolean",
					"description": "Reset the rover before sending commands",
				},
			},
			Required: []string{"session_id", "commands"},
		},
	}, c.handleSendCommands)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "reset_rover",
		Description: "Return the rover to its landing position",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionIDProperty(),
			},
			Required: []string{"session_id"},
		},
	}, c.handleReset)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "command_history",
		Description: "Get the command history of a session with pagination",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionIDProperty(),
				"page": map[string]interface{}{
					"type":        "integer",
					"description": "Page number (default 1)",
				},
				"limit": map[string]interface{}{
					"type":        "integer",
					"description": "Entries per page (default 20, max 100)",
				},
				"order": map[string]interface{}{
					"type":        "string",
					"enum":        []string{"asc", "desc"},
					"description": "Oldest first (asc) or newest first (desc, default)",
				},
			},
			Required: []string{"session_id"},
		},
	}, c.handleCommandHistory)

	// Scenarios
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_scenarios",
		Description: "List saved mission scenarios",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleListScenarios)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "run_scenario",
		Description: "Run a saved scenario and check it against its expected report",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"name": map[string]interface{}{
					"type":        "string",
					"description": "Scenario ID",
				},
			},
			Required: []string{"name"},
		},
	}, c.handleRunScenario)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "mission_instructions",
		Description: "Get the rules of rover missions with worked examples",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleMissionInstructions)
}

// GetMCPServer returns the underlying MCP server for serving
func (c *Client) GetMCPServer() *server.MCPServer {
	return c.mcpServer
}

// HTTPHandler serves single JSON-RPC messages over HTTP POST
func (c *Client) HTTPHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, 1<<20))
		if err != nil {
			http.Error(w, "Failed to read request", http.StatusBadRequest)
			return
		}

		response := c.mcpServer.HandleMessage(r.Context(), body)
		if response == nil {
			// Notifications have no response
			w.WriteHeader(http.StatusAccepted)
			return
		}

		responseData, err := json.Marshal(response)
		if err != nil {
			http.Error(w, "Failed to marshal response", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write(responseData)
	})
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
		c.logger.Error().Err(err).Str("method", method).Str("path", path).Msg("API request failed")
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		c.logger.Debug().Str("method", method).Str("path", path).Int("status", resp.StatusCode).Msg("API returned an error")
		var errResp map[string]string
		json.NewDecoder(resp.Body).Decode(&errResp)
		if msg, ok := errResp["error"]; ok {
			if code := errResp["code"]; code != "" {
				return fmt.Errorf("%s (%s)", msg, code)
			}
			return fmt.Errorf("%s", msg)
		}
		return fmt.Errorf("API error: %d", resp.StatusCode)
	}

	if result != nil {
		return json.NewDecoder(resp.Body).Decode(result)
	}

	return nil
}

func arguments(request mcp.CallToolRequest) map[string]interface{} {
	args, _ := request.Params.Arguments.(map[string]interface{})
	if args == nil {
		return map[string]interface{}{}
	}
	return args
}

// intArg reads a JSON number argument
func intArg(args map[string]interface{}, name string) (int64, bool) {
	switch v := args[name].(type) {
	case float64:
		return int64(v), true
	case int:
		return int64(v), true
	case int64:
		return v, true
	}
	return 0, false
}

func pathEscape(s string) string {
	return url.PathEscape(s)
}

// Tool handlers

func (c *Client) handleExecuteMission(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	maxX, okMaxX := intArg(args, "plateau_x")
	maxY, okMaxY := intArg(args, "plateau_y")
	x, okX := intArg(args, "x")
	y, okY := intArg(args, "y")
	if !okMaxX || !okMaxY || !okX || !okY {
		return mcp.NewToolResultError("plateau_x, plateau_y, x and y are required integers"), nil
	}
	direction, _ := args["direction"].(string)
	movements, _ := args["movements"].(string)
	trace, _ := args["trace"].(bool)

	path := "/api/missions"
	if trace {
		path += "?trace=true"
	}

	var result service.MissionResult
	err := c.apiCall(ctx, "POST", path, input.NewPayload(maxX, maxY, x, y, direction, movements), &result)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatMissionResult(&result)), nil
}

func (c *Client) handleCreateSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)

	var req service.SessionRequest
	req.Scenario, _ = args["scenario"].(string)

	maxX, okMaxX := intArg(args, "plateau_x")
	maxY, okMaxY := intArg(args, "plateau_y")
	if okMaxX || okMaxY {
		x, _ := intArg(args, "x")
		y, _ := intArg(args, "y")
		req.TopRightCorner = &input.Coordinates{X: &maxX, Y: &maxY}
		req.RoverPosition = &input.Coordinates{X: &x, Y: &y}
		req.RoverDirection, _ = args["direction"].(string)
	}

	var session service.SessionInfo
	if err := c.apiCall(ctx, "POST", "/api/sessions", req, &session); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := fmt.Sprintf("Created session: %s\nScenario: %s\n\n%s",
		session.ID, session.ScenarioName, formatRoverState(session.State))
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

	var result strings.Builder
	fmt.Fprintf(&result, "Active Sessions (%d):\n\n", response.Count)
	for _, s := range response.Sessions {
		report := ""
		if s.State != nil {
			report = s.State.Report
		}
		fmt.Fprintf(&result, "- %s (Scenario: %s, Rover: %s, Created: %s)\n",
			s.ID, s.ScenarioName, report, s.CreatedAt.Format("15:04:05"))
	}

	return mcp.NewToolResultText(result.String()), nil
}

func (c *Client) handleGetSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, _ := arguments(request)["session_id"].(string)

	var session service.SessionInfo
	if err := c.apiCall(ctx, "GET", "/api/sessions/"+pathEscape(sessionID), nil, &session); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatSessionInfo(&session)), nil
}

func (c *Client) handleRoverState(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, _ := arguments(request)["session_id"].(string)

	var state engine.MissionState
	if err := c.apiCall(ctx, "GET", "/api/sessions/"+pathEscape(sessionID)+"/state", nil, &state); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatRoverState(&state)), nil
}

func (c *Client) handleSendCommands(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	sessionID, _ := args["session_id"].(string)
	commands, _ := args["commands"].(string)
	reset, _ := args["reset"].(bool)

	// Intent is only there to make the caller state an expectation
	_, _ = args["intent"].(string)

	body := map[string]interface{}{
		"commands": commands,
		"reset":    reset,
	}

	var result service.CommandResult
	if err := c.apiCall(ctx, "POST", "/api/sessions/"+pathEscape(sessionID)+"/commands", body, &result); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatCommandResult(&result)), nil
}

func (c *Client) handleReset(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, _ := arguments(request)["session_id"].(string)

	var response struct {
		Message string               `json:"message"`
		State   *engine.MissionState `json:"state"`
	}

	if err := c.apiCall(ctx, "POST", "/api/sessions/"+pathEscape(sessionID)+"/reset", nil, &response); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("%s\n\n%s", response.Message, formatRoverState(response.State))), nil
}

func (c *Client) handleCommandHistory(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	sessionID, _ := args["session_id"].(string)

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

	path := "/api/sessions/" + pathEscape(sessionID) + "/history"
	if len(params) > 0 {
		path += "?" + params.Encode()
	}

	var history service.HistoryResponse
	if err := c.apiCall(ctx, "GET", path, nil, &history); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatHistory(&history)), nil
}

func (c *Client) handleListScenarios(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var scenarios []service.ScenarioInfo
	if err := c.apiCall(ctx, "GET", "/api/scenarios", nil, &scenarios); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var result strings.Builder
	result.WriteString("Available Scenarios:\n\n")
	for _, sc := range scenarios {
		fmt.Fprintf(&result, "• %s (%s)\n", sc.ScenarioID, sc.Name)
		if sc.Description != "" {
			fmt.Fprintf(&result, "  %s\n", sc.Description)
		}
		fmt.Fprintf(&result, "  Plateau: %s, Start: %s, Commands: %s", sc.Plateau, sc.Start, sc.Commands)
		if sc.Expected != "" {
			fmt.Fprintf(&result, ", Expected: %s", sc.Expected)
		}
		result.WriteString("\n\n")
	}

	return mcp.NewToolResultText(result.String()), nil
}

func (c *Client) handleRunScenario(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, _ := arguments(request)["name"].(string)

	var run service.ScenarioRun
	if err := c.apiCall(ctx, "POST", "/api/scenarios/"+pathEscape(name)+"/run", nil, &run); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatScenarioRun(&run)), nil
}

func (c *Client) handleMissionInstructions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(missionInstructions), nil
}

const missionInstructions = `MARS ROVER MISSIONS

PLATEAU
The plateau is a grid from (0,0) in the south-west corner to (X,Y) in the
north-east corner. Both corners are part of the plateau. North is +y, east is +x.

ROVER
A rover has a position and faces one of N, E, S, W.

COMMANDS
  L  turn 90 degrees left, staying in place
  R  turn 90 degrees right, staying in place
  M  move one cell forward
Commands are case-insensitive. A move that would leave the plateau is skipped
and the rover keeps its position. Any other character is ignored. Neither
stops the remaining commands.

REPORT
The final position is reported as "x y D", for example "1 3 N".

EXAMPLES
  Plateau 5 5, start 1 2 N, LMLMLMLMM  -> 1 3 N
  Plateau 5 5, start 3 3 E, MMRMMRMRRM -> 5 1 E
  Plateau 2 2, start 2 2 N, M          -> 2 2 N  (blocked at the edge)
  Plateau 5 5, start 1 1 N, MXL1R@M    -> 1 3 N  (X, 1 and @ ignored)

REJECTED INPUT
  invalid_plateau           negative or too large plateau bounds
  invalid_initial_position  landing cell outside the plateau
  invalid_direction         heading other than a single N, E, S or W
  invalid_input_format      malformed request or missing fields

TIPS
- Use execute_mission for one-off questions.
- Use create_session and send_commands to drive a rover step by step; the
  intent parameter is a good place to state where you expect it to end up.
- rover_state draws the plateau with the rover marked by its heading.`

// Formatting helpers

func formatSessionInfo(session *service.SessionInfo) string {
	return fmt.Sprintf("Session: %s\nScenario: %s\nCreated: %s\n\n%s",
		session.ID, session.ScenarioName,
		session.CreatedAt.Format("2006-01-02 15:04:05"),
		formatRoverState(session.State))
}

func formatRoverState(state *engine.MissionState) string {
	if state == nil {
		return "No rover state available"
	}

	var result strings.Builder
	fmt.Fprintf(&result, "Rover: %s | Plateau: %s | Commands: %d\n",
		state.Report, state.Plateau, state.TotalCommands)

	if m := formatPlateau(state.Plateau, state.Rover); m != "" {
		result.WriteString("\n" + m)
	}

	if state.Message != "" {
		fmt.Fprintf(&result, "\nMessage: %s", state.Message)
	}

	return result.String()
}

// formatPlateau draws the plateau north side up with the rover shown by its
// heading letter. Large plateaus are not drawn.
func formatPlateau(plateau engine.Plateau, rover engine.Rover) string {
	if plateau.Cells() > maxMapCells {
		return ""
	}

	var b strings.Builder
	for y := plateau.MaxY; y >= 0; y-- {
		for x := 0; x <= plateau.MaxX; x++ {
			if rover.Position.X == x && rover.Position.Y == y {
				b.WriteRune(rover.Direction.Char())
			} else {
				b.WriteByte('.')
			}
		}
		b.WriteByte('\n')
	}
	return b.String()
}

func formatMissionResult(result *service.MissionResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Report: %s\n", result.Report)
	fmt.Fprintf(&b, "Plateau: %s, Start: %s, Commands: %q\n", result.Plateau, result.Start.Report(), result.Commands)
	b.WriteString(formatSummary(result.Summary))
	if result.ID != "" {
		fmt.Fprintf(&b, "\nMission ID: %s", result.ID)
	}
	if len(result.Steps) > 0 {
		b.WriteString("\n\nSteps:\n")
		for _, step := range result.Steps {
			b.WriteString(formatStepLine(step) + "\n")
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

func formatSummary(s engine.Summary) string {
	return fmt.Sprintf("Moves: %d, Turns: %d, Blocked: %d, Ignored: %d", s.Moves, s.Turns, s.Blocked, s.Ignored)
}

func formatStepLine(step engine.Step) string {
	return fmt.Sprintf("  %3d %s  %s %s -> %s %s  %s",
		step.Index+1, step.Input,
		step.From, step.Heading, step.To, step.Facing, step.Outcome)
}

func formatCommandResult(result *service.CommandResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s -> %s\n", result.Start.Report(), result.Report)
	b.WriteString(formatSummary(result.Summary) + "\n")

	for _, event := range result.Events {
		fmt.Fprintf(&b, "- [%s] %s\n", event.Type, event.Message)
	}

	if result.CanMoveForward {
		b.WriteString("Next M: moves forward\n")
	} else {
		b.WriteString("Next M: blocked by the plateau edge\n")
	}

	if result.State != nil {
		if m := formatPlateau(result.State.Plateau, result.Rover); m != "" {
			b.WriteString("\n" + m)
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

func formatHistory(history *service.HistoryResponse) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Command History (Page %d/%d, Total: %d)\n\n",
		history.Page, history.TotalPages, history.TotalCommands)

	for _, entry := range history.Commands {
		fmt.Fprintf(&b, "#%d %s: %s %s -> %s %s (%s)\n",
			entry.CommandNumber, entry.Command,
			entry.FromPosition, entry.FromDirection,
			entry.ToPosition, entry.ToDirection,
			entry.Outcome)
	}

	if history.HasPrevious || history.HasNext {
		b.WriteString("\n")
		if history.HasPrevious {
			fmt.Fprintf(&b, "Previous: page %d  ", history.Page-1)
		}
		if history.HasNext {
			fmt.Fprintf(&b, "Next: page %d", history.Page+1)
		}
	}

	return strings.TrimRight(b.String(), "\n ")
}

func formatScenarioRun(run *service.ScenarioRun) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Scenario: %s\n", run.Scenario)
	if run.Result != nil {
		b.WriteString(formatMissionResult(run.Result) + "\n")
	}
	switch {
	case !run.Checked:
		b.WriteString("No expected report to check")
	case run.Passed:
		fmt.Fprintf(&b, "PASS: expected %s", run.Expected)
	default:
		fmt.Fprintf(&b, "FAIL: expected %s", run.Expected)
	}
	return b.String()
}
