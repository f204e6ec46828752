// Package mcp provides an MCP (Model Context Protocol) server that exposes
// the net-next tracker as tools for AI assistants.
package mcp

import (
	"context"
	"errors"
	"fmt"
	"time"

	gomcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/valter-silva-au/netnext/internal/core"
	"github.com/valter-silva-au/netnext/internal/observability"
	"github.com/valter-silva-au/netnext/pkg/models"
)

// Server wraps the tracker and exposes it as MCP tools.
type Server struct {
	server      *gomcp.Server
	tracker     core.Tracker
	alertEngine observability.AlertEngine
	horizon     int
	now         func() time.Time
}

// NewServer creates an MCP server over tracker. alertEngine may be nil.
func NewServer(tracker core.Tracker, alertEngine observability.AlertEngine, horizon int, version string) *Server {
	if version == "" {
		version = "dev"
	}
	if horizon < 0 {
		horizon = core.DefaultHorizon
	}

	s := &Server{
		tracker:     tracker,
		alertEngine: alertEngine,
		horizon:     horizon,
		now:         func() time.Time { return time.Now().UTC() },
	}
	s.server = gomcp.NewServer(&gomcp.Implementation{Name: "netnext", Version: version}, nil)
	s.registerTools()
	return s
}

// Run serves over stdio until the client disconnects or ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	return s.server.Run(ctx, &gomcp.StdioTransport{})
}

// MCPServer returns the underlying mcp.Server for testing purposes.
func (s *Server) MCPServer() *gomcp.Server {
	return s.server
}

// --- Tool input/output types ---

type getForecastInput struct {
	Today   string `json:"today,omitempty" jsonschema:"evaluation date as YYYY-MM-DD. Defaults to the current UTC date."`
	Horizon *int   `json:"horizon,omitempty" jsonschema:"number of cycles to predict. 0 returns history only."`
}

type cycleOutput struct {
	Start      string `json:"start"`
	Close      string `json:"close"`
	Reopen     string `json:"reopen"`
	End        string `json:"end"`
	OpenDays   int    `json:"open_days"`
	ClosedDays int    `json:"closed_days"`
	Predicted  bool   `json:"predicted"`
	Version    string `json:"version,omitempty"`
}

type forecastOutput struct {
	Today         string        `json:"today"`
	State         string        `json:"state,omitempty"`
	StateSince    string        `json:"state_since,omitempty"`
	Cycles        []cycleOutput `json:"cycles"`
	OpenAverage   int           `json:"open_average"`
	ClosedAverage int           `json:"closed_average"`
	Adjusted      bool          `json:"adjusted"`
	Aligned       bool          `json:"aligned"`
	Warning       string        `json:"warning,omitempty"`
}

type getHistoryInput struct {
	Since string `json:"since,omitempty" jsonschema:"only return observations on or after this YYYY-MM-DD date"`
}

type observationOutput struct {
	Date  string `json:"date"`
	State string `json:"state"`
}

type getHistoryOutput struct {
	Observations []observationOutput `json:"observations"`
	Count        int                 `json:"count"`
}

type getStatusInput struct{}

type getStatusOutput struct {
	Date     string `json:"date,omitempty"`
	State    string `json:"state"`
	Recorded bool   `json:"recorded"`
}

type getAlertsInput struct {
	Today string `json:"today,omitempty" jsonschema:"evaluation date as YYYY-MM-DD. Defaults to the current UTC date."`
}

type alertOutput struct {
	ID          string `json:"id"`
	Condition   string `json:"condition"`
	Severity    string `json:"severity"`
	Message     string `json:"message"`
	TriggeredAt string `json:"triggered_at"`
}

type getAlertsOutput struct {
	Alerts []alertOutput `json:"alerts"`
	Count  int           `json:"count"`
}

// --- Tool registration ---

func (s *Server) registerTools() {
	gomcp.AddTool(s.server, &gomcp.Tool{
		Name:        "get_forecast",
		Description: "Infer net-next merge-window cycles from recorded history and predict upcoming close and reopen dates.",
	}, s.handleGetForecast)

	gomcp.AddTool(s.server, &gomcp.Tool{
		Name:        "get_history",
		Description: "List the recorded daily net-next states in ascending date order.",
	}, s.handleGetHistory)

	gomcp.AddTool(s.server, &gomcp.Tool{
		Name:        "get_status",
		Description: "Return the most recently recorded net-next state.",
	}, s.handleGetStatus)

	gomcp.AddTool(s.server, &gomcp.Tool{
		Name:        "get_alerts",
		Description: "Evaluate alerts: stale data, merge window overdue, merge window opening soon.",
	}, s.handleGetAlerts)
}

// --- Tool handlers ---

func (s *Server) handleGetForecast(ctx context.Context, _ *gomcp.CallToolRequest, input getForecastInput) (*gomcp.CallToolResult, forecastOutput, error) {
	today, err := s.resolveToday(input.Today)
	if err != nil {
		return errorResult(err.Error()), forecastOutput{}, nil
	}
	horizon := s.horizon
	if input.Horizon != nil {
		if *input.Horizon < 0 {
			return errorResult("horizon must not be negative"), forecastOutput{}, nil
		}
		horizon = *input.Horizon
	}

	f, err := s.tracker.Forecast(ctx, today, horizon)
	if f == nil {
		return errorResult(fmt.Sprintf("computing forecast: %s", err)), forecastOutput{}, nil
	}
	out := forecastToOutput(f)
	if err != nil {
		if !errors.Is(err, core.ErrInsufficientHistory) {
			return errorResult(fmt.Sprintf("computing forecast: %s", err)), forecastOutput{}, nil
		}
		out.Warning = err.Error()
	}
	return nil, out, nil
}

func (s *Server) handleGetHistory(_ context.Context, _ *gomcp.CallToolRequest, input getHistoryInput) (*gomcp.CallToolResult, getHistoryOutput, error) {
	var since time.Time
	if input.Since != "" {
		d, err := models.ParseDate(input.Since)
		if err != nil {
			return errorResult(err.Error()), getHistoryOutput{}, nil
		}
		since = d
	}

	out := getHistoryOutput{Observations: []observationOutput{}}
	for _, o := range s.tracker.History() {
		if o.Date.Before(since) {
			continue
		}
		out.Observations = append(out.Observations, observationOutput{
			Date:  o.Date.Format(models.DateLayout),
			State: string(o.State),
		})
	}
	out.Count = len(out.Observations)
	return nil, out, nil
}

func (s *Server) handleGetStatus(_ context.Context, _ *gomcp.CallToolRequest, _ getStatusInput) (*gomcp.CallToolResult, getStatusOutput, error) {
	latest, ok := s.tracker.Latest()
	if !ok {
		return nil, getStatusOutput{State: string(models.StateUnknown)}, nil
	}
	return nil, getStatusOutput{
		Date:     latest.Date.Format(models.DateLayout),
		State:    string(latest.State),
		Recorded: true,
	}, nil
}

func (s *Server) handleGetAlerts(ctx context.Context, _ *gomcp.CallToolRequest, input getAlertsInput) (*gomcp.CallToolResult, getAlertsOutput, error) {
	if s.alertEngine == nil {
		return errorResult("alert engine not available"), getAlertsOutput{}, nil
	}
	today, err := s.resolveToday(input.Today)
	if err != nil {
		return errorResult(err.Error()), getAlertsOutput{}, nil
	}

	in := observability.AlertInput{Today: today}
	if latest, ok := s.tracker.Latest(); ok {
		in.Latest = &latest
	}
	// A forecast that failed to predict still feeds the overdue check.
	if f, _ := s.tracker.Forecast(ctx, today, s.horizon); f != nil {
		in.Forecast = f
	}

	alerts := s.alertEngine.Evaluate(in)
	out := getAlertsOutput{Alerts: make([]alertOutput, len(alerts)), Count: len(alerts)}
	for i, a := range alerts {
		out.Alerts[i] = alertOutput{
			ID:          a.ID,
			Condition:   a.Condition,
			Severity:    string(a.Severity),
			Message:     a.Message,
			TriggeredAt: a.TriggeredAt.Format(time.RFC3339),
		}
	}
	return nil, out, nil
}

// --- Helpers ---

func (s *Server) resolveToday(raw string) (time.Time, error) {
	if raw == "" {
		return models.Day(s.now()), nil
	}
	return models.ParseDate(raw)
}

func forecastToOutput(f *models.Forecast) forecastOutput {
	out := forecastOutput{
		Today:         f.Today.Format(models.DateLayout),
		Cycles:        make([]cycleOutput, len(f.Cycles)),
		OpenAverage:   f.OpenAverage,
		ClosedAverage: f.ClosedAverage,
		Adjusted:      f.Adjusted,
		Aligned:       f.Aligned,
	}
	if last, ok := f.LatestEvent(); ok {
		out.State = string(last.State)
		out.StateSince = last.Date.Format(models.DateLayout)
	}
	for i, c := range f.Cycles {
		co := cycleOutput{
			Start:      c.Day1.Format(models.DateLayout),
			Close:      c.Day2.Format(models.DateLayout),
			Reopen:     c.Day3.Format(models.DateLayout),
			End:        c.End().Format(models.DateLayout),
			OpenDays:   c.OpenDays,
			ClosedDays: c.ClosedDays,
			Predicted:  c.Predicted,
		}
		if c.Version != nil {
			co.Version = c.Version.String()
		}
		out.Cycles[i] = co
	}
	return out
}

func errorResult(msg string) *gomcp.CallToolResult {
	return &gomcp.CallToolResult{
		Content: []gomcp.Content{&gomcp.TextContent{Text: msg}},
		IsError: true,
	}
}
