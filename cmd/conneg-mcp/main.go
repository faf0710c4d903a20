// conneg-mcp exposes content negotiation as MCP tools over stdio.
// Agents supply a raw Accept-* header value and optionally their own
// availability; the server answers with the selected representation.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"conneg/internal/config"
	"conneg/internal/negotiation"
	"conneg/internal/variants"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	logger := initLogger()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	logger.Info("configuration loaded",
		slog.String("environment", cfg.Environment),
		slog.String("log_level", cfg.LogLevel),
	)

	ts := &toolServer{cfg: cfg, logger: logger}
	server := ts.newMCPServer()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("mcp server starting", slog.String("transport", "stdio"))
	if err := server.Run(ctx, &mcp.StdioTransport{}); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("mcp server: %w", err)
	}

	logger.Info("mcp server stopped")
	return nil
}

// toolServer binds the negotiation tools to configuration and logging.
type toolServer struct {
	cfg    *config.Config
	logger *slog.Logger
}

// NegotiateInput is the input schema for the negotiate tool.
type NegotiateInput struct {
	Kind   string `json:"kind" jsonschema:"negotiation kind: charset, encoding, language, or mediatype,required"`
	Header string `json:"header" jsonschema:"raw Accept-* header value; empty means the header was absent"`
	Offers string `json:"offers,omitempty" jsonschema:"available representations as an RFC 8941 list with w weight parameters; defaults to server configuration"`
}

// NegotiateOutput is the result of a successful negotiation.
type NegotiateOutput struct {
	Value    string `json:"value"`
	Weight   string `json:"weight"`
	Quality  string `json:"quality"`
	Position int    `json:"position"`
	Explicit bool   `json:"explicit"`
}

// ListKindsInput is the (empty) input schema for the list_kinds tool.
type ListKindsInput struct{}

// ListKindsOutput enumerates the supported negotiation kinds.
type ListKindsOutput struct {
	Kinds []KindInfo `json:"kinds"`
}

// KindInfo describes one negotiation kind and its configured default offers.
type KindInfo struct {
	Name          string `json:"name"`
	DefaultOffers string `json:"default_offers"`
}

// newMCPServer creates an MCP server with the negotiation tools registered.
func (ts *toolServer) newMCPServer() *mcp.Server {
	server := mcp.NewServer(
		&mcp.Implementation{
			Name:    "conneg",
			Version: "1.0.0",
		},
		&mcp.ServerOptions{
			Instructions: "Content negotiation per RFC 2616 Section 14. " +
				"Use negotiate to pick the best representation for an Accept-* header value.",
		},
	)

	mcp.AddTool(server, &mcp.Tool{
		Name: "negotiate",
		Description: "Select the best available representation for a raw Accept-* header value. " +
			"Fails with not_acceptable when nothing matches with nonzero quality.",
	}, ts.mcpNegotiate)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "list_kinds",
		Description: "List supported negotiation kinds and their default availability.",
	}, ts.mcpListKinds)

	return server
}

func (ts *toolServer) mcpNegotiate(
	ctx context.Context,
	req *mcp.CallToolRequest,
	input NegotiateInput,
) (*mcp.CallToolResult, *NegotiateOutput, error) {
	negotiator, err := negotiation.ForKind(input.Kind)
	if err != nil {
		return nil, nil, err
	}

	var offers []negotiation.Offer
	if input.Offers != "" {
		offers, err = variants.ParseOffers(input.Offers)
	} else {
		offers, err = ts.cfg.OffersFor(input.Kind)
	}
	if err != nil {
		return nil, nil, err
	}

	sel, err := negotiator.Select(input.Header, offers)
	if err != nil {
		return nil, nil, ts.mcpError(err)
	}

	ts.logger.Debug("negotiated",
		slog.String("kind", input.Kind),
		slog.String("header", input.Header),
		slog.String("value", sel.Value),
		slog.String("quality", sel.Quality.String()),
	)

	return nil, &NegotiateOutput{
		Value:    sel.Value,
		Weight:   sel.Weight.String(),
		Quality:  sel.Quality.String(),
		Position: sel.Position,
		Explicit: sel.Explicit,
	}, nil
}

func (ts *toolServer) mcpListKinds(
	ctx context.Context,
	req *mcp.CallToolRequest,
	input ListKindsInput,
) (*mcp.CallToolResult, *ListKindsOutput, error) {
	out := &ListKindsOutput{}
	for _, kind := range negotiation.KindNames() {
		out.Kinds = append(out.Kinds, KindInfo{
			Name:          kind,
			DefaultOffers: ts.cfg.Offers[kind],
		})
	}
	return nil, out, nil
}

// mcpError converts negotiation errors to coded tool errors without leaking
// anything beyond their defined fields.
func (ts *toolServer) mcpError(err error) error {
	var notAcceptable *negotiation.NotAcceptableError
	if errors.As(err, &notAcceptable) {
		return fmt.Errorf("not_acceptable: %s", notAcceptable.Error())
	}
	var malformed *negotiation.MalformedHeaderError
	if errors.As(err, &malformed) {
		return fmt.Errorf("malformed_header: %s", malformed.Error())
	}
	var invalid *negotiation.InvalidAvailabilityError
	if errors.As(err, &invalid) {
		return fmt.Errorf("invalid_availability: %s", invalid.Error())
	}
	ts.logger.Error("internal error", slog.String("error", err.Error()))
	return errors.New("internal error")
}

// initLogger creates a structured logger configured for the environment.
// Logs go to stderr: stdout belongs to the MCP transport.
func initLogger() *slog.Logger {
	level := slog.LevelInfo
	if os.Getenv("LOG_LEVEL") == "debug" {
		level = slog.LevelDebug
	}

	opts := &slog.HandlerOptions{
		Level:     level,
		AddSource: level == slog.LevelDebug,
	}

	if os.Getenv("ENVIRONMENT") == "production" {
		return slog.New(slog.NewJSONHandler(os.Stderr, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stderr, opts))
}
