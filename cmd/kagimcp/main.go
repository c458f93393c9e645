package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/kagimcp/kagimcp/internal/domain/assistant"
	"github.com/kagimcp/kagimcp/internal/domain/history"
	"github.com/kagimcp/kagimcp/internal/domain/search"
	"github.com/kagimcp/kagimcp/internal/domain/summarize"
	"github.com/kagimcp/kagimcp/internal/infra/config"
	"github.com/kagimcp/kagimcp/internal/infra/eventbus"
	"github.com/kagimcp/kagimcp/internal/infra/kagi"
	"github.com/kagimcp/kagimcp/internal/infra/sqlite"
	"github.com/kagimcp/kagimcp/internal/server"
	"github.com/kagimcp/kagimcp/internal/version"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stderr))
}

// run parses flags and starts the server. out receives version/help/error
// text; stdout is never written to because the stdio transport owns it.
func run(args []string, out io.Writer) int {
	fs := flag.NewFlagSet("kagimcp", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	showVersion := fs.Bool("version", false, "Show version information")
	showHelp := fs.Bool("help", false, "Show help")
	httpAddr := fs.String("http", "", "Serve MCP over HTTP on this address instead of stdio")
	configPath := fs.String("config", "", "Path to the YAML config file")

	if err := fs.Parse(args); err != nil {
		printHelp(out)
		return 2
	}

	if *showVersion {
		fmt.Fprintln(out, version.String()) //nolint:errcheck
		return 0
	}

	if *showHelp {
		printHelp(out)
		return 0
	}

	if *configPath != "" {
		os.Setenv("KAGIMCP_CONFIG", *configPath) //nolint:errcheck
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(out, err) //nolint:errcheck
		return 1
	}
	if *httpAddr != "" {
		cfg.HTTPAddr = *httpAddr
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(out, err) //nolint:errcheck
		return 1
	}

	if err := serve(cfg); err != nil {
		fmt.Fprintln(out, err) //nolint:errcheck
		return 1
	}
	return 0
}

func serve(cfg config.Config) error {
	// Logs go to stderr as JSON; in stdio mode stdout carries the protocol.
	log := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel(cfg.LogLevel),
	}))
	slog.SetDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client := kagi.NewClient(cfg.BaseURL, cfg.SessionToken, cfg.SearchCookie, cfg.RequestTimeout)
	engine := assistant.NewEngine(client, cfg.AssistantModels, cfg.DefaultModel, log)
	searchSvc := search.NewService(client, cfg.SearchTimeout, log)
	sumSvc := summarize.NewService(client, log)

	var bus eventbus.EventBus
	if cfg.HistoryDB != "" {
		db, err := sqlite.NewDB(cfg.HistoryDB)
		if err != nil {
			return err
		}
		defer db.Close() //nolint:errcheck
		if err := sqlite.MigrateUp(db); err != nil {
			return err
		}

		b := eventbus.New()
		go history.NewStore(db, log).Start(ctx, b)
		bus = b
		log.Info("invocation history enabled", "db", cfg.HistoryDB)
	}

	srv := server.New(engine, searchSvc, sumSvc, bus, []byte(cfg.AuthSecret), log)
	if cfg.HTTPAddr != "" {
		return srv.RunHTTP(ctx, cfg.HTTPAddr)
	}
	return srv.RunStdio(ctx)
}

func logLevel(name string) slog.Level {
	switch name {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func printHelp(out io.Writer) {
	helpText := `kagimcp - MCP server for Kagi Search, Summarizer and Assistant

Usage:
  kagimcp [options]

Options:
  --version        Show version information
  --help           Show this help message
  --http ADDR      Serve MCP over HTTP on ADDR instead of stdio
  --config PATH    Path to the YAML config file

Configuration (environment):
  KAGI_SESSION_TOKEN     Kagi session token (or write ~/.kagi_session_token)
  KAGI_SEARCH_COOKIE     Secondary search cookie
  KAGI_ASSISTANT_MODELS  Comma-separated assistant model allow-list
  KAGIMCP_HISTORY_DB     Enable the SQLite invocation log at this path

Examples:
  kagimcp
  kagimcp --http :8080
  kagimcp --version`
	fmt.Fprintln(out, helpText) //nolint:errcheck
}
