package main

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	// Packages
	kong "github.com/alecthomas/kong"
	godotenv "github.com/joho/godotenv"
	google "github.com/mutablelogic/go-gemini/pkg/google"
	otelapi "go.opentelemetry.io/otel"
	trace "go.opentelemetry.io/otel/trace"
	zap "go.uber.org/zap"
)

////////////////////////////////////////////////////////////////////////////////
// TYPES

type Globals struct {
	// Debugging
	Debug   bool `name:"debug" help:"Enable debug output"`
	Verbose bool `name:"verbose" help:"Enable verbose output"`

	// Gemini
	GeminiKey string        `name:"api-key" env:"GEMINI_API_KEY" help:"Gemini API key"`
	Endpoint  string        `name:"endpoint" env:"GEMINI_ENDPOINT" help:"Gemini API endpoint, including the version" optional:""`
	Timeout   time.Duration `name:"timeout" env:"GEMINI_TIMEOUT" help:"Request timeout" default:"120s"`
	Model     string        `name:"model" short:"m" env:"GEMINI_MODEL" help:"Model name, the command's default when empty" optional:""`

	// Output and retries
	Format  string `name:"format" enum:"text,json,yaml" default:"text" help:"Output format (text, json, yaml)"`
	Retries uint   `name:"retries" default:"3" help:"Attempts for rate-limited and server errors"`

	// Context
	ctx    context.Context
	log    *zap.Logger
	tracer trace.Tracer
	client *google.Client
}

type CLI struct {
	Globals
	GenerateCommands
	ThreadCommands
	ServerCommands
	ModelCommands
	FileCommands
	MediaCommands
	CacheCommands

	Version VersionCommand `cmd:"" name:"version" help:"Print version information"`
}

////////////////////////////////////////////////////////////////////////////////
// MAIN

func main() {
	// Environment from .env, when present
	_ = godotenv.Load()

	// Create a cli parser
	cli := CLI{}
	cmd := kong.Parse(&cli,
		kong.Name(execName()),
		kong.Description("Gemini API command line interface"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{Compact: true}),
		kong.Vars{},
	)

	// Create a logger
	log, err := newLogger(cli.Debug)
	cmd.FatalIfErrorf(err)
	defer log.Sync()
	cli.Globals.log = log

	// Create a context
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()
	cli.Globals.ctx = ctx
	cli.Globals.tracer = otelapi.Tracer(execName())

	// Run the command
	if err := cmd.Run(&cli.Globals); err != nil {
		log.Sync()
		cmd.FatalIfErrorf(err)
		return
	}
}

////////////////////////////////////////////////////////////////////////////////
// PRIVATE METHODS

func execName() string {
	// The name of the executable
	name, err := os.Executable()
	if err != nil {
		panic(err)
	} else {
		return filepath.Base(name)
	}
}

func newLogger(debug bool) (*zap.Logger, error) {
	if debug {
		return zap.NewDevelopment()
	}
	config := zap.NewProductionConfig()
	config.Encoding = "console"
	config.DisableStacktrace = true
	return config.Build()
}
