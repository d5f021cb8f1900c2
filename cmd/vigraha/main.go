package main

import (
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/joho/godotenv"
	"github.com/prajnadip/vigraha/internal"
)

// version is set via ldflags at build time
var version = "dev"

func main() {
	ctx := context.Background()

	// API keys may live in a local .env; absence is fine.
	_ = godotenv.Load()

	a, err := newApp()
	if err != nil {
		fmt.Fprintf(os.Stderr, "vigraha: %v\n", err)
		os.Exit(1)
	}
	defer a.engine.Close()

	rootCmd := NewRootCmd(version, a)
	if err := fang.Execute(ctx, rootCmd); err != nil {
		os.Exit(1)
	}
}

type app struct {
	ws     internal.Workspace
	cfg    *internal.Config
	engine *internal.Engine
}

func newApp() (*app, error) {
	ws := internal.ResolveWorkspace()

	cfg, err := internal.LoadConfig(ws)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	return &app{
		ws:     ws,
		cfg:    cfg,
		engine: internal.NewEngine(cfg, ws),
	}, nil
}
