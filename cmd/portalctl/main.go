// Command portalctl is a terminal client for the campus portal. It keeps the
// bearer token in a file between runs and applies the same route guard as
// the web portal before each command.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/term"

	"github.com/stemsi/campus-portal/internal/apiclient"
	"github.com/stemsi/campus-portal/internal/config"
	"github.com/stemsi/campus-portal/internal/logger"
	"github.com/stemsi/campus-portal/internal/session"
)

func main() {
	// ─── Load Configuration ────────────────────────────────────────────
	cfg := config.Load()

	// ─── Initialize Logger ─────────────────────────────────────────────
	// stderr keeps stdout for command output.
	log := logger.New(os.Stderr, cfg.LogLevel, cfg.LogFormat).With().Str("service", "portalctl").Logger()

	if len(os.Args) < 2 {
		usage(os.Stderr)
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	api := apiclient.New(cfg.APIBaseURL, cfg.APITimeout, log)
	store := session.New(api, session.NewFileStorage(cfg.TokenFile), session.WithLogger(log))

	c := newCLI(api, store, os.Stdin, os.Stdout)
	c.readPassword = func() (string, error) {
		b, err := term.ReadPassword(int(syscall.Stdin))
		return string(b), err
	}

	err := c.run(ctx, os.Args[1])
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
