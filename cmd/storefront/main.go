package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/JohnEvansOkyere/vexaai-automation-website/internal/app"
	"github.com/JohnEvansOkyere/vexaai-automation-website/internal/config"
	"github.com/JohnEvansOkyere/vexaai-automation-website/internal/console"
	"github.com/JohnEvansOkyere/vexaai-automation-website/internal/log"
)

const usage = `usage: storefront [flags] [command [args]]

Without a command the interactive shell starts. Commands:
  catalog [query]   list workflows
  buy <id>          buy one workflow
  buy-all           buy the All Access Pass
  request           submit a custom workflow request
  login | register | logout | whoami | support

Flags:
`

func main() {
	openBrowser := flag.Bool("open", false, "open payment pages in the system browser")
	flag.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), usage)
		flag.PrintDefaults()
	}
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if *openBrowser {
		cfg.Browser.Open = true
	}

	logger := log.NewWithWriter(cfg.Environment, os.Stderr)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	con := console.Stdio(console.WithBrowser(cfg.Browser.Open), console.WithLogger(logger))
	storefront := app.Open(ctx, cfg, logger, con)
	defer storefront.Close()

	storefront.Start(ctx)

	args := flag.Args()
	if len(args) == 0 {
		if err := storefront.Run(ctx); err != nil {
			logger.Error().Err(err).Msg("shell stopped")
		}
		return
	}

	for _, line := range script(args) {
		if storefront.Execute(ctx, line) {
			return
		}
	}
}

// script turns a one-shot command into shell lines.
func script(args []string) []string {
	if args[0] == "buy" && len(args) > 1 {
		return []string{"select " + args[1], "buy"}
	}
	return []string{strings.Join(args, " ")}
}
