// Package app wires the storefront components into one application context
// and runs the interactive shell on top of it.
package app

import (
	"context"
	"errors"
	"io"
	"strings"

	"github.com/rs/zerolog"

	"github.com/JohnEvansOkyere/vexaai-automation-website/internal/catalog"
	"github.com/JohnEvansOkyere/vexaai-automation-website/internal/checkout"
	"github.com/JohnEvansOkyere/vexaai-automation-website/internal/config"
	"github.com/JohnEvansOkyere/vexaai-automation-website/internal/console"
	"github.com/JohnEvansOkyere/vexaai-automation-website/internal/errs"
	"github.com/JohnEvansOkyere/vexaai-automation-website/internal/jobs"
	"github.com/JohnEvansOkyere/vexaai-automation-website/internal/remote"
	"github.com/JohnEvansOkyere/vexaai-automation-website/internal/session"
	"github.com/JohnEvansOkyere/vexaai-automation-website/internal/store"
)

// Storefront is the application context: one instance of every component,
// shared by reference.
type Storefront struct {
	cfg     *config.AppConfig
	log     zerolog.Logger
	console *console.Console

	store     *store.SessionStore
	client    *remote.Client
	session   *session.Manager
	selection *catalog.Selection
	loader    *catalog.Loader
	checkout  *checkout.Orchestrator
	scheduler *jobs.Scheduler

	purchaseModal   *console.Modal
	requestModal    *console.Modal
	checkoutButton  *console.Button
	allAccessButton *console.Button
	submitButton    *console.Button
	requestForm     *console.RequestForm
}

// Open builds the storefront from configuration.
func Open(ctx context.Context, cfg *config.AppConfig, log zerolog.Logger, con *console.Console) *Storefront {
	sessionStore := store.Open(ctx, cfg.Session, log)
	client := remote.New(cfg.API.URL,
		remote.WithTimeout(cfg.API.Timeout),
		remote.WithLogger(log.With().Str("component", "remote").Logger()),
	)
	return New(cfg, log, con, sessionStore, client)
}

func New(cfg *config.AppConfig, log zerolog.Logger, con *console.Console, sessionStore *store.SessionStore, client *remote.Client) *Storefront {
	s := &Storefront{
		cfg:     cfg,
		log:     log,
		console: con,
		store:   sessionStore,
		client:  client,

		purchaseModal:   console.NewModal("purchase"),
		requestModal:    console.NewModal("custom-request"),
		checkoutButton:  console.NewButton("Proceed to checkout"),
		allAccessButton: console.NewButton("Get All Access"),
		submitButton:    console.NewButton("Submit request"),
		requestForm:     &console.RequestForm{},
	}

	s.session = session.NewManager(sessionStore, client, con, log)
	s.selection = catalog.NewSelection()
	s.loader = catalog.NewLoader(client, s.selection, log)
	s.checkout = checkout.NewOrchestrator(s.session, s.selection, client, cfg.Pricing, con, con, log)
	s.scheduler = jobs.NewScheduler(cfg.API.Timeout, log)

	s.session.OnChange(s.renderHeader)
	return s
}

// Start loads the catalog and starts the background refresher. A catalog
// that cannot be fetched is reported but does not stop the shell.
func (s *Storefront) Start(ctx context.Context) {
	if err := s.loader.Refresh(ctx); err != nil {
		s.console.Error(errs.UserMessage(err))
	}
	if err := s.scheduler.Add(s.cfg.Catalog.RefreshSchedule, "catalog-refresh", s.loader.Refresh); err != nil {
		s.log.Error().Err(err).Msg("catalog refresher not started")
	}
	s.scheduler.Start()
}

func (s *Storefront) Close() {
	<-s.scheduler.Stop().Done()
	if err := s.store.Close(); err != nil {
		s.log.Error().Err(err).Msg("session store close error")
	}
}

// Run is the event loop: one line, one action, each run to completion before
// the next is read.
func (s *Storefront) Run(ctx context.Context) error {
	s.renderHeader()
	s.console.Println("Type `help` for commands.")

	type readResult struct {
		line string
		err  error
	}
	// The reader only reads when asked, so commands that prompt for more
	// input own the console while they run.
	next := make(chan struct{})
	results := make(chan readResult, 1)
	go func() {
		for range next {
			line, err := s.console.ReadLine()
			results <- readResult{line: line, err: err}
		}
	}()
	defer close(next)

	for {
		s.console.Printf("vexa> ")
		next <- struct{}{}

		select {
		case <-ctx.Done():
			s.console.Println()
			return nil
		case r := <-results:
			if r.err != nil {
				if errors.Is(r.err, io.EOF) {
					return nil
				}
				return r.err
			}
			if s.Execute(ctx, r.line) {
				return nil
			}
		}
	}
}

// Execute runs one command line. Any failure becomes exactly one message.
// It reports whether the user asked to quit.
func (s *Storefront) Execute(ctx context.Context, line string) bool {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return false
	}

	name, args := strings.ToLower(fields[0]), fields[1:]
	if name == "quit" || name == "exit" {
		return true
	}

	cmd, ok := commands[name]
	if !ok {
		s.console.Error("Unknown command " + name + ". Type `help` for the list.")
		return false
	}

	if err := cmd.run(ctx, s, args); err != nil {
		s.log.Debug().Err(err).Str("command", name).Msg("command failed")
		s.console.Error(errs.UserMessage(err))
	}
	return false
}

func (s *Storefront) renderHeader() {
	if user, ok := s.session.CurrentUser(); ok {
		s.console.Printf("Signed in as %s <%s>\n", user.DisplayName(), user.Email)
		return
	}
	s.console.Println("Not signed in.")
}
