// Package console renders storefront state to a terminal and reads user input.
package console

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/pkg/browser"
	"github.com/rs/zerolog"
	"golang.org/x/term"
)

// Console is the terminal surface. It implements the notifier, redirector
// and navigator contracts the session and checkout packages consume.
type Console struct {
	mu  sync.Mutex
	out io.Writer
	in  *bufio.Reader
	fd  int

	openBrowser bool
	openURL     func(string) error
	log         zerolog.Logger

	lastRedirect string
}

type Option func(*Console)

// WithBrowser opens redirect targets in the system browser as well as
// printing them.
func WithBrowser(open bool) Option {
	return func(c *Console) { c.openBrowser = open }
}

// WithURLOpener replaces the system browser launcher.
func WithURLOpener(fn func(string) error) Option {
	return func(c *Console) { c.openURL = fn }
}

// WithTerminal enables hidden password entry on the given file descriptor.
func WithTerminal(fd int) Option {
	return func(c *Console) { c.fd = fd }
}

func WithLogger(log zerolog.Logger) Option {
	return func(c *Console) { c.log = log }
}

func New(in io.Reader, out io.Writer, opts ...Option) *Console {
	c := &Console{
		out:     out,
		in:      bufio.NewReader(in),
		fd:      -1,
		openURL: browser.OpenURL,
		log:     zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Stdio wires the console to the process streams.
func Stdio(opts ...Option) *Console {
	return New(os.Stdin, os.Stdout, append([]Option{WithTerminal(int(os.Stdin.Fd()))}, opts...)...)
}

func (c *Console) Printf(format string, args ...any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintf(c.out, format, args...)
}

func (c *Console) Println(args ...any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintln(c.out, args...)
}

func (c *Console) Notify(message string)  { c.Println("ℹ", message) }
func (c *Console) Success(message string) { c.Println("✅", message) }
func (c *Console) Error(message string)   { c.Println("❌", message) }

// RedirectToLogin points the user at the authentication commands.
func (c *Console) RedirectToLogin() {
	c.Println("→ Use `login` to sign in or `register` to create an account.")
}

// Redirect hands the user off to an external page.
func (c *Console) Redirect(url string) {
	c.mu.Lock()
	c.lastRedirect = url
	fmt.Fprintf(c.out, "→ Continue to payment: %s\n", url)
	c.mu.Unlock()

	if !c.openBrowser {
		return
	}
	if err := c.openURL(url); err != nil {
		c.log.Warn().Err(err).Str("url", url).Msg("could not open browser")
	}
}

// LastRedirect is the most recent redirect target, empty if none.
func (c *Console) LastRedirect() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastRedirect
}

// ReadLine returns the next input line without its line ending. io.EOF is
// returned only when no further input exists.
func (c *Console) ReadLine() (string, error) {
	line, err := c.in.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// Prompt prints label and reads one line.
func (c *Console) Prompt(label string) (string, error) {
	c.Printf("%s: ", label)
	line, err := c.ReadLine()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// PromptSecret reads a line without echo when attached to a terminal.
func (c *Console) PromptSecret(label string) (string, error) {
	if c.fd < 0 || !term.IsTerminal(c.fd) {
		return c.Prompt(label)
	}

	c.Printf("%s: ", label)
	raw, err := term.ReadPassword(c.fd)
	c.Println()
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}
	return string(raw), nil
}
