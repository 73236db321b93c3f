// Package console is the interactive shell of catalog-admin. It mounts one view per
// navigation, reads commands line by line and renders the current view after each.
package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/target/catalog-admin/internal/ports"
	"github.com/target/catalog-admin/internal/router"
	"github.com/target/catalog-admin/internal/ui"
)

// ErrQuit is returned by Exec when the operator asks to leave.
var ErrQuit = errors.New("quit")

// Options groups dependencies for Console.
type Options struct {
	Auth      ports.AuthGateway    // Required
	Products  ports.ProductGateway // Required
	Session   ports.SessionReader  // Required
	Navigator *router.Navigator    // Required
	Format    ui.Formatter
	// FlashDuration is passed to the product list; zero uses its default.
	FlashDuration time.Duration
	Out           io.Writer // Optional: defaults to io.Discard
	Logger        *slog.Logger
}

// Console swaps views as the navigator moves and dispatches operator commands to
// the current one.
type Console struct {
	opts   Options
	out    io.Writer
	logger *slog.Logger

	outMu sync.Mutex

	mu      sync.Mutex
	ctx     context.Context
	view    ui.View
	navSeq  uint64
	started bool
	stop    func()
}

// New constructs a Console.
func New(opts Options) (*Console, error) {
	if opts.Auth == nil || opts.Products == nil {
		return nil, errors.New("auth and product gateways are required")
	}
	if opts.Session == nil {
		return nil, errors.New("session store is required")
	}
	if opts.Navigator == nil {
		return nil, errors.New("navigator is required")
	}
	out := opts.Out
	if out == nil {
		out = io.Discard
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Console{opts: opts, out: out, logger: logger.With("component", "console")}, nil
}

// Start follows the navigator and goes to initial. Views are mounted with ctx.
func (c *Console) Start(ctx context.Context, initial string) {
	c.mu.Lock()
	if c.started {
		c.mu.Unlock()
		return
	}
	c.started = true
	c.ctx = ctx
	c.mu.Unlock()

	unsubscribe := c.opts.Navigator.Subscribe(c.onNavigate)
	c.mu.Lock()
	c.stop = unsubscribe
	c.mu.Unlock()
	c.opts.Navigator.NavigateURL(initial)
}

// Close stops following the navigator and destroys the current view.
func (c *Console) Close() {
	c.mu.Lock()
	stop, view := c.stop, c.view
	c.stop, c.view = nil, nil
	c.mu.Unlock()
	if stop != nil {
		stop()
	}
	if view != nil {
		view.Destroy()
	}
}

// View returns the mounted view, nil before Start.
func (c *Console) View() ui.View {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.view
}

func (c *Console) onNavigate(loc router.Location) {
	next := c.build(loc)

	c.mu.Lock()
	prev := c.view
	c.view = next
	c.navSeq++
	ctx := c.ctx
	c.mu.Unlock()

	if prev != nil {
		prev.Destroy()
	}
	c.logger.Debug("view mounted", "view", next.Name(), "location", loc.String())
	next.Mount(ctx)
	c.render()
}

func (c *Console) build(loc router.Location) ui.View {
	switch loc.Route.Name {
	case router.RouteProductList:
		return ui.NewProductListView(ui.ProductListOptions{
			Products:      c.opts.Products,
			Auth:          c.opts.Auth,
			Navigator:     c.opts.Navigator,
			Format:        c.opts.Format,
			FlashDuration: c.opts.FlashDuration,
		}, loc.Query)
	case router.RouteProductNew, router.RouteProductEdit:
		return ui.NewProductFormView(ui.ProductFormOptions{
			Products:  c.opts.Products,
			Navigator: c.opts.Navigator,
		}, loc.Params)
	default:
		return ui.NewLoginView(ui.LoginOptions{
			Auth:      c.opts.Auth,
			Session:   c.opts.Session,
			Navigator: c.opts.Navigator,
		}, loc.Query)
	}
}

// Exec runs one command line against the current view.
func (c *Console) Exec(ctx context.Context, line string) error {
	name, rest := splitCommand(line)
	if name == "" {
		return nil
	}
	view := c.View()
	if view == nil {
		return errors.New("console not started")
	}
	cmd, ok := lookup(view, name)
	if !ok {
		return fmt.Errorf("unknown command %q (type 'help')", name)
	}
	return cmd.run(ctx, c, view, rest)
}

// Run reads commands from in until EOF, quit, or ctx is done. The current view is
// rendered after every command unless the command already caused a navigation.
func (c *Console) Run(ctx context.Context, in io.Reader) error {
	lines := make(chan string)
	readErr := make(chan error, 1)
	go func() {
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
		readErr <- scanner.Err()
	}()

	for {
		c.prompt()
		select {
		case <-ctx.Done():
			return nil
		case err := <-readErr:
			if err != nil {
				return fmt.Errorf("read command: %w", err)
			}
			return nil
		case line := <-lines:
			before := c.seq()
			err := c.Exec(ctx, line)
			if errors.Is(err, ErrQuit) {
				return nil
			}
			if err != nil {
				c.printf("Error: %v\n", err)
			}
			if c.seq() == before && strings.TrimSpace(line) != "" {
				c.render()
			}
		}
	}
}

func (c *Console) seq() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.navSeq
}

func (c *Console) render() {
	view := c.View()
	if view == nil {
		return
	}
	c.outMu.Lock()
	defer c.outMu.Unlock()
	_, _ = fmt.Fprintln(c.out)
	view.Render(c.out)
}

func (c *Console) prompt() {
	c.outMu.Lock()
	defer c.outMu.Unlock()
	_, _ = fmt.Fprint(c.out, "> ")
}

func (c *Console) printf(format string, args ...any) {
	c.outMu.Lock()
	defer c.outMu.Unlock()
	_, _ = fmt.Fprintf(c.out, format, args...)
}

// splitCommand returns the lower-cased first word and the remainder of line.
func splitCommand(line string) (string, string) {
	line = strings.TrimSpace(line)
	if line == "" {
		return "", ""
	}
	name, rest, _ := strings.Cut(line, " ")
	return strings.ToLower(name), strings.TrimSpace(rest)
}
