package console

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	domainauth "github.com/target/catalog-admin/internal/domain/auth"
	"github.com/target/catalog-admin/internal/ui"
)

type runFn func(ctx context.Context, c *Console, view ui.View, args string) error

type command struct {
	name        string
	usage       string
	description string
	run         runFn
}

func globalCommands() map[string]command {
	return map[string]command{
		"help":  {name: "help", usage: "help", description: "List the commands of the current screen", run: runHelp},
		"where": {name: "where", usage: "where", description: "Print the current location", run: runWhere},
		"quit":  {name: "quit", usage: "quit", description: "Leave the console", run: runQuit},
		"exit":  {name: "exit", usage: "exit", description: "Leave the console", run: runQuit},
	}
}

func loginCommands() map[string]command {
	return map[string]command{
		"login": {
			name: "login", usage: "login <username> <password>",
			description: "Authenticate and continue to the requested screen",
			run:         forLogin(runLogin),
		},
		"register": {
			name: "register", usage: "register <username> <email> <password>",
			description: "Create an account",
			run:         runRegister,
		},
		"clear": {
			name: "clear", usage: "clear", description: "Dismiss messages",
			run: forLogin(func(_ context.Context, _ *Console, v *ui.LoginView, _ string) error {
				v.ClearError()
				return nil
			}),
		},
	}
}

func listCommands() map[string]command {
	return map[string]command{
		"list": {
			name: "list", usage: "list [--query EXPR]",
			description: "Show products, optionally filtered by a JMESPath expression",
			run:         forList(runList),
		},
		"reload": {
			name: "reload", usage: "reload", description: "Load products again",
			run: forList(func(ctx context.Context, _ *Console, v *ui.ProductListView, _ string) error {
				v.Load(ctx)
				return nil
			}),
		},
		"new": {
			name: "new", usage: "new", description: "Create a product",
			run: forList(func(_ context.Context, _ *Console, v *ui.ProductListView, _ string) error {
				v.Create()
				return nil
			}),
		},
		"edit": {
			name: "edit", usage: "edit <id>", description: "Edit a product",
			run: forList(func(_ context.Context, _ *Console, v *ui.ProductListView, args string) error {
				id, err := parseID(args)
				if err != nil {
					return err
				}
				v.Edit(id)
				return nil
			}),
		},
		"delete": {
			name: "delete", usage: "delete <id>", description: "Ask to delete a product",
			run: forList(func(_ context.Context, _ *Console, v *ui.ProductListView, args string) error {
				id, err := parseID(args)
				if err != nil {
					return err
				}
				return v.ConfirmDelete(id)
			}),
		},
		"yes": {
			name: "yes", usage: "yes", description: "Confirm the pending delete",
			run: forList(func(ctx context.Context, _ *Console, v *ui.ProductListView, _ string) error {
				if v.PendingDelete() == nil {
					return errors.New("nothing to confirm")
				}
				v.Delete(ctx)
				return nil
			}),
		},
		"no": {
			name: "no", usage: "no", description: "Cancel the pending delete",
			run: forList(func(_ context.Context, _ *Console, v *ui.ProductListView, _ string) error {
				v.CancelDelete()
				return nil
			}),
		},
		"clear": {
			name: "clear", usage: "clear", description: "Dismiss messages",
			run: forList(func(_ context.Context, _ *Console, v *ui.ProductListView, _ string) error {
				v.ClearMessages()
				return nil
			}),
		},
		"logout": {
			name: "logout", usage: "logout", description: "End the session",
			run: forList(func(ctx context.Context, c *Console, v *ui.ProductListView, _ string) error {
				if out := v.Logout(ctx); !out.OK() {
					c.printf("Logout: %s\n", out.Message())
				}
				return nil
			}),
		},
	}
}

func formCommands() map[string]command {
	return map[string]command{
		"set": {
			name: "set", usage: "set <field> <value>",
			description: "Set codigo, nombre, descripcion, precio, stock or activo",
			run: forForm(func(_ context.Context, _ *Console, v *ui.ProductFormView, args string) error {
				field, value, _ := strings.Cut(args, " ")
				if field == "" {
					return errors.New("usage: set <field> <value>")
				}
				return v.Set(field, strings.TrimSpace(value))
			}),
		},
		"save": {
			name: "save", usage: "save", description: "Validate and save the product",
			run: forForm(func(ctx context.Context, _ *Console, v *ui.ProductFormView, _ string) error {
				v.Submit(ctx)
				return nil
			}),
		},
		"cancel": {
			name: "cancel", usage: "cancel", description: "Go back to the list without saving",
			run: forForm(func(_ context.Context, _ *Console, v *ui.ProductFormView, _ string) error {
				v.Cancel()
				return nil
			}),
		},
		"clear": {
			name: "clear", usage: "clear", description: "Dismiss the form error",
			run: forForm(func(_ context.Context, _ *Console, v *ui.ProductFormView, _ string) error {
				v.ClearError()
				return nil
			}),
		},
	}
}

// commandsFor returns the commands available on view.
func commandsFor(view ui.View) map[string]command {
	var own map[string]command
	switch view.(type) {
	case *ui.LoginView:
		own = loginCommands()
	case *ui.ProductListView:
		own = listCommands()
	case *ui.ProductFormView:
		own = formCommands()
	}
	all := globalCommands()
	for k, v := range own {
		all[k] = v
	}
	return all
}

func lookup(view ui.View, name string) (command, bool) {
	cmd, ok := commandsFor(view)[name]
	return cmd, ok
}

func forLogin(fn func(context.Context, *Console, *ui.LoginView, string) error) runFn {
	return func(ctx context.Context, c *Console, view ui.View, args string) error {
		return fn(ctx, c, view.(*ui.LoginView), args) //nolint:forcetypeassert // table chosen by view type
	}
}

func forList(fn func(context.Context, *Console, *ui.ProductListView, string) error) runFn {
	return func(ctx context.Context, c *Console, view ui.View, args string) error {
		return fn(ctx, c, view.(*ui.ProductListView), args) //nolint:forcetypeassert // table chosen by view type
	}
}

func forForm(fn func(context.Context, *Console, *ui.ProductFormView, string) error) runFn {
	return func(ctx context.Context, c *Console, view ui.View, args string) error {
		return fn(ctx, c, view.(*ui.ProductFormView), args) //nolint:forcetypeassert // table chosen by view type
	}
}

func runHelp(_ context.Context, c *Console, view ui.View, _ string) error {
	cmds := commandsFor(view)
	names := make([]string, 0, len(cmds))
	for name := range cmds {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		c.printf("  %-40s %s\n", cmds[name].usage, cmds[name].description)
	}
	return nil
}

func runWhere(_ context.Context, c *Console, _ ui.View, _ string) error {
	c.printf("%s\n", c.opts.Navigator.Current())
	return nil
}

func runQuit(context.Context, *Console, ui.View, string) error {
	return ErrQuit
}

func runLogin(ctx context.Context, _ *Console, v *ui.LoginView, args string) error {
	fields := strings.Fields(args)
	if len(fields) != 2 {
		return errors.New("usage: login <username> <password>")
	}
	v.Submit(ctx, domainauth.Credentials{Username: fields[0], Password: fields[1]})
	return nil
}

func runRegister(ctx context.Context, c *Console, _ ui.View, args string) error {
	fields := strings.Fields(args)
	if len(fields) != 3 {
		return errors.New("usage: register <username> <email> <password>")
	}
	out := c.opts.Auth.Register(ctx, domainauth.RegisterInput{Username: fields[0], Email: fields[1], Password: fields[2]})
	if !out.OK() {
		return errors.New(out.Message())
	}
	c.printf("Account %s created. You can log in now.\n", fields[0])
	return nil
}

func runList(_ context.Context, c *Console, v *ui.ProductListView, args string) error {
	expr, ok := queryFlag(args)
	if !ok {
		return nil
	}
	if expr == "" {
		return errors.New("usage: list --query EXPR")
	}
	out, err := queryProducts(v.Items(), expr)
	if err != nil {
		return err
	}
	c.printf("%s\n", out)
	return nil
}

// queryFlag extracts EXPR from "--query EXPR" or "--query=EXPR".
func queryFlag(args string) (string, bool) {
	args = strings.TrimSpace(args)
	switch {
	case strings.HasPrefix(args, "--query="):
		return unquote(strings.TrimPrefix(args, "--query=")), true
	case args == "--query" || strings.HasPrefix(args, "--query "):
		return unquote(strings.TrimSpace(strings.TrimPrefix(args, "--query"))), true
	}
	return "", false
}

func unquote(s string) string {
	s = strings.TrimSpace(s)
	if len(s) >= 2 && (s[0] == '\'' || s[0] == '"') && s[len(s)-1] == s[0] {
		return s[1 : len(s)-1]
	}
	return s
}

func parseID(args string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(args), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid product id %q", args)
	}
	return id, nil
}
