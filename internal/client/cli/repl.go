package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

var errNotLoggedIn = errors.New("not logged in, use login or dev-login first")

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	Login(ctx context.Context, args []string) error
	DevLogin(ctx context.Context, args []string) error
	Logout(ctx context.Context) error
	Catalog(ctx context.Context, args []string) error
	Events(ctx context.Context, args []string) error
	Concierge(ctx context.Context, args []string) error
	Favorites(ctx context.Context, args []string) error
	Offers(ctx context.Context, args []string) error
	Export(ctx context.Context) error
	Import(ctx context.Context, args []string) error
	Wipe(ctx context.Context) error
	Status(ctx context.Context) error
	Stats(ctx context.Context) error
}

const (
	helpLoggedOut = "Available commands: login [token], dev-login <user>, catalog, stats, exit"
	helpLoggedIn  = "Available commands: catalog, events, concierge, favorites, offers, export, import <key>, wipe, status, stats, logout, exit"
)

// runREPL reads commands line by line from reader and dispatches them to a.
//
// Commands that need a session are refused while logged out. Errors returned
// by handlers are printed and the loop continues. The loop exits on EOF or
// when the user types "exit" or "quit".
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		printlnFn(fmt.Sprintf("gc %s> ", statusFn()))
		line, err := reader.ReadString('\n')
		if err != nil && (!errors.Is(err, io.EOF) || line == "") {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		if cmd == "exit" || cmd == "quit" {
			printlnFn("Bye!")
			return
		}
		if err := dispatch(ctx, a, cmd, args); err != nil {
			printlnFn("Error:", err)
		}
	}
}

func dispatch(ctx context.Context, a execIface, cmd string, args []string) error {
	switch cmd {
	case "help":
		if a.isLoggedIn() {
			printlnFn(helpLoggedIn)
		} else {
			printlnFn(helpLoggedOut)
		}
		return nil
	case "login":
		return a.Login(ctx, args)
	case "dev-login":
		return a.DevLogin(ctx, args)
	case "catalog":
		return a.Catalog(ctx, args)
	case "stats":
		return a.Stats(ctx)
	}

	if !a.isLoggedIn() {
		switch cmd {
		case "logout", "events", "concierge", "favorites", "offers", "export", "import", "wipe", "status":
			return errNotLoggedIn
		}
		printlnFn("Unknown command:", cmd)
		return nil
	}

	switch cmd {
	case "logout":
		return a.Logout(ctx)
	case "events":
		return a.Events(ctx, args)
	case "concierge":
		return a.Concierge(ctx, args)
	case "favorites":
		return a.Favorites(ctx, args)
	case "offers":
		return a.Offers(ctx, args)
	case "export":
		return a.Export(ctx)
	case "import":
		return a.Import(ctx, args)
	case "wipe":
		return a.Wipe(ctx)
	case "status":
		return a.Status(ctx)
	default:
		printlnFn("Unknown command:", cmd)
		return nil
	}
}

// usage builds the error returned for malformed subcommands.
func usage(s string) error {
	return fmt.Errorf("usage: %s", s)
}
