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

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn(ctx context.Context) bool
	Register(ctx context.Context) error
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	Profile(ctx context.Context) error
	Details(ctx context.Context) error
	Edit(ctx context.Context) error
	ShowSettings(ctx context.Context) error
	SetDarkMode(ctx context.Context, args []string) error
	SetNotifications(ctx context.Context, args []string) error
	SetLanguage(ctx context.Context, args []string) error
	ResetSettings(ctx context.Context) error
}

// runREPL starts a simple read–eval–print loop.
//
// It reads a line from reader, parses the first token as the command, and
// dispatches to methods on 'a'. Unknown commands are reported back to the
// user. The loop exits on EOF, when ctx is done or when the user types
// "exit" or "quit".
//
//	Not logged in:
//	  - help          : show available commands
//	  - register      : create an account
//	  - login         : authenticate
//	  - settings, dark, notify, lang, reset: preferences
//	  - exit | quit   : leave the program
//
//	Logged in, additionally:
//	  - profile       : show the profile summary
//	  - details       : show every profile field
//	  - edit          : change profile fields
//	  - logout        : log out
//
// Errors returned by command handlers are ignored here; handlers report
// them to the user themselves.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		if ctx.Err() != nil {
			return
		}
		printlnFn(fmt.Sprintf("pk%s> ", statusFn()))

		line, err := reader.ReadString('\n')
		if err != nil && (!errors.Is(err, io.EOF) || line == "") {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		switch cmd {
		case "help":
			if a.isLoggedIn(ctx) {
				printlnFn("Available commands: profile, details, edit, settings, dark on|off, notify on|off, lang <code>, reset, logout, exit")
			} else {
				printlnFn("Available commands: register, login, settings, dark on|off, notify on|off, lang <code>, reset, exit")
			}

		case "register":
			_ = a.Register(ctx)

		case "login":
			_ = a.Login(ctx)

		case "logout":
			_ = a.Logout(ctx)

		case "profile":
			_ = a.Profile(ctx)

		case "details":
			_ = a.Details(ctx)

		case "edit":
			_ = a.Edit(ctx)

		case "settings":
			_ = a.ShowSettings(ctx)

		case "dark":
			_ = a.SetDarkMode(ctx, args)

		case "notify":
			_ = a.SetNotifications(ctx, args)

		case "lang":
			_ = a.SetLanguage(ctx, args)

		case "reset":
			_ = a.ResetSettings(ctx)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}

		if err != nil {
			return
		}
	}
}
