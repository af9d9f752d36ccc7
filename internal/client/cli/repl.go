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
	isLoggedIn() bool
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	WhoAmI(ctx context.Context) error
	Forgot(ctx context.Context) error
	ShowTag(ctx context.Context, code string) error
	ListTags(ctx context.Context) error
	ActivateTag(ctx context.Context, code string) error
	UpdateTag(ctx context.Context, code string) error
	DeleteTag(ctx context.Context, code string) error
}

const (
	helpAnonymous = "Available commands: login, forgot, tag <code>, help, exit"
	helpLoggedIn  = "Available commands: whoami, tags, tag <code>, activate <code>, update <code>, delete <code>, logout, help, exit"
)

// runREPL starts a simple read-eval-print loop for the qrtag CLI.
//
// It reads a line from reader, parses the first token as the command, and
// dispatches to methods on 'a'. Commands prompt for further input through the
// same reader. The loop exits on EOF or when the user types "exit" or "quit".
//
// Prompt & Commands
//
//	Not logged in:
//	  - login            authenticate with email and password
//	  - forgot           request a password reset link
//	  - tag <code>       look up a tag as a finder would
//
//	Logged in, additionally:
//	  - whoami           show the current user and session
//	  - tags             list your tags
//	  - activate <code>  claim an unused tag
//	  - update <code>    edit one of your tags
//	  - delete <code>    release one of your tags
//	  - logout           forget the session
//
// Errors returned by command handlers are ignored here; handlers report
// their own errors.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		printlnFn(fmt.Sprintf("qrtag %s> ", statusFn()))
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
			if a.isLoggedIn() {
				printlnFn(helpLoggedIn)
			} else {
				printlnFn(helpAnonymous)
			}

		case "login":
			_ = a.Login(ctx)

		case "forgot":
			_ = a.Forgot(ctx)

		case "tag":
			if len(args) == 0 {
				printlnFn("Usage: tag <code>")
				continue
			}
			_ = a.ShowTag(ctx, args[0])

		case "exit", "quit":
			printlnFn("Bye!")
			return

		case "whoami", "tags", "activate", "update", "delete", "logout":
			if !a.isLoggedIn() {
				printlnFn("Please log in first")
				continue
			}
			runAuthenticated(ctx, a, cmd, args)

		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}

func runAuthenticated(ctx context.Context, a execIface, cmd string, args []string) {
	switch cmd {
	case "whoami":
		_ = a.WhoAmI(ctx)
		return
	case "tags":
		_ = a.ListTags(ctx)
		return
	case "logout":
		_ = a.Logout(ctx)
		return
	}

	if len(args) == 0 {
		printlnFn(fmt.Sprintf("Usage: %s <code>", cmd))
		return
	}
	switch cmd {
	case "activate":
		_ = a.ActivateTag(ctx, args[0])
	case "update":
		_ = a.UpdateTag(ctx, args[0])
	case "delete":
		_ = a.DeleteTag(ctx, args[0])
	}
}
