package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

// printlnFn is a test seam for user-facing output.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
type execIface interface {
	isLoggedIn() bool
	Register(ctx context.Context) error
	Login(ctx context.Context) error
	Activate(ctx context.Context, link string) error
	Refresh(ctx context.Context) error
	Logout(ctx context.Context) error
	Users(ctx context.Context) error
	Ping(ctx context.Context) error
}

// runREPL reads one command per line from reader and dispatches it to a.
// The loop exits on EOF, on "exit" or "quit", or when ctx is done.
//
//	Not logged in: register, login, activate <link>, ping, help, exit
//	Logged in:     users, refresh, logout, activate <link>, ping, help, exit
//
// Command failures are reported to the user and never stop the loop.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		if ctx.Err() != nil {
			return
		}

		printlnFn(fmt.Sprintf("gauth%s> ", prefixed(statusFn())))
		line, err := reader.ReadString('\n')
		if err != nil && (!errors.Is(err, io.EOF) || line == "") {
			return
		}

		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		var cmdErr error
		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn("Available commands: users, refresh, logout, activate <link>, ping, exit")
			} else {
				printlnFn("Available commands: register, login, activate <link>, ping, exit")
			}

		case "register":
			cmdErr = a.Register(ctx)

		case "login":
			cmdErr = a.Login(ctx)

		case "activate":
			if len(args) == 0 {
				printlnFn("Usage: activate <link>")
				continue
			}
			cmdErr = a.Activate(ctx, args[0])

		case "refresh":
			cmdErr = a.Refresh(ctx)

		case "logout":
			cmdErr = a.Logout(ctx)

		case "users":
			cmdErr = a.Users(ctx)

		case "ping":
			cmdErr = a.Ping(ctx)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}

		if cmdErr != nil {
			printlnFn(describeError(cmdErr))
		}
	}
}

func prefixed(status string) string {
	if status == "" {
		return ""
	}
	return " " + status
}
