package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

// printFn is a test seam for the prompt.
var printFn = fmt.Print

// execIface is the command surface the REPL dispatches to. App satisfies
// it; tests use a recording stub.
type execIface interface {
	Help()
	ChooseRole(ctx context.Context, role string) error
	Auditors(ctx context.Context) error
	Login(ctx context.Context, auditorID string) error
	Search(ctx context.Context, args []string) error
	ShowLog(ctx context.Context) error
	Metrics(ctx context.Context) error
	CreateAuditor(ctx context.Context, name string) error
	DeleteAuditor(ctx context.Context, auditorID string) error
	Logout(ctx context.Context) error
	Report(err error)
}

var errUsage = errors.New("usage")

func usage(s string) error { return fmt.Errorf("%w: %s", errUsage, s) }

// runREPL reads commands from lines until EOF, "exit", "quit" or ctx is
// done. Handler errors are reported and the loop continues.
func runREPL(ctx context.Context, a execIface, statusFn func() string, lines *bufio.Reader) {
	for {
		if ctx.Err() != nil {
			return
		}
		printFn(fmt.Sprintf("sm %s> ", statusFn()))

		line, err := lines.ReadString('\n')
		if err != nil && (!errors.Is(err, io.EOF) || strings.TrimSpace(line) == "") {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		var cmdErr error
		switch cmd {
		case "help", "?":
			a.Help()
		case "role":
			if len(args) != 1 {
				cmdErr = usage("role internal|external")
				break
			}
			cmdErr = a.ChooseRole(ctx, args[0])
		case "auditors":
			cmdErr = a.Auditors(ctx)
		case "login":
			if len(args) != 1 {
				cmdErr = usage("login <auditor-id>")
				break
			}
			cmdErr = a.Login(ctx, args[0])
		case "search", "s":
			if len(args) == 0 {
				cmdErr = usage("search [field] <keyword...>")
				break
			}
			cmdErr = a.Search(ctx, args)
		case "log":
			cmdErr = a.ShowLog(ctx)
		case "metrics":
			cmdErr = a.Metrics(ctx)
		case "create-auditor":
			if len(args) == 0 {
				cmdErr = usage("create-auditor <name>")
				break
			}
			cmdErr = a.CreateAuditor(ctx, strings.Join(args, " "))
		case "delete-auditor":
			if len(args) != 1 {
				cmdErr = usage("delete-auditor <id>")
				break
			}
			cmdErr = a.DeleteAuditor(ctx, args[0])
		case "logout":
			cmdErr = a.Logout(ctx)
		case "exit", "quit":
			return
		default:
			cmdErr = fmt.Errorf("unknown command %q, type 'help'", cmd)
		}

		if cmdErr != nil {
			a.Report(cmdErr)
		}
		if err != nil {
			return
		}
	}
}
