// Command ledger manages personal finance records from the command line.
//
// Every command that touches records logs in with -u and -p (or a
// password prompt), runs, then logs out, which saves the store.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"finance-manager/internal/app"
	"finance-manager/internal/auth"
	"finance-manager/internal/config"
	"finance-manager/internal/report"
	"finance-manager/internal/store"

	"github.com/google/subcommands"
	"golang.org/x/term"
)

func main() {
	completion().Complete("ledger")
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr, time.Now))
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer, now func() time.Time) int {
	fs := flag.NewFlagSet("ledger", flag.ContinueOnError)
	fs.SetOutput(stderr)

	e := &env{stdin: stdin, stdout: stdout, stderr: stderr, now: now}
	fs.StringVar(&e.dataPath, "data", "", "Path to the store file (defaults to DB_PATH or the per-user data directory)")
	fs.StringVar(&e.backend, "backend", "", "Store backend: xml or sqlite (defaults to FINANCE_BACKEND)")
	fs.StringVar(&e.envFile, "env", "", "Env file to load (defaults to .env)")

	commander := subcommands.NewCommander(fs, "ledger")
	commander.Output = stdout
	commander.Error = stderr
	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.FlagsCommand(), "")
	commander.Register(commander.CommandsCommand(), "")
	for _, c := range commands(e) {
		commander.Register(c.cmd, c.group)
	}

	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return int(subcommands.ExitSuccess)
		}
		return int(subcommands.ExitUsageError)
	}
	return int(commander.Execute(context.Background()))
}

type groupedCommand struct {
	cmd   subcommands.Command
	group string
}

func commands(e *env) []groupedCommand {
	return []groupedCommand{
		{&registerCmd{env: e}, "accounts"},
		{&checkPasswordCmd{env: e}, "accounts"},
		{&noteCmd{env: e}, "accounts"},
		{&listCmd{env: e}, "records"},
		{&showCmd{env: e}, "records"},
		{&addCmd{env: e}, "records"},
		{&editCmd{env: e}, "records"},
		{&deleteCmd{env: e}, "records"},
		{&statsCmd{env: e}, "records"},
		{&exportCmd{env: e}, "files"},
		{&importCmd{env: e}, "files"},
		{&categoriesCmd{env: e}, "help"},
	}
}

// env is shared by all commands of one invocation.
type env struct {
	stdin          io.Reader
	stdout, stderr io.Writer
	now            func() time.Time

	dataPath string
	backend  string
	envFile  string
}

// open loads the configured store.
func (e *env) open() (*app.App, func() error, error) {
	var files []string
	if e.envFile != "" {
		files = append(files, e.envFile)
	}
	cfg, err := config.Load(files...)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid configuration: %w", err)
	}
	if e.dataPath != "" {
		cfg.DBPath = e.dataPath
	}
	if e.backend != "" {
		cfg.Backend = e.backend
	}

	st, closeStore, err := cfg.OpenStore(store.WithClock(e.now))
	if err != nil {
		return nil, nil, fmt.Errorf("cannot open store %s: %w", cfg.StorePath(), err)
	}
	return app.New(st, app.WithClock(e.now)), closeStore, nil
}

func (e *env) fail(err error) subcommands.ExitStatus {
	fmt.Fprintf(e.stderr, "Error: %v\n", err)
	return subcommands.ExitFailure
}

func (e *env) usage(format string, args ...any) subcommands.ExitStatus {
	fmt.Fprintf(e.stderr, "Error: "+format+"\n", args...)
	return subcommands.ExitUsageError
}

func (e *env) warn(format string, args ...any) {
	fmt.Fprintf(e.stderr, "Warning: "+format+"\n", args...)
}

// password returns given, or prompts for one when it is empty.
func (e *env) password(given string) (string, error) {
	if given != "" {
		return given, nil
	}
	fmt.Fprint(e.stderr, "Password: ")
	pw, err := auth.ReadPassword(e.stdin)
	fmt.Fprintln(e.stderr)
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	return pw, nil
}

// sessionFlags are the login flags of commands working on records.
type sessionFlags struct {
	user     string
	password string
}

func (s *sessionFlags) setFlags(f *flag.FlagSet) {
	f.StringVar(&s.user, "u", "", "Account name")
	f.StringVar(&s.password, "p", "", "Password (prompted when omitted)")
}

// withSession logs in, runs act and logs out. Logging out saves the
// store, also when act failed.
func (e *env) withSession(s sessionFlags, act func(a *app.App) error) subcommands.ExitStatus {
	if s.user == "" {
		return e.usage("missing account name (-u)")
	}
	a, closeStore, err := e.open()
	if err != nil {
		return e.fail(err)
	}
	defer closeStore()

	password, err := e.password(s.password)
	if err != nil {
		return e.fail(err)
	}
	if err := a.Login(s.user, password); err != nil {
		return e.fail(err)
	}

	actErr := act(a)
	if err := a.Logout(); err != nil {
		log.Printf("Logout error: %v", err)
		if actErr == nil {
			actErr = err
		}
	}
	if actErr != nil {
		return e.fail(actErr)
	}
	return subcommands.ExitSuccess
}

// printMarkdown renders markdown on a terminal and prints it raw
// otherwise.
func (e *env) printMarkdown(md string) {
	if f, ok := e.stdout.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		width, _, err := term.GetSize(int(f.Fd()))
		if err != nil || width <= 0 {
			width = 80
		}
		out, err := report.Render(md, width)
		if err == nil {
			fmt.Fprint(f, out)
			return
		}
		log.Printf("Render error: %v", err)
	}
	fmt.Fprintln(e.stdout, md)
}
