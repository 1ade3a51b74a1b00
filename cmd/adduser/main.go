package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"finance-manager/internal/app"
	"finance-manager/internal/apperr"
	"finance-manager/internal/auth"
	"finance-manager/internal/config"
)

func main() {
	if err := run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		if err == flag.ErrHelp {
			os.Exit(0)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("adduser", flag.ContinueOnError)
	fs.SetOutput(stderr)

	username := fs.String("user", "", "Account name")
	passwordFlag := fs.String("password", "", "Password (optional, will prompt if omitted)")
	dataPath := fs.String("data", "", "Path to the store file (defaults to DB_PATH or the per-user data directory)")
	backend := fs.String("backend", "", "Store backend: xml or sqlite (defaults to FINANCE_BACKEND)")

	if err := fs.Parse(args); err != nil {
		return err
	}

	if *username == "" {
		fmt.Fprintln(stdout, "Usage: adduser -user <name> [-password <password>] [-data <path>] [-backend xml|sqlite]")
		fs.PrintDefaults()
		return fmt.Errorf("missing required flags: user")
	}

	password := *passwordFlag
	if password == "" {
		fmt.Fprint(stdout, "Password: ")
		var err error
		password, err = auth.ReadPassword(stdin)
		if err != nil {
			return fmt.Errorf("failed to read password: %w", err)
		}
		fmt.Fprintln(stdout) // Print newline after password input
	}

	if strings.TrimSpace(password) == "" {
		return fmt.Errorf("password cannot be empty")
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if *dataPath != "" {
		cfg.DBPath = *dataPath
	}
	if *backend != "" {
		cfg.Backend = *backend
	}

	st, closeStore, err := cfg.OpenStore()
	if err != nil {
		return fmt.Errorf("failed to open store: %w", err)
	}
	defer closeStore()

	if err := app.New(st).Register(*username, password); err != nil {
		var weak *apperr.WeakPasswordError
		switch {
		case errors.Is(err, apperr.ErrDuplicateName):
			return fmt.Errorf("account %s already exists", *username)
		case errors.As(err, &weak):
			return fmt.Errorf("password too weak, %d of %d rules met: %s", weak.Satisfied, weak.Total, weak.Message)
		}
		return fmt.Errorf("failed to create account: %w", err)
	}

	fmt.Fprintf(stdout, "Account %s created successfully in %s\n", *username, cfg.StorePath())
	return nil
}
