// Package config resolves where and how the account store is kept.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"strings"

	"finance-manager/internal/auth"
	"finance-manager/internal/codec"
	"finance-manager/internal/storage"
	"finance-manager/internal/store"

	"github.com/joho/godotenv"
)

const (
	BackendXML    = "xml"
	BackendSQLite = "sqlite"
)

// Config describes the store location and the password mode.
type Config struct {
	DataDir   string
	DataFile  string
	Backend   string
	Passwords string
	DBPath    string // overrides DataDir and DataFile when set
}

// Load reads the given env files (".env" when none) and then the
// environment. A missing env file is not an error.
func Load(files ...string) (*Config, error) {
	if err := godotenv.Load(files...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Printf("cannot load env file, using the environment: %v", err)
	}

	backend := strings.ToLower(getEnv("FINANCE_BACKEND", BackendXML))
	if backend != BackendXML && backend != BackendSQLite {
		return nil, fmt.Errorf("unknown backend %q", backend)
	}

	dataDir := getEnv("FINANCE_DATA_DIR", "")
	if dataDir == "" {
		path, err := codec.DefaultPath()
		if err != nil {
			return nil, err
		}
		dataDir = filepath.Dir(path)
	}

	cfg := &Config{
		DataDir:   dataDir,
		DataFile:  getEnv("FINANCE_DATA_FILE", defaultFile(backend)),
		Backend:   backend,
		Passwords: getEnv("FINANCE_PASSWORDS", "plain"),
		DBPath:    getEnv("DB_PATH", ""),
	}
	if _, err := auth.ParseMode(cfg.Passwords); err != nil {
		return nil, err
	}
	return cfg, nil
}

func defaultFile(backend string) string {
	if backend == BackendSQLite {
		return "accounts.db"
	}
	return codec.StoreFileName
}

func getEnv(key, defaultVal string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultVal
}

// StorePath is the file holding the accounts.
func (c *Config) StorePath() string {
	if c.DBPath != "" {
		return c.DBPath
	}
	return filepath.Join(c.DataDir, c.DataFile)
}

// OpenStore opens the configured backend and loads the store from it.
// The returned function releases the backend.
func (c *Config) OpenStore(opts ...store.Option) (*store.Store, func() error, error) {
	passwords, err := auth.ParseMode(c.Passwords)
	if err != nil {
		return nil, nil, err
	}
	opts = append([]store.Option{store.WithPasswords(passwords)}, opts...)

	path := c.StorePath()
	switch c.Backend {
	case BackendSQLite:
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, nil, err
		}
		db, err := storage.NewDB(path)
		if err != nil {
			return nil, nil, fmt.Errorf("cannot open database %s: %w", path, err)
		}
		st, err := store.New(db, opts...)
		if err != nil {
			db.Close()
			return nil, nil, err
		}
		return st, db.Close, nil
	default:
		st, err := store.New(codec.NewFile(path), opts...)
		if err != nil {
			return nil, nil, err
		}
		return st, func() error { return nil }, nil
	}
}
