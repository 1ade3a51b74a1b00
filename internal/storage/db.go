// Package storage keeps the account store in a SQLite database. It is an
// alternative to the XML store file with the same whole-collection
// load/save contract.
package storage

import (
	"database/sql"
	"fmt"
	"time"

	"finance-manager/internal/apperr"
	"finance-manager/internal/models"

	// Import sqlite driver
	_ "modernc.org/sqlite"
)

// DB wraps a sql.DB connection.
type DB struct {
	conn *sql.DB
	path string
}

// NewDB opens a database connection and runs migrations.
func NewDB(path string) (*DB, error) {
	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// A single connection keeps ":memory:" databases alive and serializes
	// writers.
	conn.SetMaxOpenConns(1)

	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, err
	}

	db := &DB{conn: conn, path: path}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, err
	}

	return db, nil
}

func (db *DB) migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS accounts (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			position INTEGER NOT NULL,
			name TEXT UNIQUE NOT NULL,
			password TEXT NOT NULL,
			note TEXT NOT NULL DEFAULT '',
			note_visible INTEGER NOT NULL DEFAULT 0
		)`,
		`CREATE TABLE IF NOT EXISTS records (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			account_id INTEGER NOT NULL,
			position INTEGER NOT NULL,
			uuid TEXT NOT NULL,
			title TEXT NOT NULL,
			created_at TEXT NOT NULL,
			date TEXT NOT NULL,
			amount TEXT NOT NULL,
			direction INTEGER NOT NULL,
			note TEXT NOT NULL,
			category INTEGER NOT NULL,
			FOREIGN KEY (account_id) REFERENCES accounts(id) ON DELETE CASCADE
		)`,
		`CREATE TABLE IF NOT EXISTS items (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			record_id INTEGER NOT NULL,
			position INTEGER NOT NULL,
			name TEXT NOT NULL,
			price TEXT NOT NULL,
			category INTEGER NOT NULL,
			description TEXT NOT NULL,
			FOREIGN KEY (record_id) REFERENCES records(id) ON DELETE CASCADE
		)`,
	}

	for _, m := range migrations {
		if _, err := db.conn.Exec(m); err != nil {
			return err
		}
	}
	return nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

// Save replaces the database content with the given accounts.
func (db *DB) Save(accounts []*models.Account) error {
	return apperr.IOError("save", db.path, db.save(accounts))
}

func (db *DB) save(accounts []*models.Account) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, table := range []string{"items", "records", "accounts"} {
		if _, err := tx.Exec("DELETE FROM " + table); err != nil {
			return err
		}
	}

	for i, a := range accounts {
		res, err := tx.Exec(
			"INSERT INTO accounts (position, name, password, note, note_visible) VALUES (?, ?, ?, ?, ?)",
			i, a.Name, a.Password, a.Note, a.NoteVisible,
		)
		if err != nil {
			return fmt.Errorf("cannot insert account %q: %w", a.Name, err)
		}
		accountID, err := res.LastInsertId()
		if err != nil {
			return err
		}
		for j, r := range a.Records {
			if err := insertRecord(tx, accountID, j, r); err != nil {
				return fmt.Errorf("cannot insert record %q of %q: %w", r.Title, a.Name, err)
			}
		}
	}
	return tx.Commit()
}

func insertRecord(tx *sql.Tx, accountID int64, position int, r *models.Record) error {
	res, err := tx.Exec(
		`INSERT INTO records (account_id, position, uuid, title, created_at, date, amount, direction, note, category)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		accountID, position, r.ID.String(), r.Title,
		r.CreatedAt.Format(time.RFC3339Nano), r.Date.Format(time.RFC3339Nano),
		r.Amount.String(), int(r.Direction), r.Note, int(r.Category),
	)
	if err != nil {
		return err
	}
	recordID, err := res.LastInsertId()
	if err != nil {
		return err
	}
	for k, it := range r.Items {
		_, err := tx.Exec(
			"INSERT INTO items (record_id, position, name, price, category, description) VALUES (?, ?, ?, ?, ?, ?)",
			recordID, k, it.Name, it.Price.String(), int(it.Category), it.Description,
		)
		if err != nil {
			return err
		}
	}
	return nil
}

// Load reads every account with its records and items, in saved order.
func (db *DB) Load() ([]*models.Account, error) {
	accounts, err := db.load()
	if err != nil {
		return nil, apperr.IOError("load", db.path, err)
	}
	return accounts, nil
}

func (db *DB) load() ([]*models.Account, error) {
	accounts := make([]*models.Account, 0)
	byAccount := make(map[int64]*models.Account)
	rows, err := db.conn.Query("SELECT id, name, password, note, note_visible FROM accounts ORDER BY position")
	if err != nil {
		return nil, err
	}
	for rows.Next() {
		var id int64
		a := models.NewAccount("", "")
		if err := rows.Scan(&id, &a.Name, &a.Password, &a.Note, &a.NoteVisible); err != nil {
			rows.Close()
			return nil, err
		}
		accounts = append(accounts, a)
		byAccount[id] = a
	}
	if err := closeRows(rows); err != nil {
		return nil, err
	}

	byRecord := make(map[int64]*models.Record)
	rows, err = db.conn.Query(`
		SELECT id, account_id, uuid, title, created_at, date, amount, direction, note, category
		FROM records ORDER BY account_id, position
	`)
	if err != nil {
		return nil, err
	}
	for rows.Next() {
		var (
			id, accountID       int64
			uid, created, date  string
			direction, category int
			r                   models.Record
		)
		if err := rows.Scan(&id, &accountID, &uid, &r.Title, &created, &date, &r.Amount, &direction, &r.Note, &category); err != nil {
			rows.Close()
			return nil, err
		}
		if err := fillRecord(&r, uid, created, date, direction, category); err != nil {
			rows.Close()
			return nil, fmt.Errorf("record %d: %w", id, err)
		}
		a, ok := byAccount[accountID]
		if !ok {
			rows.Close()
			return nil, fmt.Errorf("record %d belongs to unknown account %d", id, accountID)
		}
		a.Records = append(a.Records, &r)
		byRecord[id] = &r
	}
	if err := closeRows(rows); err != nil {
		return nil, err
	}

	rows, err = db.conn.Query("SELECT record_id, name, price, category, description FROM items ORDER BY record_id, position")
	if err != nil {
		return nil, err
	}
	for rows.Next() {
		var (
			recordID int64
			category int
			it       models.Item
		)
		if err := rows.Scan(&recordID, &it.Name, &it.Price, &category, &it.Description); err != nil {
			rows.Close()
			return nil, err
		}
		it.Category = models.Category(category)
		r, ok := byRecord[recordID]
		if !ok {
			rows.Close()
			return nil, fmt.Errorf("item %q belongs to unknown record %d", it.Name, recordID)
		}
		r.Items = append(r.Items, it)
	}
	if err := closeRows(rows); err != nil {
		return nil, err
	}
	return accounts, nil
}

func fillRecord(r *models.Record, uid, created, date string, direction, category int) error {
	var err error
	if err = r.ID.UnmarshalText([]byte(uid)); err != nil {
		return err
	}
	if r.CreatedAt, err = time.Parse(time.RFC3339Nano, created); err != nil {
		return err
	}
	if r.Date, err = time.Parse(time.RFC3339Nano, date); err != nil {
		return err
	}
	r.Direction = models.Direction(direction)
	r.Category = models.Category(category)
	if !r.Category.Valid() {
		return fmt.Errorf("invalid category %d", category)
	}
	return nil
}

func closeRows(rows *sql.Rows) error {
	if err := rows.Err(); err != nil {
		rows.Close()
		return err
	}
	return rows.Close()
}
