// Package store holds every account in memory, tracks the logged in
// account and applies record changes to it. Changes reach the backing
// persister on Register, Save and Logout.
package store

import (
	"strings"
	"time"

	"finance-manager/internal/apperr"
	"finance-manager/internal/auth"
	"finance-manager/internal/codec"
	"finance-manager/internal/models"

	"github.com/google/uuid"
)

// Persister reads and writes the whole account collection.
type Persister interface {
	Load() ([]*models.Account, error)
	Save([]*models.Account) error
}

// duplicateThreshold is exceeded only when all compared fields match.
const duplicateThreshold = 5

// Store owns the account collection and the session.
type Store struct {
	persister   Persister
	passwords   auth.Passwords
	now         func() time.Time
	loadRecords func(path string) ([]*models.Record, error)

	accounts []*models.Account
	active   *models.Account
}

// Option configures a Store.
type Option func(*Store)

// WithPasswords sets how passwords are stored and compared. Verbatim by
// default.
func WithPasswords(p auth.Passwords) Option {
	return func(s *Store) { s.passwords = p }
}

// WithClock sets the clock used to stamp new records.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithRecordLoader sets how import files are read.
func WithRecordLoader(load func(path string) ([]*models.Record, error)) Option {
	return func(s *Store) { s.loadRecords = load }
}

// New loads all accounts through p. A load failure is returned as is and
// no store is created, so a damaged file is never overwritten.
func New(p Persister, opts ...Option) (*Store, error) {
	s := &Store{
		persister:   p,
		passwords:   auth.Plain{},
		now:         time.Now,
		loadRecords: codec.LoadRecords,
	}
	for _, opt := range opts {
		opt(s)
	}

	accounts, err := p.Load()
	if err != nil {
		return nil, err
	}
	if accounts == nil {
		accounts = make([]*models.Account, 0)
	}
	s.accounts = accounts
	return s, nil
}

// Accounts returns every account in store order. Callers must not modify
// the slice.
func (s *Store) Accounts() []*models.Account {
	return s.accounts
}

func (s *Store) find(name string) *models.Account {
	for _, a := range s.accounts {
		if a.Name == name {
			return a
		}
	}
	return nil
}

// Register creates an account and saves the store. An IO error means the
// account exists in memory but not on disk.
func (s *Store) Register(name, password string) error {
	if s.find(name) != nil {
		return apperr.ErrDuplicateName
	}
	if err := models.CheckText("account name", name); err != nil {
		return err
	}
	if err := models.CheckText("password", password); err != nil {
		return err
	}
	sealed, err := s.passwords.Seal(password)
	if err != nil {
		return err
	}
	s.accounts = append(s.accounts, models.NewAccount(name, sealed))
	return s.Save()
}

// Login activates the first account named name if password matches it.
// On failure the current session is left as it was.
func (s *Store) Login(name, password string) error {
	a := s.find(name)
	if a == nil {
		return apperr.ErrUserNotFound
	}
	if !s.passwords.Match(a.Password, password) {
		return apperr.ErrWrongPassword
	}
	s.active = a
	return nil
}

// Logout saves the store and ends the session. The session ends even when
// the save fails; the save error is returned.
func (s *Store) Logout() error {
	err := s.Save()
	s.active = nil
	return err
}

// Save writes all accounts through the persister.
func (s *Store) Save() error {
	return s.persister.Save(s.accounts)
}

// IsActiveAccount reports whether name is the logged in account.
func (s *Store) IsActiveAccount(name string) bool {
	return s.active != nil && s.active.Name == name
}

// ActiveName returns the name of the logged in account, or "".
func (s *Store) ActiveName() string {
	if s.active == nil {
		return ""
	}
	return s.active.Name
}

func (s *Store) session() (*models.Account, error) {
	if s.active == nil {
		return nil, apperr.ErrNoSession
	}
	return s.active, nil
}

// Records returns the record list of the active account itself, not a
// copy. It is nil without a session.
func (s *Store) Records() []*models.Record {
	if s.active == nil {
		return nil
	}
	return s.active.Records
}

// SetRecords replaces the record list of the active account.
func (s *Store) SetRecords(records []*models.Record) error {
	a, err := s.session()
	if err != nil {
		return err
	}
	a.Records = records
	return nil
}

func (s *Store) Note() string {
	if s.active == nil {
		return ""
	}
	return s.active.Note
}

func (s *Store) SetNote(note string) error {
	a, err := s.session()
	if err != nil {
		return err
	}
	if err := models.CheckText("note", note); err != nil {
		return err
	}
	a.Note = note
	return nil
}

func (s *Store) NoteVisible() bool {
	return s.active != nil && s.active.NoteVisible
}

func (s *Store) SetNoteVisible(visible bool) error {
	a, err := s.session()
	if err != nil {
		return err
	}
	a.NoteVisible = visible
	return nil
}

// NewRecord returns an empty record stamped with the store clock.
func (s *Store) NewRecord() *models.Record {
	return models.NewRecord(s.now())
}

// AddRecordAsNew appends r to the active account.
func (s *Store) AddRecordAsNew(r *models.Record) error {
	a, err := s.session()
	if err != nil {
		return err
	}
	if r == nil {
		return apperr.ErrArgumentMissing
	}
	if err := r.CheckText(); err != nil {
		return err
	}
	a.Records = append(a.Records, r)
	return nil
}

func (s *Store) indexOf(a *models.Account, r *models.Record) int {
	for i, existing := range a.Records {
		if existing == r {
			return i
		}
	}
	return -1
}

// DeleteRecord removes r from the active account.
func (s *Store) DeleteRecord(r *models.Record) error {
	a, err := s.session()
	if err != nil {
		return err
	}
	if r == nil {
		return apperr.ErrArgumentMissing
	}
	i := s.indexOf(a, r)
	if i < 0 {
		return apperr.ErrRecordNotFound
	}
	a.Records = append(a.Records[:i:i], a.Records[i+1:]...)
	return nil
}

// UpdateRecord overwrites the editable fields of r, which must belong to
// the active account.
func (s *Store) UpdateRecord(r *models.Record, f models.RecordFields) error {
	a, err := s.session()
	if err != nil {
		return err
	}
	if r == nil {
		return apperr.ErrArgumentMissing
	}
	if s.indexOf(a, r) < 0 {
		return apperr.ErrRecordNotFound
	}
	if err := f.CheckText(); err != nil {
		return err
	}
	r.Apply(f)
	return nil
}

// FindRecord returns the record of the active account whose ID starts
// with prefix. An ambiguous or unknown prefix is ErrRecordNotFound.
func (s *Store) FindRecord(prefix string) (*models.Record, error) {
	a, err := s.session()
	if err != nil {
		return nil, err
	}
	prefix = strings.ToLower(strings.TrimSpace(prefix))
	if prefix == "" {
		return nil, apperr.ErrArgumentMissing
	}
	var found *models.Record
	for _, r := range a.Records {
		if strings.HasPrefix(r.ID.String(), prefix) {
			if found != nil {
				return nil, apperr.ErrRecordNotFound
			}
			found = r
		}
	}
	if found == nil {
		return nil, apperr.ErrRecordNotFound
	}
	return found, nil
}

// IsDuplicateRecord reports whether the active account holds a record
// equal to candidate in title, date, amount, note, category and direction.
// Items are not compared.
func (s *Store) IsDuplicateRecord(candidate *models.Record) bool {
	if s.active == nil || candidate == nil {
		return false
	}
	for _, r := range s.active.Records {
		if matchingFields(r, candidate) > duplicateThreshold {
			return true
		}
	}
	return false
}

func matchingFields(a, b *models.Record) int {
	n := 0
	for _, eq := range []bool{
		a.Title == b.Title,
		a.Date.Equal(b.Date),
		a.Amount.Equal(b.Amount),
		a.Note == b.Note,
		a.Category == b.Category,
		a.Direction == b.Direction,
	} {
		if eq {
			n++
		}
	}
	return n
}

// ImportRecords reads records from a structured export at path and
// appends those that are not duplicates. With replace the account's
// records are cleared first, once the file was read successfully.
func (s *Store) ImportRecords(path string, replace bool) (added, total int, err error) {
	a, err := s.session()
	if err != nil {
		return 0, 0, err
	}
	records, err := s.loadRecords(path)
	if err != nil {
		return 0, 0, err
	}
	if replace {
		a.Records = make([]*models.Record, 0, len(records))
	}

	ids := make(map[uuid.UUID]bool, len(a.Records))
	for _, r := range a.Records {
		ids[r.ID] = true
	}
	for _, r := range records {
		if s.IsDuplicateRecord(r) {
			continue
		}
		if ids[r.ID] {
			r.ID = uuid.New()
		}
		ids[r.ID] = true
		a.Records = append(a.Records, r)
		added++
	}
	return added, len(records), nil
}
