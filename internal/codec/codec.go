// Package codec reads and writes ledger data to files.
//
// The whole account collection is kept in a single XML file. Record lists
// can additionally be exported as plain text, as semicolon separated lines
// or as XML; only the XML export can be imported back.
package codec

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log"
	"os"
	"path/filepath"

	"finance-manager/internal/apperr"
	"finance-manager/internal/models"
)

const (
	// AppDirName is the folder created under the user configuration directory.
	AppDirName = "FinanceManager"
	// StoreFileName is the name of the file holding every account.
	StoreFileName = "accounts.xml"
)

// DefaultPath returns the per-user location of the store file.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("cannot locate the user configuration directory: %w", err)
	}
	return filepath.Join(dir, AppDirName, StoreFileName), nil
}

type storeDocument struct {
	XMLName  xml.Name          `xml:"Accounts"`
	Accounts []*models.Account `xml:"Account"`
}

// File persists the account collection as XML at Path.
type File struct {
	Path string
}

// NewFile returns a File persisting to path.
func NewFile(path string) *File {
	return &File{Path: path}
}

// Load reads every account from the file. A missing file is an empty store.
func (f *File) Load() ([]*models.Account, error) {
	r, err := os.Open(f.Path)
	if errors.Is(err, fs.ErrNotExist) {
		log.Printf("store file %s does not exist, starting with an empty store", f.Path)
		return make([]*models.Account, 0), nil
	}
	if err != nil {
		return nil, apperr.IOError("load", f.Path, err)
	}
	defer r.Close()

	accounts, err := DecodeAccounts(r)
	if err != nil {
		return nil, apperr.IOError("load", f.Path, err)
	}
	return accounts, nil
}

// Save overwrites the file with the given accounts, creating its directory
// if needed.
func (f *File) Save(accounts []*models.Account) error {
	if err := os.MkdirAll(filepath.Dir(f.Path), 0755); err != nil {
		return apperr.IOError("save", f.Path, err)
	}
	return apperr.IOError("save", f.Path, writeFile(f.Path, func(w io.Writer) error {
		return EncodeAccounts(w, accounts)
	}))
}

// EncodeAccounts writes the account collection as an XML document. Text
// that XML cannot carry is refused instead of being replaced.
func EncodeAccounts(w io.Writer, accounts []*models.Account) error {
	for _, a := range accounts {
		if err := a.CheckText(); err != nil {
			return err
		}
	}
	return encodeXML(w, storeDocument{Accounts: accounts})
}

// DecodeAccounts reads an account collection written by EncodeAccounts.
func DecodeAccounts(r io.Reader) ([]*models.Account, error) {
	var doc storeDocument
	if err := xml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("cannot decode accounts: %w", err)
	}
	if doc.Accounts == nil {
		doc.Accounts = make([]*models.Account, 0)
	}
	return doc.Accounts, nil
}

func encodeXML(w io.Writer, v any) error {
	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := enc.Encode(v); err != nil {
		return err
	}
	if err := enc.Close(); err != nil {
		return err
	}
	_, err := io.WriteString(w, "\n")
	return err
}

// writeFile renders the content with write and only then replaces path,
// so a failed write leaves the previous file alone.
func writeFile(path string, write func(io.Writer) error) error {
	var buf bytes.Buffer
	if err := write(&buf); err != nil {
		return err
	}
	return os.WriteFile(path, buf.Bytes(), 0644)
}
