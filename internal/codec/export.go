package codec

import (
	"bufio"
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"finance-manager/internal/apperr"
	"finance-manager/internal/models"
)

// Format selects the layout of an export file.
type Format int

const (
	PlainText Format = iota
	Delimited
	Structured
)

func (f Format) String() string {
	switch f {
	case PlainText:
		return "txt"
	case Delimited:
		return "csv"
	case Structured:
		return "xml"
	default:
		return fmt.Sprintf("Format(%d)", int(f))
	}
}

// ParseFormat parses "txt", "csv" or "xml".
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimPrefix(s, ".")) {
	case "txt", "text":
		return PlainText, nil
	case "csv":
		return Delimited, nil
	case "xml":
		return Structured, nil
	default:
		return 0, fmt.Errorf("unknown export format %q", s)
	}
}

// FormatFromPath picks the format matching the extension of path.
func FormatFromPath(path string) (Format, error) {
	return ParseFormat(filepath.Ext(path))
}

// DateLayout is the layout of dates in text exports.
const DateLayout = "02.01.2006"

// ExportRecords writes records to path in the given format, replacing any
// existing file.
func ExportRecords(path string, records []*models.Record, format Format) error {
	if strings.TrimSpace(path) == "" {
		return apperr.ErrEmptyFilename
	}
	var write func(io.Writer, []*models.Record) error
	switch format {
	case PlainText:
		write = WritePlainText
	case Delimited:
		write = WriteDelimited
	case Structured:
		write = WriteStructured
	default:
		return fmt.Errorf("unknown export format %v", format)
	}
	return apperr.IOError("export", path, writeFile(path, func(w io.Writer) error {
		return write(w, records)
	}))
}

// WritePlainText writes a human readable listing of the records and their
// items.
func WritePlainText(w io.Writer, records []*models.Record) error {
	bw := bufio.NewWriter(w)
	for _, r := range records {
		fmt.Fprintf(bw, "%s (%s): %s Kč (%s)\n", r.Title, r.Direction, r.Amount, r.Category)
		fmt.Fprintf(bw, "%s\t Note: %s.\n", r.Date.Format(DateLayout), r.Note)
		bw.WriteString("...\n")
		for _, it := range r.Items {
			fmt.Fprintf(bw, "%s (%s): %s Kč (%s);\n", it.Name, it.Description, it.Price, it.Category)
		}
		bw.WriteString("\n\n\n\n")
	}
	return bw.Flush()
}

// WriteDelimited writes two semicolon separated lines per record: the
// record fields, then the fields of all its items. Semicolons inside text
// fields are replaced by spaces; nothing else is escaped.
func WriteDelimited(w io.Writer, records []*models.Record) error {
	bw := bufio.NewWriter(w)
	for _, r := range records {
		fields := []string{
			unsemi(r.Title),
			r.Direction.String(),
			r.Amount.String(),
			r.Category.String(),
			r.Date.Format(DateLayout),
			unsemi(r.Note),
		}
		bw.WriteString(strings.Join(fields, ";"))
		bw.WriteByte('\n')

		for _, it := range r.Items {
			fields := []string{unsemi(it.Name), unsemi(it.Description), it.Price.String(), it.Category.String()}
			bw.WriteString(strings.Join(fields, ";"))
			bw.WriteByte(';')
		}
		bw.WriteByte('\n')
	}
	return bw.Flush()
}

func unsemi(s string) string { return strings.ReplaceAll(s, ";", " ") }

type recordsDocument struct {
	XMLName xml.Name         `xml:"Records"`
	Records []*models.Record `xml:"Record"`
}

// WriteStructured writes the records as an XML document that ReadRecords
// reads back without loss. Records with text XML cannot carry are refused.
func WriteStructured(w io.Writer, records []*models.Record) error {
	for _, r := range records {
		if err := r.CheckText(); err != nil {
			return fmt.Errorf("record %s: %w", r.ID, err)
		}
	}
	return encodeXML(w, recordsDocument{Records: records})
}

// ReadRecords decodes a document written by WriteStructured.
func ReadRecords(r io.Reader) ([]*models.Record, error) {
	var doc recordsDocument
	if err := xml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("cannot decode records: %w", err)
	}
	if doc.Records == nil {
		doc.Records = make([]*models.Record, 0)
	}
	return doc.Records, nil
}

// LoadRecords reads a Structured export file.
func LoadRecords(path string) ([]*models.Record, error) {
	if strings.TrimSpace(path) == "" {
		return nil, apperr.ErrEmptyFilename
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, apperr.IOError("import", path, err)
	}
	defer f.Close()

	records, err := ReadRecords(f)
	if err != nil {
		return nil, apperr.IOError("import", path, err)
	}
	return records, nil
}
