package codec

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"finance-manager/internal/apperr"
	"finance-manager/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleRecords() []*models.Record {
	return sampleAccounts()[0].Records
}

func TestWritePlainText(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WritePlainText(&buf, sampleRecords()))

	want := "Coffee (Expense): 3.5 Kč (Jidlo)\n" +
		"01.05.2024\t Note: .\n" +
		"...\n" +
		"\n\n\n\n" +
		"Shopping; weekly (Expense): 412.9 Kč (Domacnost)\n" +
		"04.05.2024\t Note: Tesco <& co>.\n" +
		"...\n" +
		"Milk (2 l): 24.9 Kč (Jidlo);\n" +
		"Refund (): -12 Kč (Nezarazeno);\n" +
		"Bag (): 0 Kč (Nevybrano);\n" +
		"\n\n\n\n"
	assert.Equal(t, want, buf.String())
}

func TestWriteDelimited(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteDelimited(&buf, sampleRecords()))

	want := "Coffee;Expense;3.5;Jidlo;01.05.2024;\n" +
		"\n" +
		"Shopping  weekly;Expense;412.9;Domacnost;04.05.2024;Tesco <& co>\n" +
		"Milk;2 l;24.9;Jidlo;Refund;;-12;Nezarazeno;Bag;;0;Nevybrano;\n"
	assert.Equal(t, want, buf.String())
}

func TestStructuredRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "export.xml")
	want := sampleRecords()
	require.NoError(t, ExportRecords(path, want, Structured))

	got, err := LoadRecords(path)
	require.NoError(t, err)
	require.Len(t, got, len(want))
	for i := range want {
		assert.True(t, want[i].Equal(got[i]), "record %d differs", i)
	}
}

func TestExportRecordsByFormat(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"out.txt", "out.csv", "out.xml"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(dir, name)
			format, err := FormatFromPath(path)
			require.NoError(t, err)
			require.NoError(t, ExportRecords(path, sampleRecords(), format))

			data, err := os.ReadFile(path)
			require.NoError(t, err)
			assert.Contains(t, string(data), "Coffee")
		})
	}
}

func TestExportRecordsEmptyFilename(t *testing.T) {
	err := ExportRecords("  ", sampleRecords(), PlainText)
	assert.ErrorIs(t, err, apperr.ErrEmptyFilename)

	_, err = LoadRecords("")
	assert.ErrorIs(t, err, apperr.ErrEmptyFilename)
}

func TestExportRecordsUnwritable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing-dir", "out.txt")
	err := ExportRecords(path, sampleRecords(), PlainText)
	require.Error(t, err)
	assert.Equal(t, apperr.IO, apperr.KindOf(err))
}

func TestExportStructuredRefusesUnstorableText(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.xml")
	records := sampleRecords()
	records[0].Note = "a\x01b"

	err := ExportRecords(path, records, Structured)
	require.ErrorIs(t, err, apperr.ErrInvalidText)
	assert.Equal(t, apperr.IO, apperr.KindOf(err))
	assert.NoFileExists(t, path)

	records[0].Note = "a\xffb"
	var buf bytes.Buffer
	assert.ErrorIs(t, WriteStructured(&buf, records), apperr.ErrInvalidText)
}

func TestLoadRecordsErrors(t *testing.T) {
	_, err := LoadRecords(filepath.Join(t.TempDir(), "nope.xml"))
	assert.Equal(t, apperr.IO, apperr.KindOf(err))

	path := filepath.Join(t.TempDir(), "bad.xml")
	require.NoError(t, os.WriteFile(path, []byte("not xml"), 0644))
	_, err = LoadRecords(path)
	assert.Equal(t, apperr.IO, apperr.KindOf(err))
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in   string
		want Format
	}{
		{"txt", PlainText},
		{".TXT", PlainText},
		{"csv", Delimited},
		{".xml", Structured},
	}
	for _, tt := range tests {
		got, err := ParseFormat(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}

	_, err := FormatFromPath("records.json")
	assert.Error(t, err)
	assert.Equal(t, "csv", Delimited.String())
}
