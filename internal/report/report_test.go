package report

import (
	"strings"
	"testing"
	"time"

	"finance-manager/internal/app"
	"finance-manager/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	extast "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"
)

// outline counts the headings and table body rows of a markdown text.
type outline struct {
	headings []string
	rows     int
	tables   int
}

func parseOutline(t *testing.T, src string) outline {
	t.Helper()
	content := []byte(src)
	parser := goldmark.New(goldmark.WithExtensions(extension.Table)).Parser()
	root := parser.Parse(text.NewReader(content))

	var o outline
	err := ast.Walk(root, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch n := n.(type) {
		case *ast.Heading:
			var b strings.Builder
			for i := 0; i < n.Lines().Len(); i++ {
				line := n.Lines().At(i)
				b.Write(line.Value(content))
			}
			o.headings = append(o.headings, b.String())
		case *extast.Table:
			o.tables++
		case *extast.TableRow:
			o.rows++
		}
		return ast.WalkContinue, nil
	})
	require.NoError(t, err)
	return o
}

func record(title string, date time.Time, amount string, dir models.Direction, c models.Category) *models.Record {
	r := models.NewRecord(date)
	r.Apply(models.RecordFields{
		Title:     title,
		Date:      date,
		Amount:    decimal.RequireFromString(amount),
		Direction: dir,
		Category:  c,
	})
	return r
}

func TestFormatCZK(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"0", "0.00 Kč"},
		{"3.5", "3.50 Kč"},
		{"1234.567", "1,234.57 Kč"},
		{"-12", "-12.00 Kč"},
		{"30000", "30,000.00 Kč"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatCZK(decimal.RequireFromString(tt.in)), tt.in)
	}
}

func TestRecordsMarkdown(t *testing.T) {
	may := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	records := []*models.Record{
		record("Coffee | milk", may, "3.5", models.Expense, models.Jidlo),
		record("Salary", may.AddDate(0, 0, 1), "30000", models.Income, models.Vyplata),
	}

	out := RecordsMarkdown("May", records)
	o := parseOutline(t, out)
	assert.Equal(t, []string{"May"}, o.headings)
	assert.Equal(t, 2, o.tables)
	assert.Equal(t, 3, o.rows, "two records and one totals row")
	assert.Contains(t, out, `Coffee \| milk`)
	assert.Contains(t, out, "Jídlo")
	assert.Contains(t, out, "29,996.50 Kč")
	assert.Contains(t, out, ShortID(records[0]))
}

func TestLineBreaksStayInTheirCell(t *testing.T) {
	may := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	r := record("Coffee\nand | cake\r\nto go", may, "3.5", models.Expense, models.Jidlo)
	r.Items = []models.Item{{Name: "Cake\rslice", Description: "two\nforks"}}

	out := RecordsMarkdown("May", []*models.Record{r})
	o := parseOutline(t, out)
	assert.Equal(t, 2, o.rows, "one record and one totals row")
	assert.Contains(t, out, `Coffee and \| cake to go`)

	out = RecordMarkdown(r)
	o = parseOutline(t, out)
	assert.Equal(t, []string{"Coffee and | cake to go (Expense)", "Items"}, o.headings)
	assert.Equal(t, 1, o.rows)
	assert.Contains(t, out, "Cake slice")
	assert.Contains(t, out, "two forks")
}

func TestRecordsMarkdownEmpty(t *testing.T) {
	out := RecordsMarkdown("Nothing", nil)
	o := parseOutline(t, out)
	assert.Zero(t, o.tables)
	assert.Contains(t, out, "No records.")
}

func TestRecordMarkdown(t *testing.T) {
	r := record("Shop", time.Date(2024, 5, 3, 0, 0, 0, 0, time.UTC), "120", models.Expense, models.Domacnost)
	r.Note = "weekly"
	r.Items = []models.Item{
		{Name: "Soap", Price: decimal.NewFromInt(40), Category: models.Drogerie},
		{Name: "Bread", Price: decimal.NewFromInt(80), Category: models.Jidlo, Description: "rye"},
	}

	out := RecordMarkdown(r)
	o := parseOutline(t, out)
	assert.Equal(t, []string{"Shop (Expense)", "Items"}, o.headings)
	assert.Equal(t, 2, o.rows)
	assert.Contains(t, out, r.ID.String())
	assert.Contains(t, out, "> weekly")
}

func TestDailyMarkdown(t *testing.T) {
	now := time.Date(2024, 5, 20, 12, 0, 0, 0, time.UTC)
	records := []*models.Record{
		record("a", time.Date(2024, 5, 20, 0, 0, 0, 0, time.UTC), "5", models.Expense, models.Jidlo),
		record("b", time.Date(2024, 5, 18, 0, 0, 0, 0, time.UTC), "10", models.Expense, models.Jidlo),
	}

	o := parseOutline(t, DailyMarkdown(app.GroupByDate(records, now)))
	assert.Equal(t, []string{"TODAY (-5.00 Kč)", "SAT, 18.05.2024 (-10.00 Kč)"}, o.headings)
	assert.Equal(t, 2, o.tables)
}

func TestOverviewMarkdown(t *testing.T) {
	out := OverviewMarkdown(time.May, decimal.NewFromInt(1000), decimal.NewFromInt(250))
	o := parseOutline(t, out)
	assert.Equal(t, []string{"Overview of May"}, o.headings)
	assert.Equal(t, 1, o.rows)
	assert.Contains(t, out, "750.00 Kč")
}

func TestStatisticsMarkdown(t *testing.T) {
	s := app.MonthStats{
		Year:    2024,
		Month:   time.May,
		Income:  decimal.NewFromInt(30000),
		Expense: decimal.NewFromInt(1000),
		Categories: []app.CategoryStat{
			{Category: models.Najem, Total: decimal.NewFromInt(800), Count: 1, Percentage: 80},
			{Category: models.Jidlo, Total: decimal.NewFromInt(200), Count: 2, Percentage: 20},
		},
		Prev: time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC),
		Next: time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
	}

	out := StatisticsMarkdown(s)
	o := parseOutline(t, out)
	assert.Equal(t, []string{"Statistics May 2024", "Categories"}, o.headings)
	assert.Equal(t, 3, o.rows)
	assert.Contains(t, out, "80.0%")
	assert.Contains(t, out, "Nájem")
	assert.Contains(t, out, "Previous: 04/2024, next: 06/2024")

	s.Categories = nil
	assert.Contains(t, StatisticsMarkdown(s), "No expenses.")
}

func TestRender(t *testing.T) {
	out, err := Render(RecordsMarkdown("May", []*models.Record{
		record("Coffee", time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC), "3.5", models.Expense, models.Jidlo),
	}), 100)
	require.NoError(t, err)
	assert.Contains(t, out, "May")
}
