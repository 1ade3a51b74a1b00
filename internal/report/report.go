// Package report renders records and summaries as markdown.
package report

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
	"time"

	"finance-manager/internal/app"
	"finance-manager/internal/models"
	"finance-manager/internal/search"

	"github.com/Rhymond/go-money"
	"github.com/charmbracelet/glamour"
	md "github.com/nao1215/markdown"
	"github.com/shopspring/decimal"
)

// FormatCZK formats an amount in Czech crowns, rounded to hellers.
func FormatCZK(amount decimal.Decimal) string {
	// money.New is the only way to get a non nil currency.
	cur := *money.New(0, money.CZK).Currency()
	minor := amount.Round(int32(cur.Fraction)).Shift(int32(cur.Fraction))
	return cur.Formatter().Format(minor.IntPart())
}

// ShortID is the record ID prefix shown in listings.
func ShortID(r *models.Record) string {
	return r.ID.String()[:8]
}

var lineBreaks = strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ")

// oneLine keeps user text from breaking out of a heading or table row.
func oneLine(s string) string {
	return lineBreaks.Replace(s)
}

// cell escapes text for a table cell.
func cell(s string) string {
	return strings.ReplaceAll(oneLine(s), "|", `\|`)
}

func recordRow(r *models.Record) []string {
	return []string{
		ShortID(r),
		r.Date.Format("02.01.2006"),
		cell(r.Title),
		r.Direction.String(),
		FormatCZK(r.Amount),
		r.Category.DisplayName(),
		strconv.Itoa(len(r.Items)),
	}
}

var recordHeader = []string{"ID", "Date", "Title", "Direction", "Amount", "Category", "Items"}

func writeTotals(doc *md.Markdown, income, expense decimal.Decimal) {
	doc.Table(md.TableSet{
		Header: []string{"Income", "Expense", "Balance"},
		Rows: [][]string{{
			FormatCZK(income),
			FormatCZK(expense),
			FormatCZK(income.Sub(expense)),
		}},
	})
}

// RecordsMarkdown lists records in a table followed by their totals.
func RecordsMarkdown(title string, records []*models.Record) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H1(title)
	if len(records) == 0 {
		doc.PlainText("No records.")
		return doc.String()
	}

	rows := make([][]string, 0, len(records))
	for _, r := range records {
		rows = append(rows, recordRow(r))
	}
	doc.Table(md.TableSet{Header: recordHeader, Rows: rows})

	income, expense := search.Totals(records)
	writeTotals(doc, income, expense)
	return doc.String()
}

// RecordMarkdown shows one record with its items.
func RecordMarkdown(r *models.Record) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H1f("%s (%s)", oneLine(r.Title), r.Direction)
	doc.BulletList(
		"ID: "+r.ID.String(),
		"Date: "+r.Date.Format("02.01.2006"),
		"Amount: "+FormatCZK(r.Amount),
		"Category: "+r.Category.DisplayName(),
		"Created: "+r.CreatedAt.Format("02.01.2006 15:04"),
	)
	if r.Note != "" {
		doc.Blockquote(r.Note)
	}
	if len(r.Items) > 0 {
		doc.H2("Items")
		rows := make([][]string, 0, len(r.Items))
		for _, it := range r.Items {
			rows = append(rows, []string{cell(it.Name), cell(it.Description), FormatCZK(it.Price), it.Category.DisplayName()})
		}
		doc.Table(md.TableSet{Header: []string{"Name", "Description", "Price", "Category"}, Rows: rows})
	}
	return doc.String()
}

// DailyMarkdown renders records grouped by day.
func DailyMarkdown(groups []app.RecordGroup) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	for _, g := range groups {
		doc.H2f("%s (%s)", g.Title, FormatCZK(g.Total))
		rows := make([][]string, 0, len(g.Records))
		for _, r := range g.Records {
			rows = append(rows, recordRow(r))
		}
		doc.Table(md.TableSet{Header: recordHeader, Rows: rows})
	}
	return doc.String()
}

// OverviewMarkdown summarizes the income and expenses of a month.
func OverviewMarkdown(month time.Month, income, expense decimal.Decimal) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H1(fmt.Sprintf("Overview of %s", month))
	writeTotals(doc, income, expense)
	return doc.String()
}

// StatisticsMarkdown renders the spending of a month by category.
func StatisticsMarkdown(s app.MonthStats) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H1f("Statistics %s %d", s.Month, s.Year)
	writeTotals(doc, s.Income, s.Expense)

	doc.H2("Categories")
	if len(s.Categories) == 0 {
		doc.PlainText("No expenses.")
	} else {
		rows := make([][]string, 0, len(s.Categories))
		for _, c := range s.Categories {
			rows = append(rows, []string{
				c.Category.DisplayName(),
				FormatCZK(c.Total),
				strconv.Itoa(c.Count),
				fmt.Sprintf("%.1f%%", c.Percentage),
			})
		}
		doc.Table(md.TableSet{Header: []string{"Category", "Total", "Count", "Share"}, Rows: rows})
	}

	doc.PlainTextf("Previous: %s, next: %s", s.Prev.Format("01/2006"), s.Next.Format("01/2006"))
	return doc.String()
}

// Render formats markdown for a terminal of the given width.
func Render(markdown string, width int) (string, error) {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return "", err
	}
	return r.Render(markdown)
}
