package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"time"

	"finance-manager/internal/app"
	"finance-manager/internal/apperr"
	"finance-manager/internal/auth"
	"finance-manager/internal/codec"
	"finance-manager/internal/models"
	"finance-manager/internal/report"
	"finance-manager/internal/search"

	"github.com/google/subcommands"
)

type registerCmd struct {
	*env
	session sessionFlags
}

func (*registerCmd) Name() string     { return "register" }
func (*registerCmd) Synopsis() string { return "create an account" }
func (*registerCmd) Usage() string {
	return `ledger register -u <name> [-p <password>]

  Creates an account. The password must pass the strength check.
`
}

func (c *registerCmd) SetFlags(f *flag.FlagSet) { c.session.setFlags(f) }

func (c *registerCmd) Execute(ctx context.Context, f *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
	if c.session.user == "" {
		return c.usage("missing account name (-u)")
	}
	a, closeStore, err := c.open()
	if err != nil {
		return c.fail(err)
	}
	defer closeStore()

	password, err := c.password(c.session.password)
	if err != nil {
		return c.fail(err)
	}
	if err := a.Register(c.session.user, password); err != nil {
		var weak *apperr.WeakPasswordError
		if errors.As(err, &weak) {
			fmt.Fprintf(c.stderr, "Password meets %d of %d rules: %s\n", weak.Satisfied, weak.Total, weak.Message)
		}
		return c.fail(err)
	}
	fmt.Fprintf(c.stdout, "Account %s registered\n", c.session.user)
	return subcommands.ExitSuccess
}

type checkPasswordCmd struct {
	*env
}

func (*checkPasswordCmd) Name() string     { return "check-password" }
func (*checkPasswordCmd) Synopsis() string { return "rate the strength of a password" }
func (*checkPasswordCmd) Usage() string {
	return `ledger check-password [<password>]

  Rates a password (prompted when omitted). Exits with a failure status
  when the password would be refused at registration.
`
}

func (*checkPasswordCmd) SetFlags(*flag.FlagSet) {}

func (c *checkPasswordCmd) Execute(ctx context.Context, f *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
	given := ""
	if f.NArg() > 0 {
		given = f.Arg(0)
	}
	password, err := c.password(given)
	if err != nil {
		return c.fail(err)
	}
	s := auth.CheckStrength(password)
	verdict := "weak"
	if s.OK {
		verdict = "ok"
	}
	fmt.Fprintf(c.stdout, "%s (%d/%d): %s\n", verdict, s.Satisfied, s.Total, s.Message)
	if !s.OK {
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

type noteCmd struct {
	*env
	session sessionFlags
	text    string
	show    bool
	hide    bool
}

func (*noteCmd) Name() string     { return "note" }
func (*noteCmd) Synopsis() string { return "show or change the account note" }
func (*noteCmd) Usage() string {
	return `ledger note -u <name> [-set <text>] [-show | -hide]

  Prints the account note, after changing it or its visibility.
`
}

func (c *noteCmd) SetFlags(f *flag.FlagSet) {
	c.session.setFlags(f)
	f.StringVar(&c.text, "set", "", "New note text")
	f.BoolVar(&c.show, "show", false, "Show the note in listings")
	f.BoolVar(&c.hide, "hide", false, "Hide the note in listings")
}

func (c *noteCmd) Execute(ctx context.Context, f *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
	if c.show && c.hide {
		return c.usage("-show and -hide exclude each other")
	}
	set := setFlags(f)
	return c.withSession(c.session, func(a *app.App) error {
		st := a.Store()
		if set["set"] {
			if err := st.SetNote(c.text); err != nil {
				return err
			}
		}
		if c.show || c.hide {
			if err := st.SetNoteVisible(c.show); err != nil {
				return err
			}
		}
		visibility := "hidden"
		if st.NoteVisible() {
			visibility = "visible"
		}
		fmt.Fprintf(c.stdout, "Note (%s): %s\n", visibility, st.Note())
		return nil
	})
}

type listCmd struct {
	*env
	session sessionFlags
	filters filterFlags
	daily   bool
}

func (*listCmd) Name() string     { return "list" }
func (*listCmd) Synopsis() string { return "list records" }
func (*listCmd) Usage() string {
	return `ledger list -u <name> [filter] [-daily]

  Lists the records of the account, newest first. A filter that matches
  nothing lists every record instead.
`
}

func (c *listCmd) SetFlags(f *flag.FlagSet) {
	c.session.setFlags(f)
	c.filters.setFlags(f)
	f.BoolVar(&c.daily, "daily", false, "Group records by day")
}

func (c *listCmd) Execute(ctx context.Context, f *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
	filter, err := c.filters.filter(c.now().Location())
	if err != nil {
		return c.usage("%v", err)
	}
	return c.withSession(c.session, func(a *app.App) error {
		if err := c.applyFilter(a, filter); err != nil {
			return err
		}
		st := a.Store()
		if st.NoteVisible() && st.Note() != "" {
			fmt.Fprintf(c.stdout, "Note: %s\n\n", st.Note())
		}

		records := search.SortDescendingByDate(a.Displayed())
		if c.daily {
			c.printMarkdown(report.DailyMarkdown(app.GroupByDate(records, c.now())))
		} else {
			c.printMarkdown(report.RecordsMarkdown("Records of "+st.ActiveName(), records))
		}
		if c.filters.month {
			income, expense := a.MonthOverview()
			c.printMarkdown(report.OverviewMarkdown(c.now().Month(), income, expense))
		}
		return nil
	})
}

// recordArg resolves the record ID prefix given as first argument and
// selects the record.
func recordArg(a *app.App, f *flag.FlagSet) (*models.Record, error) {
	if f.NArg() < 1 {
		return nil, apperr.ErrArgumentMissing
	}
	r, err := a.Store().FindRecord(f.Arg(0))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", f.Arg(0), err)
	}
	return r, a.Select(r)
}

type showCmd struct {
	*env
	session sessionFlags
}

func (*showCmd) Name() string     { return "show" }
func (*showCmd) Synopsis() string { return "show a record with its items" }
func (*showCmd) Usage() string {
	return `ledger show -u <name> <record-id>

  Record IDs may be shortened to any unique prefix.
`
}

func (c *showCmd) SetFlags(f *flag.FlagSet) { c.session.setFlags(f) }

func (c *showCmd) Execute(ctx context.Context, f *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
	return c.withSession(c.session, func(a *app.App) error {
		r, err := recordArg(a, f)
		if err != nil {
			return err
		}
		c.printMarkdown(report.RecordMarkdown(r))
		return nil
	})
}

type addCmd struct {
	*env
	session sessionFlags
	record  recordFlags
}

func (*addCmd) Name() string     { return "add" }
func (*addCmd) Synopsis() string { return "add a record" }
func (*addCmd) Usage() string {
	return `ledger add -u <name> -title <title> -amount <amount> [-date <date>] [-income]
           [-note <note>] [-category <category>] [-item <item>]...

  Adds an expense, or an income with -income.
`
}

func (c *addCmd) SetFlags(f *flag.FlagSet) {
	c.session.setFlags(f)
	c.record.setFlags(f)
}

func (c *addCmd) Execute(ctx context.Context, f *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
	set := setFlags(f)
	if !set["amount"] {
		return c.usage("missing amount (-amount)")
	}
	return c.withSession(c.session, func(a *app.App) error {
		d := a.NewDraft()
		fields := d.Fields()
		if err := c.record.apply(&fields, set, c.now().Location()); err != nil {
			return err
		}
		d.Set(fields)
		for _, it := range c.record.items {
			d.AddItem(it)
		}

		candidate := models.NewRecord(c.now())
		candidate.Apply(fields)
		if a.Store().IsDuplicateRecord(candidate) {
			c.warn("an identical record already exists")
		}

		r, err := a.Commit(d)
		if err != nil {
			return err
		}
		fmt.Fprintf(c.stdout, "Added record %s\n", report.ShortID(r))
		return nil
	})
}

type editCmd struct {
	*env
	session    sessionFlags
	record     recordFlags
	removeItem int
}

func (*editCmd) Name() string     { return "edit" }
func (*editCmd) Synopsis() string { return "change a record" }
func (*editCmd) Usage() string {
	return `ledger edit -u <name> [record flags] [-remove-item <n>] [-item <item>]... <record-id>

  Changes only the fields given. -remove-item removes the n-th item,
  counting from 1, before new items are added.
`
}

func (c *editCmd) SetFlags(f *flag.FlagSet) {
	c.session.setFlags(f)
	c.record.setFlags(f)
	f.IntVar(&c.removeItem, "remove-item", 0, "Remove the n-th item")
}

func (c *editCmd) Execute(ctx context.Context, f *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
	set := setFlags(f)
	return c.withSession(c.session, func(a *app.App) error {
		if _, err := recordArg(a, f); err != nil {
			return err
		}
		d, err := a.EditSelected()
		if err != nil {
			return err
		}
		fields := d.Fields()
		if err := c.record.apply(&fields, set, c.now().Location()); err != nil {
			return err
		}
		d.Set(fields)
		if c.removeItem > 0 {
			if err := d.SelectItem(c.removeItem - 1); err != nil {
				return fmt.Errorf("item %d: %w", c.removeItem, err)
			}
			if err := d.RemoveSelectedItem(); err != nil {
				return err
			}
		}
		for _, it := range c.record.items {
			d.AddItem(it)
		}

		r, err := a.Commit(d)
		if err != nil {
			return err
		}
		c.printMarkdown(report.RecordMarkdown(r))
		return nil
	})
}

type deleteCmd struct {
	*env
	session sessionFlags
}

func (*deleteCmd) Name() string     { return "delete" }
func (*deleteCmd) Synopsis() string { return "delete a record" }
func (*deleteCmd) Usage() string {
	return `ledger delete -u <name> <record-id>
`
}

func (c *deleteCmd) SetFlags(f *flag.FlagSet) { c.session.setFlags(f) }

func (c *deleteCmd) Execute(ctx context.Context, f *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
	return c.withSession(c.session, func(a *app.App) error {
		r, err := recordArg(a, f)
		if err != nil {
			return err
		}
		if err := a.DeleteSelected(); err != nil {
			return err
		}
		fmt.Fprintf(c.stdout, "Deleted record %s (%s)\n", report.ShortID(r), r.Title)
		return nil
	})
}

type statsCmd struct {
	*env
	session sessionFlags
	year    int
	month   int
}

func (*statsCmd) Name() string     { return "stats" }
func (*statsCmd) Synopsis() string { return "show spending by category for a month" }
func (*statsCmd) Usage() string {
	return `ledger stats -u <name> [-year <year>] [-month <1-12>]

  Defaults to the current month.
`
}

func (c *statsCmd) SetFlags(f *flag.FlagSet) {
	c.session.setFlags(f)
	f.IntVar(&c.year, "year", 0, "Year")
	f.IntVar(&c.month, "month", 0, "Month, 1 to 12")
}

func (c *statsCmd) Execute(ctx context.Context, f *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
	now := c.now()
	year, month := now.Year(), now.Month()
	if c.year != 0 {
		year = c.year
	}
	if c.month != 0 {
		if c.month < 1 || c.month > 12 {
			return c.usage("invalid month %d", c.month)
		}
		month = time.Month(c.month)
	}
	return c.withSession(c.session, func(a *app.App) error {
		stats, err := a.Statistics(year, month)
		if err != nil {
			return err
		}
		c.printMarkdown(report.StatisticsMarkdown(stats))
		return nil
	})
}

type exportCmd struct {
	*env
	session sessionFlags
	filters filterFlags
	format  string
}

func (*exportCmd) Name() string     { return "export" }
func (*exportCmd) Synopsis() string { return "export records to a file" }
func (*exportCmd) Usage() string {
	return `ledger export -u <name> [filter] [-format txt|csv|xml] <path>

  Writes the listed records. The format defaults to the file extension;
  only xml exports can be imported again.
`
}

func (c *exportCmd) SetFlags(f *flag.FlagSet) {
	c.session.setFlags(f)
	c.filters.setFlags(f)
	f.StringVar(&c.format, "format", "", "Export format: txt, csv or xml")
}

func (c *exportCmd) Execute(ctx context.Context, f *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
	if f.NArg() < 1 {
		return c.usage("%v", apperr.ErrEmptyFilename)
	}
	path := f.Arg(0)
	var (
		format codec.Format
		err    error
	)
	if c.format != "" {
		format, err = codec.ParseFormat(c.format)
	} else {
		format, err = codec.FormatFromPath(path)
	}
	if err != nil {
		return c.usage("%v", err)
	}
	filter, err := c.filters.filter(c.now().Location())
	if err != nil {
		return c.usage("%v", err)
	}

	return c.withSession(c.session, func(a *app.App) error {
		if err := c.applyFilter(a, filter); err != nil {
			return err
		}
		if err := a.Export(path, format); err != nil {
			return err
		}
		fmt.Fprintf(c.stdout, "Exported %d records to %s\n", len(a.Displayed()), path)
		return nil
	})
}

type importCmd struct {
	*env
	session sessionFlags
	replace bool
}

func (*importCmd) Name() string     { return "import" }
func (*importCmd) Synopsis() string { return "import records from an xml export" }
func (*importCmd) Usage() string {
	return `ledger import -u <name> [-replace] <path>

  Adds the records of an xml export that the account does not hold yet.
  With -replace the account's records are dropped first.
`
}

func (c *importCmd) SetFlags(f *flag.FlagSet) {
	c.session.setFlags(f)
	f.BoolVar(&c.replace, "replace", false, "Replace the account's records")
}

func (c *importCmd) Execute(ctx context.Context, f *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
	if f.NArg() < 1 {
		return c.usage("%v", apperr.ErrEmptyFilename)
	}
	return c.withSession(c.session, func(a *app.App) error {
		added, total, err := a.Import(f.Arg(0), c.replace)
		if err != nil {
			return err
		}
		fmt.Fprintf(c.stdout, "Imported %d of %d records\n", added, total)
		return nil
	})
}

type categoriesCmd struct {
	*env
}

func (*categoriesCmd) Name() string     { return "categories" }
func (*categoriesCmd) Synopsis() string { return "list the record categories" }
func (*categoriesCmd) Usage() string {
	return `ledger categories

  Lists the categories accepted by -category, as identifier and name.
`
}

func (*categoriesCmd) SetFlags(*flag.FlagSet) {}

func (c *categoriesCmd) Execute(ctx context.Context, f *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
	for _, cat := range models.Selectable() {
		fmt.Fprintf(c.stdout, "%-16s %s\n", cat, cat.DisplayName())
	}
	return subcommands.ExitSuccess
}
