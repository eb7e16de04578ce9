package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/dmitrymomot/subtracker/pkg/backup"
	"github.com/dmitrymomot/subtracker/pkg/config"
	"github.com/dmitrymomot/subtracker/pkg/expiry"
	"github.com/dmitrymomot/subtracker/pkg/kv"
	"github.com/dmitrymomot/subtracker/pkg/logger"
	"github.com/dmitrymomot/subtracker/pkg/store"
	"github.com/dmitrymomot/subtracker/pkg/subscription"
)

const serviceName = "subtracker"

var errUsage = errors.New("usage")

type commandKey struct{}

const usage = `usage: subtracker <command> [arguments]

commands:
  list [-q term]              list subscriptions, soonest expiration first
  add [flags]                 add a subscription
  edit <id> [flags]           change a subscription
  rm <id>                     remove a subscription
  export [-o file]            write the collection as a backup document ("-" for stdout)
  import <file> [-yes]        replace the collection with a backup document
  backup                      store a backup on the configured target
  restore <name> [-yes]       replace the collection with a stored backup
  watch                       print changes made by other processes
`

type app struct {
	cfg    config.Config
	log    *slog.Logger
	store  *store.Store
	now    func() time.Time
	stdin  *bufio.Reader
	stdout io.Writer
	stderr io.Writer
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	if len(args) == 0 || args[0] == "-h" || args[0] == "help" {
		fmt.Fprint(stderr, usage)
		return 2
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(stderr, "subtracker: %v\n", err)
		return 1
	}

	log := logger.New(
		logger.WithOutput(stderr),
		logger.WithEnvironment(cfg.Env, serviceName),
		logger.WithFormat(logger.Format(cfg.LogFormat)),
		logger.WithLevelName(cfg.LogLevel),
		logger.WithContextValue("command", commandKey{}),
	)
	logger.SetAsDefault(log)
	ctx = context.WithValue(ctx, commandKey{}, args[0])

	slot, closeSlot, err := openSlot(ctx, cfg)
	if err != nil {
		log.ErrorContext(ctx, "failed to open storage", logger.Backend(cfg.Backend), logger.Error(err))
		return 1
	}
	defer closeSlot()

	st, err := store.New(ctx, slot,
		store.WithKey(cfg.StorageKey),
		store.WithLogger(log.With(logger.Backend(cfg.Backend))),
	)
	if err != nil {
		log.ErrorContext(ctx, "failed to open store", logger.Error(err))
		return 1
	}
	defer func() { _ = st.Close() }()

	a := &app{
		cfg:    cfg,
		log:    log,
		store:  st,
		now:    time.Now,
		stdin:  bufio.NewReader(stdin),
		stdout: stdout,
		stderr: stderr,
	}

	if err := a.dispatch(ctx, args[0], args[1:]); err != nil {
		if errors.Is(err, errUsage) || errors.Is(err, flag.ErrHelp) {
			fmt.Fprint(stderr, usage)
			return 2
		}
		fmt.Fprintf(stderr, "subtracker: %v\n", err)
		return 1
	}
	return 0
}

func (a *app) dispatch(ctx context.Context, cmd string, args []string) error {
	switch cmd {
	case "list", "ls":
		return a.list(args)
	case "add":
		return a.add(ctx, args)
	case "edit":
		return a.edit(ctx, args)
	case "rm", "remove":
		return a.remove(ctx, args)
	case "export":
		return a.export(args)
	case "import":
		return a.importFile(ctx, args)
	case "backup":
		return a.backup(ctx)
	case "restore":
		return a.restore(ctx, args)
	case "watch":
		return a.watch(ctx)
	default:
		return fmt.Errorf("%w: unknown command %q", errUsage, cmd)
	}
}

func openSlot(ctx context.Context, cfg config.Config) (kv.Slot, func(), error) {
	switch cfg.Backend {
	case config.BackendRedis:
		client, err := kv.ConnectRedis(ctx, cfg.Redis)
		if err != nil {
			return nil, nil, err
		}
		return kv.NewRedis(client), func() { _ = client.Close() }, nil
	case config.BackendMemory:
		return kv.NewMemory(), func() {}, nil
	default:
		slot, err := kv.NewFile(cfg.DataDir)
		if err != nil {
			return nil, nil, err
		}
		return slot, func() {}, nil
	}
}

func openTarget(ctx context.Context, cfg config.Config) (backup.Target, error) {
	if cfg.BackupTarget == config.TargetS3 {
		return backup.NewS3Target(ctx, cfg.S3)
	}
	return backup.NewLocalTarget(cfg.BackupDir)
}

func newFlagSet(name string, out io.Writer) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(out)
	return fs
}

func (a *app) list(args []string) error {
	fs := newFlagSet("list", a.stderr)
	query := fs.String("q", "", "filter by service, cadence or payment method")
	if err := fs.Parse(args); err != nil {
		return err
	}

	now := a.now()
	records := store.SortByExpiration(store.Search(a.store.List(), *query), now)
	if len(records) == 0 {
		fmt.Fprintln(a.stdout, "no subscriptions")
		return nil
	}

	tw := tabwriter.NewWriter(a.stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tSERVICE\tCADENCE\tENDS\tSTATUS\tAUTO-RENEW")
	for _, r := range records {
		autoRenew := "no"
		if r.AutoRenewal {
			autoRenew = "yes"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			r.ID,
			r.ServiceName,
			r.SubscriptionType,
			expiry.FormatDisplayDate(r.EndDate),
			expiry.Describe(r.EndDate, now, a.cfg.ExpiringSoonDays),
			autoRenew,
		)
	}
	return tw.Flush()
}

// formFlags binds the editable fields to fs, prefilled from form.
func formFlags(fs *flag.FlagSet, form *subscription.FormData) *string {
	fs.StringVar(&form.ServiceName, "name", form.ServiceName, "service name")
	fs.StringVar(&form.StartDate, "start", form.StartDate, "start date (YYYY-MM-DD)")
	end := fs.String("end", "", "end date (YYYY-MM-DD); derived from the cadence when omitted")
	fs.Func("cadence", "Weekly, Monthly, Yearly or Custom", func(v string) error {
		for _, c := range subscription.Cadences() {
			if strings.EqualFold(v, string(c)) {
				form.SubscriptionType = c
				return nil
			}
		}
		return fmt.Errorf("%w: %s", subscription.ErrUnknownCadence, v)
	})
	fs.StringVar(&form.MobileNumber, "mobile", form.MobileNumber, "mobile number")
	fs.StringVar(&form.Email, "email", form.Email, "email")
	fs.StringVar(&form.PaymentMethod, "payment", form.PaymentMethod, "payment method")
	fs.StringVar(&form.CardBank, "bank", form.CardBank, "card bank")
	fs.BoolVar(&form.AutoRenewal, "auto", form.AutoRenewal, "renews automatically")
	return end
}

// resolveEndDate applies an explicit end date or derives one from the cadence.
// A Custom cadence keeps the current end date unless one is given explicitly.
func resolveEndDate(form *subscription.FormData, explicit string, derive bool) error {
	if explicit != "" {
		form.EndDate = explicit
		return nil
	}
	if !derive {
		return nil
	}
	if form.SubscriptionType == subscription.CadenceCustom && form.EndDate != "" {
		return nil
	}
	end, err := expiry.ComputeEndDate(form.StartDate, form.SubscriptionType)
	if err != nil {
		return err
	}
	form.EndDate = end
	return nil
}

func (a *app) add(ctx context.Context, args []string) error {
	form := subscription.FormData{
		StartDate:        a.now().UTC().Format(expiry.DateLayout),
		SubscriptionType: subscription.CadenceMonthly,
	}
	fs := newFlagSet("add", a.stderr)
	end := formFlags(fs, &form)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := resolveEndDate(&form, *end, true); err != nil {
		return err
	}
	if err := form.Validate(); err != nil {
		return err
	}

	rec, err := a.store.Add(ctx, form)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.stdout, "added %s (%s), ends %s\n", rec.ServiceName, rec.ID, expiry.FormatDisplayDate(rec.EndDate))
	return nil
}

func (a *app) edit(ctx context.Context, args []string) error {
	if len(args) == 0 || strings.HasPrefix(args[0], "-") {
		return fmt.Errorf("%w: edit requires an id", errUsage)
	}
	id := args[0]
	rec, ok := a.store.Get(id)
	if !ok {
		return fmt.Errorf("subscription %s not found", id)
	}

	form := rec.Form()
	fs := newFlagSet("edit", a.stderr)
	end := formFlags(fs, &form)
	if err := fs.Parse(args[1:]); err != nil {
		return err
	}

	derive := false
	fs.Visit(func(f *flag.Flag) {
		if f.Name == "start" || f.Name == "cadence" {
			derive = true
		}
	})
	if err := resolveEndDate(&form, *end, derive); err != nil {
		return err
	}
	if err := form.Validate(); err != nil {
		return err
	}

	if err := a.store.Update(ctx, id, form); err != nil {
		return err
	}
	fmt.Fprintf(a.stdout, "updated %s (%s)\n", form.ServiceName, id)
	return nil
}

func (a *app) remove(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("%w: rm requires an id", errUsage)
	}
	if _, ok := a.store.Get(args[0]); !ok {
		fmt.Fprintf(a.stdout, "nothing to remove for %s\n", args[0])
		return nil
	}
	if err := a.store.Remove(ctx, args[0]); err != nil {
		return err
	}
	fmt.Fprintf(a.stdout, "removed %s\n", args[0])
	return nil
}

func (a *app) export(args []string) error {
	fs := newFlagSet("export", a.stderr)
	out := fs.String("o", "", `output file, "-" for stdout (default: dated backup name)`)
	if err := fs.Parse(args); err != nil {
		return err
	}

	data, err := backup.Export(a.store.List())
	if err != nil {
		return err
	}
	if *out == "-" {
		_, err := fmt.Fprintln(a.stdout, string(data))
		return err
	}

	name := *out
	if name == "" {
		name = backup.Filename(a.now())
	}
	if err := os.WriteFile(name, data, 0644); err != nil {
		return err
	}
	a.log.Info("collection exported", logger.Filename(name), logger.Count(len(a.store.List())))
	fmt.Fprintf(a.stdout, "exported to %s\n", name)
	return nil
}

func (a *app) importFile(ctx context.Context, args []string) error {
	if len(args) == 0 || strings.HasPrefix(args[0], "-") {
		return fmt.Errorf("%w: import requires a file", errUsage)
	}
	path := args[0]
	fs := newFlagSet("import", a.stderr)
	yes := fs.Bool("yes", false, "replace without asking")
	if err := fs.Parse(args[1:]); err != nil {
		return err
	}

	f, err := os.Open(path)
	if err != nil {
		return &backup.ValidationError{Message: backup.MsgReadFailed, Err: err}
	}
	defer func() { _ = f.Close() }()

	records, err := backup.ImportAsync(ctx, f).AwaitContext(ctx)
	if err != nil {
		return err
	}
	return a.replace(ctx, records, *yes)
}

func (a *app) backup(ctx context.Context) error {
	target, err := openTarget(ctx, a.cfg)
	if err != nil {
		return err
	}
	name, err := backup.Backup(ctx, target, a.store.List(), a.now())
	if err != nil {
		return err
	}
	a.log.InfoContext(ctx, "backup stored", logger.Filename(name))
	fmt.Fprintf(a.stdout, "backup stored as %s\n", name)
	return nil
}

func (a *app) restore(ctx context.Context, args []string) error {
	if len(args) == 0 || strings.HasPrefix(args[0], "-") {
		return fmt.Errorf("%w: restore requires a backup name", errUsage)
	}
	name := args[0]
	fs := newFlagSet("restore", a.stderr)
	yes := fs.Bool("yes", false, "replace without asking")
	if err := fs.Parse(args[1:]); err != nil {
		return err
	}

	target, err := openTarget(ctx, a.cfg)
	if err != nil {
		return err
	}
	records, err := backup.Restore(ctx, target, name)
	if err != nil {
		return err
	}
	return a.replace(ctx, records, *yes)
}

// replace swaps the collection after the user confirmed it.
func (a *app) replace(ctx context.Context, records []subscription.Record, yes bool) error {
	if !yes {
		fmt.Fprintf(a.stdout, "replace %d subscriptions with %d imported ones? [y/N] ", len(a.store.List()), len(records))
		answer, _ := a.stdin.ReadString('\n')
		switch strings.ToLower(strings.TrimSpace(answer)) {
		case "y", "yes":
		default:
			fmt.Fprintln(a.stdout, "import canceled")
			return nil
		}
	}

	if err := a.store.Replace(ctx, records); err != nil {
		return err
	}
	fmt.Fprintf(a.stdout, "imported %d subscriptions\n", len(records))
	return nil
}

func (a *app) watch(ctx context.Context) error {
	sub := a.store.Subscribe(ctx)
	defer func() { _ = sub.Close() }()

	fmt.Fprintf(a.stdout, "watching %s (%d subscriptions)\n", a.cfg.StorageKey, len(a.store.List()))
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-sub.Events():
			if !ok {
				return nil
			}
			switch ev.Kind {
			case store.EventReloaded:
				fmt.Fprintf(a.stdout, "%s reloaded: %d subscriptions\n", a.now().Format(time.TimeOnly), len(ev.Records))
			case store.EventPersistFailed:
				fmt.Fprintf(a.stdout, "%s save failed: %v\n", a.now().Format(time.TimeOnly), ev.Err)
			}
		}
	}
}
