package main

import (
	"bytes"
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"

	json "github.com/goccy/go-json"

	billing "github.com/reoring/billing-go"
	"github.com/reoring/billing-go/config"
	"github.com/reoring/billing-go/core"
	"github.com/reoring/billing-go/option"
)

func main() {
	if len(os.Args) < 3 {
		usage()
		os.Exit(2)
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	resource, verb, args := os.Args[1], os.Args[2], os.Args[3:]
	switch resource + " " + verb {
	case "alerts list":
		alertsListCmd(ctx, args)
	case "alerts get":
		alertsGetCmd(ctx, args)
	case "alerts disable":
		alertsDisableCmd(ctx, args)
	case "customers get":
		customersGetCmd(ctx, args)
	case "credits list":
		creditsListCmd(ctx, args)
	case "invoices list":
		invoicesListCmd(ctx, args)
	case "prices get":
		pricesGetCmd(ctx, args)
	default:
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, `billingctl

Usage:
  billingctl alerts list [-customer ID] [-subscription ID] [-limit N] [-all]
  billingctl alerts get -id ID
  billingctl alerts disable -id ID [-subscription ID]
  billingctl customers get (-id ID | -external ID)
  billingctl credits list -customer ID [-ledger] [-currency CUR]
  billingctl invoices list [-customer ID] [-status S]... [-limit N]
  billingctl prices get -id ID

Common flags:
  -config FILE   YAML config (default $BILLING_CONFIG)
  -env FILE      dotenv file (default ./.env)
  -v             debug logging

The API key is read from $BILLING_API_KEY.`)
}

// common holds the flags every subcommand accepts.
type common struct {
	configFile string
	envFile    string
	verbose    bool
}

func newFlagSet(name string) (*flag.FlagSet, *common) {
	fs := flag.NewFlagSet(name, flag.ExitOnError)
	c := &common{}
	fs.StringVar(&c.configFile, "config", "", "YAML config file")
	fs.StringVar(&c.envFile, "env", "", "dotenv file")
	fs.BoolVar(&c.verbose, "v", false, "enable debug logs")
	return fs, c
}

// client resolves configuration and builds the API client with a text
// logger on stderr.
func (c *common) client() *billing.Client {
	level := slog.LevelInfo
	if c.verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	var opts []config.LoadOption
	if c.configFile != "" {
		opts = append(opts, config.WithFile(c.configFile))
	}
	if c.envFile != "" {
		opts = append(opts, config.WithEnvFiles(c.envFile))
	}
	cfg, err := config.Load(opts...)
	if err != nil {
		fatalf("config: %v", err)
	}
	if cfg.APIKey == "" {
		fatalf("config: %s is not set", config.EnvAPIKey)
	}
	logger.Debug("Resolved configuration", "base_url", cfg.BaseURL, "timeout", cfg.Timeout)
	return billing.NewClient(append(cfg.Options(), option.WithLogger(logger))...)
}

type stringList []string

func (s *stringList) String() string { return fmt.Sprint(*s) }

func (s *stringList) Set(v string) error {
	*s = append(*s, v)
	return nil
}

func alertsListCmd(ctx context.Context, args []string) {
	fs, c := newFlagSet("alerts list")
	var customer, subscription string
	var limit int64
	var all bool
	fs.StringVar(&customer, "customer", "", "customer id")
	fs.StringVar(&subscription, "subscription", "", "subscription id")
	fs.Int64Var(&limit, "limit", 0, "page size")
	fs.BoolVar(&all, "all", false, "follow every page")
	_ = fs.Parse(args)

	q := billing.NewAlertListParams()
	if customer != "" {
		q.WithCustomerID(core.Some(customer))
	}
	if subscription != "" {
		q.WithSubscriptionID(core.Some(subscription))
	}
	if limit > 0 {
		q.WithLimit(core.Some(limit))
	}
	cl := c.client()
	if all {
		for a, err := range cl.Alerts.ListAutoPaging(q).All(ctx) {
			if err != nil {
				fatalf("alerts list: %v", err)
			}
			printJSON(a)
		}
		return
	}
	page, err := cl.Alerts.List(ctx, q)
	if err != nil {
		fatalf("alerts list: %v", err)
	}
	printJSON(page)
}

func alertsGetCmd(ctx context.Context, args []string) {
	fs, c := newFlagSet("alerts get")
	var id string
	fs.StringVar(&id, "id", "", "alert id")
	_ = fs.Parse(args)
	requireFlag(fs, "id", id)

	a, err := c.client().Alerts.Retrieve(ctx, id)
	if err != nil {
		fatalf("alerts get: %v", err)
	}
	printJSON(a)
}

func alertsDisableCmd(ctx context.Context, args []string) {
	fs, c := newFlagSet("alerts disable")
	var id, subscription string
	fs.StringVar(&id, "id", "", "alert configuration id")
	fs.StringVar(&subscription, "subscription", "", "subscription id")
	_ = fs.Parse(args)
	requireFlag(fs, "id", id)

	q := billing.NewAlertToggleParams()
	if subscription != "" {
		q.WithSubscriptionID(core.Some(subscription))
	}
	a, err := c.client().Alerts.Disable(ctx, id, q)
	if err != nil {
		fatalf("alerts disable: %v", err)
	}
	printJSON(a)
}

func customersGetCmd(ctx context.Context, args []string) {
	fs, c := newFlagSet("customers get")
	var id, external string
	fs.StringVar(&id, "id", "", "customer id")
	fs.StringVar(&external, "external", "", "external customer id")
	_ = fs.Parse(args)
	if (id == "") == (external == "") {
		fmt.Fprintln(os.Stderr, "exactly one of -id and -external is required")
		fs.Usage()
		os.Exit(2)
	}

	cl := c.client()
	var cust billing.Customer
	var err error
	if id != "" {
		cust, err = cl.Customers.Retrieve(ctx, id)
	} else {
		cust, err = cl.Customers.RetrieveByExternalID(ctx, external)
	}
	if err != nil {
		fatalf("customers get: %v", err)
	}
	printJSON(cust)
}

func creditsListCmd(ctx context.Context, args []string) {
	fs, c := newFlagSet("credits list")
	var customer, currency string
	var ledger bool
	fs.StringVar(&customer, "customer", "", "customer id")
	fs.StringVar(&currency, "currency", "", "currency filter")
	fs.BoolVar(&ledger, "ledger", false, "list ledger entries instead of balances")
	_ = fs.Parse(args)
	requireFlag(fs, "customer", customer)

	credits := c.client().Customers.Credits
	if ledger {
		q := billing.NewLedgerListParams()
		if currency != "" {
			q.WithCurrency(core.Some(currency))
		}
		for e, err := range credits.ListLedgerAutoPaging(customer, q).All(ctx) {
			if err != nil {
				fatalf("credits list: %v", err)
			}
			if e.IsUnknown() {
				slog.Warn("Unrecognized ledger entry type", "entry_type", e.Tag())
			}
			printJSON(e)
		}
		return
	}
	q := billing.NewCreditListParams()
	if currency != "" {
		q.WithCurrency(core.Some(currency))
	}
	for b, err := range credits.ListAutoPaging(customer, q).All(ctx) {
		if err != nil {
			fatalf("credits list: %v", err)
		}
		printJSON(b)
	}
}

func invoicesListCmd(ctx context.Context, args []string) {
	fs, c := newFlagSet("invoices list")
	var customer string
	var statuses stringList
	var limit int64
	fs.StringVar(&customer, "customer", "", "customer id")
	fs.Var(&statuses, "status", "status filter, repeatable")
	fs.Int64Var(&limit, "limit", 0, "page size")
	_ = fs.Parse(args)

	q := billing.NewInvoiceListParams()
	if customer != "" {
		q.WithCustomerID(core.Some(customer))
	}
	if limit > 0 {
		q.WithLimit(core.Some(limit))
	}
	if len(statuses) > 0 {
		st := make([]billing.InvoiceStatus, len(statuses))
		for i, s := range statuses {
			st[i] = billing.InvoiceStatus(s)
			if !billing.InvoiceStatuses.FromRaw(s).IsKnown() {
				fatalf("invoices list: unknown status %q", s)
			}
		}
		q.WithStatus(st...)
	}
	page, err := c.client().Invoices.List(ctx, q)
	if err != nil {
		fatalf("invoices list: %v", err)
	}
	printJSON(page)
}

func pricesGetCmd(ctx context.Context, args []string) {
	fs, c := newFlagSet("prices get")
	var id string
	fs.StringVar(&id, "id", "", "price id")
	_ = fs.Parse(args)
	requireFlag(fs, "id", id)

	p, err := c.client().Prices.Retrieve(ctx, id)
	if err != nil {
		fatalf("prices get: %v", err)
	}
	printJSON(p)
}

func requireFlag(fs *flag.FlagSet, name, value string) {
	if value == "" {
		fmt.Fprintf(os.Stderr, "-%s is required\n", name)
		fs.Usage()
		os.Exit(2)
	}
}

type wireForm interface {
	MarshalJSON() ([]byte, error)
}

// printJSON writes v's wire form, indented, to stdout.
func printJSON(v wireForm) {
	raw, err := v.MarshalJSON()
	if err != nil {
		fatalf("encode: %v", err)
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, raw, "", "  "); err != nil {
		fatalf("encode: %v", err)
	}
	buf.WriteByte('\n')
	_, _ = os.Stdout.Write(buf.Bytes())
}

func fatalf(format string, a ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", a...)
	os.Exit(1)
}
