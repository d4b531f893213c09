package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	appcli "fintrack/internal/cli"
	"fintrack/internal/config"
	"fintrack/internal/core"
	"fintrack/internal/export"
	"fintrack/internal/ledger"
	"fintrack/internal/log"
	"fintrack/internal/menu"
	"fintrack/internal/services"
	gsheet "fintrack/internal/sheets/google"

	"gopkg.in/urfave/cli.v1"
)

var (
	menuCommand = cli.Command{
		Action: menuAction,
		Name:   "menu",
		Usage:  "Start the interactive menu (default)",
	}

	addCommand = cli.Command{
		Action:    addAction,
		Name:      "add",
		Usage:     "Record an income or expense",
		ArgsUsage: "income|expense",
		Flags: []cli.Flag{
			cli.StringFlag{Name: "category, c", Usage: "transaction category"},
			cli.StringFlag{Name: "amount, a", Usage: "positive amount, dot or comma decimals"},
			cli.StringFlag{Name: "description, d", Usage: "optional free text"},
		},
	}

	deleteCommand = cli.Command{
		Action:    deleteAction,
		Name:      "delete",
		Usage:     "Delete a transaction by id",
		ArgsUsage: "ID",
	}

	listCommand = cli.Command{
		Action: listAction,
		Name:   "list",
		Usage:  "List transactions in insertion order",
		Flags: []cli.Flag{
			cli.StringFlag{Name: "kind, k", Usage: "only income or expense"},
		},
	}

	balanceCommand = cli.Command{
		Action: balanceAction,
		Name:   "balance",
		Usage:  "Show total income, total expenses and balance",
	}

	summaryCommand = cli.Command{
		Action: summaryAction,
		Name:   "summary",
		Usage:  "Show expenses by category",
	}

	infoCommand = cli.Command{
		Action: infoAction,
		Name:   "info",
		Usage:  "Show storage details and the id counter",
	}

	exportCommand = cli.Command{
		Action:    exportAction,
		Name:      "export",
		Usage:     "Export the ledger to a csv, xlsx or pdf file, or to Google Sheets",
		ArgsUsage: "csv|xlsx|pdf FILE | sheets",
	}
)

// session holds what every command needs once startup succeeds.
type session struct {
	cfg      *config.Config
	logger   *log.Logger
	logClose io.Closer
	svc      *services.LedgerService
	ctx      context.Context
	stop     context.CancelFunc
}

func openSession(c *cli.Context) (*session, error) {
	appcli.LoadEnvFile()

	cfg, err := appcli.LoadAndValidateConfig(flagOverrides(c))
	if err != nil {
		return nil, err
	}

	logger, logClose, err := appcli.SetupLogger(cfg)
	if err != nil {
		return nil, err
	}

	ctx, stop := appcli.SignalContext(logger)
	svc, err := appcli.OpenLedger(ctx, cfg, logger)
	if err != nil {
		log.LogFailure(logger.Logger, log.OpLoad, err)
		stop()
		logClose.Close()
		return nil, err
	}

	logger.Info("Ledger ready",
		log.FieldBackend, cfg.DataBackend,
		"transactions", svc.Len(),
		"next_id", svc.NextID())

	return &session{cfg: cfg, logger: logger, logClose: logClose, svc: svc, ctx: ctx, stop: stop}, nil
}

func (s *session) Close() {
	if err := s.svc.Close(); err != nil {
		s.logger.Error("Failed to close ledger", log.FieldError, err)
	}
	s.stop()
	s.logClose.Close()
}

func flagOverrides(c *cli.Context) func(*config.Config) {
	return func(cfg *config.Config) {
		if c.GlobalIsSet(dataFileFlag.Name) {
			cfg.DataFile = c.GlobalString(dataFileFlag.Name)
		}
		if c.GlobalIsSet(backendFlag.Name) {
			cfg.DataBackend = c.GlobalString(backendFlag.Name)
		}
		if c.GlobalIsSet(sqlitePathFlag.Name) {
			cfg.SQLiteDBPath = c.GlobalString(sqlitePathFlag.Name)
		}
		if c.GlobalIsSet(logLevelFlag.Name) {
			cfg.LogLevel = c.GlobalString(logLevelFlag.Name)
		}
	}
}

func menuAction(c *cli.Context) error {
	s, err := openSession(c)
	if err != nil {
		return err
	}
	defer s.Close()

	prompter := menu.NewPrompter(os.Stdin, os.Stdout)
	defer prompter.Close()

	return menu.New(s.svc, prompter, os.Stdout, s.logger.WithComponent(log.ComponentMenu)).Run(s.ctx)
}

func addAction(c *cli.Context) error {
	kind, err := core.ParseKind(c.Args().First())
	if err != nil {
		return fmt.Errorf("%w: %w (expected income or expense)", ledger.ErrValidation, err)
	}
	amount, err := core.ParseAmount(c.String("amount"))
	if err != nil {
		return fmt.Errorf("%w: %w %q", ledger.ErrValidation, err, c.String("amount"))
	}

	s, err := openSession(c)
	if err != nil {
		return err
	}
	defer s.Close()

	t, err := s.svc.Add(s.ctx, kind, c.String("category"), amount, c.String("description"))
	if err != nil {
		return err
	}
	fmt.Printf("✓ %s added successfully! (ID: %d)\n", kind.Title(), t.ID)
	return nil
}

func deleteAction(c *cli.Context) error {
	id, err := strconv.ParseInt(c.Args().First(), 10, 64)
	if err != nil {
		return fmt.Errorf("%w: invalid id %q", ledger.ErrValidation, c.Args().First())
	}

	s, err := openSession(c)
	if err != nil {
		return err
	}
	defer s.Close()

	if err := s.svc.Delete(s.ctx, id); err != nil {
		return err
	}
	fmt.Println("✓ Transaction deleted successfully!")
	return nil
}

func listAction(c *cli.Context) error {
	var kind core.Kind
	if k := c.String("kind"); k != "" {
		var err error
		if kind, err = core.ParseKind(k); err != nil {
			return fmt.Errorf("%w: %w", ledger.ErrValidation, err)
		}
	}

	s, err := openSession(c)
	if err != nil {
		return err
	}
	defer s.Close()

	txs := s.svc.All()
	if kind != "" {
		txs = s.svc.ByKind(kind)
	}
	menu.PrintTransactions(os.Stdout, txs)
	return nil
}

func balanceAction(c *cli.Context) error {
	s, err := openSession(c)
	if err != nil {
		return err
	}
	defer s.Close()

	menu.PrintBalance(os.Stdout, s.svc.Totals())
	return nil
}

func summaryAction(c *cli.Context) error {
	s, err := openSession(c)
	if err != nil {
		return err
	}
	defer s.Close()

	menu.PrintCategorySummary(os.Stdout, s.svc.CategorySummary())
	return nil
}

func infoAction(c *cli.Context) error {
	s, err := openSession(c)
	if err != nil {
		return err
	}
	defer s.Close()

	location := s.cfg.DataFile
	if s.cfg.DataBackend == "sqlite" {
		location = s.cfg.SQLiteDBPath
	}
	fmt.Printf("Backend:      %s\n", s.cfg.DataBackend)
	fmt.Printf("Location:     %s\n", location)
	fmt.Printf("Transactions: %d\n", s.svc.Len())
	fmt.Printf("Next ID:      %d\n", s.svc.NextID())
	fmt.Printf("Events:       %v\n", s.cfg.EventsEnabled())
	return nil
}

func exportAction(c *cli.Context) error {
	target := c.Args().First()
	if target == "" {
		return errors.New("export target required: csv, xlsx, pdf or sheets")
	}
	if target == "sheets" {
		return exportSheets(c)
	}

	format, err := export.ParseFormat(target)
	if err != nil {
		return err
	}
	path := c.Args().Get(1)
	if path == "" {
		return fmt.Errorf("output file required for %s export", format)
	}

	s, err := openSession(c)
	if err != nil {
		return err
	}
	defer s.Close()

	report := export.NewReport(s.svc.All(), time.Now())
	if err := export.WriteFile(path, format, report); err != nil {
		log.LogFailure(s.logger.WithComponent(log.ComponentExport), log.OpExport, err)
		return err
	}
	fmt.Printf("✓ Exported %d transactions to %s\n", len(report.Transactions), path)
	return nil
}

func exportSheets(c *cli.Context) error {
	s, err := openSession(c)
	if err != nil {
		return err
	}
	defer s.Close()

	if err := s.cfg.ValidateSheets(); err != nil {
		return err
	}

	client, err := gsheet.New(s.ctx, gsheet.Config{
		SpreadsheetID:   s.cfg.GoogleSpreadsheetID,
		SheetName:       s.cfg.GoogleSheetName,
		CredentialsJSON: s.cfg.GoogleServiceAccountJSON,
		CredentialsFile: s.cfg.GoogleServiceAccountFile,
	})
	if err != nil {
		return fmt.Errorf("initialize Google Sheets client: %w", err)
	}

	n, err := client.Export(s.ctx, s.svc.All())
	if err != nil {
		log.LogFailure(s.logger.WithComponent(log.ComponentSheets), log.OpExport, err)
		return err
	}
	fmt.Printf("✓ Exported %d transactions to sheet %q\n", n, s.cfg.GoogleSheetName)
	return nil
}
