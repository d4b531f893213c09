package main

import (
	"fmt"
	"os"
	"strings"

	"fintrack/internal/backend"

	"gopkg.in/urfave/cli.v1"
)

var (
	dataFileFlag = cli.StringFlag{
		Name:  "data-file",
		Usage: "ledger JSON file (overrides LEDGER_DATA_FILE)",
	}
	backendFlag = cli.StringFlag{
		Name:  "backend",
		Usage: "storage backend: " + strings.Join(backend.GetBackendTypeStrings(), " or ") + " (overrides DATA_BACKEND)",
	}
	sqlitePathFlag = cli.StringFlag{
		Name:  "sqlite-path",
		Usage: "SQLite database path (overrides SQLITE_DB_PATH)",
	}
	logLevelFlag = cli.StringFlag{
		Name:  "log-level",
		Usage: "debug, info, warn or error (overrides LOG_LEVEL)",
	}
)

func main() {
	app := cli.NewApp()
	app.Name = "fintrack"
	app.Usage = "personal finance ledger"
	app.Version = "1.0.0"
	app.Flags = []cli.Flag{dataFileFlag, backendFlag, sqlitePathFlag, logLevelFlag}
	app.Action = menuAction
	app.Commands = []cli.Command{
		menuCommand,
		addCommand,
		deleteCommand,
		listCommand,
		balanceCommand,
		summaryCommand,
		infoCommand,
		exportCommand,
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
