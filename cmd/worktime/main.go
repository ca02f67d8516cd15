/*
main.go - Command line interface of the working-time engine

COMMANDS:
  serve                        Run the HTTP API
  import-holidays FILE...      Import public holiday calendars
  week YEAR WEEK [-p ID]...    Print the report of an ISO week
  month YEAR MONTH [-p ID]...  Print the report of a month

  Without -p every person is reported; one -p reports a single (existing)
  person; several report the known ones among them.

SEE ALSO:
  - table.go: Report rendering
  - cmd/server: Flag based server entry point
*/
package main

import (
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
	"github.com/warp/worktime-engine/api"
	"github.com/warp/worktime-engine/config"
	"github.com/warp/worktime-engine/core"
	"github.com/warp/worktime-engine/holiday"
	"github.com/warp/worktime-engine/report"
	"github.com/warp/worktime-engine/store/sqlite"
	"github.com/warp/worktime-engine/workingtime"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		logrus.Fatal(err)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "worktime",
		Usage: "Working-time calendar and report reconciliation",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "env", Value: ".env", Usage: ".env file to load"},
			&cli.StringFlag{Name: "db", Usage: "SQLite database path (overrides DATABASE_PATH)"},
		},
		Commands: []*cli.Command{
			serveCommand,
			importHolidaysCommand,
			weekCommand,
			monthCommand,
		},
	}
}

var personFlag = &cli.StringSliceFlag{
	Name:    "person",
	Aliases: []string{"p"},
	Usage:   "person id to report (repeatable)",
}

var serveCommand = &cli.Command{
	Name:  "serve",
	Usage: "run the HTTP API",
	Flags: []cli.Flag{
		&cli.IntFlag{Name: "port", Usage: "HTTP port (overrides PORT)"},
	},
	Action: func(c *cli.Context) error {
		env, err := open(c)
		if err != nil {
			return err
		}
		defer env.store.Close()
		if port := c.Int("port"); port != 0 {
			env.cfg.Port = port
		}

		ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
		defer stop()
		if env.cfg.HolidaysFile != "" {
			if _, err := holiday.NewImporter(env.store, env.log).ImportFile(ctx, env.cfg.HolidaysFile); err != nil {
				env.log.WithError(err).Warn("failed to import public holidays")
			}
		}

		handler := api.NewHandler(env.store, env.log).WithLockWindow(env.cfg.LockDaysInPast)
		return api.Serve(ctx, env.cfg.Addr(), api.NewRouter(handler, env.cfg.CORSAllowedOrigins...), env.log)
	},
}

var importHolidaysCommand = &cli.Command{
	Name:      "import-holidays",
	Usage:     "import public holiday calendars",
	ArgsUsage: "FILE...",
	Action: func(c *cli.Context) error {
		if c.NArg() == 0 {
			return cli.Exit("at least one holiday file is required", 2)
		}
		env, err := open(c)
		if err != nil {
			return err
		}
		defer env.store.Close()

		importer := holiday.NewImporter(env.store, env.log)
		total := 0
		for _, path := range c.Args().Slice() {
			n, err := importer.ImportFile(c.Context, path)
			if err != nil {
				return fmt.Errorf("import %s: %w", path, err)
			}
			total += n
		}
		fmt.Fprintf(c.App.Writer, "imported %d holidays\n", total)
		return nil
	},
}

var weekCommand = &cli.Command{
	Name:      "week",
	Usage:     "print the report of an ISO week",
	ArgsUsage: "YEAR WEEK",
	Flags:     []cli.Flag{personFlag},
	Action: func(c *cli.Context) error {
		year, week, err := yearAnd(c)
		if err != nil {
			return err
		}
		env, err := open(c)
		if err != nil {
			return err
		}
		defer env.store.Close()

		rep, err := env.reports().Week(c.Context, year, week, selection(c))
		if err != nil {
			return err
		}
		renderWeek(c.App.Writer, rep)
		return nil
	},
}

var monthCommand = &cli.Command{
	Name:      "month",
	Usage:     "print the report of a month",
	ArgsUsage: "YEAR MONTH",
	Flags:     []cli.Flag{personFlag},
	Action: func(c *cli.Context) error {
		year, month, err := yearAnd(c)
		if err != nil {
			return err
		}
		env, err := open(c)
		if err != nil {
			return err
		}
		defer env.store.Close()

		rep, err := env.reports().Month(c.Context, year, month, selection(c))
		if err != nil {
			return err
		}
		renderMonth(c.App.Writer, rep)
		return nil
	},
}

// =============================================================================
// WIRING
// =============================================================================

type environment struct {
	cfg   *config.Config
	log   *logrus.Logger
	store *sqlite.Store
}

func open(c *cli.Context) (*environment, error) {
	cfg, err := config.Load(c.String("env"))
	if err != nil {
		return nil, err
	}
	if db := c.String("db"); db != "" {
		cfg.DatabasePath = db
	}
	log := cfg.Logger()
	log.SetOutput(c.App.ErrWriter)

	store, err := sqlite.New(cfg.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	store.WithDefaultSettings(cfg.Settings())
	return &environment{cfg: cfg, log: log, store: store}, nil
}

func (e *environment) reports() *report.Service {
	calendars := workingtime.NewCalendarService(workingtime.Sources{
		Contracts: e.store,
		Absences:  e.store,
		Holidays:  e.store,
		Settings:  e.store,
		Persons:   e.store,
	}, e.log)
	return report.NewService(calendars, e.store, e.store, e.log).WithLockWindow(e.cfg.LockDaysInPast)
}

func selection(c *cli.Context) report.Selection {
	ids := core.PersonIDs(c.StringSlice("person")...)
	switch len(ids) {
	case 0:
		return report.Everyone()
	case 1:
		return report.Person(ids[0])
	default:
		return report.Persons(ids...)
	}
}

func yearAnd(c *cli.Context) (int, int, error) {
	if c.NArg() != 2 {
		return 0, 0, cli.Exit("usage: "+c.Command.Name+" "+c.Command.ArgsUsage, 2)
	}
	year, err := strconv.Atoi(c.Args().Get(0))
	if err != nil {
		return 0, 0, cli.Exit("invalid year "+c.Args().Get(0), 2)
	}
	n, err := strconv.Atoi(c.Args().Get(1))
	if err != nil {
		return 0, 0, cli.Exit("invalid number "+c.Args().Get(1), 2)
	}
	return year, n, nil
}

