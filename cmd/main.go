package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/richard-senior/podds-web/internal/logger"
	"github.com/richard-senior/podds-web/pkg/podds"
	"github.com/richard-senior/podds-web/pkg/server"
)

const usage = `Usage: podds-web [command] [flags]

Commands:
  serve    serve the prediction pages over HTTP (default)
  print    write the markdown tables for -date to stdout
  dates    list the dates present in the dataset
  import   copy the dataset into a SQLite file given by -out

Run 'podds-web <command> -h' for the flags of a command.
`

func main() {
	if err := run(context.Background(), os.Args[1:], os.Stdout); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		logger.Fatal("podds-web:", err)
	}
}

func run(ctx context.Context, args []string, stdout io.Writer) error {
	cmd := "serve"
	if len(args) > 0 && !strings.HasPrefix(args[0], "-") {
		cmd, args = args[0], args[1:]
	}

	fs := flag.NewFlagSet(cmd, flag.ContinueOnError)
	configPath := fs.String("config", "", "YAML config file (default: $PODDS_CONFIG)")
	dataPath := fs.String("data", "", "dataset: .csv, .xlsx, .db file or postgres:// DSN")
	sheet := fs.String("sheet", "", "worksheet to read from an xlsx dataset")
	table := fs.String("table", "", "table to read from a sql dataset")
	debug := fs.Bool("debug", false, "Enable debug logging")

	var addr, date, out *string
	switch cmd {
	case "serve":
		addr = fs.String("addr", "", "listen address, e.g. :8501")
	case "print":
		date = fs.String("date", "", "date to print as YYYY-MM-DD (default: today)")
	case "import":
		out = fs.String("out", "podds.db", "SQLite file to write")
	case "dates":
	case "help":
		fmt.Fprint(stdout, usage)
		return nil
	default:
		fmt.Fprint(os.Stderr, usage)
		return fmt.Errorf("unknown command %q", cmd)
	}
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := podds.LoadConfig(*configPath)
	if err != nil {
		return err
	}
	if *dataPath != "" {
		cfg.DataPath = *dataPath
	}
	if *sheet != "" {
		cfg.Sheet = *sheet
	}
	if *table != "" {
		cfg.TableName = *table
	}
	if addr != nil && *addr != "" {
		cfg.ListenAddr = *addr
	}
	if *debug {
		cfg.LogLevel = "debug"
	}
	if err := podds.ValidateConfig(cfg); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	if err := setupLogging(cfg, cmd == "serve"); err != nil {
		return err
	}
	defer logger.Close()

	// the dataset is read once, before anything is served
	src := podds.NewSource(cfg.DataPath, cfg.LoadOptions())
	t, err := src.Table(ctx)
	if err != nil {
		return err
	}

	switch cmd {
	case "dates":
		dates, err := podds.ListDistinctDates(t)
		if err != nil {
			return err
		}
		for _, d := range dates {
			fmt.Fprintln(stdout, d.Format(podds.DateLayout))
		}
		return nil
	case "import":
		return podds.WriteSQLite(ctx, *out, cfg.TableName, t.Matches())
	}

	s, err := server.New(cfg, t)
	if err != nil {
		return err
	}
	if cmd == "print" {
		day, err := s.MatchDay(*date)
		if err != nil {
			return err
		}
		md, err := s.Markdown(day)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(stdout, md)
		return err
	}

	logger.Highlight("Serving", t.Len(), "predictions")
	return s.Start(ctx)
}

// setupLogging applies the configured level and output. Commands that
// write to stdout keep console logging on stderr.
func setupLogging(cfg *podds.Config, serving bool) error {
	logger.SetShowDateTime(true)
	logger.SetLevel(logger.ParseLevel(cfg.LogLevel))
	if cfg.LogOutput != "console" {
		logger.SetColour(false)
	}
	if err := logger.SetLogOutput(cfg.LogOutputType(), cfg.LogFile); err != nil {
		return err
	}
	if !serving && cfg.LogOutput == "console" {
		logger.SetOutput(os.Stderr, os.Stderr)
	}
	return nil
}
