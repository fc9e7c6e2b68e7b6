// Command tracedemo drives the difftrace engine through the end-to-end
// scenarios documented in SPEC_FULL.md: it is demonstration and
// acceptance-check tooling, not part of the core library.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/alecthomas/kong"

	log "github.com/erigontech/erigon-lib/log/v3"
)

var cli struct {
	Config  string `help:"Path to a TOML config file." type:"path"`
	Verbose bool   `help:"Enable debug-level logging." short:"v"`
	Only    string `help:"Run only the named scenario instead of all of them."`
}

func main() {
	kong.Parse(&cli,
		kong.Name("tracedemo"),
		kong.Description("Exercises the difftrace append-only update-trace engine end to end."),
	)

	cfg, err := loadConfig(cli.Config)
	if err != nil {
		fmt.Fprintln(os.Stderr, "tracedemo: loading config:", err)
		os.Exit(1)
	}
	if cli.Verbose {
		cfg.Verbose = true
	}

	logger := log.New()
	lvl := log.LvlInfo
	if cfg.Verbose {
		lvl = log.LvlDebug
	}
	logger.SetHandler(log.LvlFilterHandler(lvl, log.StderrHandler))
	if cfg.Verbose {
		logger.Debug("verbose logging enabled")
	}

	ctx := context.Background()

	if cli.Only != "" {
		for _, sc := range scenarios {
			if sc.name != cli.Only {
				continue
			}
			result, err := sc.run(logger)
			if err != nil {
				fmt.Fprintf(os.Stderr, "tracedemo: scenario %s: %v\n", sc.name, err)
				os.Exit(1)
			}
			logger.Info("scenario result", "scenario", sc.name, "result", result)
			return
		}
		fmt.Fprintf(os.Stderr, "tracedemo: unknown scenario %q\n", cli.Only)
		os.Exit(1)
	}

	if err := runAll(ctx, logger); err != nil {
		fmt.Fprintln(os.Stderr, "tracedemo:", err)
		os.Exit(1)
	}
}
