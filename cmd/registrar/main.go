package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"registrar/internal/backend"
	"registrar/internal/config"
	"registrar/internal/logging"
	"registrar/internal/repository/instrumented"
	"registrar/internal/service"
)

const usage = `usage: registrar [-config path] [-backend name] [-data path] <command> [args]

commands:
  add-student ID NAME [MAJOR] [YEAR] [COURSE...]
  add-course ID TITLE [CREDITS] [TEACHER]
  add-teacher ID NAME [DEPARTMENT]
  add-secretary ID NAME [OFFICE]
  student ID | course ID | teacher ID | secretary ID
  students | courses | teachers
  roster COURSE
  teaching TEACHER
  init-config [PATH]

An ID of "-" generates a random one.
`

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if !errors.Is(err, flag.ErrHelp) {
			fmt.Fprintln(os.Stderr, "registrar:", err)
		}
		os.Exit(1)
	}
}

func run(args []string, stdout, stderr io.Writer) (err error) {
	flags := flag.NewFlagSet("registrar", flag.ContinueOnError)
	flags.SetOutput(stderr)
	flags.Usage = func() { fmt.Fprint(stderr, usage) }
	configPath := flags.String("config", "", "config file path (default: search)")
	backendName := flags.String("backend", "", "storage backend: "+fmt.Sprint(backend.Names()))
	dataPath := flags.String("data", "", "data file or database path for the selected backend")
	if err := flags.Parse(args); err != nil {
		return err
	}
	if flags.NArg() == 0 {
		flags.Usage()
		return flag.ErrHelp
	}

	if err := config.LoadDotEnv(); err != nil {
		return err
	}
	var (
		cfg     *config.Config
		cfgFile string
	)
	if *configPath != "" {
		cfg, cfgFile, err = config.LoadOrDefault(*configPath)
	} else {
		cfg, cfgFile, err = config.Load()
	}
	if err != nil {
		return err
	}
	applyFlags(cfg, *backendName, *dataPath)

	logger, err := logging.New(cfg.Log)
	if err != nil {
		return err
	}
	defer logger.Sync() //nolint:errcheck
	logger.Debug("loaded configuration", zap.String("path", cfgFile), zap.String("summary", cfg.Summary()))

	if flags.Arg(0) == "init-config" {
		return initConfig(cfg, flags.Args()[1:], stdout)
	}

	repo, err := backend.Open(cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		err = multierr.Append(err, repo.Close())
	}()

	reg := prometheus.NewRegistry()
	metrics, err := instrumented.NewMetrics(reg)
	if err != nil {
		return err
	}
	if cfg.Metrics.Textfile != "" {
		defer func() {
			if werr := prometheus.WriteToTextfile(cfg.Metrics.Textfile, reg); werr != nil {
				err = multierr.Append(err, fmt.Errorf("write metrics: %w", werr))
			}
		}()
	}

	bus := service.NewEventBus()
	events := make(chan service.Event, 16)
	bus.Subscribe(events)
	defer logEvents(logger, events)

	svc := service.NewRegistrar(instrumented.Wrap(repo, metrics), bus, logger)
	cmd := &command{svc: svc, out: stdout}
	return cmd.dispatch(flags.Arg(0), flags.Args()[1:])
}

// applyFlags lets command line flags override the loaded configuration
func applyFlags(cfg *config.Config, backendName, dataPath string) {
	if backendName != "" {
		cfg.Storage.Backend = backendName
	}
	if dataPath == "" {
		return
	}
	switch cfg.Storage.Backend {
	case config.BackendSQLite:
		cfg.Storage.SQLite.Path = dataPath
	default:
		cfg.Storage.File.Path = dataPath
	}
}

// initConfig writes the effective configuration as a starting config file
func initConfig(cfg *config.Config, args []string, stdout io.Writer) error {
	if err := want(args, 0, 1); err != nil {
		return err
	}
	path := config.ConfigFileName
	if len(args) == 1 {
		path = args[0]
	}
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file %s already exists", path)
	}
	if err := cfg.Save(path); err != nil {
		return err
	}
	_, err := fmt.Fprintln(stdout, path)
	return err
}

func logEvents(logger *zap.Logger, events <-chan service.Event) {
	for {
		select {
		case e := <-events:
			logger.Debug("event", zap.String("type", string(e.Type)), zap.Any("payload", e.Payload))
		default:
			return
		}
	}
}
