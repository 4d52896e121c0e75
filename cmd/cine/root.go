package main

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"cine/internal/config"
	"cine/internal/storage"
)

// errReported marks a failure already described on stdout.
var errReported = errors.New("failure reported")

// app carries the state shared by every sub-command once the configuration
// is resolved.
type app struct {
	stdout, stderr io.Writer

	cfgPath string
	cfg     config.Config
	log     *zap.Logger

	closeMetrics func() error
}

// run executes one command line and releases the logger and metrics
// backend afterwards.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	a := &app{stdout: stdout, stderr: stderr, log: zap.NewNop()}
	root := newRootCommand(a)
	root.SetArgs(args)
	err := root.ExecuteContext(ctx)
	if cerr := a.close(); err == nil {
		err = cerr
	}
	return err
}

func newRootCommand(a *app) *cobra.Command {
	rc := &cobra.Command{
		Use:   "cine",
		Short: "Load the IMDb dataset files into a relational store.",
		Long: `cine streams the seven gzip-compressed IMDb TSV files into a database,
one transaction per chunk of records.

Settings are read from the built-in defaults, then the --config file, then
CINE_* environment variables, then command-line flags.
`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd.Flags())
		},
	}

	flags := rc.PersistentFlags()
	flags.StringVarP(&a.cfgPath, "config", "c", "", "JSON configuration file")
	flags.String("log-level", "", "log level: debug, info, warn, error")
	flags.String("log-format", "", "log format: console or json")
	flags.String("metrics-backend", "", "metrics backend: none, pushgateway or datadog")
	flags.String("pushgateway-url", "", "Prometheus Pushgateway base URL")
	flags.String("dogstatsd-addr", "", "DogStatsD address, e.g. 127.0.0.1:8125")

	rc.AddCommand(newImportCommand(a))
	rc.AddCommand(newBenchCommand(a))
	rc.AddCommand(newTablesCommand(a))
	rc.AddCommand(newQueryCommand(a))
	rc.AddCommand(newBackupCommand(a))
	rc.AddCommand(newProbeCommand(a))

	rc.SetOut(a.stdout)
	rc.SetErr(a.stderr)
	return rc
}

// addStoreFlags registers the flags selecting the database.
func addStoreFlags(flags *pflag.FlagSet) {
	flags.String("db", "", "database DSN; a file path for sqlite, empty for in-memory")
	flags.String("kind", "", "storage backend: "+fmt.Sprint(storage.Kinds()))
}

// setup layers the configuration, validates it, and builds the logger and
// the metrics backend.
func (a *app) setup(flags *pflag.FlagSet) error {
	cfg, err := config.Load(a.cfgPath)
	if err != nil {
		return err
	}
	if err := cfg.ApplyEnv(nil); err != nil {
		return err
	}
	if err := applyFlags(&cfg, flags); err != nil {
		return err
	}

	issues := config.Validate(cfg)
	if config.HasErrors(issues) {
		for _, iss := range issues {
			fmt.Fprintln(a.stderr, iss.Error())
		}
		return fmt.Errorf("invalid configuration")
	}
	a.cfg = cfg

	if a.log, err = newLogger(cfg.Log, a.stderr); err != nil {
		return err
	}
	for _, iss := range issues {
		a.log.Warn("config", zap.String("path", iss.Path), zap.String("issue", iss.Message))
	}

	a.closeMetrics, err = setupMetrics(cfg.Metrics, a.log)
	return err
}

// applyFlags copies every flag set on the command line into cfg.
func applyFlags(cfg *config.Config, flags *pflag.FlagSet) error {
	var err error
	flags.Visit(func(f *pflag.Flag) {
		if err != nil {
			return
		}
		switch f.Name {
		case "log-level":
			cfg.Log.Level = f.Value.String()
		case "log-format":
			cfg.Log.Format = f.Value.String()
		case "metrics-backend":
			cfg.Metrics.Backend = f.Value.String()
		case "pushgateway-url":
			cfg.Metrics.PushgatewayURL = f.Value.String()
		case "dogstatsd-addr":
			cfg.Metrics.DogStatsDAddr = f.Value.String()
		case "db":
			cfg.Storage.DSN = f.Value.String()
		case "kind":
			cfg.Storage.Kind = f.Value.String()
		case "chunk-size":
			cfg.Storage.ChunkSize, err = flags.GetInt(f.Name)
		case "buffer":
			cfg.Runtime.ChannelBuffer, err = flags.GetInt(f.Name)
		case "parallel":
			cfg.Runtime.ParallelBench, err = flags.GetBool(f.Name)
		case "only":
			cfg.Import.Entities, err = flags.GetStringSlice(f.Name)
		case "include-adult":
			cfg.Import.IncludeAdult, err = flags.GetBool(f.Name)
		case "lenient":
			cfg.Import.Lenient, err = flags.GetBool(f.Name)
		case "no-orphans":
			var off bool
			off, err = flags.GetBool(f.Name)
			cfg.Import.CheckOrphans = !off
		}
	})
	return err
}

// dataDir picks the positional directory over the configured one.
func (a *app) dataDir(args []string) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}
	if a.cfg.Source.Dir == "" {
		return "", fmt.Errorf("no data directory: pass DIR or set source.dir")
	}
	return a.cfg.Source.Dir, nil
}

func (a *app) openStore(ctx context.Context) (*storage.Store, error) {
	return storage.Open(ctx, storage.Config{
		Kind:      a.cfg.Storage.Kind,
		DSN:       a.cfg.Storage.DSN,
		ChunkSize: a.cfg.Storage.ChunkSize,
		Logger:    a.log,
	})
}

func (a *app) close() error {
	var err error
	if a.closeMetrics != nil {
		err = a.closeMetrics()
		a.closeMetrics = nil
	}
	_ = a.log.Sync()
	return err
}
