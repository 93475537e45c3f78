// Package commands wires the causalml workflow into a CLI: synthesize
// data, identify an effect, draw do-samples, estimate. Data moves
// through CSV or Arrow IPC files; results go to stdout, logs to stderr.
package commands

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"causalml/pkg/arrowio"
	"causalml/pkg/frame"
	"causalml/pkg/logging"
)

// envConfig holds the environment defaults; flags of the same meaning
// override them.
type envConfig struct {
	LogLevel string `env:"CAUSALML_LOG_LEVEL" envDefault:"info"`
	LogJSON  bool   `env:"CAUSALML_LOG_JSON"  envDefault:"false"`
	Seed     int64  `env:"CAUSALML_SEED"      envDefault:"1"`
}

var (
	logLevel string
	logJSON  bool
	seed     int64

	log *slog.Logger
)

func Execute() error {
	root := &cobra.Command{
		Use:           "causalml",
		Short:         "Causal inference over tabular files: identify, do-sample, estimate",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		var cfg envConfig
		if err := env.Parse(&cfg); err != nil {
			return fmt.Errorf("parse env: %w", err)
		}
		flags := root.PersistentFlags()
		if !flags.Changed("log-level") {
			logLevel = cfg.LogLevel
		}
		if !flags.Changed("log-json") {
			logJSON = cfg.LogJSON
		}
		if !flags.Changed("seed") {
			seed = cfg.Seed
		}

		level, err := logging.ParseLevel(logLevel)
		if err != nil {
			return err
		}
		log = logging.New(logging.Config{Level: level, JSON: logJSON, Service: "causalml"})
		log.Info("run starting", "run_id", uuid.NewString(), "command", cmd.Name(), "seed", seed)
		return nil
	}

	root.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level: debug, info, warn, error")
	root.PersistentFlags().BoolVar(&logJSON, "log-json", false, "emit logs as JSON")
	root.PersistentFlags().Int64Var(&seed, "seed", 1, "seed for every random draw")

	root.AddCommand(synthCmd(), identifyCmd(), dosampleCmd(), estimateCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "causalml:", err)
		return err
	}
	return nil
}

// loadFrame reads a tabular file, picking the codec by extension.
func loadFrame(path string) (*frame.Frame, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".arrow", ".ipc":
		file, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer file.Close()
		return arrowio.ReadIPC(file)
	default:
		return frame.ReadCSVFile(path)
	}
}

// writeFrame writes a frame as CSV or Arrow IPC. An empty format means
// "pick by extension".
func writeFrame(path, format string, f *frame.Frame) error {
	if format == "" {
		switch strings.ToLower(filepath.Ext(path)) {
		case ".arrow", ".ipc":
			format = "arrow"
		default:
			format = "csv"
		}
	}
	switch format {
	case "csv":
		return frame.WriteCSVFile(path, f)
	case "arrow":
		file, err := os.Create(path)
		if err != nil {
			return err
		}
		defer file.Close()
		return arrowio.WriteIPC(file, f)
	default:
		return fmt.Errorf("unknown format %q (want csv or arrow)", format)
	}
}
