package cmd

import (
	"context"

	"github.com/roffe/memslog"
	"github.com/roffe/memslog/pkg/config"
	"github.com/roffe/memslog/pkg/diag"
	"github.com/roffe/memslog/pkg/logging"
	"github.com/roffe/memslog/pkg/normalize"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:          "memstool",
	Short:        "Rover MEMS 1.6 log analyser",
	Long:         `Decodes ECU diagnostic logs, normalizes the readings and reports likely faults`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		runConfig = cfg
		logging.Init(cfg.Debug)
		return nil
	},
}

// runConfig is the merged file and flag configuration, loaded once before
// any command runs.
var runConfig = config.Default()

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

const (
	flagConfig      = "config"
	flagSchema      = "schema"
	flagTemperature = "temperature"
	flagLambdaMean  = "lambda-mean"
	flagFaults      = "faults"
	flagWorkers     = "workers"
	flagDebug       = "debug"
)

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringP(flagConfig, "c", "", "toml config file")
	pf.StringP(flagSchema, "s", "auto", "frame layout: auto, a (MNE101070) or b (MNE101170)")
	pf.StringP(flagTemperature, "t", "ecu", "temperature formula: ecu or fahrenheit")
	pf.String(flagLambdaMean, "either", "lambda mean rule: either or historical")
	pf.StringP(flagFaults, "f", "", "directory with <fault>.md texts")
	pf.IntP(flagWorkers, "w", 4, "files analysed in parallel")
	pf.BoolP(flagDebug, "d", false, "debug mode")
}

// loadConfig reads the config file, if any, and applies the flags the user
// set on top of it.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.Default()
	flags := cmd.Flags()

	path, err := flags.GetString(flagConfig)
	if err != nil {
		return nil, err
	}
	if path != "" {
		if cfg, err = config.Load(path); err != nil {
			return nil, err
		}
	}

	if flags.Changed(flagSchema) {
		s, _ := flags.GetString(flagSchema)
		if cfg.Schema, err = config.ParseSchema(s); err != nil {
			return nil, err
		}
	}
	if flags.Changed(flagTemperature) {
		s, _ := flags.GetString(flagTemperature)
		if cfg.Temperature, err = normalize.ParseTemperature(s); err != nil {
			return nil, err
		}
	}
	if flags.Changed(flagLambdaMean) {
		s, _ := flags.GetString(flagLambdaMean)
		if cfg.LambdaMean, err = diag.ParseLambdaMeanRule(s); err != nil {
			return nil, err
		}
	}
	if flags.Changed(flagFaults) {
		cfg.FaultTexts, _ = flags.GetString(flagFaults)
	}
	if flags.Changed(flagWorkers) {
		cfg.Workers, _ = flags.GetInt(flagWorkers)
	}
	if flags.Changed(flagDebug) {
		cfg.Debug, _ = flags.GetBool(flagDebug)
	}
	return cfg, nil
}

func runOptions() ([]memslog.Option, *config.Config) {
	return []memslog.Option{memslog.WithConfig(runConfig)}, runConfig
}
