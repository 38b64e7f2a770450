package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"freightdash/internal/config"
	"freightdash/internal/demo"
)

var errNoDemoTenants = errors.New("demo-data needs tenants: pass --config with accounts or --tenant")

func newDemoDataCmd() *cobra.Command {
	var (
		cfgFile string
		tenants []string
		out     string
		rows    int
		seed    int64
		dupRate float64
	)

	cmd := &cobra.Command{
		Use:   "demo-data",
		Short: "Write a sample orders workbook for the configured tenants",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadDemoConfig(cfgFile)
			if err != nil {
				return err
			}
			setupLogger(cfg.LogLevel)

			if len(tenants) == 0 {
				tenants = cfg.Tenants()
			}
			if len(tenants) == 0 {
				return errNoDemoTenants
			}

			f, err := os.Create(out)
			if err != nil {
				return fmt.Errorf("create %s: %w", out, err)
			}
			defer f.Close()

			err = demo.Generate(f, demo.Options{
				Rows:          rows,
				Tenants:       tenants,
				Seed:          seed,
				DuplicateRate: dupRate,
				Start:         time.Now().UTC().Truncate(24 * time.Hour),
				Progress:      cmd.ErrOrStderr(),
			})
			if err != nil {
				return err
			}
			if err := f.Close(); err != nil {
				return fmt.Errorf("close %s: %w", out, err)
			}
			slog.Info("demo workbook written", "path", out, "rows", rows, "tenants", len(tenants))
			return nil
		},
	}

	cmd.Flags().StringVar(&cfgFile, "config", "", "config file listing the tenants")
	cmd.Flags().StringSliceVar(&tenants, "tenant", nil, "tenant name, repeatable; overrides the config accounts")
	cmd.Flags().StringVar(&out, "out", "orders.xlsx", "output workbook")
	cmd.Flags().IntVar(&rows, "rows", 500, "number of distinct orders")
	cmd.Flags().Int64Var(&seed, "seed", 42, "random seed")
	cmd.Flags().Float64Var(&dupRate, "duplicates", 0.05, "share of orders exported twice")
	return cmd
}

// loadDemoConfig reads the config without validating it: demo-data only needs
// tenant names and the log level.
func loadDemoConfig(cfgFile string) (*config.Config, error) {
	v := viper.New()
	config.SetDefaults(v)
	config.BindEnv(v)
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", cfgFile, err)
		}
	}
	var cfg config.Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	return &cfg, nil
}
