package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jimyag/taxo/internal/taxo/config"
	"github.com/jimyag/taxo/internal/taxo/registry"
	"github.com/jimyag/taxo/internal/taxo/repository"
	"github.com/jimyag/taxo/internal/taxo/service"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// app 命令共享的状态，在 PersistentPreRunE 中初始化
type app struct {
	configFile string
	dbPath     string

	repo            *repository.Repository
	termService     *service.TermService
	taxonomyService *service.TaxonomyService
}

func newRootCmd() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:   "taxoctl",
		Short: "Manage taxonomies, terms and object relationships",
		Long: `taxoctl operates directly on the taxo store.

It reads the same configuration as the taxo server (TAXO_* environment
variables or --config) and prints results as JSON.

Examples:
  taxoctl taxonomy list
  taxoctl term add "Fruit" --taxonomy category
  taxoctl term add "Apple" --taxonomy category --parent 3
  taxoctl object set 42 Red Blue --taxonomy post_tag
  taxoctl object terms 42 --taxonomy post_tag`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.open(cmd.Context())
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return a.close()
		},
	}

	rootCmd.PersistentFlags().StringVarP(&a.configFile, "config", "c", "",
		"config file (default: TAXO_* environment variables only)")
	rootCmd.PersistentFlags().StringVar(&a.dbPath, "db", "",
		"path to the sqlite database (overrides the configured path)")

	rootCmd.AddCommand(
		newTaxonomyCmd(a),
		newTermCmd(a),
		newObjectCmd(a),
	)
	return rootCmd
}

func (a *app) open(ctx context.Context) error {
	cfg, err := config.New(a.configFile)
	if err != nil {
		return err
	}
	if a.dbPath != "" {
		cfg.DB.Driver = repository.DriverSQLite
		cfg.DB.Path = a.dbPath
	}
	if cfg.DB.Driver == repository.DriverSQLite {
		if err := os.MkdirAll(filepath.Dir(cfg.DB.Path), 0o755); err != nil {
			return fmt.Errorf("create data dir: %w", err)
		}
	}

	logger := zerolog.New(os.Stderr).Level(zerolog.WarnLevel).With().Timestamp().Logger()
	zerolog.DefaultContextLogger = &logger

	a.repo, err = repository.Open(repository.Options{
		Driver: cfg.DB.Driver,
		Path:   cfg.DB.Path,
		DSN:    cfg.DB.DSN,
	})
	if err != nil {
		return fmt.Errorf("open repository: %w", err)
	}

	reg := registry.New(nil)
	if err := reg.RegisterBuiltins(ctx); err != nil {
		return err
	}
	if cfg.Taxonomy.File != "" {
		if _, err := reg.LoadFile(ctx, cfg.Taxonomy.File); err != nil {
			return err
		}
	}

	policy, err := service.ParseSlugPolicy(cfg.Taxonomy.SlugPolicy)
	if err != nil {
		return err
	}
	// 命令行是短进程，不使用缓存
	a.termService = service.NewTermService(a.repo.Store(), reg, nil, nil, service.Options{SlugPolicy: policy})
	a.taxonomyService = service.NewTaxonomyService(reg)

	if cfg.Taxonomy.DefaultCategory != "" {
		if _, err := a.termService.EnsureDefaultTerm(ctx, "category", cfg.Taxonomy.DefaultCategory); err != nil {
			return fmt.Errorf("ensure default category: %w", err)
		}
	}
	return nil
}

func (a *app) close() error {
	if a.repo == nil {
		return nil
	}
	err := a.repo.Close()
	a.repo = nil
	return err
}

func printJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
