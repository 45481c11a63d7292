package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/courtserver/internal/app"
	"github.com/vovakirdan/courtserver/internal/auth"
	"github.com/vovakirdan/courtserver/internal/config"
	applog "github.com/vovakirdan/courtserver/internal/log"
)

type flags struct {
	configPath string
	overrides  config.Config
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var f flags

	root := &cobra.Command{
		Use:          "courtserver",
		Short:        "Courtroom roleplay server",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return serve(cmd.Context(), f)
		},
	}
	root.PersistentFlags().StringVar(&f.configPath, "config", "", "path to config.yaml")
	root.PersistentFlags().StringVar(&f.overrides.LogLevel, "log-level", "", "log level (debug, info, warn, error)")
	root.Flags().StringVar(&f.overrides.Addr, "addr", "", "HTTP listen address")
	root.Flags().DurationVar(&f.overrides.ShutdownTimeout, "shutdown-timeout", 0, "graceful shutdown timeout")
	root.Flags().StringVar(&f.overrides.IdentityDBPath, "db", "", "identity database path")

	root.AddCommand(newTokenCmd(&f), newHashCmd())
	return root
}

func loadConfig(f flags) (config.Config, error) {
	bootstrap := applog.New(f.overrides.LogLevel)
	cfg, path, err := config.Load(bootstrap, f.configPath)
	if err != nil {
		return cfg, err
	}
	cfg.UpdateFrom(f.overrides)
	bootstrap.Debug().Str("path", path).Msg("config loaded")
	return cfg, nil
}

func serve(ctx context.Context, f flags) error {
	cfg, err := loadConfig(f)
	if err != nil {
		return err
	}
	logger := applog.New(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	application, err := app.New(cfg, logger)
	if err != nil {
		logger.Error().Err(err).Msg("failed to start")
		return err
	}

	logger.Info().Str("addr", cfg.Addr).Msg("starting courtserver")
	if err := application.Run(ctx); err != nil {
		logger.Error().Err(err).Msg("server exited with error")
		return err
	}
	logger.Info().Msg("server stopped")
	return nil
}

func newTokenCmd(f *flags) *cobra.Command {
	var (
		operator string
		role     string
		ttl      time.Duration
	)
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Mint a staff API token",
		RunE: func(cmd *cobra.Command, _ []string) error {
			switch role {
			case auth.RoleModerator, auth.RoleCaseManager, auth.RoleGameMaster:
			default:
				return fmt.Errorf("%w: %q", auth.ErrUnknownRole, role)
			}
			cfg, err := loadConfig(*f)
			if err != nil {
				return err
			}
			jwtCfg := cfg.JWT()
			if ttl > 0 {
				jwtCfg.TTL = ttl
			}
			token, err := auth.GenerateToken(jwtCfg, operator, role)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}
	cmd.Flags().StringVar(&operator, "operator", "", "operator name recorded in the token")
	cmd.Flags().StringVar(&role, "role", auth.RoleModerator, "staff role (mod, cm, gm)")
	cmd.Flags().DurationVar(&ttl, "ttl", 0, "token lifetime (default from config)")
	_ = cmd.MarkFlagRequired("operator")
	return cmd
}

func newHashCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "hash-password <password>",
		Short: "Print a bcrypt hash for a credential table entry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			hash, err := auth.HashPassword(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), hash)
			return nil
		},
	}
}
