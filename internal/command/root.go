// Package command contains the CLI command constructors.
package command

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	"github.com/spf13/cobra"

	"filmshelf/internal/config"
	"filmshelf/internal/observability"
)

// RootCommand instantiates the root command, with all sub-commands bound.
func RootCommand() *cobra.Command {
	configFilePath := filepath.Join(xdg.ConfigHome, "filmshelf.yaml")
	cmd := &cobra.Command{
		Use:          "filmshelf [command] [flags]",
		Short:        "The movie catalog web app",
		Version:      version(),
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		CompletionOptions: cobra.CompletionOptions{
			HiddenDefaultCmd: true,
		},
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) (err error) {
			cfg, err := loadOrInitConfig(configFilePath)
			if err != nil {
				return fmt.Errorf("failed to load configuration file: %w", err)
			}
			logger := observability.InitSlog(cfg)
			logger.DebugContext(cmd.Context(), "configuration loaded", slog.Any("config", cfg))
			slog.SetDefault(logger)
			cmd.SetContext(context.WithValue(cmd.Context(), configKey{}, cfg))
			return nil
		},
	}

	cmd.PersistentFlags().StringVarP(
		&configFilePath,
		"config", "c",
		configFilePath,
		"path to the configuration file",
	)

	cmd.AddCommand(
		serveCommand(),
		userCommand(),
	)

	return cmd
}

func loadOrInitConfig(configFilePath string) (*config.Config, error) {
	cfg, err := config.Load(configFilePath)
	if err == nil || !errors.Is(err, os.ErrNotExist) {
		return cfg, err
	}

	resp, initErr := prompt(fmt.Sprintf("Config not found at %s. Create one? [y|N] ", configFilePath), false)
	if initErr != nil || !bytes.Equal(resp, []byte("y")) {
		return nil, errors.Join(err, initErr)
	}

	cfg = config.Default()
	resp, err = prompt("Run in dev mode against in-memory fakes? [y|N] ", false)
	if err != nil {
		return nil, err
	}
	if bytes.Equal(resp, []byte("y")) {
		cfg.DevMode = true
	} else {
		if resp, err = prompt("Enter the MongoDB connection URI: ", false); err != nil {
			return nil, err
		}
		cfg.MongoURI = string(resp)
		if resp, err = prompt("Enter the PostgreSQL DSN: ", false); err != nil {
			return nil, err
		}
		cfg.PostgresDSN = string(resp)
	}

	if err = cfg.Validate(); err != nil {
		return nil, err
	}
	if err = cfg.Write(configFilePath); err != nil {
		return nil, fmt.Errorf("failed to write config file to %s: %w", configFilePath, err)
	}
	return cfg, nil
}
