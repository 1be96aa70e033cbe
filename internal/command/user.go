package command

import (
	"bytes"
	"context"
	"errors"
	"log/slog"

	"github.com/spf13/cobra"

	"filmshelf/internal/config"
	"filmshelf/internal/sec"
	"filmshelf/internal/storage"
	"filmshelf/internal/storage/mongodb"
)

func userCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "User commands",
	}
	cmd.AddCommand(
		userCreateCommand(),
		userDeleteCommand(),
	)
	return cmd
}

// openUsers connects the credential store for the user commands. Dev mode has
// no durable accounts to manage, so it is rejected outright.
func openUsers(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*mongodb.Conn, storage.Users, error) {
	if cfg.DevMode {
		return nil, nil, errors.New("user commands need a real datastore, not dev mode")
	}
	conn, err := mongodb.Open(ctx, cfg, logger)
	if err != nil {
		return nil, nil, err
	}
	return conn, mongodb.NewUsers(conn), nil
}

func userCreateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "create EMAIL",
		Short: "Create user",
		Long: "Creates an account for the provided email. The display name and password\n" +
			"may be provided via stdin or through the interactive prompt.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) (runErr error) {
			cfg, logger, err := loadConfig(cmd.Context())
			if err != nil {
				return err
			}
			conn, users, err := openUsers(cmd.Context(), cfg, logger)
			if err != nil {
				return err
			}
			defer func() {
				if err := conn.Close(cmd.Context()); err != nil {
					runErr = errors.Join(runErr, err)
				}
			}()

			email := args[0]
			name, err := prompt("name: ", false)
			if err != nil {
				return err
			}
			passwd, err := prompt("password: ", true)
			if err != nil {
				return err
			}
			hash, err := sec.HashPassword(passwd)
			if err != nil {
				return err
			}
			if err = users.InsertUser(cmd.Context(), storage.User{
				Name:     string(name),
				Email:    email,
				Password: hash,
			}); err != nil {
				return err
			}

			logger.InfoContext(cmd.Context(), "created user", slog.String("email", email))
			return nil
		},
	}
}

func userDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete EMAIL",
		Short: "Delete user",
		Long: "Permanently deletes the account for the provided email. " +
			"This operation is permanent and irreversible.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) (runErr error) {
			cfg, logger, err := loadConfig(cmd.Context())
			if err != nil {
				return err
			}
			conn, users, err := openUsers(cmd.Context(), cfg, logger)
			if err != nil {
				return err
			}
			defer func() {
				if err := conn.Close(cmd.Context()); err != nil {
					runErr = errors.Join(runErr, err)
				}
			}()

			email := args[0]
			logger = logger.With(slog.String("email", email))
			if _, err = users.GetUserByEmail(cmd.Context(), email); err != nil {
				return err
			}
			resp, err := prompt("Are you sure you want to delete this user? [y|N] ", false)
			if !bytes.Equal(resp, []byte{'y'}) || err != nil {
				logger.InfoContext(cmd.Context(), "aborted user deletion")
				return err
			}
			if err = users.DeleteUserByEmail(cmd.Context(), email); err != nil {
				return err
			}
			logger.InfoContext(cmd.Context(), "user deleted")
			return nil
		},
	}
}
