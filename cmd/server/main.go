package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"auraboxing/internal/adapters/storage"
	"auraboxing/internal/application/orchestrators"
	"auraboxing/internal/config"
)

// version is set at build time via -ldflags "-X main.version=..."
var version = "dev"

func main() {
	if err := rootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

// rootCommand builds the CLI. Running it without a subcommand starts the server.
func rootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:          "aura",
		Short:        "Aura Boxing program site",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context())
		},
	}

	rootCmd.AddCommand(
		serveCommand(),
		hashSecretCommand(),
		envCommand(),
		versionCommand(),
	)
	return rootCmd
}

func serveCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context())
		},
	}
}

func hashSecretCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "hash-secret <secret>",
		Short: "Print a bcrypt hash for AURA_ADMIN_SECRET_HASH",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return printHash(cmd.OutOrStdout(), args[0])
		},
	}
}

func printHash(w io.Writer, secret string) error {
	hash, err := orchestrators.HashSecret(secret)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, hash)
	return err
}

func envCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "env",
		Short: "List the environment variables the server reads",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprint(cmd.OutOrStdout(), config.Usage())
		},
	}
}

func versionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "aura %s (schema %d)\n", version, storage.LatestSchemaVersion())
		},
	}
}
