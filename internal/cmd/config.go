package cmd

import (
	"errors"
	"fmt"

	"github.com/harrison/ff/internal/config"
	"github.com/spf13/cobra"
)

// NewConfigCommand creates the config command group
func NewConfigCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage ff configuration files",
	}

	cmd.AddCommand(newConfigInitCommand())
	cmd.AddCommand(newConfigShowCommand())

	return cmd
}

func newConfigInitCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init [path]",
		Short: "Write the default configuration",
		Long: `Write the built-in defaults to a configuration file, ~/.ff.yaml unless a
path is given. A path ending in .toml is written as TOML, anything else as
YAML. An existing file is left alone unless --force is given.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := ""
			if len(args) == 1 {
				path = args[0]
			} else {
				p, err := config.UserPath()
				if err != nil {
					return err
				}
				path = p
			}

			force, _ := cmd.Flags().GetBool("force")
			if err := config.DefaultConfig().Save(path, force); err != nil {
				if errors.Is(err, config.ErrConfigExists) {
					return fmt.Errorf("%w (use --force to overwrite)", err)
				}
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
			return nil
		},
	}

	cmd.Flags().Bool("force", false, "Overwrite an existing file")
	return cmd
}

func newConfigShowCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		Long: `Print the configuration ff would use: files from the search path (or
--config), overridden by FF_* environment variables.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			base, _, err := loadBaseConfig(cmd.Flags())
			if err != nil {
				return err
			}
			cfg, err := resolveConfig(cmd.Flags(), base)
			if err != nil {
				return err
			}

			format, _ := cmd.Flags().GetString("format")
			data, err := cfg.Marshal(format)
			if err != nil {
				return &usageError{err: err}
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}

	cmd.Flags().String("format", config.FormatYAML, "Output format: yaml or toml")
	return cmd
}
