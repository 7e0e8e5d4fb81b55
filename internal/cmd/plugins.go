package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/harrison/ff/internal/plugin"
	"github.com/spf13/cobra"
)

// NewPluginsCommand creates the plugins command
func NewPluginsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "plugins [name...]",
		Short: "List the available test plugins or show their help",
		Long: `Without arguments, list every test plugin usable with -t/--test.
With plugin names (space or comma separated), print their full help.

Examples:
  ff plugins
  ff plugins size
  ff plugins size,gitignore`,
		RunE: func(cmd *cobra.Command, args []string) error {
			registry, err := plugin.NewRegistry(plugin.Builtin()...)
			if err != nil {
				return err
			}
			return showPlugins(cmd.OutOrStdout(), registry, args)
		},
	}
}

func showPlugins(out io.Writer, registry *plugin.Registry, args []string) error {
	var names []string
	for _, arg := range args {
		for _, name := range strings.Split(arg, ",") {
			if name = strings.TrimSpace(name); name != "" {
				names = append(names, name)
			}
		}
	}

	if len(names) == 0 {
		for _, def := range registry.Definitions() {
			printDescription(out, def)
		}
		return nil
	}

	defs := make([]plugin.Definition, 0, len(names))
	for _, name := range names {
		def, ok := registry.Lookup(name)
		if !ok {
			return fmt.Errorf("%w: %q", plugin.ErrUnknownPlugin, name)
		}
		defs = append(defs, def)
	}

	for _, def := range defs {
		printDescription(out, def)
		if help := strings.TrimRight(def.Help, " \t\r\n"); help != "" {
			fmt.Fprintf(out, "%s\n\n", help)
		}
	}
	return nil
}

func printDescription(out io.Writer, def plugin.Definition) {
	if def.Description == "" {
		fmt.Fprintf(out, "ff plugin: %s\n", def.Name)
		return
	}
	fmt.Fprintf(out, "ff plugin: %s - %s\n", def.Name, def.Description)
}
