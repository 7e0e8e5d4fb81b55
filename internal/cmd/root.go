package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// Version is injected at build time via -ldflags
var Version = "dev"

// NewRootCommand creates and returns the root cobra command for ff
func NewRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ff [flags] [pattern] [source...]",
		Short: "Find files and directories by name",
		Long: `ff searches the given source directories (the current directory by
default) for files and directories whose name matches a pattern.

The pattern is a glob by default. -g switches to regular expressions and
-f to fuzzy matching. A pattern written as "mode/body/modifiers" selects the
dialect and options inline:

  g/^re.*me$/i    regular expression, ignore case
  f/rdm/          fuzzy
  p/*.go/q        glob matched against the full path

Modes: p (glob), g (regex), f (fuzzy). Modifiers: i (ignore case),
m (regex multiline), s (regex dotall), r (invert match), q (path search).
Delimiters: / ! @ # % | ? + and the pairs {} [] () <>.

Defaults are read from ~/.ff.yaml, ~/.ff.toml, ./.ff.yaml and ./.ff.toml
(or the file named by FF_CONFIG). FF_* environment variables override the
files, e.g. FF_DEPTH=2, and command line flags override both.

Examples:
  ff '*.go'                       # Go files below the current directory
  ff -g '^main' src tools         # regex, two sources
  ff -m dirs -D 1 test            # directories named test, one level deep
  ff -t size:>10m '*.log' /var    # log files larger than 10 MiB
  ff -t gitignore -q 'f/cmdmn/'   # fuzzy path search, honoring .gitignore
  ff -0 '*.tmp' | xargs -0 rm     # NUL separated output

Use -p to search for a pattern that collides with a subcommand name.`,
		Version: Version,
		Args:    cobra.ArbitraryArgs,
		RunE:    runSearch,
		// Errors are reported by the caller with their own exit codes
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return &usageError{err: err}
	})

	addSearchFlags(cmd)

	cmd.PersistentFlags().String("config", "", "Path to a config file (default: ~/.ff.yaml, ./.ff.yaml, ...)")
	cmd.PersistentFlags().String("log-level", "", "Diagnostics verbosity: trace, debug, info, warn, error")

	cmd.AddCommand(NewPluginsCommand())
	cmd.AddCommand(NewConfigCommand())

	return cmd
}

func addSearchFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.BoolP("print0", "0", false, "Separate results with NUL instead of newline")
	f.BoolP("ignorecase", "i", false, "Ignore case when matching")
	f.Bool("smartcase", false, "Ignore case unless the pattern has an upper-case letter")
	f.StringArrayP("source", "s", nil, "Directory to search (repeatable)")
	f.StringP("pattern", "p", "", "Pattern, taken literally (no magic decoding)")
	f.BoolP("regexp", "g", false, "Treat the pattern as a regular expression")
	f.BoolP("fuzzy", "f", false, "Fuzzy match: pattern characters in order")
	f.IntP("depth", "D", -1, "Descend at most this many levels (-1 = unlimited)")
	f.BoolP("path-search", "q", false, "Match against the full path, not the name")
	f.BoolP("regex-multiline", "l", false, "Regex ^ and $ match at line breaks")
	f.BoolP("regex-dotall", "d", false, "Regex . matches newline")
	f.BoolP("begin", "B", false, "Anchor glob and fuzzy patterns at the beginning")
	f.BoolP("end", "E", false, "Anchor glob and fuzzy patterns at the end")
	f.BoolP("invert-match", "v", false, "Report paths that do not match")
	f.StringP("mode", "m", "all", "What to report: files, dirs or all")
	f.Bool("prefix", false, "Prefix results with d: or f:")
	f.Bool("no-colorize", false, "Never highlight matches")
	f.Bool("vcs", false, "Descend into .git, .svn and similar directories")
	f.StringArrayP("exclude-path", "c", nil, "Skip this path and everything below it (repeatable)")
	f.StringArrayP("test", "t", nil, "Filter through a plugin, as name or name:argument (repeatable)")
	f.SetNormalizeFunc(flagAliases)
}

// flagAliases accepts the hyphenated spellings of the case flags.
func flagAliases(_ *pflag.FlagSet, name string) pflag.NormalizedName {
	switch name {
	case "ignore-case":
		name = "ignorecase"
	case "smart-case":
		name = "smartcase"
	}
	return pflag.NormalizedName(name)
}
