package display

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/harrison/ff/internal/pattern"
	"github.com/mattn/go-isatty"
	"github.com/spf13/afero"
)

// Default record prefixes.
const (
	DefaultPrefixDirs  = "d: "
	DefaultPrefixFiles = "f: "
)

// Options controls how results are written.
type Options struct {
	// Print0 terminates records with NUL instead of newline
	Print0 bool

	// Prefix marks records with PrefixDirs or PrefixFiles
	Prefix      bool
	PrefixDirs  string
	PrefixFiles string

	// Highlight paints matched text; see ShouldHighlight
	Highlight bool
}

// Printer writes scan results.
type Printer struct {
	w     io.Writer
	fs    afero.Fs
	pat   *pattern.Pattern
	opts  Options
	paint func(a ...interface{}) string
}

// NewPrinter returns a Printer writing to w. fs is consulted for the
// directory/file prefix; pat supplies the spans to highlight.
func NewPrinter(w io.Writer, fs afero.Fs, pat *pattern.Pattern, opts Options) *Printer {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	if opts.PrefixDirs == "" {
		opts.PrefixDirs = DefaultPrefixDirs
	}
	if opts.PrefixFiles == "" {
		opts.PrefixFiles = DefaultPrefixFiles
	}
	if pat == nil {
		opts.Highlight = false
	}

	green := color.New(color.FgGreen)
	// The global color.NoColor follows os.Stdout; the caller already decided.
	green.EnableColor()

	return &Printer{
		w:     w,
		fs:    fs,
		pat:   pat,
		opts:  opts,
		paint: green.SprintFunc(),
	}
}

// Delimiter returns the record terminator.
func (p *Printer) Delimiter() string {
	if p.opts.Print0 {
		return "\x00"
	}
	return "\n"
}

// Print writes one record for path.
func (p *Printer) Print(path string) error {
	prefix := ""
	if p.opts.Prefix {
		prefix = p.opts.PrefixFiles
		if p.isDir(path) {
			prefix = p.opts.PrefixDirs
		}
	}

	shown := path
	if p.opts.Highlight {
		shown = p.highlight(path)
	}

	_, err := fmt.Fprint(p.w, prefix, shown, p.Delimiter())
	return err
}

// isDir does not follow a trailing symlink, so a link to a directory is
// prefixed as a file.
func (p *Printer) isDir(path string) bool {
	var (
		info os.FileInfo
		err  error
	)
	if l, ok := p.fs.(afero.Lstater); ok {
		info, _, err = l.LstatIfPossible(path)
	} else {
		info, err = p.fs.Stat(path)
	}
	return err == nil && info.IsDir()
}

func (p *Printer) highlight(path string) string {
	fn := func(m string) string { return p.paint(m) }
	if p.pat.Flags().PathSearch {
		return p.pat.Highlight(path, fn)
	}
	dir, base := filepath.Split(path)
	return dir + p.pat.Highlight(base, fn)
}

// IsTerminal reports whether w writes to a terminal.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(interface{ Fd() uintptr })
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// ShouldHighlight reports whether results written to w get matched spans
// painted: w is a terminal, colorize is on and the match is not inverted.
func ShouldHighlight(w io.Writer, colorize bool, pat *pattern.Pattern) bool {
	if !colorize || pat == nil || pat.Flags().InvertMatch {
		return false
	}
	return IsTerminal(w)
}
