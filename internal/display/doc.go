// Package display renders ff's user-facing output.
//
// Printer writes scan results to stdout, one path per record:
//
//	p := display.NewPrinter(os.Stdout, afero.NewOsFs(), pat, display.Options{
//	    Print0:    false,
//	    Prefix:    true,
//	    Highlight: display.ShouldHighlight(os.Stdout, cfg.Colorize, pat),
//	})
//	for path, err := range s.All(ctx) {
//	    ...
//	    p.Print(path)
//	}
//
// Records end with a newline, or with NUL when Print0 is set. With Prefix
// each record starts with PrefixDirs or PrefixFiles, decided by a fresh stat
// of the path. With Highlight the matched spans of the base name (or of the
// whole path under path search) are painted green.
//
// Warning renders pattern and plugin failures on stderr in yellow:
//
//	display.Warning{
//	    Title:      "Invalid pattern",
//	    Message:    err.Error(),
//	    Suggestion: "Use -p to search for the pattern literally",
//	}.Display(os.Stderr)
//
// Colors are only emitted when the destination is a terminal.
package display
