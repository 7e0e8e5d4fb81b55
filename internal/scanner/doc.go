// Package scanner walks source directories and yields the paths that pass
// every filter of a search.
//
// # Filters
//
// Filters run in this order for each entry:
//   - Depth: a source is depth 0 and each subdirectory is one deeper. A
//     directory deeper than Config.Depth is neither emitted nor read.
//   - Exclusion: paths equal to an excluded entry, or containing the entry
//     followed by a separator, are skipped. Excluded directories are pruned.
//   - VCS: directories named .git, .svn, CVS, .hg, _MTN, RCS, SCCS, _darcs or
//     _sgbak are pruned unless Config.IncludeVCS is set.
//   - Mode: files, dirs or all. A source directory is never emitted.
//   - Pattern: matched against the base name, or the whole path when the
//     pattern has PathSearch set. InvertMatch flips the result.
//   - Plugins: evaluated in order, stopping at the first rejection. A plugin
//     error ends the walk.
//
// Paths are NFKC-normalized before comparison and output. Directories are
// read with the names the filesystem reported. Symbolic links are reported
// as files and never followed.
//
// # Usage
//
//	p, err := pattern.NewBuilder("*.go").WithFlags(pattern.Flags{AnchorEnd: true}).Compile()
//	if err != nil {
//	    return err
//	}
//	s, err := scanner.New(afero.NewOsFs(), scanner.Config{
//	    Sources: []string{"/src"},
//	    Depth:   -1,
//	    Mode:    scanner.ModeFiles,
//	    Pattern: p,
//	})
//	if err != nil {
//	    return err
//	}
//	for path, err := range s.All(ctx) {
//	    if err != nil {
//	        return err
//	    }
//	    fmt.Println(path)
//	}
//
// Unreadable directories are logged at warn level and skipped; the walk
// continues with the next sibling.
package scanner
