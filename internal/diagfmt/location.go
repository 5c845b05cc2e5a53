package diagfmt

import (
	"path/filepath"
	"strings"

	"reflq/internal/diag"
	"reflq/internal/source"
)

// located reports whether span points into fs. I/O and observability
// diagnostics never carry a location.
func located(fs *source.FileSet, code diag.Code, span source.Span) bool {
	if code >= diag.IOLoadFileError {
		return false
	}
	return fs != nil && int(span.File) < fs.Len()
}

func formatPath(fs *source.FileSet, id source.FileID, mode PathMode) string {
	f := fs.Get(id)
	switch mode {
	case PathModeAbsolute:
		return f.FormatPath("absolute", "")
	case PathModeRelative:
		return f.FormatPath("relative", fs.BaseDir())
	case PathModeBasename:
		return f.FormatPath("basename", "")
	}
	base := fs.BaseDir()
	if base != "" && filepath.IsAbs(f.Path) {
		if rel, err := filepath.Rel(base, f.Path); err == nil && !strings.HasPrefix(rel, "..") {
			return filepath.ToSlash(rel)
		}
	}
	return f.Path
}
