package assets

import "path/filepath"

// FileAccess resolves texture and shader paths declared inside model
// sources. The loading core never touches the filesystem directly for path
// logic; it goes through this collaborator so tests and virtual filesystems
// can substitute their own resolution.
type FileAccess interface {
	// IsFullyQualified reports whether the path needs no base to resolve.
	IsFullyQualified(path string) bool
	// ResolveRelative resolves a relative path against a base path.
	ResolveRelative(basePath, relativePath string) string
}

// OSFileAccess resolves paths against the host filesystem conventions.
type OSFileAccess struct{}

func (OSFileAccess) IsFullyQualified(path string) bool {
	return filepath.IsAbs(path)
}

func (OSFileAccess) ResolveRelative(basePath, relativePath string) string {
	return filepath.Clean(filepath.Join(basePath, relativePath))
}
