// Package utils contains general helper functions used across the dump tool.
package utils

import (
	"path/filepath"
)

// RelativePathOrSelf calculates the relative path from root to fullPath.
// Returns the cleaned fullPath if relative calculation fails.
// Returns "." if fullPath and root resolve to the same directory.
func RelativePathOrSelf(fullPath, root string) string {
	cleanPath := filepath.Clean(fullPath)
	absoluteRoot, err := filepath.Abs(root)
	if err != nil {
		return cleanPath
	}
	cleanAbsoluteRoot := filepath.Clean(absoluteRoot)

	if cleanPath == cleanAbsoluteRoot {
		return "."
	}

	relativePath, relErr := filepath.Rel(cleanAbsoluteRoot, cleanPath)
	if relErr != nil {
		return cleanPath
	}
	return filepath.ToSlash(relativePath)
}

// DeduplicateEntries removes duplicate entries from a slice while preserving order.
// The first occurrence of each unique entry is kept.
func DeduplicateEntries(entries []string) []string {
	encounteredEntries := make(map[string]struct{})
	result := make([]string, 0, len(entries))
	for _, entry := range entries {
		if _, exists := encounteredEntries[entry]; !exists {
			encounteredEntries[entry] = struct{}{}
			result = append(result, entry)
		}
	}
	return result
}
