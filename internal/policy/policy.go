// Package policy decides which paths enter the tree view and which file
// contents are dumped. Every verdict is a pure function over a relative path
// and the loaded configuration.
package policy

import (
	"path/filepath"
	"strings"

	"github.com/temirov/projdump/internal/config"
)

const pathSegmentSeparator = "/"

// ShouldIncludeDirectory reports whether the directory at relativePath is
// displayed and descended into. A force_exclude match prunes the directory
// unconditionally. An ignored_dirs match prunes it unless the path also
// matches force_include. Pruned directories are never descended into, so
// their children are never visited.
func ShouldIncludeDirectory(relativePath string, configuration config.Configuration) bool {
	if MatchesAnyPattern(relativePath, configuration.ForceExclude) {
		return false
	}
	if matchesIgnoredDirectory(relativePath, configuration.IgnoredDirs) {
		return MatchesAnyPattern(relativePath, configuration.ForceInclude)
	}
	return true
}

// ShouldDumpFile reports whether the content of the file at relativePath is
// appended to the dump. force_exclude has the highest precedence, then
// force_include, then the extension allow-list. Extension comparison is
// case-insensitive; files without an extension (such as Dockerfile) match
// when their base name is listed in allowed_extensions.
func ShouldDumpFile(relativePath string, configuration config.Configuration) bool {
	if MatchesAnyPattern(relativePath, configuration.ForceExclude) {
		return false
	}
	if MatchesAnyPattern(relativePath, configuration.ForceInclude) {
		return true
	}
	return extensionAllowed(relativePath, configuration.AllowedExtensions)
}

// MatchesAnyPattern reports whether relativePath matches one of the force
// patterns. The candidate path and every pattern are converted to
// forward-slash form, a trailing slash marking a directory pattern is
// stripped, and the pattern's segment sequence must appear contiguously
// among the path's segments. Individual segments are compared with
// filepath.Match semantics, so both bare names ("Dockerfile") and nested
// directory markers ("logs/") match anywhere in the tree.
func MatchesAnyPattern(relativePath string, patterns []string) bool {
	pathSegments := splitPathSegments(relativePath)

	for _, patternValue := range patterns {
		normalizedPattern := strings.ReplaceAll(patternValue, "\\", pathSegmentSeparator)
		trimmedPattern := strings.TrimSuffix(normalizedPattern, pathSegmentSeparator)
		if trimmedPattern == "" {
			continue
		}
		patternSegments := strings.Split(trimmedPattern, pathSegmentSeparator)
		if segmentsContain(pathSegments, patternSegments) {
			return true
		}
	}
	return false
}

// matchesIgnoredDirectory reports whether any segment of relativePath matches
// an ignored directory name. Trailing slashes on configured names are
// ignored so "logs/" and "logs" behave identically.
func matchesIgnoredDirectory(relativePath string, ignoredDirectories []string) bool {
	pathSegments := splitPathSegments(relativePath)

	for _, directoryName := range ignoredDirectories {
		trimmedName := strings.TrimSuffix(strings.TrimSpace(directoryName), pathSegmentSeparator)
		if trimmedName == "" {
			continue
		}
		for _, pathSegment := range pathSegments {
			isMatched, matchError := filepath.Match(trimmedName, pathSegment)
			if matchError == nil && isMatched {
				return true
			}
		}
	}
	return false
}

// extensionAllowed reports whether the file's extension or exact base name is
// present in the allow-list. Comparison is case-insensitive.
func extensionAllowed(relativePath string, allowedExtensions []string) bool {
	baseName := filepath.Base(relativePath)
	extension := filepath.Ext(baseName)

	for _, allowedEntry := range allowedExtensions {
		if extension != "" && strings.EqualFold(extension, allowedEntry) {
			return true
		}
		if strings.EqualFold(baseName, allowedEntry) {
			return true
		}
	}
	return false
}

// splitPathSegments normalizes relativePath to forward slashes and splits it
// into segments.
func splitPathSegments(relativePath string) []string {
	normalizedPath := strings.ReplaceAll(relativePath, "\\", pathSegmentSeparator)
	return strings.Split(normalizedPath, pathSegmentSeparator)
}

// segmentsContain reports whether patternSegments appears as a contiguous
// run inside pathSegments, comparing each segment with filepath.Match
// semantics.
func segmentsContain(pathSegments, patternSegments []string) bool {
	if len(patternSegments) == 0 || len(patternSegments) > len(pathSegments) {
		return false
	}
	for startIndex := 0; startIndex <= len(pathSegments)-len(patternSegments); startIndex++ {
		if segmentsMatch(pathSegments[startIndex:startIndex+len(patternSegments)], patternSegments) {
			return true
		}
	}
	return false
}

// segmentsMatch reports whether each pattern segment matches the
// corresponding path segment using filepath.Match semantics.
func segmentsMatch(pathSegments, patternSegments []string) bool {
	for segmentIndex, patternSegment := range patternSegments {
		isMatched, matchError := filepath.Match(patternSegment, pathSegments[segmentIndex])
		if matchError != nil || !isMatched {
			return false
		}
	}
	return true
}
