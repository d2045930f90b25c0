// Package commands contains the traversal engine that produces the tree
// rendering data and the ordered dump records in a single coordinated pass.
package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/temirov/projdump/internal/config"
	"github.com/temirov/projdump/internal/policy"
	"github.com/temirov/projdump/internal/tokenizer"
	"github.com/temirov/projdump/internal/types"
	"github.com/temirov/projdump/internal/utils"
)

const (
	// warningSkipSubdirFormat is used when a subdirectory cannot be processed.
	warningSkipSubdirFormat = "Warning: Skipping subdirectory %s due to error: %v\n"
	// warningStatPathFormat is used when file information cannot be retrieved.
	warningStatPathFormat = "Warning: unable to stat %s: %v\n"
	// warningResolvePathFormat is used when a path cannot be resolved to its real location.
	warningResolvePathFormat = "Warning: unable to resolve %s: %v\n"
	// warningRevisitedDirFormat is used when a directory was already visited through another path.
	warningRevisitedDirFormat = "Warning: skipping already visited directory %s\n"
	// warningTokenCountFormat is used when token estimation fails for a file.
	warningTokenCountFormat = "Warning: failed to count tokens for %s: %v\n"

	// errorAbsolutePathFormat is used when the absolute path cannot be determined.
	errorAbsolutePathFormat = "getting absolute path for %s: %w"
	// errorReadRootFormat is used when the root directory cannot be read.
	errorReadRootFormat = "reading root directory %s: %w"

	// readErrorNoteFormat is the inline placeholder recorded when a file cannot be read.
	readErrorNoteFormat = "[Error reading file: %v]"
)

// DumpBuilder walks a root directory once, consulting the filter policy at
// each node. It owns the visited sets that prevent duplicate dump blocks and
// symlink traversal loops; both live for a single Run.
type DumpBuilder struct {
	Configuration config.Configuration
	TokenCounter  tokenizer.Counter

	visitedDirectories map[string]struct{}
	visitedFiles       map[string]struct{}
	dumpRecords        []types.DumpRecord
	rootDirectoryPath  string
}

// Run performs the depth-first pre-order traversal rooted at
// rootDirectoryPath. It returns the filtered tree and the dump records in
// walk order. An unreadable root is fatal; every other failure is recovered
// locally with a stderr warning or an inline note.
func (dumpBuilder *DumpBuilder) Run(rootDirectoryPath string) (*types.TreeNode, []types.DumpRecord, error) {
	absoluteRootDirPath, absolutePathError := filepath.Abs(rootDirectoryPath)
	if absolutePathError != nil {
		return nil, nil, fmt.Errorf(errorAbsolutePathFormat, rootDirectoryPath, absolutePathError)
	}
	cleanedRootPath := filepath.Clean(absoluteRootDirPath)

	dumpBuilder.visitedDirectories = make(map[string]struct{})
	dumpBuilder.visitedFiles = make(map[string]struct{})
	dumpBuilder.dumpRecords = nil
	dumpBuilder.rootDirectoryPath = cleanedRootPath

	rootNode := &types.TreeNode{
		RelativePath: ".",
		Name:         filepath.Base(cleanedRootPath),
		Type:         types.NodeTypeDirectory,
	}
	rootInfo, rootStatError := os.Stat(cleanedRootPath)
	if rootStatError == nil {
		rootNode.LastModified = utils.FormatTimestamp(rootInfo.ModTime())
	}

	realRootPath := cleanedRootPath
	if resolvedRootPath, resolveError := filepath.EvalSymlinks(cleanedRootPath); resolveError == nil {
		realRootPath = resolvedRootPath
	}
	dumpBuilder.markDirectoryVisited(realRootPath)

	children, buildError := dumpBuilder.buildChildren(cleanedRootPath)
	if buildError != nil {
		return nil, nil, fmt.Errorf(errorReadRootFormat, rootDirectoryPath, buildError)
	}
	rootNode.Children = children

	return rootNode, dumpBuilder.dumpRecords, nil
}

// buildChildren lists, filters, and orders the entries of one directory,
// recursing into included subdirectories and dumping eligible files.
func (dumpBuilder *DumpBuilder) buildChildren(currentDirectoryPath string) ([]*types.TreeNode, error) {
	directoryEntries, readDirectoryError := os.ReadDir(currentDirectoryPath)
	if readDirectoryError != nil {
		return nil, readDirectoryError
	}
	sortDirectoryEntries(directoryEntries)

	var nodes []*types.TreeNode
	for _, directoryEntry := range directoryEntries {
		childPath := filepath.Join(currentDirectoryPath, directoryEntry.Name())
		relativeChildPath := utils.RelativePathOrSelf(childPath, dumpBuilder.rootDirectoryPath)

		// IsDir is false for symlinks, so a link to a directory is
		// recorded as a leaf and never descended into.
		if directoryEntry.IsDir() {
			directoryNode := dumpBuilder.visitDirectory(childPath, relativeChildPath, directoryEntry)
			if directoryNode != nil {
				nodes = append(nodes, directoryNode)
			}
			continue
		}

		fileNode := dumpBuilder.visitFile(childPath, relativeChildPath, directoryEntry)
		if fileNode != nil {
			nodes = append(nodes, fileNode)
		}
	}

	return nodes, nil
}

// visitDirectory applies the directory policy and recurses. It returns nil
// when the directory is pruned or was already reached through another path.
func (dumpBuilder *DumpBuilder) visitDirectory(directoryPath string, relativePath string, directoryEntry os.DirEntry) *types.TreeNode {
	if !policy.ShouldIncludeDirectory(relativePath, dumpBuilder.Configuration) {
		return nil
	}

	realDirectoryPath, resolveError := filepath.EvalSymlinks(directoryPath)
	if resolveError != nil {
		fmt.Fprintf(os.Stderr, warningResolvePathFormat, directoryPath, resolveError)
		return nil
	}
	if dumpBuilder.directoryVisited(realDirectoryPath) {
		fmt.Fprintf(os.Stderr, warningRevisitedDirFormat, directoryPath)
		return nil
	}
	dumpBuilder.markDirectoryVisited(realDirectoryPath)

	directoryNode := &types.TreeNode{
		RelativePath: relativePath,
		Name:         directoryEntry.Name(),
		Type:         types.NodeTypeDirectory,
	}
	if entryInfo, infoError := directoryEntry.Info(); infoError == nil {
		directoryNode.LastModified = utils.FormatTimestamp(entryInfo.ModTime())
	}

	childNodes, buildError := dumpBuilder.buildChildren(directoryPath)
	if buildError != nil {
		fmt.Fprintf(os.Stderr, warningSkipSubdirFormat, directoryPath, buildError)
		directoryNode.Children = nil
	} else {
		directoryNode.Children = childNodes
	}
	return directoryNode
}

// visitFile emits a tree node for every file that survives directory
// pruning; only the dump itself is extension-filtered. Eligible files are
// dumped at most once per run, keyed by their resolved real path.
func (dumpBuilder *DumpBuilder) visitFile(filePath string, relativePath string, directoryEntry os.DirEntry) *types.TreeNode {
	fileNode := &types.TreeNode{
		RelativePath: relativePath,
		Name:         directoryEntry.Name(),
		Type:         types.NodeTypeFile,
	}

	entryInfo, infoError := directoryEntry.Info()
	if infoError != nil {
		fmt.Fprintf(os.Stderr, warningStatPathFormat, filePath, infoError)
	} else {
		fileNode.Size = utils.FormatFileSize(entryInfo.Size())
		fileNode.LastModified = utils.FormatTimestamp(entryInfo.ModTime())
	}

	if !policy.ShouldDumpFile(relativePath, dumpBuilder.Configuration) {
		return fileNode
	}

	realFilePath := filePath
	if resolvedPath, resolveError := filepath.EvalSymlinks(filePath); resolveError == nil {
		realFilePath = resolvedPath
	}
	if _, alreadyDumped := dumpBuilder.visitedFiles[realFilePath]; alreadyDumped {
		return fileNode
	}
	dumpBuilder.visitedFiles[realFilePath] = struct{}{}

	dumpRecord := dumpBuilder.readDumpRecord(filePath, relativePath)
	if dumpRecord.Type == types.NodeTypeBinary {
		fileNode.Type = types.NodeTypeBinary
	}
	dumpBuilder.dumpRecords = append(dumpBuilder.dumpRecords, dumpRecord)
	return fileNode
}

// readDumpRecord reads the file content and classifies it. Read failures are
// recorded inline so the walk never aborts on a single file.
func (dumpBuilder *DumpBuilder) readDumpRecord(filePath string, relativePath string) types.DumpRecord {
	dumpRecord := types.DumpRecord{
		RelativePath: relativePath,
		Type:         types.NodeTypeFile,
	}

	fileBytes, fileReadError := os.ReadFile(filePath)
	if fileReadError != nil {
		dumpRecord.ReadFailed = true
		dumpRecord.Content = fmt.Sprintf(readErrorNoteFormat, fileReadError)
		return dumpRecord
	}
	dumpRecord.SizeBytes = int64(len(fileBytes))

	if utils.IsBinary(fileBytes) {
		dumpRecord.Type = types.NodeTypeBinary
		dumpRecord.MimeType = utils.DetectMimeType(filePath)
		return dumpRecord
	}

	dumpRecord.Content = string(fileBytes)
	if dumpBuilder.TokenCounter != nil {
		tokenCount, tokenCountError := dumpBuilder.TokenCounter.CountString(dumpRecord.Content)
		if tokenCountError != nil {
			fmt.Fprintf(os.Stderr, warningTokenCountFormat, filePath, tokenCountError)
		} else {
			dumpRecord.Tokens = tokenCount
		}
	}
	return dumpRecord
}

// directoryVisited reports whether the resolved directory path was already descended into.
func (dumpBuilder *DumpBuilder) directoryVisited(realDirectoryPath string) bool {
	_, exists := dumpBuilder.visitedDirectories[realDirectoryPath]
	return exists
}

// markDirectoryVisited records the resolved directory path in the visited set.
func (dumpBuilder *DumpBuilder) markDirectoryVisited(realDirectoryPath string) {
	dumpBuilder.visitedDirectories[realDirectoryPath] = struct{}{}
}

// sortDirectoryEntries orders children deterministically: directories first,
// then case-insensitive ascending name, ties broken case-sensitively.
func sortDirectoryEntries(directoryEntries []os.DirEntry) {
	sort.SliceStable(directoryEntries, func(firstIndex, secondIndex int) bool {
		firstEntry := directoryEntries[firstIndex]
		secondEntry := directoryEntries[secondIndex]
		if firstEntry.IsDir() != secondEntry.IsDir() {
			return firstEntry.IsDir()
		}
		firstName := strings.ToLower(firstEntry.Name())
		secondName := strings.ToLower(secondEntry.Name())
		if firstName != secondName {
			return firstName < secondName
		}
		return firstEntry.Name() < secondEntry.Name()
	})
}
