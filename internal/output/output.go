// Package output renders the tree view and dump records into the final
// plain-text document.
package output

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/temirov/projdump/internal/types"
	"github.com/temirov/projdump/internal/utils"
)

const (
	separatorLine = "----------------------------------------"

	treeSectionHeaderFormat = "--- Directory Tree: %s ---\n"
	fileHeaderFormat        = "File: %s\n"
	fileFooterFormat        = "End of file: %s\n"
	mimeTypeLabel           = "Mime Type: "
	binaryContentOmitted    = "(binary content omitted)"

	treeBranchConnector = "├── "
	treeLastConnector   = "└── "
	treeBranchPadding   = "│   "
	treeLastPadding     = "    "

	// outputFilePermissions is the mode used when creating the output document.
	outputFilePermissions = 0o644
)

// WriteTreeRendering writes the indented tree view for the root node.
func WriteTreeRendering(writer io.Writer, rootNode *types.TreeNode) {
	if rootNode == nil {
		return
	}
	renderTreeNode(writer, rootNode, "", true, true)
}

// renderTreeNode recursively prints one node and its children using the
// standard branch-drawing glyphs. The last child at each level uses the
// terminal connector.
func renderTreeNode(writer io.Writer, node *types.TreeNode, prefix string, isRoot bool, isLast bool) {
	if node == nil {
		return
	}

	linePrefix := prefix + treeBranchConnector
	childPrefix := prefix + treeBranchPadding
	if isLast {
		linePrefix = prefix + treeLastConnector
		childPrefix = prefix + treeLastPadding
	}
	if isRoot {
		linePrefix = ""
		childPrefix = ""
	}

	fmt.Fprintf(writer, "%s%s%s\n", linePrefix, node.Name, nodeMetadataSuffix(node))

	for childIndex, childNode := range node.Children {
		if childNode == nil {
			continue
		}
		renderTreeNode(writer, childNode, childPrefix, false, childIndex == len(node.Children)-1)
	}
}

// nodeMetadataSuffix formats the size and timestamp collected during the
// walk for display alongside the node name. Nodes without metadata render
// with no suffix.
func nodeMetadataSuffix(node *types.TreeNode) string {
	var metadataParts []string
	if node.Size != "" {
		metadataParts = append(metadataParts, node.Size)
	}
	if node.LastModified != "" {
		metadataParts = append(metadataParts, node.LastModified)
	}
	if len(metadataParts) == 0 {
		return ""
	}
	return " (" + strings.Join(metadataParts, ", ") + ")"
}

// WriteDumpRecord writes one labeled file-content block. Binary files carry a
// MIME-type note instead of content; read failures were already recorded as
// an inline note in the record content.
func WriteDumpRecord(writer io.Writer, dumpRecord types.DumpRecord) {
	fmt.Fprintf(writer, fileHeaderFormat, dumpRecord.RelativePath)
	fmt.Fprintln(writer)
	if dumpRecord.Type == types.NodeTypeBinary {
		fmt.Fprintf(writer, "%s%s\n", mimeTypeLabel, dumpRecord.MimeType)
		fmt.Fprintln(writer, binaryContentOmitted)
	} else {
		fmt.Fprintln(writer, dumpRecord.Content)
	}
	fmt.Fprintf(writer, fileFooterFormat, dumpRecord.RelativePath)
	fmt.Fprintln(writer, separatorLine)
}

// BuildSummary aggregates file counts, sizes, and token totals from the dump records.
func BuildSummary(dumpRecords []types.DumpRecord, tokenModel string) *types.WalkSummary {
	var totalBytes int64
	var totalTokens int
	for _, dumpRecord := range dumpRecords {
		totalBytes += dumpRecord.SizeBytes
		totalTokens += dumpRecord.Tokens
	}
	return &types.WalkSummary{
		TotalFiles:  len(dumpRecords),
		TotalSize:   utils.FormatFileSize(totalBytes),
		TotalTokens: totalTokens,
		Model:       tokenModel,
	}
}

// FormatSummaryLine formats a WalkSummary into the summary line.
func FormatSummaryLine(summary *types.WalkSummary) string {
	if summary == nil {
		summary = &types.WalkSummary{}
	}
	label := "files"
	if summary.TotalFiles == 1 {
		label = "file"
	}
	tokenSuffix := ""
	if summary.TotalTokens > 0 {
		tokenSuffix = fmt.Sprintf(", %d tokens", summary.TotalTokens)
	}
	modelSuffix := ""
	if summary.Model != "" {
		modelSuffix = fmt.Sprintf(" (model: %s)", summary.Model)
	}
	return fmt.Sprintf("Summary: %d %s, %s%s%s", summary.TotalFiles, label, summary.TotalSize, tokenSuffix, modelSuffix)
}

// BuildDocument assembles the tree section and the dump blocks into the
// single output document.
func BuildDocument(rootNode *types.TreeNode, dumpRecords []types.DumpRecord, summary *types.WalkSummary) string {
	var buffer bytes.Buffer

	if rootNode != nil {
		fmt.Fprintf(&buffer, treeSectionHeaderFormat, rootNode.Name)
		WriteTreeRendering(&buffer, rootNode)
	}

	if summary != nil {
		buffer.WriteString("\n")
		buffer.WriteString(FormatSummaryLine(summary))
		buffer.WriteString("\n")
	}

	if len(dumpRecords) > 0 {
		buffer.WriteString("\n")
		buffer.WriteString(separatorLine)
		buffer.WriteString("\n")
		for _, dumpRecord := range dumpRecords {
			WriteDumpRecord(&buffer, dumpRecord)
		}
	}

	return buffer.String()
}

// WriteDocument writes the assembled document to outputPath.
func WriteDocument(outputPath string, document string) error {
	if writeError := os.WriteFile(outputPath, []byte(document), outputFilePermissions); writeError != nil {
		return fmt.Errorf("writing output to %s: %w", outputPath, writeError)
	}
	return nil
}
