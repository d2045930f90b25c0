package output_test

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/temirov/projdump/internal/output"
	"github.com/temirov/projdump/internal/types"
)

// sampleTree returns a small tree with two levels and a trailing file.
func sampleTree() *types.TreeNode {
	return &types.TreeNode{
		RelativePath: ".",
		Name:         "project",
		Type:         types.NodeTypeDirectory,
		Children: []*types.TreeNode{
			{
				RelativePath: "src",
				Name:         "src",
				Type:         types.NodeTypeDirectory,
				Children: []*types.TreeNode{
					{RelativePath: "src/main.py", Name: "main.py", Type: types.NodeTypeFile},
				},
			},
			{RelativePath: "README.md", Name: "README.md", Type: types.NodeTypeFile},
		},
	}
}

// TestWriteTreeRenderingGlyphs verifies connector and padding glyph placement.
func TestWriteTreeRenderingGlyphs(testingHandle *testing.T) {
	var buffer bytes.Buffer
	output.WriteTreeRendering(&buffer, sampleTree())

	wantRendering := strings.Join([]string{
		"project",
		"├── src",
		"│   └── main.py",
		"└── README.md",
		"",
	}, "\n")
	if buffer.String() != wantRendering {
		testingHandle.Fatalf("unexpected tree rendering:\n%q\nwant:\n%q", buffer.String(), wantRendering)
	}
}

// TestWriteTreeRenderingFileMetadata verifies that collected size and
// timestamp metadata appears on the tree lines.
func TestWriteTreeRenderingFileMetadata(testingHandle *testing.T) {
	rootNode := &types.TreeNode{
		RelativePath: ".",
		Name:         "project",
		Type:         types.NodeTypeDirectory,
		Children: []*types.TreeNode{
			{
				RelativePath: "main.py",
				Name:         "main.py",
				Type:         types.NodeTypeFile,
				Size:         "1.5kb",
				LastModified: "2026-01-02 15:04",
			},
		},
	}

	var buffer bytes.Buffer
	output.WriteTreeRendering(&buffer, rootNode)

	wantLine := "└── main.py (1.5kb, 2026-01-02 15:04)\n"
	if !strings.Contains(buffer.String(), wantLine) {
		testingHandle.Fatalf("tree rendering missing file metadata:\n%q\nwant line:\n%q", buffer.String(), wantLine)
	}
}

// TestWriteDumpRecordTextBlock verifies the labeled block format for text files.
func TestWriteDumpRecordTextBlock(testingHandle *testing.T) {
	var buffer bytes.Buffer
	output.WriteDumpRecord(&buffer, types.DumpRecord{
		RelativePath: "src/main.py",
		Type:         types.NodeTypeFile,
		Content:      "print('hello')",
	})

	rendered := buffer.String()
	if !strings.HasPrefix(rendered, "File: src/main.py\n") {
		testingHandle.Fatalf("missing file header: %q", rendered)
	}
	if !strings.Contains(rendered, "print('hello')\n") {
		testingHandle.Fatalf("missing file content: %q", rendered)
	}
	if !strings.Contains(rendered, "End of file: src/main.py\n") {
		testingHandle.Fatalf("missing file footer: %q", rendered)
	}
}

// TestWriteDumpRecordBinaryBlock verifies that binary records omit content
// and include the MIME note.
func TestWriteDumpRecordBinaryBlock(testingHandle *testing.T) {
	var buffer bytes.Buffer
	output.WriteDumpRecord(&buffer, types.DumpRecord{
		RelativePath: "logo.png",
		Type:         types.NodeTypeBinary,
		MimeType:     "image/png",
	})

	rendered := buffer.String()
	if !strings.Contains(rendered, "Mime Type: image/png\n") {
		testingHandle.Fatalf("missing MIME note: %q", rendered)
	}
	if !strings.Contains(rendered, "(binary content omitted)\n") {
		testingHandle.Fatalf("missing binary placeholder: %q", rendered)
	}
}

// TestFormatSummaryLine verifies singular/plural labels and optional suffixes.
func TestFormatSummaryLine(testingHandle *testing.T) {
	testCases := []struct {
		name     string
		summary  *types.WalkSummary
		wantLine string
	}{
		{"nil summary", nil, "Summary: 0 files, "},
		{"single file", &types.WalkSummary{TotalFiles: 1, TotalSize: "12b"}, "Summary: 1 file, 12b"},
		{"tokens and model", &types.WalkSummary{TotalFiles: 2, TotalSize: "1kb", TotalTokens: 7, Model: "gpt-4o"}, "Summary: 2 files, 1kb, 7 tokens (model: gpt-4o)"},
	}

	for _, testCase := range testCases {
		testingHandle.Run(testCase.name, func(subTest *testing.T) {
			gotLine := output.FormatSummaryLine(testCase.summary)
			if gotLine != testCase.wantLine {
				subTest.Fatalf("FormatSummaryLine = %q, want %q", gotLine, testCase.wantLine)
			}
		})
	}
}

// TestBuildSummaryAggregates verifies totals across dump records.
func TestBuildSummaryAggregates(testingHandle *testing.T) {
	dumpRecords := []types.DumpRecord{
		{RelativePath: "a.py", SizeBytes: 10, Tokens: 3},
		{RelativePath: "b.py", SizeBytes: 20, Tokens: 4},
	}

	summary := output.BuildSummary(dumpRecords, "gpt-4o")
	if summary.TotalFiles != 2 {
		testingHandle.Fatalf("unexpected file total: %d", summary.TotalFiles)
	}
	if summary.TotalSize != "30b" {
		testingHandle.Fatalf("unexpected size total: %s", summary.TotalSize)
	}
	if summary.TotalTokens != 7 {
		testingHandle.Fatalf("unexpected token total: %d", summary.TotalTokens)
	}
}

// TestBuildDocumentSections verifies that the document contains the tree
// section followed by the dump blocks.
func TestBuildDocumentSections(testingHandle *testing.T) {
	dumpRecords := []types.DumpRecord{
		{RelativePath: "src/main.py", Type: types.NodeTypeFile, Content: "print('hello')", SizeBytes: 14},
	}
	summary := output.BuildSummary(dumpRecords, "")

	document := output.BuildDocument(sampleTree(), dumpRecords, summary)

	treeIndex := strings.Index(document, "--- Directory Tree: project ---")
	summaryIndex := strings.Index(document, "Summary: 1 file, 14b")
	fileIndex := strings.Index(document, "File: src/main.py")
	if treeIndex != 0 {
		testingHandle.Fatalf("document must start with the tree section: %q", document)
	}
	if summaryIndex < treeIndex || fileIndex < summaryIndex {
		testingHandle.Fatalf("unexpected section ordering: tree=%d summary=%d file=%d", treeIndex, summaryIndex, fileIndex)
	}
}

// TestWriteDocument verifies the document is written to the requested path.
func TestWriteDocument(testingHandle *testing.T) {
	outputPath := filepath.Join(testingHandle.TempDir(), "project_dump.txt")
	const documentContent = "tree and files\n"

	if writeError := output.WriteDocument(outputPath, documentContent); writeError != nil {
		testingHandle.Fatalf("WriteDocument failed: %v", writeError)
	}

	writtenBytes, readError := os.ReadFile(outputPath)
	if readError != nil {
		testingHandle.Fatalf("failed to read written document: %v", readError)
	}
	if string(writtenBytes) != documentContent {
		testingHandle.Fatalf("unexpected document content: %q", string(writtenBytes))
	}
}
