// Package types defines every cross‑package data structure used by the projdump CLI.
package types

const (
	NodeTypeFile      = "file"
	NodeTypeDirectory = "directory"
	NodeTypeBinary    = "binary"
)

// ValidatedRoot is an absolute root directory path that already passed existence checks.
type ValidatedRoot struct {
	AbsolutePath string
}

// DumpRecord represents one file-content block emitted to the output document.
// Records are kept in walk order. Content holds the file text, or an inline
// read-error note when ReadFailed is set; binary files carry no content.
type DumpRecord struct {
	RelativePath string
	Type         string
	Content      string
	MimeType     string
	SizeBytes    int64
	Tokens       int
	ReadFailed   bool
}

// TreeNode represents one filesystem entry that survived filtering during the walk.
type TreeNode struct {
	RelativePath string
	Name         string
	Type         string
	Size         string
	LastModified string
	Children     []*TreeNode
}

// WalkSummary captures aggregate information about the dumped files.
type WalkSummary struct {
	TotalFiles  int
	TotalSize   string
	TotalTokens int
	Model       string
}
