// Package tokenizer estimates token counts for dumped file content.
package tokenizer

import (
	"fmt"
	"strings"

	"github.com/pkoukk/tiktoken-go"
)

// Counter estimates token counts for text content.
type Counter interface {
	Name() string
	CountString(input string) (int, error)
}

const (
	// DefaultModel is the tokenizer model used when none is requested.
	DefaultModel = "gpt-4o"
	// defaultEncodingName is the fallback encoding for unknown models.
	defaultEncodingName = "cl100k_base"
)

// NewCounter returns a Counter for the requested model together with the
// resolved model or encoding name. Models unknown to tiktoken fall back to
// the cl100k_base encoding.
func NewCounter(model string) (Counter, string, error) {
	trimmedModel := strings.TrimSpace(model)
	if trimmedModel == "" {
		trimmedModel = DefaultModel
	}
	lowerModel := strings.ToLower(trimmedModel)

	encoding, encodingError := tiktoken.EncodingForModel(lowerModel)
	if encodingError == nil && encoding != nil {
		return tiktokenCounter{encoding: encoding, name: lowerModel}, lowerModel, nil
	}

	fallback, fallbackError := tiktoken.GetEncoding(defaultEncodingName)
	if fallbackError != nil {
		return nil, "", fmt.Errorf("initialize fallback tokenizer: %w", fallbackError)
	}
	return tiktokenCounter{encoding: fallback, name: defaultEncodingName}, defaultEncodingName, nil
}

// tiktokenCounter counts tokens using a tiktoken encoding.
type tiktokenCounter struct {
	encoding *tiktoken.Tiktoken
	name     string
}

// Name returns the resolved model or encoding name.
func (counter tiktokenCounter) Name() string {
	return counter.name
}

// CountString returns the number of tokens in the input.
func (counter tiktokenCounter) CountString(input string) (int, error) {
	tokens := counter.encoding.Encode(input, nil, nil)
	return len(tokens), nil
}

var _ Counter = tiktokenCounter{}
