// Package tokenizer estimates token counts for rendered output and selections.
package tokenizer

import (
	"fmt"

	"github.com/pkoukk/tiktoken-go"
)

const defaultEncodingName = "cl100k_base"

// Counter estimates token counts for text content.
type Counter interface {
	Name() string
	CountString(input string) (int, error)
}

type encodingCounter struct {
	encoding *tiktoken.Tiktoken
	name     string
}

func (counter encodingCounter) Name() string {
	return counter.name
}

func (counter encodingCounter) CountString(input string) (int, error) {
	return len(counter.encoding.Encode(input, nil, nil)), nil
}

// NewCounter returns a Counter backed by the default tiktoken encoding.
func NewCounter() (Counter, error) {
	encoding, encodingError := tiktoken.GetEncoding(defaultEncodingName)
	if encodingError != nil {
		return nil, fmt.Errorf("initialize tokenizer: %w", encodingError)
	}
	return encodingCounter{encoding: encoding, name: defaultEncodingName}, nil
}
