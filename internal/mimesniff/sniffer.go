// Package mimesniff is the content-type collaborator: it classifies byte
// content and knows nothing about where the bytes come from.
package mimesniff

import (
	"fmt"
	"io"

	"github.com/gabriel-vasile/mimetype"

	"github.com/gitbridge/gitbridge/internal/facade"
)

type Sniffer struct{}

var _ facade.ContentSniffer = (*Sniffer)(nil)

func NewSniffer() *Sniffer {
	return &Sniffer{}
}

// SniffFile implements facade.ContentSniffer.
func (s *Sniffer) SniffFile(path string) ([]string, error) {
	detected, err := mimetype.DetectFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to sniff %s: %w", path, err)
	}
	return chain(detected), nil
}

// SniffStream implements facade.ContentSniffer.
func (s *Sniffer) SniffStream(r io.Reader) ([]string, error) {
	detected, err := mimetype.DetectReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to sniff stream: %w", err)
	}
	return chain(detected), nil
}

// chain returns the detected type followed by its parents, most specific
// first.
func chain(detected *mimetype.MIME) []string {
	var types []string
	for m := detected; m != nil; m = m.Parent() {
		types = append(types, m.String())
	}
	return types
}
