package mimesniff

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestSniffer_SniffFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.json")
	if err := os.WriteFile(path, []byte(`{"key": "value"}`), 0o644); err != nil {
		t.Fatal(err)
	}

	sniffer := NewSniffer()
	types, err := sniffer.SniffFile(path)
	if err != nil {
		t.Fatalf("SniffFile failed: %v", err)
	}

	if len(types) == 0 {
		t.Fatal("Expected at least one detected type")
	}
	if !strings.HasPrefix(types[0], "application/json") {
		t.Errorf("Expected application/json first, got %v", types)
	}
	// The chain ends at the most generic ancestor.
	last := types[len(types)-1]
	if !strings.HasPrefix(last, "application/octet-stream") {
		t.Errorf("Expected application/octet-stream last, got %v", types)
	}
}

func TestSniffer_SniffStream(t *testing.T) {
	sniffer := NewSniffer()

	types, err := sniffer.SniffStream(strings.NewReader("plain text content\n"))
	if err != nil {
		t.Fatalf("SniffStream failed: %v", err)
	}
	if len(types) == 0 {
		t.Fatal("Expected at least one detected type")
	}
	if !strings.HasPrefix(types[0], "text/plain") {
		t.Errorf("Expected text/plain first, got %v", types)
	}
}

func TestSniffer_SniffFileMissing(t *testing.T) {
	sniffer := NewSniffer()
	if _, err := sniffer.SniffFile(filepath.Join(t.TempDir(), "missing")); err == nil {
		t.Fatal("Expected an error for a missing file")
	}
}
