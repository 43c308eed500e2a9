package pipeline

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/forPelevin/cutline/internal/types"
)

// LoadTranscript reads a plain-text transcript, or a JSON transcript with
// timed segments whose texts are joined by single spaces.
func LoadTranscript(path string) (string, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read transcript: %w", err)
	}
	if !strings.EqualFold(filepath.Ext(path), ".json") {
		return string(b), nil
	}

	var tr types.Transcript
	if err := json.Unmarshal(b, &tr); err != nil {
		return "", fmt.Errorf("parse transcript %s: %w", filepath.Base(path), err)
	}
	return FlattenTranscript(tr), nil
}

func FlattenTranscript(tr types.Transcript) string {
	parts := make([]string, 0, len(tr.Segments))
	for _, s := range tr.Segments {
		if t := strings.TrimSpace(s.Text); t != "" {
			parts = append(parts, t)
		}
	}
	return strings.Join(parts, " ")
}
