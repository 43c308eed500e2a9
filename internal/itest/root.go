//go:build integration

package itest

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const sampleTranscript = `I used to think success meant more money. But I realized it was fear.
Honestly, I don't know if I was brave or just tired. We lost 3 years and 40000 dollars.
I was terrified every single morning. Everything changed when my daughter asked me why I never laughed.
Maybe I was wrong about all of it. The risk was real and the stakes were my family.
`

func findRepoRoot() (string, error) {
	wd, err := os.Getwd()
	if err != nil {
		return "", err
	}
	for i := 0; i < 10; i++ {
		if _, err := os.Stat(filepath.Join(wd, "go.mod")); err == nil {
			return wd, nil
		}
		parent := filepath.Dir(wd)
		if parent == wd {
			break
		}
		wd = parent
	}
	return "", errors.New("could not locate go.mod")
}

// writeSample writes a transcript of a few hundred words into dir.
func writeSample(t *testing.T, dir string) string {
	t.Helper()
	p := filepath.Join(dir, "founder-story.txt")
	if err := os.WriteFile(p, []byte(strings.Repeat(sampleTranscript, 4)), 0o644); err != nil {
		t.Fatalf("write sample transcript: %v", err)
	}
	return p
}
