//go:build integration

package itest

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/forPelevin/cutline/internal/domain/highlights"
	"github.com/forPelevin/cutline/internal/pipeline"
	"github.com/forPelevin/cutline/internal/ports/adapters/openrouter"
	"github.com/forPelevin/cutline/internal/types"
)

func TestE2E_Offline(t *testing.T) {
	tmp := t.TempDir()
	in := writeSample(t, tmp)
	outDir := filepath.Join(tmp, "out")

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	cfg := pipeline.Config{
		Input:     in,
		OutDir:    outDir,
		TopN:      3,
		Windowing: highlights.DefaultWindowing(),
		Mode:      pipeline.ModeOffline,
		Captions:  true,
		DBPath:    filepath.Join(tmp, "runs.db"),
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("config: %v", err)
	}
	out, err := pipeline.Run(ctx, cfg)
	if err != nil {
		t.Fatalf("pipeline failed: %v", err)
	}

	b, err := os.ReadFile(filepath.Join(out.RunDir, "manifest.json"))
	if err != nil {
		t.Fatalf("missing manifest: %v", err)
	}
	var m types.Manifest
	if err := json.Unmarshal(b, &m); err != nil {
		t.Fatalf("decode manifest: %v", err)
	}
	if len(m.Spikes) != 3 {
		t.Fatalf("expected 3 spikes, got %d", len(m.Spikes))
	}
	for i := 1; i < len(m.Spikes); i++ {
		if m.Spikes[i-1].LiquidityScore < m.Spikes[i].LiquidityScore {
			t.Fatalf("spikes not in descending order: %v", m.Spikes)
		}
	}
	if _, err := os.Stat(filepath.Join(out.RunDir, "captions", "003.ass")); err != nil {
		t.Fatalf("missing captions: %v", err)
	}
}

func TestE2E_Studio(t *testing.T) {
	if os.Getenv("OPENROUTER_API_KEY") == "" {
		t.Skip("OPENROUTER_API_KEY is required for the studio e2e test")
	}

	tmp := t.TempDir()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	model := os.Getenv("OPENROUTER_MODEL")
	if model == "" {
		model = openrouter.DefaultModel
	}
	cfg := pipeline.Config{
		Input:     writeSample(t, tmp),
		OutDir:    filepath.Join(tmp, "out"),
		TopN:      1,
		Windowing: highlights.DefaultWindowing(),
		Mode:      pipeline.ModeStudio,
		Pause:     time.Second,
		OpenRouter: pipeline.OpenRouter{
			APIKey:  os.Getenv("OPENROUTER_API_KEY"),
			Model:   model,
			BaseURL: os.Getenv("OPENROUTER_BASE_URL"),
		},
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("config: %v", err)
	}
	out, err := pipeline.Run(ctx, cfg)
	if err != nil {
		t.Fatalf("pipeline failed: %v", err)
	}
	if _, err := os.Stat(filepath.Join(out.RunDir, "enriched.json")); err != nil {
		t.Fatalf("missing enriched output: %v", err)
	}
	if len(out.Manifest.Enriched) != 1 {
		t.Fatalf("expected 1 enriched spike, got %d", len(out.Manifest.Enriched))
	}
}
