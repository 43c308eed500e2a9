package pipeline

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/forPelevin/cutline/internal/domain/highlights"
	"github.com/forPelevin/cutline/internal/domain/liquidity"
	"github.com/forPelevin/cutline/internal/domain/subtitles"
	"github.com/forPelevin/cutline/internal/ports"
	"github.com/forPelevin/cutline/internal/ports/adapters/openrouter"
	"github.com/forPelevin/cutline/internal/ports/adapters/sqlitestore"
	"github.com/forPelevin/cutline/internal/types"
	"github.com/forPelevin/cutline/internal/usecase"
)

const (
	ModeOffline = "offline"
	ModeStudio  = "studio"
)

// OpenRouter holds the generator settings shared by the ranking and quiz
// pipelines.
type OpenRouter struct {
	APIKey       string
	Model        string
	BaseURL      string
	AllowedHosts []string
}

func (o OpenRouter) validate() error {
	if strings.TrimSpace(o.APIKey) == "" {
		return errors.New("OPENROUTER_API_KEY is required")
	}
	return openrouter.ValidateBaseURL(o.BaseURL, o.AllowedHosts)
}

type Config struct {
	Input       string
	OutDir      string
	TopN        int
	Windowing   highlights.Windowing
	Mode        string
	LexiconPath string
	Captions    bool
	// DBPath, when set, records the run in a SQLite history.
	DBPath string
	Pause  time.Duration
	Log    logrus.FieldLogger

	OpenRouter OpenRouter

	// Generator and Store replace the OpenRouter adapter and the SQLite
	// store when set.
	Generator ports.Generator
	Store     ports.RunStore
}

func (c Config) Validate() error {
	if c.Input == "" {
		return errors.New("input is empty")
	}
	if _, err := os.Stat(c.Input); err != nil {
		return fmt.Errorf("stat input: %w", err)
	}
	if c.TopN <= 0 {
		return fmt.Errorf("top must be > 0, got %d", c.TopN)
	}
	if err := c.Windowing.Validate(); err != nil {
		return err
	}
	if c.Pause < 0 {
		return fmt.Errorf("pause must be >= 0, got %s", c.Pause)
	}
	switch c.Mode {
	case ModeOffline:
		return nil
	case ModeStudio:
		if c.Generator != nil {
			return nil
		}
		return c.OpenRouter.validate()
	default:
		return fmt.Errorf("mode must be %q or %q, got %q", ModeOffline, ModeStudio, c.Mode)
	}
}

// Output describes a finished run.
type Output struct {
	RunDir   string
	Manifest types.Manifest
}

func Run(ctx context.Context, cfg Config) (Output, error) {
	log := cfg.Log
	if log == nil {
		log = logrus.StandardLogger()
	}

	lex := liquidity.DefaultLexicon()
	if cfg.LexiconPath != "" {
		var err error
		if lex, err = liquidity.LoadLexicon(cfg.LexiconPath); err != nil {
			return Output{}, err
		}
		log.WithField("lexicon", cfg.LexiconPath).Info("lexicon loaded")
	}

	text, err := LoadTranscript(cfg.Input)
	if err != nil {
		return Output{}, err
	}

	studio := cfg.Mode == ModeStudio
	gen := cfg.Generator
	if studio && gen == nil {
		adapter := openrouter.New(cfg.OpenRouter.APIKey, cfg.OpenRouter.Model, cfg.OpenRouter.BaseURL, log)
		log.WithField("model", adapter.Model()).Info("using openrouter")
		gen = adapter
	}

	now := time.Now().UTC()
	runID := uuid.NewString()
	log = log.WithField("run_id", runID)

	uc := usecase.New(usecase.Deps{Scorer: liquidity.NewScorer(lex), Generator: gen})
	res, err := uc.Run(ctx, usecase.Input{
		Transcript: text,
		Windowing:  cfg.Windowing,
		TopN:       cfg.TopN,
		Enrich:     studio,
		Pause:      cfg.Pause,
		Log:        log,
	})
	if err != nil {
		return Output{}, err
	}

	outDir := cfg.OutDir
	if outDir == "" {
		outDir = "out"
	}
	runDir := buildRunOutDir(outDir, cfg.Input, runID, now)
	if err := os.MkdirAll(runDir, 0o755); err != nil {
		return Output{}, err
	}
	log.WithField("dir", runDir).Info("output run dir")

	m := types.Manifest{
		RunID:          runID,
		Input:          cfg.Input,
		Mode:           cfg.Mode,
		GeneratedAt:    now,
		WindowSeconds:  cfg.Windowing.WindowSeconds,
		StepSeconds:    cfg.Windowing.StepSeconds,
		WordsPerSecond: cfg.Windowing.WordsPerSecond,
		Segments:       res.Segments,
		Spikes:         res.Spikes,
		Enriched:       res.Enriched,
	}

	if err := writeJSON(filepath.Join(runDir, "spikes.json"), m.Spikes); err != nil {
		return Output{}, err
	}
	if studio {
		if err := writeJSON(filepath.Join(runDir, "enriched.json"), m.Enriched); err != nil {
			return Output{}, err
		}
	}
	if cfg.Captions {
		if err := writeCaptions(filepath.Join(runDir, "captions"), m, cfg.Windowing.WordsPerSecond); err != nil {
			return Output{}, err
		}
	}
	if err := writeJSON(filepath.Join(runDir, "manifest.json"), m); err != nil {
		return Output{}, err
	}
	log.WithField("spikes", len(m.Spikes)).Info("manifest written")

	if err := recordRun(ctx, cfg, m, log); err != nil {
		return Output{}, err
	}
	return Output{RunDir: runDir, Manifest: m}, nil
}

func writeCaptions(dir string, m types.Manifest, rate float64) error {
	if len(m.Spikes) == 0 {
		return nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	for i, sp := range m.Spikes {
		ass, err := subtitles.RenderSpikeASS(sp, rate)
		if err != nil {
			return fmt.Errorf("captions for spike %d: %w", i+1, err)
		}
		if err := os.WriteFile(filepath.Join(dir, fmt.Sprintf("%03d.ass", i+1)), []byte(ass), 0o644); err != nil {
			return err
		}
	}
	return nil
}

func recordRun(ctx context.Context, cfg Config, m types.Manifest, log logrus.FieldLogger) error {
	store := cfg.Store
	if store == nil {
		if cfg.DBPath == "" {
			return nil
		}
		s, err := sqlitestore.Open(ctx, cfg.DBPath, log)
		if err != nil {
			return fmt.Errorf("open run history: %w", err)
		}
		defer s.Close()
		store = s
	}
	if err := store.SaveRun(ctx, m); err != nil {
		return fmt.Errorf("record run: %w", err)
	}
	log.Info("run recorded in history")
	return nil
}

func writeJSON(path string, v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal %s: %w", filepath.Base(path), err)
	}
	return os.WriteFile(path, b, 0o644)
}

func buildRunOutDir(outRoot, input, runID string, now time.Time) string {
	name := strings.TrimSuffix(filepath.Base(input), filepath.Ext(input))
	name = normalizePathSegment(name)
	if name == "" {
		name = "input"
	}
	ts := now.UTC().Format("20060102-150405Z")
	suffix := hash(fmt.Sprintf("%s|%s|%d", input, runID, now.UTC().UnixNano()))[:6]
	return filepath.Join(outRoot, fmt.Sprintf("%s-%s-%s", name, ts, suffix))
}

func normalizePathSegment(s string) string {
	var b strings.Builder
	prevDash := false
	for _, r := range strings.ToLower(strings.TrimSpace(s)) {
		switch {
		case unicode.IsLetter(r), unicode.IsDigit(r):
			b.WriteRune(r)
			prevDash = false
		default:
			if !prevDash {
				b.WriteByte('-')
				prevDash = true
			}
		}
	}
	return strings.Trim(b.String(), "-")
}

func hash(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])[:12]
}

var (
	_ ports.Generator = (*openrouter.Adapter)(nil)
	_ ports.RunStore  = (*sqlitestore.Store)(nil)
)
