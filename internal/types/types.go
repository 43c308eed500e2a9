package types

import "time"

// Transcript is the JSON transcript shape accepted as input (whisper-style).
type Transcript struct {
	Segments []TranscriptSegment `json:"segments"`
}

type TranscriptSegment struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Text  string  `json:"text"`
}

// Segment is one sliding window over the transcript. Times are estimated
// from word offsets, not measured.
type Segment struct {
	Text      string `json:"text"`
	StartTime int    `json:"start_time"`
	EndTime   int    `json:"end_time"`
	Duration  int    `json:"duration"`
}

type ScoredSegment struct {
	Segment
	LiquidityScore float64 `json:"liquidity_score"`
}

type Hooks struct {
	X      string `json:"x,omitempty"`
	TikTok string `json:"tiktok,omitempty"`
	Reels  string `json:"reels,omitempty"`
}

type Analysis struct {
	WhyItHits        []string `json:"why_it_hits"`
	Tags             []string `json:"tags"`
	HumanProvenance  string   `json:"human_provenance"`
	VerticalGuidance string   `json:"vertical_guidance"`
	Hooks            Hooks    `json:"hooks"`
}

type EnrichedSpike struct {
	Timestamp      string   `json:"timestamp"`
	LiquidityScore float64  `json:"liquidity_score"`
	Text           string   `json:"text"`
	Analysis       Analysis `json:"analysis"`
}

type Manifest struct {
	RunID          string          `json:"run_id"`
	Input          string          `json:"input"`
	Mode           string          `json:"mode"`
	GeneratedAt    time.Time       `json:"generated_at"`
	WindowSeconds  float64         `json:"window_seconds"`
	StepSeconds    float64         `json:"step_seconds"`
	WordsPerSecond float64         `json:"words_per_second"`
	Segments       int             `json:"segments"`
	Spikes         []ScoredSegment `json:"spikes"`
	Enriched       []EnrichedSpike `json:"enriched,omitempty"`
}

type Question struct {
	Question    string   `json:"question"`
	Options     []string `json:"options"`
	Answer      int      `json:"answer"`
	Explanation string   `json:"explanation,omitempty"`
}

type Quiz struct {
	Summary   string     `json:"summary"`
	Questions []Question `json:"questions"`
}
