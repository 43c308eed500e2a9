package highlights

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/forPelevin/cutline/internal/types"
)

const (
	DefaultWindowSeconds  = 45.0
	DefaultStepSeconds    = 30.0
	DefaultWordsPerSecond = 2.5
)

var ErrInvalidWindowing = errors.New("invalid windowing")

// Windowing describes the sliding window in seconds of speech. Word counts
// are derived from WordsPerSecond.
type Windowing struct {
	WindowSeconds  float64
	StepSeconds    float64
	WordsPerSecond float64
}

func DefaultWindowing() Windowing {
	return Windowing{
		WindowSeconds:  DefaultWindowSeconds,
		StepSeconds:    DefaultStepSeconds,
		WordsPerSecond: DefaultWordsPerSecond,
	}
}

// WidthWords and StepWords round half to even, so 45s at 2.5 wps is 112 words.
func (w Windowing) WidthWords() int { return int(math.RoundToEven(w.WindowSeconds * w.WordsPerSecond)) }
func (w Windowing) StepWords() int  { return int(math.RoundToEven(w.StepSeconds * w.WordsPerSecond)) }

func (w Windowing) Validate() error {
	if !(w.WindowSeconds > 0) {
		return fmt.Errorf("%w: window must be > 0 seconds, got %v", ErrInvalidWindowing, w.WindowSeconds)
	}
	if !(w.StepSeconds > 0) {
		return fmt.Errorf("%w: step must be > 0 seconds, got %v", ErrInvalidWindowing, w.StepSeconds)
	}
	if !(w.WordsPerSecond > 0) || math.IsInf(w.WordsPerSecond, 0) {
		return fmt.Errorf("%w: speech rate must be a positive number, got %v", ErrInvalidWindowing, w.WordsPerSecond)
	}
	if w.WidthWords() <= 0 {
		return fmt.Errorf("%w: window of %vs is 0 words at %v words/s", ErrInvalidWindowing, w.WindowSeconds, w.WordsPerSecond)
	}
	if w.StepWords() <= 0 {
		return fmt.Errorf("%w: step of %vs is 0 words at %v words/s", ErrInvalidWindowing, w.StepSeconds, w.WordsPerSecond)
	}
	// Start times are whole seconds; a shorter step would repeat them.
	if float64(w.StepWords()) < w.WordsPerSecond {
		return fmt.Errorf("%w: step of %d words advances less than one second at %v words/s", ErrInvalidWindowing, w.StepWords(), w.WordsPerSecond)
	}
	return nil
}

// BuildSegments slides a window over the words of text. Each segment's
// times are estimated from word offsets; end_time uses the nominal window
// end even when the last window is cut short by the transcript.
//
// Segmentation stops after the first window that reaches the last word, so
// W words yield ceil(max(0, W-width)/step)+1 segments.
func BuildSegments(text string, w Windowing) ([]types.Segment, error) {
	if err := w.Validate(); err != nil {
		return nil, err
	}
	words := strings.Fields(text)
	width := w.WidthWords()
	step := w.StepWords()

	var out []types.Segment
	for cursor := 0; cursor < len(words); cursor += step {
		end := min(cursor+width, len(words))
		chunk := words[cursor:end]
		if len(chunk) == 0 {
			break
		}

		start := secondsAt(cursor, w.WordsPerSecond)
		stop := secondsAt(cursor+width, w.WordsPerSecond)
		out = append(out, types.Segment{
			Text:      strings.Join(chunk, " "),
			StartTime: start,
			EndTime:   stop,
			Duration:  stop - start,
		})
		if end == len(words) {
			break
		}
	}
	return out, nil
}

func secondsAt(wordIdx int, rate float64) int {
	return int(math.Floor(float64(wordIdx) / rate))
}
