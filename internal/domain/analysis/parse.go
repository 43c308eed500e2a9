// Package analysis builds the editorial prompt for a spike and turns the
// collaborator's numbered free text back into an Analysis.
package analysis

import (
	"strings"
	"unicode"

	"github.com/forPelevin/cutline/internal/types"
)

type section int

const (
	sectionNone section = iota
	sectionWhy
	sectionTags
	sectionProvenance
	sectionGuidance
	sectionHooks
)

var sectionMarkers = []struct {
	prefix string
	sec    section
}{
	{"1.", sectionWhy},
	{"2.", sectionTags},
	{"3.", sectionProvenance},
	{"4.", sectionGuidance},
	{"5.", sectionHooks},
}

// Parse splits the collaborator's response into its five numbered
// sections. It never fails: absent or garbled sections stay empty.
func Parse(raw string) types.Analysis {
	out := types.Analysis{
		WhyItHits: []string{},
		Tags:      []string{},
	}
	var provenance, guidance []string

	cur := sectionNone
	for _, ln := range strings.Split(raw, "\n") {
		ln = strings.TrimSpace(ln)
		if ln == "" {
			continue
		}
		head := strings.TrimLeft(ln, "#* ")
		if sec, ok := sectionHeader(head); ok {
			cur = sec
			continue
		}

		switch cur {
		case sectionWhy:
			if item := trimBullet(ln); item != "" {
				out.WhyItHits = append(out.WhyItHits, item)
			}
		case sectionTags:
			out.Tags = append(out.Tags, splitTags(ln)...)
		case sectionProvenance:
			provenance = append(provenance, ln)
		case sectionGuidance:
			guidance = append(guidance, ln)
		case sectionHooks:
			assignHook(&out.Hooks, ln)
		}
	}

	out.HumanProvenance = strings.Join(provenance, " ")
	out.VerticalGuidance = strings.Join(guidance, " ")
	return out
}

func sectionHeader(line string) (section, bool) {
	for _, m := range sectionMarkers {
		if strings.HasPrefix(line, m.prefix) {
			return m.sec, true
		}
	}
	return sectionNone, false
}

func trimBullet(line string) string {
	return strings.TrimSpace(strings.TrimLeft(line, "-•* "))
}

func splitTags(line string) []string {
	fields := strings.FieldsFunc(line, func(r rune) bool {
		return r == ',' || unicode.IsSpace(r)
	})
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		f = strings.Trim(f, "-•*[]\"'`.")
		if f != "" {
			out = append(out, strings.ToLower(f))
		}
	}
	return out
}

// assignHook routes a hook line by its platform label. A later line for
// the same platform replaces the earlier one.
func assignHook(h *types.Hooks, line string) {
	item := trimBullet(line)
	lower := strings.ToLower(item)
	switch {
	case strings.Contains(lower, "tiktok"):
		h.TikTok = item
	case strings.Contains(lower, "reels"):
		h.Reels = item
	case isXLabel(lower):
		h.X = item
	}
}

// isXLabel reports whether a line starts with an "X" platform label such as
// "x:", "x (<=140 chars):" or "x/twitter".
func isXLabel(lower string) bool {
	if !strings.HasPrefix(lower, "x") {
		return strings.HasPrefix(lower, "twitter")
	}
	rest := strings.TrimPrefix(lower, "x")
	if rest == "" {
		return true
	}
	r := []rune(rest)[0]
	return !unicode.IsLetter(r) && !unicode.IsDigit(r)
}
