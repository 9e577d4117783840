package segment

import (
	"fmt"
	"sort"
	"strings"
)

// Segment is one speaker-attributed span of the diarized transcript.
// Values are immutable once ingested; transformations build new slices
// rather than mutating shared records.
type Segment struct {
	Start   float64 `json:"start"`
	End     float64 `json:"end"`
	Text    string  `json:"text"`
	Speaker string  `json:"speaker"`
	TextZH  string  `json:"text_zh,omitempty"`
}

// Duration returns the segment length in seconds, floored at zero.
func (s Segment) Duration() float64 {
	d := s.End - s.Start
	if d < 0 {
		return 0
	}
	return d
}

// Validate checks the fields required by every pipeline stage.
func (s Segment) Validate() error {
	if strings.TrimSpace(s.Speaker) == "" {
		return fmt.Errorf("segment [%0.2f, %0.2f): speaker label required", s.Start, s.End)
	}
	if s.Start < 0 {
		return fmt.Errorf("segment %q: start %0.3f is negative", s.Speaker, s.Start)
	}
	if s.End <= s.Start {
		return fmt.Errorf("segment %q: end %0.3f must be greater than start %0.3f", s.Speaker, s.End, s.Start)
	}
	return nil
}

// ValidateAll rejects the first malformed segment. Malformed entries are a
// caller error; nothing downstream attempts to repair them.
func ValidateAll(segments []Segment) error {
	if len(segments) == 0 {
		return fmt.Errorf("segment list is empty")
	}
	for i, seg := range segments {
		if err := seg.Validate(); err != nil {
			return fmt.Errorf("segment %d: %w", i, err)
		}
	}
	return nil
}

// GroupBySpeaker partitions segments by speaker label, preserving the
// original order within each group.
func GroupBySpeaker(segments []Segment) map[string][]Segment {
	groups := make(map[string][]Segment)
	for _, seg := range segments {
		groups[seg.Speaker] = append(groups[seg.Speaker], seg)
	}
	return groups
}

// Speakers returns the distinct speaker labels in sorted order so callers
// can process groups deterministically.
func Speakers(segments []Segment) []string {
	seen := make(map[string]struct{})
	labels := make([]string, 0, 4)
	for _, seg := range segments {
		if _, ok := seen[seg.Speaker]; ok {
			continue
		}
		seen[seg.Speaker] = struct{}{}
		labels = append(labels, seg.Speaker)
	}
	sort.Strings(labels)
	return labels
}

// FirstText returns the first non-empty transcript text for the speaker,
// used as the reference text fallback when clip metadata is unavailable.
func FirstText(segments []Segment, speaker string) string {
	for _, seg := range segments {
		if seg.Speaker != speaker {
			continue
		}
		if text := strings.TrimSpace(seg.Text); text != "" {
			return text
		}
	}
	return ""
}

// SortByDurationDesc returns a new slice ordered by duration, longest
// first. The sort is stable so equal durations keep transcript order.
func SortByDurationDesc(segments []Segment) []Segment {
	sorted := make([]Segment, len(segments))
	copy(sorted, segments)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Duration() > sorted[j].Duration()
	})
	return sorted
}

// SortByStart returns a new slice in chronological order.
func SortByStart(segments []Segment) []Segment {
	sorted := make([]Segment, len(segments))
	copy(sorted, segments)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Start < sorted[j].Start
	})
	return sorted
}
