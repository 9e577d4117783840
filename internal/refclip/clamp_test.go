package refclip

import (
	"testing"

	"babel/internal/segment"
)

func TestClampBoundsMS(t *testing.T) {
	cases := []struct {
		name      string
		start     float64
		end       float64
		trackMs   int
		maxMs     int
		wantStart int
		wantEnd   int
	}{
		{"in bounds", 1.0, 2.0, 12000, 10000, 1000, 2000},
		{"negative start", -0.5, 1.0, 12000, 10000, 0, 1000},
		{"zero span forced to one ms", 2.0, 2.0, 12000, 10000, 2000, 2001},
		{"inverted span forced to one ms", 3.0, 2.5, 12000, 10000, 3000, 3001},
		{"end beyond track", 11.5, 14.0, 12000, 10000, 11500, 12000},
		{"span capped from the tail", 0.0, 11.0, 12000, 10000, 0, 10000},
		{"capped span keeps the head", 0.5, 20.0, 12000, 10000, 500, 10500},
		{"start beyond track pinned to last ms", 15.0, 16.0, 12000, 10000, 11999, 12000},
		{"short track", 0.5, 9.0, 2000, 10000, 500, 2000},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			seg := segment.Segment{Start: tc.start, End: tc.end, Speaker: "S", Text: "x"}
			gotStart, gotEnd := clampBoundsMS(seg, tc.trackMs, tc.maxMs)
			if gotStart != tc.wantStart || gotEnd != tc.wantEnd {
				t.Fatalf("clampBoundsMS = (%d, %d), want (%d, %d)",
					gotStart, gotEnd, tc.wantStart, tc.wantEnd)
			}
		})
	}
}

func TestClampBoundsMSAlwaysInsideTrack(t *testing.T) {
	segs := []segment.Segment{
		{Start: -3, End: -1},
		{Start: 0, End: 0.0001},
		{Start: 5, End: 500},
		{Start: 99, End: 100},
	}
	for _, seg := range segs {
		start, end := clampBoundsMS(seg, 8000, 10000)
		if start < 0 || end > 8000 || end <= start {
			t.Fatalf("segment [%v, %v) clamped to invalid window (%d, %d)",
				seg.Start, seg.End, start, end)
		}
	}
}
