package booking

import (
	"testing"
	"time"
)

func at(hour int) time.Time {
	return time.Date(2025, 1, 10, hour, 0, 0, 0, time.UTC)
}

func TestOverlaps(t *testing.T) {
	tests := []struct {
		name   string
		aStart int
		aEnd   int
		bStart int
		bEnd   int
		want   bool
	}{
		{"identical windows", 9, 10, 9, 10, true},
		{"b starts inside a", 9, 11, 10, 12, true},
		{"a starts inside b", 10, 12, 9, 11, true},
		{"a contains b", 9, 13, 10, 11, true},
		{"b contains a", 10, 11, 9, 13, true},
		{"touching boundaries do not conflict", 9, 10, 10, 11, false},
		{"touching boundaries reversed", 10, 11, 9, 10, false},
		{"disjoint", 9, 10, 12, 13, false},
		{"disjoint reversed", 12, 13, 9, 10, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Overlaps(at(tt.aStart), at(tt.aEnd), at(tt.bStart), at(tt.bEnd))
			if got != tt.want {
				t.Errorf("Overlaps(%d-%d, %d-%d) = %v, want %v",
					tt.aStart, tt.aEnd, tt.bStart, tt.bEnd, got, tt.want)
			}
		})
	}
}

func TestOverlapsIsSymmetric(t *testing.T) {
	pairs := [][4]int{
		{9, 11, 10, 12},
		{9, 10, 10, 11},
		{9, 13, 10, 11},
		{9, 10, 12, 13},
	}

	for _, p := range pairs {
		ab := Overlaps(at(p[0]), at(p[1]), at(p[2]), at(p[3]))
		ba := Overlaps(at(p[2]), at(p[3]), at(p[0]), at(p[1]))
		if ab != ba {
			t.Errorf("asymmetric result for %v: %v vs %v", p, ab, ba)
		}
	}
}

func TestNewWindow(t *testing.T) {
	w := NewWindow(at(9), 2)
	if !w.Start.Equal(at(9)) || !w.End.Equal(at(11)) {
		t.Errorf("NewWindow = [%v, %v), want [9h, 11h)", w.Start, w.End)
	}

	if !w.ConflictsWith(NewWindow(at(10), 1)) {
		t.Error("contained window should conflict")
	}
	if w.ConflictsWith(NewWindow(at(11), 1)) {
		t.Error("window starting at the end boundary should not conflict")
	}
}
