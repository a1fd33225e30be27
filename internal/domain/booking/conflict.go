package booking

import "time"

// Overlaps reports whether two half-open intervals [aStart, aEnd) and
// [bStart, bEnd) intersect. Symmetric in its arguments, covers full
// containment, and treats touching boundaries as compatible: a slot
// ending at 10:00 does not collide with one starting at 10:00.
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && bStart.Before(aEnd)
}

// Window is a proposed slot on an instructor's calendar.
type Window struct {
	Start time.Time
	End   time.Time
}

func NewWindow(start time.Time, durationHours int) Window {
	return Window{
		Start: start,
		End:   start.Add(time.Duration(durationHours) * time.Hour),
	}
}

func (w Window) ConflictsWith(other Window) bool {
	return Overlaps(w.Start, w.End, other.Start, other.End)
}
