package schedule

import "fmt"

// HourWindow is a half-open [Start,End) range of UTC hours. A window
// whose end is not after its start wraps past midnight, so (22,3)
// contains hours 22, 23, 0, 1 and 2. End may be 24 to mean "until
// midnight" without wrapping.
type HourWindow struct {
	Start int `yaml:"start" json:"start"`
	End   int `yaml:"end" json:"end"`
}

// Contains reports whether the UTC hour falls inside the window.
func (w HourWindow) Contains(hour int) bool {
	if w.Start < w.End {
		return hour >= w.Start && hour < w.End
	}
	// Wrap-around range crossing 00:00.
	return hour >= w.Start || hour < w.End
}

// Validate rejects malformed hour ranges.
func (w HourWindow) Validate() error {
	if w.Start < 0 || w.Start > 23 {
		return fmt.Errorf("window start hour %d out of range [0,23]", w.Start)
	}
	if w.End < 0 || w.End > 24 {
		return fmt.Errorf("window end hour %d out of range [0,24]", w.End)
	}
	if w.Start == w.End {
		return fmt.Errorf("window [%d,%d) is empty", w.Start, w.End)
	}
	return nil
}

func (w HourWindow) String() string {
	return fmt.Sprintf("[%02d:00,%02d:00)", w.Start, w.End)
}

// anyContains reports whether any window contains the hour.
func anyContains(windows []HourWindow, hour int) bool {
	for _, w := range windows {
		if w.Contains(hour) {
			return true
		}
	}
	return false
}
