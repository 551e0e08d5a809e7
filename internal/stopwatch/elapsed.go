package stopwatch

import (
	"time"

	"chronolog/internal/model"
)

// DurationUnknown is the sentinel returned by duration queries when a
// referenced event id does not exist or the requested range is inverted.
// Missing events are an expected outcome on query paths, so these methods
// return a sentinel instead of an error.
const DurationUnknown time.Duration = -1

// RunningInterval is a maximal contiguous index range of the sequence during
// which the stopwatch was active. Start is the index of the opening start or
// resume event; End is the index of the closing stop, or the last index when
// the interval is still open.
type RunningInterval struct {
	Start int
	End   int
}

// TotalDuration is the wall-clock span from the first start event to the
// last recorded event, pauses included. Zero when no start exists.
func (c *Controller) TotalDuration() time.Duration {
	seq := c.state.Sequence
	for _, event := range seq {
		if event.Type == model.EventStart {
			return seq[len(seq)-1].Timestamp.Sub(event.Timestamp)
		}
	}
	return 0
}

// ElapsedBetween is the active duration between two positions in the
// sequence, excluding any stopped gaps inside the range. Empty ids default
// to the first event and to the last event — or "now" when the stopwatch is
// still running. Returns DurationUnknown when a named id is missing or the
// start position comes after the end position.
func (c *Controller) ElapsedBetween(startID, endID string) time.Duration {
	return c.elapsedBetween(startID, endID, true)
}

// DurationBetween is the raw wall-clock difference between two named events,
// independent of run state. Returns DurationUnknown when either id is
// missing.
func (c *Controller) DurationBetween(firstID, secondID string) time.Duration {
	first := c.indexOf(firstID)
	second := c.indexOf(secondID)
	if first < 0 || second < 0 {
		return DurationUnknown
	}
	return c.state.Sequence[second].Timestamp.Sub(c.state.Sequence[first].Timestamp)
}

// RunningIntervals derives the active index ranges of the whole sequence:
// a start or resume opens an interval, the next stop closes it, and an
// interval left open at the end of the sequence extends to the last index.
func (c *Controller) RunningIntervals() []RunningInterval {
	seq := c.state.Sequence
	intervals := make([]RunningInterval, 0, 2)
	open := -1
	for i, event := range seq {
		switch event.Type {
		case model.EventStart, model.EventResume:
			if open < 0 {
				open = i
			}
		case model.EventStop:
			if open >= 0 {
				intervals = append(intervals, RunningInterval{Start: open, End: i})
				open = -1
			}
		}
	}
	if open >= 0 {
		intervals = append(intervals, RunningInterval{Start: open, End: len(seq) - 1})
	}
	return intervals
}

// elapsedBetween carries the allowFastPath switch so tests can force the
// interval-merge path and check the two calculations against each other.
func (c *Controller) elapsedBetween(startID, endID string, allowFastPath bool) time.Duration {
	seq := c.state.Sequence
	if len(seq) == 0 {
		if startID == "" && endID == "" {
			return 0
		}
		return DurationUnknown
	}

	startIndex := 0
	if startID != "" {
		if startIndex = c.indexOf(startID); startIndex < 0 {
			return DurationUnknown
		}
	}
	endIndex := len(seq) - 1
	if endID != "" {
		if endIndex = c.indexOf(endID); endIndex < 0 {
			return DurationUnknown
		}
	}
	if startIndex > endIndex {
		return DurationUnknown
	}

	lastIndex := len(seq) - 1
	running := c.IsRunning()
	now := c.clock()

	if allowFastPath && c.singleIntervalRange(startIndex, endIndex) {
		end := seq[endIndex].Timestamp
		if endIndex == lastIndex && running {
			end = now
		}
		return end.Sub(seq[startIndex].Timestamp)
	}

	var total time.Duration
	for _, interval := range c.RunningIntervals() {
		lo := interval.Start
		if startIndex > lo {
			lo = startIndex
		}
		hi := interval.End
		if endIndex < hi {
			hi = endIndex
		}
		if lo > hi {
			continue
		}
		end := seq[hi].Timestamp
		if hi == lastIndex && running {
			end = now
		}
		total += end.Sub(seq[lo].Timestamp)
	}
	return total
}

// singleIntervalRange reports whether [startIndex, endIndex] is known to lie
// within one uninterrupted active interval, making a single subtraction
// sufficient. The check is deliberately conservative: any doubt falls back
// to the interval-merge path, which is always correct.
func (c *Controller) singleIntervalRange(startIndex, endIndex int) bool {
	seq := c.state.Sequence
	for i := startIndex; i <= endIndex; i++ {
		switch seq[i].Type {
		case model.EventResume:
			return false
		case model.EventStop:
			if i != endIndex {
				return false
			}
		}
	}

	// The range itself holds no pause boundary; the state entering
	// startIndex must already be running.
	if startIndex == 0 {
		return seq[0].Type == model.EventStart
	}
	for i := startIndex - 1; i >= 0; i-- {
		if seq[i].Type.Operational() {
			return seq[i].Type != model.EventStop
		}
	}
	return false
}
