package scheduler

import (
	"fmt"
	"iter"
	"time"

	"scheduler/internal/models"
)

// slotStep is the spacing between candidate starting points within a day.
const slotStep = 30

// Window describes where and how long a meeting may be.
type Window struct {
	StartDate time.Time // Earliest meeting date, at midnight
	EndDate   time.Time // Latest meeting date, inclusive
	StartHour int       // First hour of the daily search window
	EndHour   int       // Hour no slot may end after
	Duration  int       // Meeting length in minutes
}

// Validate checks that the window can be searched.
func (w Window) Validate() error {
	if w.StartHour > w.EndHour {
		return fmt.Errorf("%w: start hour must be before end hour", ErrInvalidRange)
	}
	if w.StartDate.After(w.EndDate) {
		return fmt.Errorf("%w: start date must be before end date", ErrInvalidRange)
	}
	if w.Duration < 1 {
		return fmt.Errorf("%w: duration must be a positive integer", ErrInvalidRange)
	}
	return nil
}

// StartingPoints returns how many slots fit into one day of the window.
// A slot may end exactly at EndHour but never after it.
func (w Window) StartingPoints() int {
	// With hours 8-10 there are four points: 8:00, 8:30, 9:00, 9:30.
	points := 2 * (w.EndHour - w.StartHour)
	points -= w.Duration / slotStep
	if w.Duration%slotStep == 0 {
		points++
	}
	return points
}

// Days returns the number of whole days between StartDate and EndDate.
func (w Window) Days() int {
	const secondsPerDay = 24 * 60 * 60
	return int((w.EndDate.Unix() - w.StartDate.Unix()) / secondsPerDay)
}

// GenerateSlots returns every candidate slot of the window ordered by day and start time.
// The sequence holds no state and can be ranged over any number of times.
func GenerateSlots(w Window) (iter.Seq[models.TimeInterval], error) {
	if err := w.Validate(); err != nil {
		return nil, err
	}

	days := w.Days()
	points := w.StartingPoints()
	base := w.StartDate
	duration := time.Duration(w.Duration) * time.Minute

	return func(yield func(models.TimeInterval) bool) {
		for i := 0; i <= days; i++ {
			day := base.AddDate(0, 0, i)
			for j := 0; j < points; j++ {
				start := day.Add(time.Duration(w.StartHour)*time.Hour +
					time.Duration(slotStep*j)*time.Minute)
				slot := models.TimeInterval{
					Start: start,
					End:   start.Add(duration),
				}
				if !yield(slot) {
					return
				}
			}
		}
	}, nil
}

// Overlaps reports whether a and b intersect. Touching endpoints do not count.
func Overlaps(a, b models.TimeInterval) bool {
	return a.Overlaps(b)
}
