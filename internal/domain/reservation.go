package domain

import (
	"errors"
	"regexp"
	"time"
)

// Layouts used for the textual date and time columns
const (
	DateLayout  = "2006-01-02"
	ClockLayout = "15:04"
)

// Reservation errors
var (
	ErrInvalidClock     = errors.New("time must be HH:MM with a two-digit hour")
	ErrInvalidTimeRange = errors.New("start time must be before end time")
	ErrOutsideOpenHours = errors.New("reservation is outside the area's opening hours")
)

// clockPattern is the stored clock format. time.Parse alone accepts "9:00", which
// breaks the lexical ordering of the columns.
var clockPattern = regexp.MustCompile(`^([01][0-9]|2[0-3]):[0-5][0-9]$`)

// ValidClock reports whether s is a zero-padded 24-hour HH:MM time
func ValidClock(s string) bool {
	return clockPattern.MatchString(s)
}

func parseClock(s string) (time.Time, error) {
	if !ValidClock(s) {
		return time.Time{}, ErrInvalidClock
	}
	return time.Parse(ClockLayout, s)
}

// Reservation Model
type Reservation struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	UserID    uint       `gorm:"index;not null" json:"-"`
	User      User       `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"user"`
	AreaID    uint       `gorm:"index;not null" json:"-"`
	Area      CommonArea `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"area"`
	Date      string     `gorm:"size:10;index;not null" json:"date"`
	StartTime string     `gorm:"size:5;not null" json:"start_time"`
	EndTime   string     `gorm:"size:5;not null" json:"end_time"`
	CreatedAt time.Time  `json:"created_at"`
}

// ValidateSlot checks that start < end and that the slot fits in the area's opening hours.
// All values are HH:MM strings and compare lexically once validated.
func ValidateSlot(area CommonArea, start, end string) error {
	s, err := parseClock(start)
	if err != nil {
		return err
	}
	e, err := parseClock(end)
	if err != nil {
		return err
	}
	if !s.Before(e) {
		return ErrInvalidTimeRange
	}
	from, err := parseClock(area.AvailableFrom)
	if err != nil {
		return err
	}
	to, err := parseClock(area.AvailableTo)
	if err != nil {
		return err
	}
	if s.Before(from) || e.After(to) {
		return ErrOutsideOpenHours
	}
	return nil
}

// Overlaps reports whether the half-open slots [aStart, aEnd) and [bStart, bEnd) intersect.
// The values must be valid clocks, which order lexically.
func Overlaps(aStart, aEnd, bStart, bEnd string) bool {
	return aStart < bEnd && bStart < aEnd
}

// Overlaps reports whether r and other share any time. Only the clocks are compared:
// callers select reservations of the same area and date.
func (r Reservation) Overlaps(other Reservation) bool {
	return Overlaps(r.StartTime, r.EndTime, other.StartTime, other.EndTime)
}
