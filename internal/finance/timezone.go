package finance

import (
	"fmt"
	"time"
)

// DefaultMinute is the bar time used when a record carries no minute marker.
const DefaultMinute = "09:30"

// getEasternTime returns America/New_York location, falling back to fixed EST if tzdata is missing.
func getEasternTime() *time.Location {
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		return time.FixedZone("EST", -5*3600)
	}
	return loc
}

// BarTime combines a bar's date and minute marker into an Eastern-time instant.
func BarTime(date, minute string) (time.Time, error) {
	if minute == "" {
		minute = DefaultMinute
	}
	t, err := time.ParseInLocation("2006-01-02 15:04", date+" "+minute, getEasternTime())
	if err != nil {
		return time.Time{}, fmt.Errorf("bad bar time %q %q: %w", date, minute, err)
	}
	return t, nil
}

// Time is BarTime for b.
func (b *Bar) Time() (time.Time, error) {
	return BarTime(b.Date, b.Minute)
}
