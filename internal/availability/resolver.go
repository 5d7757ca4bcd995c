// Package availability resolves a vendor's weekly availability template
// into concrete bookable days.
package availability

import (
	"time"

	"github.com/SohithNarnavaram/BeautyHub/internal/models"
)

// WindowDays is the number of calendar days a resolution covers,
// inclusive of the reference day.
const WindowDays = 7

// dayNames maps time.Weekday (Sunday = 0) to the template keys.
var dayNames = [7]string{
	"sunday",
	"monday",
	"tuesday",
	"wednesday",
	"thursday",
	"friday",
	"saturday",
}

// Day is a single resolved calendar day.
type Day struct {
	Date      time.Time `json:"date"`    // midnight of the calendar day, caller's location
	Weekday   string    `json:"weekday"` // "monday" etc.
	Available bool      `json:"available"`
	Slots     []string  `json:"slots"` // source order, not normalized
}

// DateString returns the day formatted as YYYY-MM-DD.
func (d Day) DateString() string {
	return d.Date.Format("2006-01-02")
}

// Resolve returns the next WindowDays consecutive calendar days starting
// at ref's date. Each day carries the template slots for its weekday;
// days missing from the template or marked unavailable resolve with no
// slots. The function is pure: identical inputs produce identical
// output, and ref is the only time source consulted.
//
// Slot lists are copied but deliberately not sorted or de-duplicated;
// display order equals source order.
func Resolve(avail models.WeeklyAvailability, ref time.Time) []Day {
	start := time.Date(ref.Year(), ref.Month(), ref.Day(), 0, 0, 0, 0, ref.Location())

	days := make([]Day, 0, WindowDays)
	for i := 0; i < WindowDays; i++ {
		date := start.AddDate(0, 0, i)
		name := dayNames[int(date.Weekday())]

		entry, ok := avail[name]
		if !ok || !entry.Available {
			days = append(days, Day{Date: date, Weekday: name})
			continue
		}

		slots := make([]string, len(entry.Slots))
		copy(slots, entry.Slots)
		days = append(days, Day{
			Date:      date,
			Weekday:   name,
			Available: true,
			Slots:     slots,
		})
	}
	return days
}

// SlotsOn resolves the slots offered on a specific date string
// (YYYY-MM-DD) within the window anchored at ref. It returns nil when
// the date falls outside the window or the day is unavailable.
func SlotsOn(avail models.WeeklyAvailability, ref time.Time, date string) []string {
	for _, d := range Resolve(avail, ref) {
		if d.DateString() == date {
			return d.Slots
		}
	}
	return nil
}
