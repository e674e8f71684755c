package promo

import (
	"fmt"
	"time"
)

// ExpiredLabel replaces the timer once the offer has ended.
const ExpiredLabel = "Offer Expired"

// Countdown tracks a promotion that ends at a fixed instant.
type Countdown struct {
	end time.Time
}

// NewCountdown starts a promotion lasting d from start.
func NewCountdown(start time.Time, d time.Duration) Countdown {
	return Countdown{end: start.Add(d)}
}

func (c Countdown) End() time.Time {
	return c.end
}

// Remaining is the zero-padded time left, as shown on the promo banner.
type Remaining struct {
	Days    string `json:"days"`
	Hours   string `json:"hours"`
	Minutes string `json:"minutes"`
	Seconds string `json:"seconds"`
	Expired bool   `json:"expired"`
	Label   string `json:"label,omitempty"`
}

// Remaining breaks the time left at now into days, hours, minutes and
// seconds. Past the end every field is "00" and Expired is set.
func (c Countdown) Remaining(now time.Time) Remaining {
	left := c.end.Sub(now)
	if left < 0 {
		return Remaining{Days: "00", Hours: "00", Minutes: "00", Seconds: "00", Expired: true, Label: ExpiredLabel}
	}
	total := int64(left / time.Second)
	return Remaining{
		Days:    pad(total / 86400),
		Hours:   pad(total % 86400 / 3600),
		Minutes: pad(total % 3600 / 60),
		Seconds: pad(total % 60),
	}
}

func pad(v int64) string {
	return fmt.Sprintf("%02d", v)
}
