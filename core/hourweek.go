package core

import "math"

// A week of hours is stored as a single BIGINT: one byte per day holding the
// hour count in tenths, day 0 (Saturday) in the least significant byte through
// day 6 (Friday). 24h = 240 tenths, so a day always fits one byte after
// clamping; the 0xFF cap below is only there so a bad value can never bleed
// into a neighbouring day.

const (
	DaysInWeek = 7

	MaxDayHours  = 24.0
	MaxWeekHours = 168.0
)

// Day indexes within a packed week.
const (
	Sat = iota
	Sun
	Mon
	Tue
	Wed
	Thu
	Fri
)

var DayNames = [DaysInWeek]string{"Sat", "Sun", "Mon", "Tue", "Wed", "Thu", "Fri"}

// PackHours encodes up to 7 daily hour values into one int64. Missing days,
// NaN and negative values encode as 0; values above 24 are clamped.
func PackHours(hours []float64) int64 {
	var packed int64
	for i := 0; i < DaysInWeek; i++ {
		tenths := 0
		if i < len(hours) {
			tenths = hourTenths(hours[i])
		}
		packed |= int64(tenths&0xFF) << (i * 8)
	}
	return packed
}

// UnpackHours is the exact inverse of PackHours for clamped, tenth-rounded
// input: unpack(pack(v)) == v.
func UnpackHours(packed int64) []float64 {
	out := make([]float64, DaysInWeek)
	for i := range out {
		out[i] = float64((packed>>(i*8))&0xFF) / 10
	}
	return out
}

// ClampHour restricts an hour value to [0, 24] rounded to the nearest tenth,
// mapping NaN to 0. This is the one parsing rule shared by the codec and the
// edit-session validation.
func ClampHour(v float64) float64 {
	if math.IsNaN(v) || v <= 0 {
		return 0
	}
	if v > MaxDayHours {
		v = MaxDayHours
	}
	return math.Round(v*10) / 10
}

func hourTenths(v float64) int {
	if math.IsNaN(v) || v <= 0 {
		return 0
	}
	if v > MaxDayHours {
		v = MaxDayHours
	}
	tenths := int(math.Round(v * 10))
	if tenths > 0xFF {
		tenths = 0xFF
	}
	return tenths
}
