package pricing

import "time"

// Multiplier names reported on the quote breakdown.
const (
	MultiplierStandard     = "standard"
	MultiplierLateNight    = "late_night"
	MultiplierEarlyMorning = "early_morning"
)

// MultiplierFor resolves the time-of-day multiplier for a trip time. Only the
// local hour matters. The late-night window wraps midnight and wins over the
// early-morning window when the two policies would ever overlap; a nil trip
// time means the caller wants standard pricing rather than clock-dependent
// output.
func (s FeeSchedule) MultiplierFor(at *time.Time) (float64, string) {
	if at == nil {
		return 1.0, MultiplierStandard
	}
	hour := at.Hour()

	if inWrappingWindow(hour, s.LateNightStartHour, s.LateNightEndHour) {
		return s.LateNightMultiplier, MultiplierLateNight
	}
	if hour >= s.EarlyMorningStartHour && hour < s.EarlyMorningEndHour {
		return s.EarlyMorningMultiplier, MultiplierEarlyMorning
	}
	return 1.0, MultiplierStandard
}

// inWrappingWindow tests hour membership in [start, end) on a 24-hour clock,
// allowing the window to wrap midnight. A start equal to end means an empty
// window, not a full day.
func inWrappingWindow(hour, start, end int) bool {
	if start < end {
		return hour >= start && hour < end
	}
	if start > end {
		return hour >= start || hour < end
	}
	return false
}
