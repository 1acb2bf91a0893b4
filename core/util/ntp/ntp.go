// Package ntp converts wall-clock time to NTP seconds, the time base of
// location tokens.
package ntp

import "time"

const (
	// UnixOffset is the number of seconds between 1900-01-01 and 1970-01-01.
	UnixOffset uint64 = 2208988800

	hourMillis     = 3_600_000
	halfHourMillis = 1_800_000
)

// Clock returns the current time. Tests inject fixed clocks.
type Clock func() time.Time

// SystemClock reads time.Now.
func SystemClock() time.Time { return time.Now() }

// Now returns the current time in NTP seconds, rounded to the nearest
// hour when round is set.
func Now(round bool) uint64 {
	return FromTime(time.Now(), round)
}

// FromTime converts t to NTP seconds. With round set, the result is
// rounded to the nearest hour; an exact half hour rounds down.
func FromTime(t time.Time, round bool) uint64 {
	ms := uint64(t.UnixMilli())
	if !round {
		return ms/1000 + UnixOffset
	}
	hours := ms / hourMillis
	if ms%hourMillis > halfHourMillis {
		hours++
	}
	return hours*3600 + UnixOffset
}

// ToTime converts NTP seconds back to a UTC time.
func ToTime(ntp uint64) time.Time {
	return time.Unix(int64(ntp)-int64(UnixOffset), 0).UTC()
}

// HourRounded rounds an NTP timestamp to the nearest hour, half up.
func HourRounded(ntp uint64) uint64 {
	return (ntp + 1800) / 3600 * 3600
}

// IsHourAligned reports whether ntp is a whole number of hours.
func IsHourAligned(ntp uint64) bool {
	return ntp%3600 == 0
}
