package timezone

import "time"

const DefaultTimezone = "Asia/Taipei"

func IsValid(tz string) bool {
	if tz == "" {
		return false
	}
	_, err := time.LoadLocation(tz)
	return err == nil
}

// Location falls back to DefaultTimezone, then to a fixed UTC+8 zone when
// the host has no tzdata.
func Location(tz string) *time.Location {
	if IsValid(tz) {
		if loc, err := time.LoadLocation(tz); err == nil {
			return loc
		}
	}

	if loc, err := time.LoadLocation(DefaultTimezone); err == nil {
		return loc
	}
	return time.FixedZone("CST", 8*60*60)
}

func NowIn(loc *time.Location) time.Time {
	return time.Now().In(loc)
}

// Clock returns a now-function pinned to loc.
func Clock(loc *time.Location) func() time.Time {
	return func() time.Time {
		return NowIn(loc)
	}
}
