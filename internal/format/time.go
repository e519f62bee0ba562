package format

import (
	"time"
)

const (
	filetimeTicksPerSecond = 10_000_000  // FILETIME counts 100ns ticks
	filetimeUnixDelta      = 11644473600 // seconds between 1601-01-01 and 1970-01-01
	filetimeUnit           = 100         // nanoseconds per tick
)

// FiletimeToTime converts a Windows FILETIME (100ns ticks since 1601-01-01 UTC)
// to time.Time. The conversion is done in whole seconds first so values far
// from the Unix epoch do not overflow int64 nanoseconds.
func FiletimeToTime(v uint64) time.Time {
	sec := int64(v/filetimeTicksPerSecond) - filetimeUnixDelta
	nsec := int64(v%filetimeTicksPerSecond) * filetimeUnit
	return time.Unix(sec, nsec).UTC()
}

// TimeToFiletime converts t to a FILETIME. Times before 1601 clamp to zero.
func TimeToFiletime(t time.Time) uint64 {
	sec := t.Unix() + filetimeUnixDelta
	if sec < 0 {
		return 0
	}
	return uint64(sec)*filetimeTicksPerSecond + uint64(t.Nanosecond())/filetimeUnit
}
