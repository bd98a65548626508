/*
Copyright (c) zkterm authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package codec

import "time"

// EncodeTime packs a (year, month, day, hour, minute, second) tuple into the
// device's 32-bit timestamp encoding. This is deliberately not a proleptic
// calendar: months are always treated as 31 days long, matching the
// device's own (non-Gregorian) arithmetic, so callers must not pass this
// through any calendar-normalizing code path.
func EncodeTime(year, month, day, hour, minute, second int) uint32 {
	y := year - 2000
	v := (((y*12+(month-1))*31+(day-1))*24 + hour)
	v = v*60 + minute
	v = v*60 + second
	return uint32(v)
}

// EncodeTimeValue is a convenience wrapper over EncodeTime taking a
// time.Time. Only the wall-clock fields are used; the device's encoding has
// no timezone concept.
func EncodeTimeValue(t time.Time) uint32 {
	return EncodeTime(t.Year(), int(t.Month()), t.Day(), t.Hour(), t.Minute(), t.Second())
}

// DecodeTime inverts EncodeTime, returning the (year, month, day, hour,
// minute, second) tuple the device encoded. Year is absolute (2000 + the
// stored offset); month and day are 1-based, as encoded.
func DecodeTime(v uint32) (year, month, day, hour, minute, second int) {
	x := int(v)
	second = x % 60
	x /= 60
	minute = x % 60
	x /= 60
	hour = x % 24
	x /= 24
	day = x%31 + 1
	x /= 31
	month = x%12 + 1
	x /= 12
	year = x + 2000
	return
}

// DecodeTimeValue is a convenience wrapper over DecodeTime producing a
// time.Time in UTC. Because the device's calendar is not proleptic (every
// month is 31 days), the resulting time.Time may not match the device's
// intended date for months shorter than 31 days (e.g. the encoding has no
// representation distinguishing "Feb 30" from an invalid date) — callers
// that need the raw tuple should call DecodeTime directly instead.
func DecodeTimeValue(v uint32) time.Time {
	y, mo, d, h, mi, s := DecodeTime(v)
	return time.Date(y, time.Month(mo), d, h, mi, s, 0, time.UTC)
}

// CompactTimeSize is the width of the 6-byte packed timestamp used by live
// capture event records: [year-2000, month, day, hour, minute, second].
const CompactTimeSize = 6

// DecodeCompactTime parses a 6-byte packed live-capture timestamp.
func DecodeCompactTime(b []byte) (year, month, day, hour, minute, second int) {
	_ = b[5] // bounds check hint, mirrors the fixed-width record decoders in this package
	return 2000 + int(b[0]), int(b[1]), int(b[2]), int(b[3]), int(b[4]), int(b[5])
}

// EncodeCompactTime packs a (year, month, day, hour, minute, second) tuple
// into the 6-byte live-capture timestamp format.
func EncodeCompactTime(year, month, day, hour, minute, second int) [CompactTimeSize]byte {
	return [CompactTimeSize]byte{
		byte(year - 2000),
		byte(month),
		byte(day),
		byte(hour),
		byte(minute),
		byte(second),
	}
}
