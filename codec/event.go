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

import "encoding/binary"

// Live-capture event record widths, per spec: the width is inferred from
// the remaining payload length, not carried explicitly on the wire.
const (
	EventNarrowSize = 10 // userId:u16, status:u8, punch:u8, time:6
	EventWideSize   = 12 // userId:u32, status:u8, punch:u8, time:6
)

// Event is one decoded live-capture punch notification.
type Event struct {
	UserID string
	Status uint8
	Punch  uint8
	Year, Month, Day, Hour, Minute, Second int
}

// DecodeEvent dispatches on the remaining payload length per spec §4.4:
// 10 bytes uses a u16 user id, 12 bytes a u32 user id, anything larger a
// 24-byte user id string. All three forms end in the 6-byte compact time.
func DecodeEvent(b []byte) Event {
	var e Event
	switch {
	case len(b) == EventNarrowSize:
		e.UserID = formatUint(uint32(binary.LittleEndian.Uint16(b[0:2])))
		e.Status, e.Punch = b[2], b[3]
		e.Year, e.Month, e.Day, e.Hour, e.Minute, e.Second = DecodeCompactTime(b[4:10])
	case len(b) == EventWideSize:
		e.UserID = formatUint(binary.LittleEndian.Uint32(b[0:4]))
		e.Status, e.Punch = b[4], b[5]
		e.Year, e.Month, e.Day, e.Hour, e.Minute, e.Second = DecodeCompactTime(b[6:12])
	default:
		e.UserID = unpackString(b[0:24])
		e.Status, e.Punch = b[24], b[25]
		e.Year, e.Month, e.Day, e.Hour, e.Minute, e.Second = DecodeCompactTime(b[26:32])
	}
	return e
}
