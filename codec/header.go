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

import (
	"encoding/binary"
	"fmt"
)

// HeaderSize is the fixed size, in bytes, of the command header.
const HeaderSize = 8

// Header is the 8-byte little-endian command header that prefixes every
// application packet in both directions.
type Header struct {
	Command  uint16
	Checksum uint16
	Session  uint16
	Reply    uint16
}

// NextReply returns r+1 wrapping to 0 at USHRTMax, the device family's reply
// id increment rule.
func NextReply(r uint16) uint16 {
	if r+1 >= USHRTMax {
		return 0
	}
	return r + 1
}

// ComposePacket builds a full outbound packet: command header (with the
// reply id advanced by one per NextReply) followed by payload, with the
// checksum computed over the whole thing (checksum field zeroed during the
// computation).
func ComposePacket(command uint16, session, reply uint16, payload []byte) []byte {
	packet := make([]byte, HeaderSize+len(payload))
	binary.LittleEndian.PutUint16(packet[0:2], command)
	binary.LittleEndian.PutUint16(packet[2:4], 0)
	binary.LittleEndian.PutUint16(packet[4:6], session)
	binary.LittleEndian.PutUint16(packet[6:8], NextReply(reply))
	copy(packet[HeaderSize:], payload)

	sum := Checksum(packet)
	binary.LittleEndian.PutUint16(packet[2:4], sum)
	return packet
}

// ParseHeader parses the leading HeaderSize bytes of packet into a Header.
// It does not validate the checksum; callers that need to validate it
// should call Checksum on a copy with the checksum field zeroed and compare.
func ParseHeader(packet []byte) (Header, []byte, error) {
	if len(packet) < HeaderSize {
		return Header{}, nil, fmt.Errorf("codec: packet too short: %d bytes", len(packet))
	}
	h := Header{
		Command:  binary.LittleEndian.Uint16(packet[0:2]),
		Checksum: binary.LittleEndian.Uint16(packet[2:4]),
		Session:  binary.LittleEndian.Uint16(packet[4:6]),
		Reply:    binary.LittleEndian.Uint16(packet[6:8]),
	}
	return h, packet[HeaderSize:], nil
}

// Validate recomputes the checksum over packet (with the checksum field
// zeroed) and reports whether it matches the checksum carried in the header.
func Validate(packet []byte) bool {
	if len(packet) < HeaderSize {
		return false
	}
	scratch := make([]byte, len(packet))
	copy(scratch, packet)
	want := binary.LittleEndian.Uint16(scratch[2:4])
	binary.LittleEndian.PutUint16(scratch[2:4], 0)
	return Checksum(scratch) == want
}
