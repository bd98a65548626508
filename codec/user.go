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
	"bytes"
	"encoding/binary"
)

// User record widths, both layouts.
const (
	UserNarrowSize = 28
	UserWideSize   = 72
)

// User privilege bit layout: bit 0 disabled, bits 1-3 type.
const privilegeDisabledBit = 0x01

// User is the decoded form of a device user record, independent of which
// wire layout (narrow or wide) it was read from or will be written to.
type User struct {
	UID       uint16
	UserID    string
	Name      string
	Privilege uint8
	Disabled  bool
	Password  string
	// Group is authoritative as a single byte on both layouts; see
	// DESIGN.md's Open Question (a) for why this is not a wider integer.
	Group uint8
	Card  uint32
}

func packString(dst []byte, s string) {
	b := []byte(s)
	n := copy(dst, b)
	for i := n; i < len(dst); i++ {
		dst[i] = 0
	}
}

func unpackString(src []byte) string {
	i := bytes.IndexByte(src, 0)
	if i < 0 {
		i = len(src)
	}
	return string(src[:i])
}

// EncodeUserNarrow packs u into the 28-byte narrow layout. The user-id
// string must be numeric and is packed as its 4-byte little-endian integer
// value into offset 24, per the narrow layout's "user-id-number" field.
func EncodeUserNarrow(u User) [UserNarrowSize]byte {
	var buf [UserNarrowSize]byte
	binary.LittleEndian.PutUint16(buf[0:2], u.UID)
	buf[2] = packPrivilege(u)
	packString(buf[3:8], u.Password)
	packString(buf[8:16], u.Name)
	binary.LittleEndian.PutUint32(buf[16:20], u.Card)
	// buf[20] reserved, left zero
	buf[21] = u.Group
	// buf[22:24] reserved, left zero (see DESIGN.md Open Question (a))
	var uid uint32
	for _, c := range u.UserID {
		if c < '0' || c > '9' {
			uid = 0
			break
		}
		uid = uid*10 + uint32(c-'0')
	}
	binary.LittleEndian.PutUint32(buf[24:28], uid)
	return buf
}

// DecodeUserNarrow parses a 28-byte narrow-layout record.
func DecodeUserNarrow(b []byte) User {
	_ = b[:UserNarrowSize]
	u := User{
		UID:      binary.LittleEndian.Uint16(b[0:2]),
		Password: unpackString(b[3:8]),
		Name:     unpackString(b[8:16]),
		Card:     binary.LittleEndian.Uint32(b[16:20]),
		Group:    b[21],
	}
	unpackPrivilege(&u, b[2])
	idNum := binary.LittleEndian.Uint32(b[24:28])
	u.UserID = formatUint(idNum)
	return u
}

// EncodeUserWide packs u into the 72-byte wide layout, used over the stream
// transport on newer firmware.
func EncodeUserWide(u User) [UserWideSize]byte {
	var buf [UserWideSize]byte
	binary.LittleEndian.PutUint16(buf[0:2], u.UID)
	buf[2] = packPrivilege(u)
	packString(buf[3:11], u.Password)
	packString(buf[11:35], u.Name)
	binary.LittleEndian.PutUint32(buf[35:39], u.Card)
	// buf[39] reserved, left zero
	packString(buf[40:47], u.Group3())
	// buf[47] reserved, left zero
	packString(buf[48:72], u.UserID)
	return buf
}

// DecodeUserWide parses a 72-byte wide-layout record.
func DecodeUserWide(b []byte) User {
	_ = b[:UserWideSize]
	u := User{
		UID:      binary.LittleEndian.Uint16(b[0:2]),
		Password: unpackString(b[3:11]),
		Name:     unpackString(b[11:35]),
		Card:     binary.LittleEndian.Uint32(b[35:39]),
		UserID:   unpackString(b[48:72]),
	}
	unpackPrivilege(&u, b[2])
	var group int
	for _, c := range unpackString(b[40:47]) {
		if c < '0' || c > '9' {
			group = 0
			break
		}
		group = group*10 + int(c-'0')
	}
	u.Group = uint8(group)
	return u
}

// Group3 renders Group as the 7-byte string form the wide layout stores.
func (u User) Group3() string {
	if u.Group == 0 {
		return ""
	}
	return formatUint(uint32(u.Group))
}

func packPrivilege(u User) uint8 {
	p := u.Privilege &^ privilegeDisabledBit
	if u.Disabled {
		p |= privilegeDisabledBit
	}
	return p
}

func unpackPrivilege(u *User, b byte) {
	u.Disabled = b&privilegeDisabledBit != 0
	u.Privilege = b &^ privilegeDisabledBit
}

// Packed-for-save tag byte prepended to each user record in the bulk
// template-write payload (see EncodeUserNarrowPacked/EncodeUserWidePacked).
const packedTag = 0x02

// EncodeUserNarrowPacked returns the 29-byte packed-for-save form of the
// narrow layout: a leading 0x02 tag byte followed by the 28-byte record.
func EncodeUserNarrowPacked(u User) [UserNarrowSize + 1]byte {
	var out [UserNarrowSize + 1]byte
	out[0] = packedTag
	rec := EncodeUserNarrow(u)
	copy(out[1:], rec[:])
	return out
}

// EncodeUserWidePacked returns the 73-byte packed-for-save form of the wide
// layout: a leading 0x02 tag byte followed by the 72-byte record.
func EncodeUserWidePacked(u User) [UserWideSize + 1]byte {
	var out [UserWideSize + 1]byte
	out[0] = packedTag
	rec := EncodeUserWide(u)
	copy(out[1:], rec[:])
	return out
}

func formatUint(v uint32) string {
	if v == 0 {
		return "0"
	}
	var buf [10]byte
	i := len(buf)
	for v > 0 {
		i--
		buf[i] = byte('0' + v%10)
		v /= 10
	}
	return string(buf[i:])
}
