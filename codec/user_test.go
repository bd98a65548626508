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
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDecodeUserNarrowLiteral(t *testing.T) {
	// 4-byte bulk-read prefix (28 00 00 00) followed by one 28-byte record
	// with uid=1, priv=0, name="Alice".
	prefix := []byte{0x1C, 0x00, 0x00, 0x00}
	rec := make([]byte, UserNarrowSize)
	rec[0] = 1 // uid low byte
	copy(rec[8:16], "Alice")

	total := append(append([]byte{}, prefix...), rec...)
	require.Equal(t, 4+UserNarrowSize, len(total))

	got := DecodeUserNarrow(total[4:])
	require.Equal(t, uint16(1), got.UID)
	require.Equal(t, "Alice", got.Name)
	require.False(t, got.Disabled)
}

func TestUserNarrowRoundTrip(t *testing.T) {
	u := User{
		UID:       7,
		UserID:    "1234",
		Name:      "Bob",
		Privilege: UserAdmin,
		Disabled:  true,
		Password:  "abcd",
		Group:     3,
		Card:      998877,
	}
	rec := EncodeUserNarrow(u)
	got := DecodeUserNarrow(rec[:])
	require.Equal(t, u.UID, got.UID)
	require.Equal(t, u.UserID, got.UserID)
	require.Equal(t, u.Name, got.Name)
	require.Equal(t, u.Privilege, got.Privilege)
	require.Equal(t, u.Disabled, got.Disabled)
	require.Equal(t, u.Password, got.Password)
	require.Equal(t, u.Group, got.Group)
	require.Equal(t, u.Card, got.Card)
}

func TestUserWideRoundTrip(t *testing.T) {
	u := User{
		UID:       42,
		UserID:    "emp-0042",
		Name:      "Someone With A Long Name",
		Privilege: UserDefault,
		Disabled:  false,
		Password:  "longpassword1",
		Group:     9,
		Card:      1,
	}
	rec := EncodeUserWide(u)
	got := DecodeUserWide(rec[:])
	require.Equal(t, u.UID, got.UID)
	require.Equal(t, u.UserID, got.UserID)
	require.Equal(t, u.Name, got.Name)
	// The wide layout's password field is 8 bytes; longer passwords are
	// right-truncated.
	require.Equal(t, "longpass", got.Password)
	require.Equal(t, u.Card, got.Card)
}

func TestUserNarrowPackedHasTagByte(t *testing.T) {
	packed := EncodeUserNarrowPacked(User{UID: 5})
	require.Equal(t, byte(0x02), packed[0])
	require.Equal(t, uint16(5), DecodeUserNarrow(packed[1:]).UID)
}

func TestUserWidePackedHasTagByte(t *testing.T) {
	packed := EncodeUserWidePacked(User{UID: 9})
	require.Equal(t, byte(0x02), packed[0])
	require.Equal(t, uint16(9), DecodeUserWide(packed[1:]).UID)
}
