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

package zkterm

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/openzk/zkterm/codec"
)

func TestGetOptionStripsNameAndNul(t *testing.T) {
	d, carrier := newConnectedDevice(codec.ComposePacket(codec.CmdAckOK, 1, 0, []byte("~SerialNumber=ABC123\x00")))
	v, err := d.GetOption("~SerialNumber")
	require.NoError(t, err)
	require.Equal(t, "ABC123", v)

	h, payload, err := codec.ParseHeader(carrier.sent[0])
	require.NoError(t, err)
	require.Equal(t, codec.CmdOptionsRRQ, h.Command)
	require.Equal(t, "~SerialNumber\x00", string(payload))
}

func TestSetOption(t *testing.T) {
	d, carrier := newConnectedDevice(codec.ComposePacket(codec.CmdAckOK, 1, 0, nil))
	require.NoError(t, d.SetOption("MAC", "00:11:22:33:44:55"))

	h, payload, err := codec.ParseHeader(carrier.sent[0])
	require.NoError(t, err)
	require.Equal(t, codec.CmdOptionsWRQ, h.Command)
	require.Equal(t, "MAC=00:11:22:33:44:55\x00", string(payload))
}

func TestPINWidth(t *testing.T) {
	d, _ := newConnectedDevice(codec.ComposePacket(codec.CmdAckOK, 1, 0, []byte("PIN2Width=8\x00")))
	w, err := d.PINWidth()
	require.NoError(t, err)
	require.Equal(t, 8, w)
}

func TestPINWidthUnparseable(t *testing.T) {
	d, _ := newConnectedDevice(codec.ComposePacket(codec.CmdAckOK, 1, 0, []byte("garbage\x00")))
	_, err := d.PINWidth()
	require.Error(t, err)
}

func TestFirmwareVersion(t *testing.T) {
	d, _ := newConnectedDevice(codec.ComposePacket(codec.CmdAckOK, 1, 0, []byte("Ver 6.60\x00")))
	v, err := d.FirmwareVersion()
	require.NoError(t, err)
	require.Equal(t, "Ver 6.60", v)
}

func TestGetSetTimeRoundTrip(t *testing.T) {
	encoded := codec.EncodeTime(2026, 7, 31, 10, 20, 30)
	payload := make([]byte, 4)
	payload[0] = byte(encoded)
	payload[1] = byte(encoded >> 8)
	payload[2] = byte(encoded >> 16)
	payload[3] = byte(encoded >> 24)

	d, _ := newConnectedDevice(codec.ComposePacket(codec.CmdAckOK, 1, 0, payload))
	y, mo, day, h, mi, s, err := d.GetTime()
	require.NoError(t, err)
	require.Equal(t, 2026, y)
	require.Equal(t, 7, mo)
	require.Equal(t, 31, day)
	require.Equal(t, 10, h)
	require.Equal(t, 20, mi)
	require.Equal(t, 30, s)
}

func TestSetTime(t *testing.T) {
	d, carrier := newConnectedDevice(codec.ComposePacket(codec.CmdAckOK, 1, 0, nil))
	require.NoError(t, d.SetTime(2026, 7, 31, 10, 20, 30))

	h, _, err := codec.ParseHeader(carrier.sent[0])
	require.NoError(t, err)
	require.Equal(t, codec.CmdSetTime, h.Command)
}
