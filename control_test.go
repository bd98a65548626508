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
	"encoding/binary"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/openzk/zkterm/codec"
)

func TestEnableDisable(t *testing.T) {
	d, _ := newConnectedDevice(
		codec.ComposePacket(codec.CmdAckOK, 1, 0, nil),
		codec.ComposePacket(codec.CmdAckOK, 1, 1, nil),
	)
	require.NoError(t, d.Disable())
	require.False(t, d.enabled)
	require.NoError(t, d.Enable())
	require.True(t, d.enabled)
}

func TestUnlockEncodesDeciseconds(t *testing.T) {
	d, carrier := newConnectedDevice(codec.ComposePacket(codec.CmdAckOK, 1, 0, nil))
	require.NoError(t, d.Unlock(3*time.Second))

	h, payload, err := codec.ParseHeader(carrier.sent[0])
	require.NoError(t, err)
	require.Equal(t, codec.CmdUnlock, h.Command)
	require.EqualValues(t, 30, binary.LittleEndian.Uint32(payload))
}

func TestDoorState(t *testing.T) {
	d, _ := newConnectedDevice(codec.ComposePacket(codec.CmdAckOK, 1, 0, []byte{1}))
	open, err := d.DoorState()
	require.NoError(t, err)
	require.True(t, open)
}

func TestWriteLCD(t *testing.T) {
	d, carrier := newConnectedDevice(codec.ComposePacket(codec.CmdAckOK, 1, 0, nil))
	require.NoError(t, d.WriteLCD(1, "hello"))

	h, payload, err := codec.ParseHeader(carrier.sent[0])
	require.NoError(t, err)
	require.Equal(t, codec.CmdWriteLCD, h.Command)
	require.Equal(t, "hello\x00", string(payload[2:]))
}

func TestReadRawDBInline(t *testing.T) {
	d, carrier := newConnectedDevice(
		codec.ComposePacket(codec.CmdData, 1, 0, []byte{1, 2, 3}),
		codec.ComposePacket(codec.CmdAckOK, 1, 1, nil), // free-data
	)
	data, err := d.ReadRawDB()
	require.NoError(t, err)
	require.Equal(t, []byte{1, 2, 3}, data)
	require.Len(t, carrier.sent, 2)
}

func TestReadRawDBChunked(t *testing.T) {
	sizePayload := make([]byte, 4)
	binary.LittleEndian.PutUint32(sizePayload, 4)
	d, _ := newConnectedDevice(
		codec.ComposePacket(codec.CmdAckOK, 1, 0, sizePayload),
		codec.ComposePacket(codec.CmdData, 1, 1, []byte{9, 9, 9, 9}),
		codec.ComposePacket(codec.CmdAckOK, 1, 2, nil), // free-data
	)
	data, err := d.ReadRawDB()
	require.NoError(t, err)
	require.Equal(t, []byte{9, 9, 9, 9}, data)
}

func TestCancelCaptureAndStartVerify(t *testing.T) {
	d, carrier := newConnectedDevice(
		codec.ComposePacket(codec.CmdAckOK, 1, 0, nil),
		codec.ComposePacket(codec.CmdAckOK, 1, 1, nil),
	)
	require.NoError(t, d.CancelCapture())
	require.NoError(t, d.StartVerify())

	h0, _, err := codec.ParseHeader(carrier.sent[0])
	require.NoError(t, err)
	require.Equal(t, codec.CmdCancelCapture, h0.Command)
	h1, _, err := codec.ParseHeader(carrier.sent[1])
	require.NoError(t, err)
	require.Equal(t, codec.CmdStartVerify, h1.Command)
}
