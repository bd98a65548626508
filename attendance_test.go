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

	"github.com/stretchr/testify/require"

	"github.com/openzk/zkterm/codec"
)

func TestGetAttendanceLogNarrow(t *testing.T) {
	row := make([]byte, codec.AttendanceNarrowSize)
	binary.LittleEndian.PutUint16(row[0:2], 5)
	row[2] = 1
	binary.LittleEndian.PutUint32(row[3:7], 12345)
	row[7] = 0

	payload := encodeUserCountPayload(1, row)
	d, _ := newConnectedDevice(
		codec.ComposePacket(codec.CmdData, 1, 0, payload),
		codec.ComposePacket(codec.CmdAckOK, 1, 1, nil),
	)

	rows, err := d.GetAttendanceLog()
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.EqualValues(t, 5, rows[0].UID)
	require.EqualValues(t, 12345, rows[0].Time)
}

func TestClearAttendanceLog(t *testing.T) {
	d, carrier := newConnectedDevice(codec.ComposePacket(codec.CmdAckOK, 1, 0, nil))
	require.NoError(t, d.ClearAttendanceLog())
	h, _, err := codec.ParseHeader(carrier.sent[0])
	require.NoError(t, err)
	require.Equal(t, codec.CmdClearAttLog, h.Command)
}

func TestClearData(t *testing.T) {
	d, carrier := newConnectedDevice(codec.ComposePacket(codec.CmdAckOK, 1, 0, nil))
	require.NoError(t, d.ClearData())
	h, _, err := codec.ParseHeader(carrier.sent[0])
	require.NoError(t, err)
	require.Equal(t, codec.CmdClearData, h.Command)
}
