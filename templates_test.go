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

func TestGetTemplate(t *testing.T) {
	data := []byte{1, 2, 3, 4, 5}
	blob := codec.EncodeTemplateBlob(data)
	d, carrier := newConnectedDevice(codec.ComposePacket(codec.CmdAckOK, 1, 0, blob))

	tpl, err := d.GetTemplate(7, 1)
	require.NoError(t, err)
	require.True(t, tpl.Valid)
	require.Equal(t, data, tpl.Data)

	h, payload, err := codec.ParseHeader(carrier.sent[0])
	require.NoError(t, err)
	require.Equal(t, codec.CmdGetUserTemp, h.Command)
	require.EqualValues(t, 7, binary.LittleEndian.Uint16(payload[0:2]))
	require.EqualValues(t, 1, payload[2])
}

func TestGetTemplateEmpty(t *testing.T) {
	blob := codec.EncodeTemplateBlob(nil)
	d, _ := newConnectedDevice(codec.ComposePacket(codec.CmdAckOK, 1, 0, blob))

	tpl, err := d.GetTemplate(7, 1)
	require.NoError(t, err)
	require.False(t, tpl.Valid)
}

func TestDeleteTemplate(t *testing.T) {
	d, carrier := newConnectedDevice(codec.ComposePacket(codec.CmdAckOK, 1, 0, nil))
	err := d.DeleteTemplate(3, 2)
	require.NoError(t, err)

	h, _, err := codec.ParseHeader(carrier.sent[0])
	require.NoError(t, err)
	require.Equal(t, codec.CmdDeleteUserTemp, h.Command)
}

func TestSaveTemplatesBuildsPayload(t *testing.T) {
	users := []codec.User{{UID: 1, UserID: "1001", Name: "Alice"}}
	templates := []codec.Template{{UID: 1, FingerIndex: 0, Valid: true, Data: []byte{9, 9, 9}}}

	d, carrier := newConnectedDevice(
		codec.ComposePacket(codec.CmdAckOK, 1, 0, nil), // free-data
		codec.ComposePacket(codec.CmdAckOK, 1, 1, nil), // prepare-data
		codec.ComposePacket(codec.CmdAckOK, 1, 2, nil), // one data chunk fits
		codec.ComposePacket(codec.CmdAckOK, 1, 3, nil), // CMD_SAVE_USERTEMPS
		codec.ComposePacket(codec.CmdAckOK, 1, 4, nil), // refresh-data
	)

	err := d.SaveTemplates(users, templates)
	require.NoError(t, err)
	require.Len(t, carrier.sent, 5)

	h2, payload, err := codec.ParseHeader(carrier.sent[2])
	require.NoError(t, err)
	require.Equal(t, codec.CmdData, h2.Command)

	userRec := codec.EncodeUserWidePacked(users[0])
	indexEntry := codec.EncodeFPIndexEntry(1, 0, 0)
	blob := codec.EncodeTemplateBlob(templates[0].Data)

	usersLen := binary.LittleEndian.Uint32(payload[0:4])
	tableLen := binary.LittleEndian.Uint32(payload[4:8])
	fpsLen := binary.LittleEndian.Uint32(payload[8:12])
	require.EqualValues(t, len(userRec), usersLen)
	require.EqualValues(t, len(indexEntry), tableLen)
	require.EqualValues(t, len(blob), fpsLen)

	h3, finalPayload, err := codec.ParseHeader(carrier.sent[3])
	require.NoError(t, err)
	require.Equal(t, codec.CmdSaveUserTemps, h3.Command)
	require.EqualValues(t, len(payload), binary.LittleEndian.Uint32(finalPayload[0:4]))
	require.EqualValues(t, 0, binary.LittleEndian.Uint16(finalPayload[4:6]))
	require.EqualValues(t, 8, binary.LittleEndian.Uint16(finalPayload[6:8]))
}
