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
	"fmt"

	"github.com/openzk/zkterm/codec"
	"github.com/openzk/zkterm/zkerr"
)

// templateHeaderSize is the width of the fixed header the device expects at
// the front of a bulk template-write payload: the byte length of each of
// the three regions that follow it, in order — packed user records,
// fp-index table, length-prefixed template blobs.
const templateHeaderSize = 12

// saveUserTempsFinalPayloadSize is the width of the fixed trailer sent as
// the _CMD_SAVE_USERTEMPS final-command payload: total byte length of the
// bulk-written body, followed by two reserved u16 fields the device expects
// set to 0 and 8.
const saveUserTempsFinalPayloadSize = 8

// SetTemplate writes a single fingerprint or face template for uid through
// the bulk template-write machinery, preserving the rest of that user's
// record by resolving it via GetUsers first. fingerIndex is written into the
// fingerprint-index table as given; there is no separate face-template path.
func (d *Device) SetTemplate(uid uint16, fingerIndex uint8, data []byte) error {
	users, err := d.GetUsers()
	if err != nil {
		return err
	}
	u := codec.User{UID: uid}
	for _, candidate := range users {
		if candidate.UID == uid {
			u = candidate
			break
		}
	}
	return d.SaveTemplates(
		[]codec.User{u},
		[]codec.Template{{UID: uid, FingerIndex: fingerIndex, Valid: true, Data: data}},
	)
}

// GetTemplate fetches a single template via CMD_GET_USERTEMP, addressed by
// uid and fingerIndex only. No function-type selector is sent, so a face
// template is not addressed separately from fingerprint index fingerIndex.
func (d *Device) GetTemplate(uid uint16, fingerIndex uint8) (codec.Template, error) {
	payload := make([]byte, 4)
	binary.LittleEndian.PutUint16(payload[0:2], uid)
	payload[2] = fingerIndex

	d.mu.Lock()
	r, err := d.requireOK("get template", codec.CmdGetUserTemp, payload)
	d.mu.Unlock()
	if err != nil {
		return codec.Template{}, err
	}
	if len(r.payload) < 2 {
		return codec.Template{}, zkerr.New(zkerr.Protocol, "get template",
			fmt.Errorf("reply too short for a length prefix"))
	}
	length := binary.LittleEndian.Uint16(r.payload[0:2])
	if int(length)+2 > len(r.payload) {
		return codec.Template{}, zkerr.New(zkerr.Protocol, "get template",
			fmt.Errorf("length prefix %d exceeds reply of %d bytes", length, len(r.payload)))
	}
	return codec.Template{
		UID:         uid,
		FingerIndex: fingerIndex,
		Valid:       length > 0,
		Data:        r.payload[2 : 2+length],
	}, nil
}

// DeleteTemplate removes one fingerprint or face template via
// CMD_DELETE_USERTEMP.
func (d *Device) DeleteTemplate(uid uint16, fingerIndex uint8) error {
	payload := make([]byte, 4)
	binary.LittleEndian.PutUint16(payload[0:2], uid)
	payload[2] = fingerIndex

	d.mu.Lock()
	defer d.mu.Unlock()
	_, err := d.requireOK("delete template", codec.CmdDeleteUserTemp, payload)
	return err
}

// DeleteAllUserTemplates removes every template owned by uid via
// CMD_DEL_USER_TEMP.
func (d *Device) DeleteAllUserTemplates(uid uint16) error {
	payload := make([]byte, 2)
	binary.LittleEndian.PutUint16(payload, uid)

	d.mu.Lock()
	defer d.mu.Unlock()
	_, err := d.requireOK("delete user templates", codec.CmdDelUserTemp, payload)
	return err
}

// SaveTemplates pushes a batch of users together with their fingerprint and
// face templates through the chunked bulk-write state machine in a single
// transaction: the device replaces each listed user's record and the
// templates keyed to it.
func (d *Device) SaveTemplates(users []codec.User, templates []codec.Template) error {
	payload := buildTemplateWritePayload(users, templates)

	final := make([]byte, saveUserTempsFinalPayloadSize)
	binary.LittleEndian.PutUint32(final[0:4], uint32(len(payload)))
	binary.LittleEndian.PutUint16(final[4:6], 0)
	binary.LittleEndian.PutUint16(final[6:8], 8)

	return d.bulkWrite("save templates", payload, codec.CmdSaveUserTemps, final)
}

// buildTemplateWritePayload assembles the bulk template-write body: a fixed
// header giving the byte length of each region that follows it, the
// packed-for-save user records, the fp-index table mapping (uid, finger
// index) pairs to byte offsets in the trailing blob region, and finally the
// length-prefixed template blobs themselves.
func buildTemplateWritePayload(users []codec.User, templates []codec.Template) []byte {
	var userRecords []byte
	for _, u := range users {
		rec := codec.EncodeUserWidePacked(u)
		userRecords = append(userRecords, rec[:]...)
	}

	var indexTable []byte
	var blobs []byte
	var blobOffset uint32
	for _, t := range templates {
		entry := codec.EncodeFPIndexEntry(t.UID, t.FingerIndex, blobOffset)
		indexTable = append(indexTable, entry[:]...)
		blob := codec.EncodeTemplateBlob(t.Data)
		blobs = append(blobs, blob...)
		blobOffset += uint32(len(blob))
	}

	header := make([]byte, templateHeaderSize)
	binary.LittleEndian.PutUint32(header[0:4], uint32(len(userRecords)))
	binary.LittleEndian.PutUint32(header[4:8], uint32(len(indexTable)))
	binary.LittleEndian.PutUint32(header[8:12], uint32(len(blobs)))

	out := make([]byte, 0, len(header)+len(userRecords)+len(indexTable)+len(blobs))
	out = append(out, header...)
	out = append(out, userRecords...)
	out = append(out, indexTable...)
	out = append(out, blobs...)
	return out
}
