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

// GetUsers enumerates every user record on the device. The record width
// (narrow or wide) is inferred from the total payload size against the
// device's reported count and cached for subsequent encodes.
func (d *Device) GetUsers() ([]codec.User, error) {
	payload, err := d.bulkRead("get users", codec.CmdUserTempRRQ, codec.FctUser, 0)
	if err != nil {
		return nil, err
	}
	if len(payload) < 4 {
		return nil, zkerr.New(zkerr.Protocol, "get users", fmt.Errorf("payload too short for a count"))
	}
	count := int(binary.LittleEndian.Uint32(payload[0:4]))
	body := payload[4:]

	width, err := inferUserWidth(len(body), count)
	if err != nil {
		return nil, err
	}

	d.mu.Lock()
	d.userWidth = width
	d.mu.Unlock()

	users := make([]codec.User, 0, count)
	var maxUID uint16
	for offset := 0; offset+width <= len(body); offset += width {
		rec := body[offset : offset+width]
		var u codec.User
		if width == codec.UserWideSize {
			u = codec.DecodeUserWide(rec)
		} else {
			u = codec.DecodeUserNarrow(rec)
		}
		if u.UID > maxUID {
			maxUID = u.UID
		}
		users = append(users, u)
	}

	d.mu.Lock()
	d.nextUID = maxUID + 1
	d.mu.Unlock()

	return users, nil
}

// inferUserWidth picks the narrow or wide record width that evenly divides
// body into count records. If count is zero or unknown, it falls back to
// whichever width evenly divides the buffer.
func inferUserWidth(bodyLen, count int) (int, error) {
	if count > 0 {
		if bodyLen == count*codec.UserWideSize {
			return codec.UserWideSize, nil
		}
		if bodyLen == count*codec.UserNarrowSize {
			return codec.UserNarrowSize, nil
		}
	}
	if bodyLen%codec.UserWideSize == 0 {
		return codec.UserWideSize, nil
	}
	if bodyLen%codec.UserNarrowSize == 0 {
		return codec.UserNarrowSize, nil
	}
	return 0, zkerr.New(zkerr.Protocol, "get users",
		fmt.Errorf("user payload of %d bytes does not divide evenly into %d records", bodyLen, count))
}

// SetUser writes or updates a single user record via CMD_USER_WRQ. The
// record is encoded at the device's currently cached layout width.
func (d *Device) SetUser(u codec.User) error {
	d.mu.Lock()
	width := d.userWidth
	d.mu.Unlock()

	var payload []byte
	if width == codec.UserWideSize {
		rec := codec.EncodeUserWide(u)
		payload = rec[:]
	} else {
		rec := codec.EncodeUserNarrow(u)
		payload = rec[:]
	}

	d.mu.Lock()
	_, err := d.requireOK("set user", codec.CmdUserWRQ, payload)
	d.mu.Unlock()
	if err != nil {
		return err
	}
	return d.refreshData()
}

// DeleteUser removes the user identified by uid via CMD_DELETE_USER.
func (d *Device) DeleteUser(uid uint16) error {
	payload := make([]byte, 2)
	binary.LittleEndian.PutUint16(payload, uid)

	d.mu.Lock()
	_, err := d.requireOK("delete user", codec.CmdDeleteUser, payload)
	d.mu.Unlock()
	if err != nil {
		return err
	}
	return d.refreshData()
}

// DeleteUserByUserID resolves userID to a UID via GetUsers and deletes it.
// It returns a NotFound-flavored Operation error if no user with that ID
// exists.
func (d *Device) DeleteUserByUserID(userID string) error {
	users, err := d.GetUsers()
	if err != nil {
		return err
	}
	for _, u := range users {
		if u.UserID == userID {
			return d.DeleteUser(u.UID)
		}
	}
	return zkerr.New(zkerr.Operation, "delete user", fmt.Errorf("no user with user id %q", userID))
}

// refreshData issues CMD_REFRESHDATA, which the device requires after
// direct (non-bulk) writes to commit them.
func (d *Device) refreshData() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	_, err := d.requireOK("refresh data", codec.CmdRefreshData, nil)
	return err
}
