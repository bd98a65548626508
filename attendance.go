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

// GetAttendanceLog reads every stored attendance record via bulk read.
// Record width is inferred the same way as GetUsers: a count-aware divide
// falling back to the first width that evenly divides the payload.
func (d *Device) GetAttendanceLog() ([]codec.AttendanceRow, error) {
	payload, err := d.bulkRead("get attendance log", codec.CmdAttLogRRQ, 0, 0)
	if err != nil {
		return nil, err
	}
	if len(payload) < 4 {
		return nil, zkerr.New(zkerr.Protocol, "get attendance log", fmt.Errorf("payload too short for a count"))
	}
	count := int(binary.LittleEndian.Uint32(payload[0:4]))
	body := payload[4:]

	width, err := inferAttendanceWidth(len(body), count)
	if err != nil {
		return nil, err
	}

	rows := make([]codec.AttendanceRow, 0, count)
	for offset := 0; offset+width <= len(body); offset += width {
		rows = append(rows, codec.DecodeAttendanceRecord(width, body[offset:offset+width]))
	}
	return rows, nil
}

func inferAttendanceWidth(bodyLen, count int) (int, error) {
	widths := []int{codec.AttendanceNarrowSize, codec.AttendanceWideSize, codec.AttendanceWideRecordSize()}
	if count > 0 {
		for _, w := range widths {
			if bodyLen == count*w {
				return w, nil
			}
		}
	}
	for _, w := range widths {
		if w > 0 && bodyLen%w == 0 {
			return w, nil
		}
	}
	return 0, zkerr.New(zkerr.Protocol, "get attendance log",
		fmt.Errorf("attendance payload of %d bytes does not divide evenly into %d records", bodyLen, count))
}

// ClearAttendanceLog erases every stored attendance record via
// CMD_CLEAR_ATTLOG.
func (d *Device) ClearAttendanceLog() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	_, err := d.requireOK("clear attendance log", codec.CmdClearAttLog, nil)
	return err
}

// ClearData wipes the device's entire user/template/attendance database via
// CMD_CLEAR_DATA. This is irreversible; callers should confirm intent
// before calling it.
func (d *Device) ClearData() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	_, err := d.requireOK("clear data", codec.CmdClearData, nil)
	return err
}
