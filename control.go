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
	"time"

	"github.com/openzk/zkterm/codec"
	"github.com/openzk/zkterm/zkerr"
)

// Enable re-enables the device's verification surface (fingerprint/face/
// card reading) after a prior Disable, via CMD_ENABLEDEVICE.
func (d *Device) Enable() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	_, err := d.requireOK("enable device", codec.CmdEnableDevice, nil)
	if err == nil {
		d.enabled = true
	}
	return err
}

// Disable suspends the device's verification surface via
// CMD_DISABLEDEVICE, typically held for the duration of a bulk operation so
// a punch event cannot race it.
func (d *Device) Disable() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	_, err := d.requireOK("disable device", codec.CmdDisableDevice, nil)
	if err == nil {
		d.enabled = false
	}
	return err
}

// TestVoice plays the device's confirmation chime via CMD_TEST_VOICE.
func (d *Device) TestVoice() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	_, err := d.requireOK("test voice", codec.CmdTestVoice, nil)
	return err
}

// Restart reboots the device via CMD_RESTART. The transport is left open;
// callers should expect the connection to drop and Connect again.
func (d *Device) Restart() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	_, err := d.requestLocked(codec.CmdRestart, nil)
	return err
}

// PowerOff powers the device down via CMD_POWEROFF.
func (d *Device) PowerOff() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	_, err := d.requestLocked(codec.CmdPowerOff, nil)
	return err
}

// Unlock releases the attached door strike for the given duration via
// CMD_UNLOCK, encoded as whole deciseconds.
func (d *Device) Unlock(duration time.Duration) error {
	deciseconds := uint32(duration / (100 * time.Millisecond))
	payload := make([]byte, 4)
	binary.LittleEndian.PutUint32(payload, deciseconds)

	d.mu.Lock()
	defer d.mu.Unlock()
	_, err := d.requireOK("unlock", codec.CmdUnlock, payload)
	return err
}

// DoorState reports whether the attached door sensor reads open via
// CMD_DOORSTATE_RRQ.
func (d *Device) DoorState() (bool, error) {
	d.mu.Lock()
	r, err := d.requireOK("door state", codec.CmdDoorStateRRQ, nil)
	d.mu.Unlock()
	if err != nil {
		return false, err
	}
	if len(r.payload) < 1 {
		return false, zkerr.New(zkerr.Protocol, "door state", fmt.Errorf("reply carried no state byte"))
	}
	return r.payload[0] != 0, nil
}

// WriteLCD writes text to one line of the device's LCD panel via
// CMD_WRITE_LCD.
func (d *Device) WriteLCD(line int, text string) error {
	payload := make([]byte, 2, 2+len(text)+1)
	binary.LittleEndian.PutUint16(payload, uint16(line))
	payload = append(payload, []byte(text)...)
	payload = append(payload, 0)

	d.mu.Lock()
	defer d.mu.Unlock()
	_, err := d.requireOK("write lcd", codec.CmdWriteLCD, payload)
	return err
}

// ClearLCD restores the device's default LCD display via CMD_CLEAR_LCD.
func (d *Device) ClearLCD() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	_, err := d.requireOK("clear lcd", codec.CmdClearLCD, nil)
	return err
}

// ReadRawDB dumps the device's raw internal database file via CMD_DB_RRQ,
// through the same bulk-read state machine used for user and template
// tables (fct=0 selects the whole-DB dump rather than any single table).
// The format of the returned bytes is device/firmware-specific and opaque
// to this package.
func (d *Device) ReadRawDB() ([]byte, error) {
	return d.bulkRead("read raw db", codec.CmdDBRRQ, 0, 0)
}

// cancelCaptureLocked sends CMD_CANCELCAPTURE, stopping any in-progress
// enrollment or live-capture registration. Callers must hold d.mu.
func (d *Device) cancelCaptureLocked() error {
	_, err := d.requestLocked(codec.CmdCancelCapture, nil)
	return err
}

// startVerifyLocked sends CMD_STARTVERIFY, returning the device to its
// normal stand-alone verification mode. Callers must hold d.mu.
func (d *Device) startVerifyLocked() error {
	_, err := d.requestLocked(codec.CmdStartVerify, nil)
	return err
}

// CancelCapture stops any in-progress enrollment or live-capture
// registration via CMD_CANCELCAPTURE.
func (d *Device) CancelCapture() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.cancelCaptureLocked()
}

// StartVerify returns the device to its normal stand-alone verification
// mode via CMD_STARTVERIFY.
func (d *Device) StartVerify() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.startVerifyLocked()
}
