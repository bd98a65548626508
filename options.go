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
	"bytes"
	"encoding/binary"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/openzk/zkterm/codec"
	"github.com/openzk/zkterm/zkerr"
)

// GetOption reads a single named device option via CMD_OPTIONS_RRQ. The
// device replies with "name=value\x00"; GetOption strips the echoed name
// and trailing NUL.
func (d *Device) GetOption(name string) (string, error) {
	req := append([]byte(name), 0)

	d.mu.Lock()
	r, err := d.requireOK("get option "+name, codec.CmdOptionsRRQ, req)
	d.mu.Unlock()
	if err != nil {
		return "", err
	}

	body := r.payload
	if i := bytes.IndexByte(body, 0); i >= 0 {
		body = body[:i]
	}
	if i := bytes.IndexByte(body, '='); i >= 0 {
		return string(body[i+1:]), nil
	}
	return string(body), nil
}

// SetOption writes a single named device option via CMD_OPTIONS_WRQ.
func (d *Device) SetOption(name, value string) error {
	req := append([]byte(name+"="+value), 0)

	d.mu.Lock()
	defer d.mu.Unlock()
	_, err := d.requireOK("set option "+name, codec.CmdOptionsWRQ, req)
	return err
}

// SerialNumber returns the device's "~SerialNumber" option.
func (d *Device) SerialNumber() (string, error) { return d.GetOption("~SerialNumber") }

// Platform returns the device's "~Platform" option.
func (d *Device) Platform() (string, error) { return d.GetOption("~Platform") }

// MAC returns the device's "MAC" option.
func (d *Device) MAC() (string, error) { return d.GetOption("MAC") }

// DeviceName returns the device's "~DeviceName" option.
func (d *Device) DeviceName() (string, error) { return d.GetOption("~DeviceName") }

// PINWidth returns the digit width the device uses for numeric user ids,
// read via CMD_GET_PINWIDTH rather than the general option mechanism.
func (d *Device) PINWidth() (int, error) {
	d.mu.Lock()
	r, err := d.requireOK("get pin width", codec.CmdGetPINWidth, nil)
	d.mu.Unlock()
	if err != nil {
		return 0, err
	}
	text := strings.TrimRight(string(r.payload), "\x00")
	if i := strings.IndexByte(text, '='); i >= 0 {
		text = text[i+1:]
	}
	width, err := strconv.Atoi(strings.TrimSpace(text))
	if err != nil {
		return 0, zkerr.New(zkerr.Protocol, "get pin width", fmt.Errorf("unparseable pin width %q: %w", text, err))
	}
	return width, nil
}

// FirmwareVersion reads the device's firmware version string via
// CMD_GET_VERSION.
func (d *Device) FirmwareVersion() (string, error) {
	d.mu.Lock()
	r, err := d.requireOK("get firmware version", codec.CmdGetVersion, nil)
	d.mu.Unlock()
	if err != nil {
		return "", err
	}
	return strings.TrimRight(string(r.payload), "\x00"), nil
}

// GetTime reads the device's clock via CMD_GET_TIME, returning the raw
// non-normalized year/month/day/hour/minute/second tuple decoded per the
// device's fixed-point encoding.
func (d *Device) GetTime() (year, month, day, hour, minute, second int, err error) {
	d.mu.Lock()
	r, reqErr := d.requireOK("get time", codec.CmdGetTime, nil)
	d.mu.Unlock()
	if reqErr != nil {
		return 0, 0, 0, 0, 0, 0, reqErr
	}
	if len(r.payload) < 4 {
		return 0, 0, 0, 0, 0, 0, zkerr.New(zkerr.Protocol, "get time", fmt.Errorf("reply too short"))
	}
	v := binary.LittleEndian.Uint32(r.payload[0:4])
	year, month, day, hour, minute, second = codec.DecodeTime(v)
	return
}

// SetTime writes the device's clock via CMD_SET_TIME, given the same raw
// non-normalized tuple GetTime returns.
func (d *Device) SetTime(year, month, day, hour, minute, second int) error {
	v := codec.EncodeTime(year, month, day, hour, minute, second)
	payload := make([]byte, 4)
	binary.LittleEndian.PutUint32(payload, v)

	d.mu.Lock()
	defer d.mu.Unlock()
	_, err := d.requireOK("set time", codec.CmdSetTime, payload)
	return err
}

// SetTimeNow sets the device's clock to t, treated as a normal calendar
// time; callers needing the device's non-proleptic month-length quirk
// reproduced exactly should call SetTime directly.
func (d *Device) SetTimeNow(t time.Time) error {
	return d.SetTime(t.Year(), int(t.Month()), t.Day(), t.Hour(), t.Minute(), t.Second())
}
