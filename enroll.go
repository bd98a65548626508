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
	"strconv"

	"github.com/openzk/zkterm/codec"
	"github.com/openzk/zkterm/zkerr"
)

// enrollRounds is the most rounds EnrollUser runs; per spec §4.4 a rescan
// request from the device starts the next round rather than ending the
// enrollment, up to this many rounds.
const enrollRounds = 3

// EnrollStatus is the outcome of one EnrollUser call.
type EnrollStatus int

const (
	// EnrollSuccess means the device accepted the template.
	EnrollSuccess EnrollStatus = iota
	// EnrollRescan means the device asked for a rescan in every one of the
	// enrollRounds rounds; the caller should prompt the user to try again
	// from the start.
	EnrollRescan
	// EnrollFailed means the device reported a status code other than
	// success or rescan, or the exchange failed (the error is then non-nil).
	EnrollFailed
)

func (s EnrollStatus) String() string {
	switch s {
	case EnrollSuccess:
		return "success"
	case EnrollRescan:
		return "rescan"
	case EnrollFailed:
		return "failed"
	default:
		return fmt.Sprintf("unknown(%d)", int(s))
	}
}

// enrollStatusOffset is where the 16-bit status code lives in each
// enrollment status frame's payload; this position is undocumented by the device vendor and
// was determined empirically to differ by transport (see DESIGN.md's Open
// Question (b)).
func (d *Device) enrollStatusOffset() int {
	if d.cfg.Transport == TransportDatagram {
		return 8
	}
	return 16
}

// buildStartEnrollPayload packs the CMD_STARTENROLL argument, whose layout
// differs by transport: the stream carrier takes a 24-byte user-id string
// plus a trailing flag byte, the datagram carrier a 4-byte numeric user id.
func buildStartEnrollPayload(transport TransportKind, uid uint16, fingerIndex uint8) []byte {
	if transport == TransportDatagram {
		payload := make([]byte, 5)
		binary.LittleEndian.PutUint32(payload[0:4], uint32(uid))
		payload[4] = fingerIndex
		return payload
	}
	payload := make([]byte, 26)
	copy(payload[0:24], strconv.Itoa(int(uid)))
	payload[24] = fingerIndex
	payload[25] = 1
	return payload
}

// EnrollUser walks uid and fingerIndex through the device's fingerprint
// enrollment state machine: it cancels any stray capture in progress, asks
// the device to begin enrolling, and then for up to enrollRounds rounds
// reads a scan-event frame, ACK-OKs it, reads the round's status frame, and
// ACK-OKs that too, parsing the outcome from the status frame alone. A
// rescan status moves on to the next round; success or any other code ends
// the loop. The
// capture is deregistered and the device returned to CMD_STARTVERIFY before
// returning, regardless of outcome. The raw bytes of the last status frame
// are returned alongside the status so a caller that hits an unrecognized
// firmware variant can inspect the undocumented status-offset bytes itself
// (see DESIGN.md's Open Question (b)).
func (d *Device) EnrollUser(uid uint16, fingerIndex uint8) (EnrollStatus, []byte, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	defer func() {
		_ = d.cancelCaptureLocked()
		_ = d.startVerifyLocked()
	}()

	if err := d.cancelCaptureLocked(); err != nil {
		return EnrollFailed, nil, err
	}

	payload := buildStartEnrollPayload(d.cfg.Transport, uid, fingerIndex)
	if _, err := d.requireOK("enroll user", codec.CmdStartEnroll, payload); err != nil {
		return EnrollFailed, nil, err
	}

	offset := d.enrollStatusOffset()
	var lastPayload []byte
	for attempt := 0; attempt < enrollRounds; attempt++ {
		if _, err := d.receiveEnrollFrameLocked(); err != nil {
			return EnrollFailed, lastPayload, err
		}
		r, err := d.receiveEnrollFrameLocked()
		if err != nil {
			return EnrollFailed, lastPayload, err
		}
		lastPayload = r.payload

		status, err := enrollStatusFromFrame(r.payload, offset)
		if err != nil {
			return EnrollFailed, lastPayload, err
		}
		switch status {
		case enrollFrameSuccess:
			return EnrollSuccess, lastPayload, nil
		case enrollFrameRescan:
			continue
		default:
			return EnrollFailed, lastPayload, nil
		}
	}
	return EnrollRescan, lastPayload, nil
}

// receiveEnrollFrameLocked reads one raw enrollment frame and acknowledges
// it with a fire-and-forget CMD_ACK_OK, matching each of the two frames
// the device emits per enrollment round. Callers must hold d.mu.
func (d *Device) receiveEnrollFrameLocked() (reply, error) {
	raw, err := d.carrier.Receive(d.cfg.ReceiveTimeout)
	if err != nil {
		return reply{}, err
	}
	r, err := d.decodeLocked(raw)
	if err != nil {
		return reply{}, err
	}
	if err := d.sendAckLocked(); err != nil {
		return reply{}, err
	}
	return r, nil
}

type enrollFrameStatus int

const (
	enrollFrameSuccess enrollFrameStatus = iota
	enrollFrameRescan
	enrollFrameFailed
)

// enrollStatusFromFrame reads the 16-bit status code at offset and maps it
// onto an enrollFrameStatus: 0 is success, 0x64 asks for a rescan, anything
// else is a failure.
func enrollStatusFromFrame(payload []byte, offset int) (enrollFrameStatus, error) {
	if len(payload) < offset+2 {
		return 0, zkerr.New(zkerr.Protocol, "enroll user",
			fmt.Errorf("status frame too short for a status code at offset %d", offset))
	}
	code := binary.LittleEndian.Uint16(payload[offset : offset+2])
	switch code {
	case 0:
		return enrollFrameSuccess, nil
	case 0x64:
		return enrollFrameRescan, nil
	default:
		return enrollFrameFailed, nil
	}
}
