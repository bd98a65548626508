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
	"context"
	"encoding/binary"
	"time"

	"github.com/openzk/zkterm/codec"
)

// LiveEvent is one item produced by StartLiveCapture: either a decoded
// punch/verification event from a CMD_REG_EVENT frame, or, with Empty set
// and Event the zero value, a frame that carries no event (no payload, or a
// command other than CMD_REG_EVENT). Err is set and Event is the zero
// value if a receive failed; the channel is closed immediately after an
// error is delivered.
type LiveEvent struct {
	Event codec.Event
	Empty bool
	Err   error
}

// liveCapturePollInterval bounds how long each raw receive blocks before
// StartLiveCapture's consumer goroutine rechecks ctx, so cancellation is
// noticed promptly even when the device is silent.
const liveCapturePollInterval = 2 * time.Second

// StartLiveCapture registers for punch/verification events via
// CMD_REG_EVENT and streams them on the returned channel until ctx is
// canceled or an unrecoverable transport error occurs. If the device was
// disabled, StartLiveCapture enables it and disables it again on exit; the
// capture registration is withdrawn and the device restored to
// CMD_STARTVERIFY on exit.
//
// Only one live capture may run per Device at a time; callers must not
// issue other requests concurrently with the returned channel being drained,
// except via the exported methods, none of which are safe to call from a
// second goroutine while this one is live.
func (d *Device) StartLiveCapture(ctx context.Context) (<-chan LiveEvent, error) {
	d.mu.Lock()
	if d.carrier == nil {
		d.mu.Unlock()
		return nil, errNotConnected("start live capture")
	}

	if err := d.cancelCaptureLocked(); err != nil {
		d.mu.Unlock()
		return nil, err
	}
	if err := d.startVerifyLocked(); err != nil {
		d.mu.Unlock()
		return nil, err
	}

	wasDisabled := !d.enabled
	if wasDisabled {
		if _, err := d.requireOK("start live capture", codec.CmdEnableDevice, nil); err != nil {
			d.mu.Unlock()
			return nil, err
		}
		d.enabled = true
	}

	payload := make([]byte, 4)
	binary.LittleEndian.PutUint32(payload, codec.EfAttLog|codec.EfAllEvents)
	if _, err := d.requireOK("start live capture", codec.CmdRegEvent, payload); err != nil {
		d.mu.Unlock()
		return nil, err
	}
	d.mu.Unlock()

	out := make(chan LiveEvent)
	go d.runLiveCapture(ctx, out, wasDisabled)
	return out, nil
}

func (d *Device) runLiveCapture(ctx context.Context, out chan<- LiveEvent, restoreDisabled bool) {
	defer close(out)
	defer d.stopLiveCapture(restoreDisabled)

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		d.mu.Lock()
		carrier := d.carrier
		d.mu.Unlock()
		if carrier == nil {
			return
		}

		raw, err := carrier.Receive(liveCapturePollInterval)
		if err != nil {
			if isTimeout(err) {
				continue
			}
			select {
			case out <- LiveEvent{Err: err}:
			case <-ctx.Done():
			}
			return
		}

		d.mu.Lock()
		r, err := d.decodeLocked(raw)
		if err == nil {
			_ = d.sendAckLocked() // best-effort ack; a dropped ack only costs a retransmit
		}
		d.mu.Unlock()

		if len(r.payload) == 0 || r.header.Command != codec.CmdRegEvent {
			select {
			case out <- LiveEvent{Empty: true}:
			case <-ctx.Done():
				return
			}
			continue
		}

		ev := codec.DecodeEvent(r.payload)
		select {
		case out <- LiveEvent{Event: ev}:
		case <-ctx.Done():
			return
		}
	}
}

// stopLiveCapture deregisters event delivery and restores the device to
// its normal stand-alone verification mode. It is best-effort: errors are
// logged, not returned, since the capture goroutine has nowhere to report
// them once its channel is closed.
func (d *Device) stopLiveCapture(restoreDisabled bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.carrier == nil {
		return
	}
	payload := make([]byte, 4)
	binary.LittleEndian.PutUint32(payload, codec.EfDeregister)
	if _, err := d.requestLocked(codec.CmdRegEvent, payload); err != nil {
		logf("deregister event stream: %v", err)
	}
	if err := d.cancelCaptureLocked(); err != nil {
		logf("cancel capture on stop: %v", err)
	}
	if err := d.startVerifyLocked(); err != nil {
		logf("start verify on stop: %v", err)
	}
	if restoreDisabled {
		if _, err := d.requestLocked(codec.CmdDisableDevice, nil); err != nil {
			logf("restore disabled state on stop: %v", err)
		} else {
			d.enabled = false
		}
	}
}
