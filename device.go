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
	"errors"
	"fmt"
	"sync"

	"github.com/openzk/zkterm/codec"
	"github.com/openzk/zkterm/transport"
	"github.com/openzk/zkterm/zkerr"
)

// Capacity holds the cached counters last read via CMD_GET_FREE_SIZES.
type Capacity struct {
	Users, UsersCapacity, UsersAvailable           int
	Fingers, FingersCapacity, FingersAvailable     int
	Records, RecordsCapacity, RecordsAvailable     int
	Cards int
	Faces, FacesCapacity, FacesAvailable           int
}

// Device is a client session to one biometric terminal. It owns the
// connection lifecycle, the rolling session/reply identifiers, and every
// operation layered on top. A Device is not safe for concurrent use by
// multiple goroutines beyond the single live-capture consumer documented on
// StartLiveCapture; the protocol itself tolerates at most one outstanding
// request per session.
type Device struct {
	cfg Config

	mu        sync.Mutex
	carrier   transport.Carrier
	session   uint16
	reply     uint16
	connected bool
	enabled   bool

	userWidth  int
	capacity   Capacity
	nextUID    uint16
	nextUserID string
}

// NewDevice validates cfg and returns a Device that has not yet dialed the
// network; call Connect to establish a session.
func NewDevice(cfg Config) (*Device, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	cfg = cfg.withDefaults()
	// Optimistically assume the wide user layout on the stream transport;
	// §3's layout-selection invariant corrects this after the first
	// enumeration if the device turns out to use the narrow layout.
	width := codec.UserNarrowSize
	if cfg.Transport == TransportStream {
		width = codec.UserWideSize
	}
	return &Device{cfg: cfg, enabled: true, userWidth: width}, nil
}

// Connect dials the configured transport, sends CMD_CONNECT, and completes
// the authentication handshake if the device challenges it.
func (d *Device) Connect() error {
	carrier, err := d.dial()
	if err != nil {
		return err
	}
	return d.connectWith(carrier)
}

// connectWith runs the CMD_CONNECT/CMD_AUTH handshake over an
// already-dialed carrier. Split out from Connect so tests can exercise the
// handshake against a fakeCarrier without a real socket.
func (d *Device) connectWith(carrier transport.Carrier) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.carrier = carrier
	d.session = 0
	d.reply = 0xFFFF // so the first NextReply wraps to 0, matching a fresh client's first request

	reply, err := d.requestLocked(codec.CmdConnect, nil)
	if err != nil {
		_ = d.carrier.Close()
		d.carrier = nil
		return err
	}

	d.session = reply.header.Session

	switch reply.header.Command {
	case codec.CmdAckOK:
		d.connected = true
		logf("connected, session=%d, no auth required", d.session)
		return nil
	case codec.CmdAckUnauth:
		key := codec.AuthKey(d.cfg.Password, d.session, d.cfg.Ticks)
		authReply, err := d.requestLocked(codec.CmdAuth, key[:])
		if err != nil {
			_ = d.carrier.Close()
			d.carrier = nil
			return err
		}
		if authReply.header.Command != codec.CmdAckOK {
			_ = d.carrier.Close()
			d.carrier = nil
			return zkerr.New(zkerr.Auth, "connect", fmt.Errorf("CMD_ACK_UNAUTH persisted after CMD_AUTH"))
		}
		d.connected = true
		logf("connected, session=%d, authenticated", d.session)
		return nil
	default:
		_ = d.carrier.Close()
		d.carrier = nil
		return zkerr.New(zkerr.Protocol, "connect",
			fmt.Errorf("unexpected reply command %d", reply.header.Command))
	}
}

func (d *Device) dial() (transport.Carrier, error) {
	addr := d.cfg.addr()
	switch d.cfg.Transport {
	case TransportDatagram:
		return transport.DialDatagram(addr)
	default:
		return transport.DialStream(addr, d.cfg.ConnectTimeout)
	}
}

// Disconnect sends CMD_EXIT and closes the transport. The device's response
// to CMD_EXIT is ignored: the socket is always closed.
func (d *Device) Disconnect() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.disconnectLocked()
}

func (d *Device) disconnectLocked() error {
	if d.carrier == nil {
		return nil
	}
	_, _ = d.requestLocked(codec.CmdExit, nil)
	err := d.carrier.Close()
	d.carrier = nil
	d.connected = false
	if err != nil {
		return err
	}
	return nil
}

// reply is the classified, decoded form of a device response.
type reply struct {
	header  codec.Header
	payload []byte
}

// ok reports whether the reply's command is one of the three "ok" codes.
func (r reply) ok() bool {
	switch r.header.Command {
	case codec.CmdAckOK, codec.CmdPrepareData, codec.CmdData:
		return true
	default:
		return false
	}
}

// requestLocked composes a packet from the current session/reply state,
// sends it, classifies and decodes the response, and advances the client's
// reply id from whatever the device echoed back. Callers must hold d.mu.
func (d *Device) requestLocked(command uint16, payload []byte) (reply, error) {
	if d.carrier == nil {
		return reply{}, errNotConnected("request")
	}
	packet := codec.ComposePacket(command, d.session, d.reply, payload)
	raw, err := d.carrier.Request(packet, d.cfg.ReceiveTimeout)
	if err != nil {
		return reply{}, err
	}
	return d.decodeLocked(raw)
}

// decodeLocked parses a raw reply packet and updates the client's reply id
// from it. Callers must hold d.mu.
func (d *Device) decodeLocked(raw []byte) (reply, error) {
	h, body, err := codec.ParseHeader(raw)
	if err != nil {
		return reply{}, zkerr.New(zkerr.Frame, "parse reply", err)
	}
	d.reply = h.Reply
	return reply{header: h, payload: body}, nil
}

// sendAckLocked emits a one-way CMD_ACK_OK frame using the fixed reply id
// the device expects on the unsolicited live-capture/enrollment frames it
// sends outside the normal request/reply cycle. Unlike requestLocked this
// does not wait for a reply: doing so would read back the device's next
// unsolicited frame and misinterpret it as the ack's answer. Callers must
// hold d.mu.
func (d *Device) sendAckLocked() error {
	if d.carrier == nil {
		return errNotConnected("ack")
	}
	packet := codec.ComposePacket(codec.CmdAckOK, d.session, codec.AckReplySeq, nil)
	return d.carrier.Send(packet)
}

// requireOK wraps requestLocked, returning a Protocol error for any
// non-"ok" reply command.
func (d *Device) requireOK(op string, command uint16, payload []byte) (reply, error) {
	r, err := d.requestLocked(command, payload)
	if err != nil {
		return reply{}, err
	}
	if !r.ok() {
		return reply{}, zkerr.New(zkerr.Protocol, op,
			fmt.Errorf("device returned command %d", r.header.Command))
	}
	return r, nil
}

// errNotConnected builds the Transport error returned by operations called
// before Connect or after Disconnect.
func errNotConnected(op string) error {
	return zkerr.New(zkerr.Transport, op, fmt.Errorf("not connected"))
}

// isTimeout reports whether err is a zkerr.Timeout error, unwrapping
// through any wrapping layers.
func isTimeout(err error) bool {
	var zerr *zkerr.Error
	return errors.As(err, &zerr) && zerr.Kind == zkerr.Timeout
}
