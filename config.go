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

// Package zkterm implements a client for the proprietary binary protocol
// spoken by a family of networked biometric attendance/access-control
// terminals: session establishment and authentication, user and template
// CRUD, attendance log retrieval, device time, a live punch-event stream,
// an enrollment state machine, and miscellaneous device-control commands.
package zkterm

import (
	"fmt"
	"time"

	"github.com/openzk/zkterm/codec"
	"github.com/openzk/zkterm/transport"
	"github.com/openzk/zkterm/zkerr"
)

// TransportKind selects which Carrier a Device dials.
type TransportKind int

const (
	// TransportStream dials the device's TCP port.
	TransportStream TransportKind = iota
	// TransportDatagram dials the device's UDP port.
	TransportDatagram
)

// Config configures a Device. Host is required; every other field has a
// workable zero-value default applied by NewDevice.
type Config struct {
	// Host is the device's network address, e.g. "192.168.1.201". Required.
	Host string
	// Port is the device's TCP/UDP port. Defaults to codec.DefaultPort.
	Port int
	// Transport selects the stream or datagram carrier. Defaults to
	// TransportStream.
	Transport TransportKind
	// Password is the numeric communication password used to derive the
	// authentication key if the device challenges CMD_CONNECT.
	Password uint32
	// Ticks is the auth-key derivation's ticks byte. Defaults to 50, the
	// value observed on every known firmware.
	Ticks byte
	// ConnectTimeout bounds dialing the transport. Defaults to
	// transport.DefaultTimeout.
	ConnectTimeout time.Duration
	// ReceiveTimeout bounds each individual request/reply and raw receive.
	// Defaults to transport.DefaultTimeout.
	ReceiveTimeout time.Duration
}

func (c Config) withDefaults() Config {
	if c.Port == 0 {
		c.Port = codec.DefaultPort
	}
	if c.Ticks == 0 {
		c.Ticks = 50
	}
	if c.ConnectTimeout == 0 {
		c.ConnectTimeout = transport.DefaultTimeout
	}
	if c.ReceiveTimeout == 0 {
		c.ReceiveTimeout = transport.DefaultTimeout
	}
	return c
}

func (c Config) addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

func (c Config) validate() error {
	if c.Host == "" {
		return zkerr.New(zkerr.Config, "new device", fmt.Errorf("host is required"))
	}
	return nil
}
