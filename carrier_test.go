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
	"fmt"
	"time"

	"github.com/openzk/zkterm/zkerr"
)

// fakeCarrier is a scripted transport.Carrier: each Request/Receive call
// pops the next reply off the queue, recording every packet sent for test
// assertions. Grounded on facebook-time/ntp/chrony/client_test.go's
// fakeConn, generalized from a byte stream to the request/reply shape
// transport.Carrier exposes.
type fakeCarrier struct {
	replies [][]byte
	sent    [][]byte
	closed  bool

	// blockReceive makes Receive sleep briefly (10ms, not the requested
	// timeout) and return a Timeout error once the script is exhausted, simulating a
	// quiet device instead of an immediate protocol error. Used by tests
	// that need the live-capture loop to sit in Receive long enough to
	// observe context cancellation.
	blockReceive bool
}

func (c *fakeCarrier) Request(packet []byte, timeout time.Duration) ([]byte, error) {
	c.sent = append(c.sent, append([]byte(nil), packet...))
	return c.Receive(timeout)
}

func (c *fakeCarrier) Receive(timeout time.Duration) ([]byte, error) {
	if len(c.replies) == 0 {
		if c.blockReceive {
			// Sleep briefly rather than for the caller's full timeout so
			// tests stay fast; what matters is that this returns a Timeout
			// error rather than a hard failure, letting a polling loop
			// keep checking its cancellation signal.
			time.Sleep(10 * time.Millisecond)
			return nil, zkerr.Timeoutf("fakeCarrier: no data")
		}
		return nil, fmt.Errorf("fakeCarrier: no scripted reply left")
	}
	r := c.replies[0]
	c.replies = c.replies[1:]
	return r, nil
}

func (c *fakeCarrier) Send(packet []byte) error {
	c.sent = append(c.sent, append([]byte(nil), packet...))
	return nil
}

func (c *fakeCarrier) Close() error {
	c.closed = true
	return nil
}

// newConnectedDevice returns a Device wired to a fakeCarrier in the
// already-connected state, bypassing Connect, for tests that only care
// about post-connect operations.
func newConnectedDevice(replies ...[]byte) (*Device, *fakeCarrier) {
	carrier := &fakeCarrier{replies: replies}
	d := &Device{
		cfg:       Config{Host: "device.example", Port: 4370}.withDefaults(),
		carrier:   carrier,
		connected: true,
		enabled:   true,
		userWidth: 28,
	}
	return d, carrier
}
