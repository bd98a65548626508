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

package transport

import (
	"fmt"
	"net"
	"os"
	"sync"
	"time"

	"github.com/openzk/zkterm/zkerr"
)

// datagramMaxPacket is large enough to hold any reply the device sends in
// one UDP datagram, including a full chunk at DatagramChunkMax.
const datagramMaxPacket = 17000

// DatagramCarrier speaks the device protocol over a UDP socket bound to an
// ephemeral local port. Responses are framed exactly as sent — there is no
// envelope and no correlation beyond temporal ordering, so a DatagramCarrier
// must be driven strictly serially (guarded here by a mutex for safety, not
// because the device tolerates interleaving).
type DatagramCarrier struct {
	conn net.Conn
	mu   sync.Mutex
}

// DialDatagram opens a UDP socket to addr (host:port, typically port 4370).
func DialDatagram(addr string) (*DatagramCarrier, error) {
	conn, err := net.Dial("udp", addr)
	if err != nil {
		return nil, zkerr.New(zkerr.Transport, "dial udp", err)
	}
	return &DatagramCarrier{conn: conn}, nil
}

// Request implements Carrier.
func (c *DatagramCarrier) Request(packet []byte, timeout time.Duration) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, err := c.conn.Write(packet); err != nil {
		return nil, zkerr.New(zkerr.Transport, "udp write", err)
	}
	return c.receiveLocked(timeout)
}

// Receive implements Carrier.
func (c *DatagramCarrier) Receive(timeout time.Duration) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.receiveLocked(timeout)
}

// Send implements Carrier.
func (c *DatagramCarrier) Send(packet []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, err := c.conn.Write(packet); err != nil {
		return zkerr.New(zkerr.Transport, "udp write", err)
	}
	return nil
}

func (c *DatagramCarrier) receiveLocked(timeout time.Duration) ([]byte, error) {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if err := c.conn.SetReadDeadline(time.Now().Add(timeout)); err != nil {
		return nil, zkerr.New(zkerr.Transport, "set read deadline", err)
	}

	buf := make([]byte, datagramMaxPacket)
	n, err := c.conn.Read(buf)
	if err != nil {
		if ne, ok := err.(net.Error); ok && ne.Timeout() {
			return nil, zkerr.Timeoutf("udp receive")
		}
		if os.IsTimeout(err) {
			return nil, zkerr.Timeoutf("udp receive")
		}
		return nil, zkerr.New(zkerr.Transport, "udp read", err)
	}
	return buf[:n], nil
}

// Close implements Carrier.
func (c *DatagramCarrier) Close() error {
	if err := c.conn.Close(); err != nil {
		return zkerr.New(zkerr.Transport, "udp close", err)
	}
	return nil
}

var _ fmt.Stringer = (*DatagramCarrier)(nil)

// String identifies the carrier for logging.
func (c *DatagramCarrier) String() string {
	return fmt.Sprintf("datagram(%s)", c.conn.RemoteAddr())
}
