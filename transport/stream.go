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
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"net"
	"os"
	"sync"
	"time"

	"github.com/openzk/zkterm/codec"
	"github.com/openzk/zkterm/zkerr"
)

// envelopeSize is the size of the stream envelope: two u16 magic words
// followed by a u32 payload length.
const envelopeSize = 8

// maxEnvelopeLength guards against a corrupt length field forcing an
// unbounded allocation; no legitimate chunk exceeds this.
const maxEnvelopeLength = 1 << 20

// StreamCarrier speaks the device protocol over a TCP connection, prefixing
// every outbound packet with the 8-byte stream envelope and reassembling
// inbound frames from (possibly many) partial reads via a buffered reader.
type StreamCarrier struct {
	conn net.Conn
	r    *bufio.Reader
	mu   sync.Mutex
}

// DialStream opens a TCP connection to addr (host:port, typically port
// 4370).
func DialStream(addr string, dialTimeout time.Duration) (*StreamCarrier, error) {
	if dialTimeout <= 0 {
		dialTimeout = DefaultTimeout
	}
	conn, err := net.DialTimeout("tcp", addr, dialTimeout)
	if err != nil {
		return nil, zkerr.New(zkerr.Transport, "dial tcp", err)
	}
	return NewStreamCarrier(conn), nil
}

// NewStreamCarrier wraps an already-open connection, useful for tests that
// drive the carrier over net.Pipe.
func NewStreamCarrier(conn net.Conn) *StreamCarrier {
	return &StreamCarrier{conn: conn, r: bufio.NewReaderSize(conn, 64*1024)}
}

// Request implements Carrier.
func (c *StreamCarrier) Request(packet []byte, timeout time.Duration) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.writeFrameLocked(packet); err != nil {
		return nil, err
	}
	return c.readFrameLocked(timeout)
}

// Receive implements Carrier.
func (c *StreamCarrier) Receive(timeout time.Duration) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.readFrameLocked(timeout)
}

// Send implements Carrier.
func (c *StreamCarrier) Send(packet []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.writeFrameLocked(packet)
}

func (c *StreamCarrier) writeFrameLocked(inner []byte) error {
	envelope := make([]byte, envelopeSize)
	binary.LittleEndian.PutUint16(envelope[0:2], codec.MachinePrepareData1)
	binary.LittleEndian.PutUint16(envelope[2:4], codec.MachinePrepareData2)
	binary.LittleEndian.PutUint32(envelope[4:8], uint32(len(inner)))

	if _, err := c.conn.Write(envelope); err != nil {
		return zkerr.New(zkerr.Transport, "stream write envelope", err)
	}
	if _, err := c.conn.Write(inner); err != nil {
		return zkerr.New(zkerr.Transport, "stream write payload", err)
	}
	return nil
}

// readFrameLocked accumulates a complete envelope+payload frame across
// however many physical reads it takes, honoring timeout as an overall
// deadline for the whole frame.
func (c *StreamCarrier) readFrameLocked(timeout time.Duration) ([]byte, error) {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if err := c.conn.SetReadDeadline(time.Now().Add(timeout)); err != nil {
		return nil, zkerr.New(zkerr.Transport, "set read deadline", err)
	}

	envelope := make([]byte, envelopeSize)
	if _, err := io.ReadFull(c.r, envelope); err != nil {
		return nil, wrapReadErr(err, "stream read envelope")
	}

	magic1 := binary.LittleEndian.Uint16(envelope[0:2])
	magic2 := binary.LittleEndian.Uint16(envelope[2:4])
	if magic1 != codec.MachinePrepareData1 || magic2 != codec.MachinePrepareData2 {
		return nil, zkerr.New(zkerr.Frame, "stream envelope magic mismatch",
			fmt.Errorf("got %#04x %#04x", magic1, magic2))
	}

	length := binary.LittleEndian.Uint32(envelope[4:8])
	if length > maxEnvelopeLength {
		return nil, zkerr.New(zkerr.Frame, "stream envelope length",
			fmt.Errorf("impossible payload length %d", length))
	}

	inner := make([]byte, length)
	if _, err := io.ReadFull(c.r, inner); err != nil {
		return nil, wrapReadErr(err, "stream read payload")
	}
	return inner, nil
}

func wrapReadErr(err error, op string) error {
	if ne, ok := err.(net.Error); ok && ne.Timeout() {
		return zkerr.Timeoutf(op)
	}
	if os.IsTimeout(err) {
		return zkerr.Timeoutf(op)
	}
	return zkerr.New(zkerr.Transport, op, err)
}

// Close implements Carrier.
func (c *StreamCarrier) Close() error {
	if err := c.conn.Close(); err != nil {
		return zkerr.New(zkerr.Transport, "stream close", err)
	}
	return nil
}
