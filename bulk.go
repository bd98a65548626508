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

// readChunkSize returns the largest CMD_READ_BUFFER chunk this device's
// transport can carry in one frame.
func (d *Device) readChunkSize() int {
	if d.cfg.Transport == TransportDatagram {
		return codec.DatagramChunkMax
	}
	return codec.StreamChunkMax
}

// bulkRead runs the prepare-buffer/read-buffer state machine: it asks the
// device to stage cmd's table (qualified by the fct/ext arguments, e.g. the
// user function type), then pulls it back either inline (small tables come
// back in a CMD_DATA reply) or, after a CMD_ACK_OK reply carrying the total
// size, in CMD_READ_BUFFER chunks. CMD_FREE_DATA
// is always attempted afterwards, success or failure, so the device does not
// wedge on a half-consumed buffer.
func (d *Device) bulkRead(op string, cmd uint16, fct, ext int32) ([]byte, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	defer func() { _, _ = d.requestLocked(codec.CmdFreeData, nil) }()

	payload := make([]byte, 11)
	payload[0] = 0x01
	binary.LittleEndian.PutUint16(payload[1:3], cmd)
	binary.LittleEndian.PutUint32(payload[3:7], uint32(fct))
	binary.LittleEndian.PutUint32(payload[7:11], uint32(ext))

	r, err := d.requestLocked(codec.CmdPrepareBuffer, payload)
	if err != nil {
		return nil, err
	}

	switch r.header.Command {
	case codec.CmdData:
		// Entire table fit in the immediate reply.
		return r.payload, nil
	case codec.CmdAckOK:
		if len(r.payload) < 4 {
			return nil, zkerr.New(zkerr.Protocol, op, fmt.Errorf("prepare-buffer reply too short for a size"))
		}
		total := binary.LittleEndian.Uint32(r.payload[0:4])
		return d.readBufferLocked(op, total)
	default:
		return nil, zkerr.New(zkerr.Protocol, op,
			fmt.Errorf("unexpected prepare-buffer reply command %d", r.header.Command))
	}
}

// readBufferLocked pulls total bytes via repeated CMD_READ_BUFFER requests,
// each bounded by the transport's chunk size. Callers must hold d.mu.
func (d *Device) readBufferLocked(op string, total uint32) ([]byte, error) {
	chunk := uint32(d.readChunkSize())
	out := make([]byte, 0, total)
	var offset uint32
	for offset < total {
		size := chunk
		if total-offset < size {
			size = total - offset
		}
		req := make([]byte, 8)
		binary.LittleEndian.PutUint32(req[0:4], offset)
		binary.LittleEndian.PutUint32(req[4:8], size)

		r, err := d.requestLocked(codec.CmdReadBuffer, req)
		if err != nil {
			return nil, err
		}
		if !r.ok() {
			return nil, zkerr.New(zkerr.Protocol, op,
				fmt.Errorf("read-buffer reply command %d at offset %d", r.header.Command, offset))
		}
		out = append(out, r.payload...)
		offset += size
	}
	return out, nil
}

// bulkWrite runs the free-data/prepare-data/chunked-data/final-command/
// refresh-data state machine used to push a table (user records, template
// blobs) to the device.
func (d *Device) bulkWrite(op string, data []byte, finalCommand uint16, finalPayload []byte) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, err := d.requestLocked(codec.CmdFreeData, nil); err != nil {
		return err
	}

	sizePayload := make([]byte, 4)
	binary.LittleEndian.PutUint32(sizePayload, uint32(len(data)))
	if r, err := d.requestLocked(codec.CmdPrepareData, sizePayload); err != nil {
		return err
	} else if !r.ok() {
		return zkerr.New(zkerr.Protocol, op, fmt.Errorf("prepare-data reply command %d", r.header.Command))
	}

	for offset := 0; offset < len(data); offset += codec.BulkWriteChunkMax {
		end := offset + codec.BulkWriteChunkMax
		if end > len(data) {
			end = len(data)
		}
		r, err := d.requestLocked(codec.CmdData, data[offset:end])
		if err != nil {
			return err
		}
		if !r.ok() {
			return zkerr.New(zkerr.Protocol, op, fmt.Errorf("data chunk reply command %d", r.header.Command))
		}
	}

	if r, err := d.requestLocked(finalCommand, finalPayload); err != nil {
		return err
	} else if !r.ok() {
		return zkerr.New(zkerr.Protocol, op, fmt.Errorf("final command reply %d", r.header.Command))
	}

	if r, err := d.requestLocked(codec.CmdRefreshData, nil); err != nil {
		return err
	} else if !r.ok() {
		return zkerr.New(zkerr.Protocol, op, fmt.Errorf("refresh-data reply %d", r.header.Command))
	}
	return nil
}
