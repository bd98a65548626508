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

// freeSizesFields is the number of little-endian int32 counters carried by
// a CMD_GET_FREE_SIZES reply before the optional face-counter extension.
const freeSizesFields = 20

// faceCounterOffset and faceCounterOffset2 are where the face-template
// used and available counters live when the device firmware reports them
// (FacesCapacity is their sum); older firmware's reply is shorter and
// Capacity.Faces stays zero.
const (
	faceCounterOffset  = 80
	faceCounterOffset2 = 88
	faceCountersMinLen = 92
)

// GetCapacity reads CMD_GET_FREE_SIZES and caches the result on the Device;
// Capacity() returns the cached value without a round trip.
func (d *Device) GetCapacity() (Capacity, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	r, err := d.requireOK("get capacity", codec.CmdGetFreeSizes, nil)
	if err != nil {
		return Capacity{}, err
	}
	if len(r.payload) < freeSizesFields*4 {
		return Capacity{}, zkerr.New(zkerr.Protocol, "get capacity",
			fmt.Errorf("reply too short: %d bytes", len(r.payload)))
	}

	field := func(i int) int {
		return int(int32(binary.LittleEndian.Uint32(r.payload[i*4 : i*4+4])))
	}

	c := Capacity{
		Users:            field(4),
		Fingers:          field(6),
		Records:          field(8),
		Cards:            field(12),
		FingersCapacity:  field(14),
		UsersCapacity:    field(15),
		RecordsCapacity:  field(16),
		FingersAvailable: field(17),
		UsersAvailable:   field(18),
		RecordsAvailable: field(19),
	}

	if len(r.payload) >= faceCountersMinLen {
		c.Faces = field(faceCounterOffset / 4)
		c.FacesAvailable = field(faceCounterOffset2 / 4)
		c.FacesCapacity = c.Faces + c.FacesAvailable
	}

	d.capacity = c
	return c, nil
}

// Capacity returns the counters from the most recent GetCapacity call; it
// is the zero value until GetCapacity has been called at least once.
func (d *Device) Capacity() Capacity {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.capacity
}
