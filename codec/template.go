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

package codec

import "encoding/binary"

// Template is a fingerprint or face biometric template, keyed by (UID,
// FingerIndex). FingerIndex ranges 0-9 for fingerprints; face templates use
// index 0.
type Template struct {
	UID         uint16
	FingerIndex uint8
	Valid       bool
	Data        []byte
}

// fpIndexTag is the fixed tag byte prefixing each fingerprint-index table
// entry in the bulk template-write payload.
const fpIndexTag = 0x02

// FPIndexEntrySize is the width of one fingerprint-index table entry:
// [tag, uid:u16, 16+fid:u8, offset:u32].
const FPIndexEntrySize = 8

// EncodeFPIndexEntry packs one fingerprint-index table entry pointing at a
// template stored at byte offset off within the concatenated template blob.
func EncodeFPIndexEntry(uid uint16, fingerIndex uint8, off uint32) [FPIndexEntrySize]byte {
	var b [FPIndexEntrySize]byte
	b[0] = fpIndexTag
	binary.LittleEndian.PutUint16(b[1:3], uid)
	b[3] = 16 + fingerIndex
	binary.LittleEndian.PutUint32(b[4:8], off)
	return b
}

// DecodeFPIndexEntry parses one fingerprint-index table entry.
func DecodeFPIndexEntry(b []byte) (uid uint16, fingerIndex uint8, off uint32) {
	_ = b[:FPIndexEntrySize]
	uid = binary.LittleEndian.Uint16(b[1:3])
	fingerIndex = b[3] - 16
	off = binary.LittleEndian.Uint32(b[4:8])
	return
}

// EncodeTemplateBlob prefixes raw template data with its own 2-byte
// little-endian length, as required inside the concatenated templates
// region of the bulk template-write payload.
func EncodeTemplateBlob(data []byte) []byte {
	out := make([]byte, 2+len(data))
	binary.LittleEndian.PutUint16(out[0:2], uint16(len(data)))
	copy(out[2:], data)
	return out
}
