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

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFPIndexEntryRoundTrip(t *testing.T) {
	entry := EncodeFPIndexEntry(99, 3, 128)
	uid, fid, off := DecodeFPIndexEntry(entry[:])
	require.Equal(t, uint16(99), uid)
	require.Equal(t, uint8(3), fid)
	require.Equal(t, uint32(128), off)
}

func TestEncodeTemplateBlobPrefixesLength(t *testing.T) {
	data := []byte{1, 2, 3, 4, 5}
	blob := EncodeTemplateBlob(data)
	require.Len(t, blob, 2+len(data))
	require.Equal(t, byte(len(data)), blob[0])
	require.Equal(t, byte(0), blob[1])
	require.Equal(t, data, blob[2:])
}
