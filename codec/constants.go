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

// Package codec implements the stateless byte-level building blocks of the
// device wire protocol: checksums, header framing, the authentication key
// derivation, the device's fixed-point time encoding, and the user/template/
// attendance record layouts.
package codec

// DefaultPort is the fixed TCP and UDP port the device family listens on.
const DefaultPort = 4370

// Stream envelope magic words (see transport.StreamCarrier).
const (
	MachinePrepareData1 uint16 = 0x5050
	MachinePrepareData2 uint16 = 0x8217
)

// USHRTMax is the wrap value for the reply id counter: it increments modulo
// this value, wrapping to 0 rather than reaching it.
const USHRTMax uint16 = 65535

// Command codes.
const (
	CmdConnect        uint16 = 1000
	CmdExit           uint16 = 1001
	CmdEnableDevice   uint16 = 1002
	CmdDisableDevice  uint16 = 1003
	CmdRestart        uint16 = 1004
	CmdPowerOff       uint16 = 1005
	CmdTestVoice      uint16 = 1017
	CmdAuth           uint16 = 1102
	CmdPrepareData    uint16 = 1500
	CmdData           uint16 = 1501
	CmdFreeData       uint16 = 1502
	CmdPrepareBuffer  uint16 = 1503
	CmdReadBuffer     uint16 = 1504
	CmdUserWRQ        uint16 = 8
	CmdUserTempRRQ    uint16 = 9
	CmdDeleteUser     uint16 = 18
	CmdDeleteUserTemp uint16 = 19
	CmdGetUserTemp    uint16 = 88
	CmdSaveUserTemps  uint16 = 110
	CmdDelUserTemp    uint16 = 134
	CmdGetTime        uint16 = 201
	CmdSetTime        uint16 = 202
	CmdRegEvent       uint16 = 500
	CmdAttLogRRQ      uint16 = 13
	CmdClearData      uint16 = 14
	CmdClearAttLog    uint16 = 15
	CmdRefreshData    uint16 = 1013
	CmdGetFreeSizes   uint16 = 50
	CmdOptionsRRQ     uint16 = 11
	CmdOptionsWRQ     uint16 = 12
	CmdGetVersion     uint16 = 1100
	CmdGetPINWidth    uint16 = 69
	CmdUnlock         uint16 = 31
	CmdDoorStateRRQ   uint16 = 75
	CmdWriteLCD       uint16 = 66
	CmdClearLCD       uint16 = 67
	CmdDBRRQ          uint16 = 7
	CmdStartVerify    uint16 = 60
	CmdStartEnroll    uint16 = 61
	CmdCancelCapture  uint16 = 62
)

// Ack/status codes.
const (
	CmdAckOK     uint16 = 2000
	CmdAckError  uint16 = 2001
	CmdAckData   uint16 = 2002
	CmdAckUnauth uint16 = 2005
)

// Function-type arguments for prepare-buffer requests.
const (
	FctUser      int32 = 5
	FctFingerTmp int32 = 2
	// FctFaceTmp is the finger-template function code with fctFaceBit set,
	// the device convention for selecting the face-template table. No
	// operation in this module sends it; see SPEC_FULL.md §3
	// "Domain-stack additions".
	FctFaceTmp int32 = 2 | fctFaceBit
)

// fctFaceBit is the high-bit convention device firmware uses to select the
// face-template table instead of the finger-template table for the same
// underlying function code.
const fctFaceBit int32 = 0x40000000

// EfAttLog, used with CmdRegEvent, registers attendance events only;
// registering with 0xFFFF registers every event class.
const (
	EfAttLog       uint32 = 0x01000000
	EfAllEvents    uint32 = 0xFFFF
	EfDeregister   uint32 = 0
)

// Privilege values (low 4 bits of the privilege byte; bit 0 is "disabled").
const (
	UserDefault uint8 = 0
	UserAdmin   uint8 = 14
)

// Bulk-read chunk sizes, per transport.
const (
	StreamChunkMax   = 0xFFC0
	DatagramChunkMax = 16384
)

// BulkWriteChunkMax is the largest payload carried by a single CMD_DATA
// frame during chunked bulk write; larger buffers are split across
// multiple frames.
const BulkWriteChunkMax = 1024

// AckReplySeq is the reply id the device expects on the ACK-OK frame sent
// after each live-capture/enrollment event, per spec.md §4.4.
const AckReplySeq uint16 = 65534
