// SPDX-License-Identifier: GPL-3.0-or-later

package dnswire

// Opcodes.
const (
	OpcodeQuery  = 0
	OpcodeIQuery = 1
	OpcodeStatus = 2
	OpcodeNotify = 4
	OpcodeUpdate = 5
)

// Response codes.
const (
	RcodeNoError  = 0 // no error
	RcodeFormErr  = 1 // format error
	RcodeServFail = 2 // server failure
	RcodeNXDomain = 3 // name does not exist
	RcodeNotImp   = 4 // not implemented
	RcodeRefused  = 5 // refused
	RcodeYXDomain = 6 // name exists when it should not
	RcodeYXRRSet  = 7 // RR set exists when it should not
	RcodeNXRRSet  = 8 // RR set that should exist does not
	RcodeNotAuth  = 9 // server not authoritative for zone
	RcodeNotZone  = 10
)

// Resource record types.
const (
	TypeA     uint16 = 1
	TypeNS    uint16 = 2
	TypeCNAME uint16 = 5
	TypeSOA   uint16 = 6
	TypeNULL  uint16 = 10
	TypePTR   uint16 = 12
	TypeHINFO uint16 = 13
	TypeMX    uint16 = 15
	TypeTXT   uint16 = 16
	TypeAAAA  uint16 = 28
	TypeSRV   uint16 = 33
	TypeOPT   uint16 = 41
)

// Resource record classes.
const (
	ClassIN     uint16 = 1
	ClassCHAOS  uint16 = 3
	ClassHESIOD uint16 = 4
	ClassANY    uint16 = 255
)
