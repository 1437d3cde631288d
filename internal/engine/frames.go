// internal/engine/frames.go
package engine

import (
	"strings"

	"github.com/tamzrod/valence-poller/internal/crc"
)

// Wire constants for the Valence RS485 protocol.
// All frames end with the MODBUS CRC-16 variant, low byte first.

const (
	frameHeader      = 0xFF
	opDiscoveryPoll  = 0x50
	opDiscoveryReply = 0x70
	opDataRequest    = 0x61

	// scanAddresses is the fixed address range probed during discovery.
	scanAddresses = 6

	// Minimum usable response lengths.
	minDiscoveryReply = 10
	minDataReply      = 20

	// Read caps.
	maxDiscoveryReply = 64
	maxDataReply      = 128
)

// wakeSequence is an opaque, hardware-observed payload: the 6-byte
// unit repeated twice. Sent before scanning and again as the bus-id
// commit signal. Not derivable from the rest of the protocol.
var wakeSequence = []byte{
	0xFF, 0x43, 0x06, 0x06, 0x42, 0x46,
	0xFF, 0x43, 0x06, 0x06, 0x42, 0x46,
}

// discoveryFrame builds the 7-byte poll frame for one bus address.
func discoveryFrame(addr byte) []byte {
	return crc.Append([]byte{frameHeader, opDiscoveryPoll, 0x06, 0x00, addr})
}

// dataRequestFrame builds the 7-byte measurement request for one slot.
func dataRequestFrame(slot byte) []byte {
	return crc.Append([]byte{frameHeader, opDataRequest, 0x06, slot, 0x00})
}

// identifierSpan extracts the battery identifier from a discovery
// reply: the maximal printable-ASCII run starting at offset 3 and
// ending two bytes before the end (the tail is assumed to be a
// CRC/footer and is not validated). Best-effort parsing; the reply
// layout is not fully mapped.
func identifierSpan(reply []byte) string {
	if len(reply) < 5 {
		return ""
	}

	end := len(reply) - 2
	i := 3
	for i < end && reply[i] >= 0x20 && reply[i] <= 0x7E {
		i++
	}

	return strings.TrimSpace(string(reply[3:i]))
}
