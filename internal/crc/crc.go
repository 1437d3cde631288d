// internal/crc/crc.go
package crc

// Valence frames carry the MODBUS CRC-16 variant: seed 0xFFFF,
// reversed polynomial 0xA001, little-endian trailer.

// Polynomial is the reversed form of 0x8005.
const Polynomial uint16 = 0xA001

// Seed is the initial register value.
const Seed uint16 = 0xFFFF

// Checksum computes the CRC-16 over data.
// Pure function. No state. No side effects.
func Checksum(data []byte) uint16 {
	crc := Seed

	for _, b := range data {
		crc ^= uint16(b)

		for i := 0; i < 8; i++ {
			if crc&0x0001 != 0 {
				crc >>= 1
				crc ^= Polynomial
			} else {
				crc >>= 1
			}
		}
	}

	return crc
}

// Append returns data with its checksum appended low byte first.
func Append(data []byte) []byte {
	sum := Checksum(data)

	out := make([]byte, len(data)+2)
	copy(out, data)
	out[len(data)] = byte(sum)
	out[len(data)+1] = byte(sum >> 8)

	return out
}

// Verify reports whether the trailing two bytes of frame are the
// checksum of everything before them.
func Verify(frame []byte) bool {
	if len(frame) < 2 {
		return false
	}

	body := frame[:len(frame)-2]
	got := uint16(frame[len(frame)-2]) | uint16(frame[len(frame)-1])<<8

	return got == Checksum(body)
}
