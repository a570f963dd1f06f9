// Package decoders implements the opcode-specific DecodedResponse field
// population spec.md §6 lays out, grounded on the teacher's header.go
// pattern of one small parser per wire structure.
package decoders

import (
	"encoding/binary"
	"fmt"
	"math/big"
	"strings"
)

// kelvin reads a little-endian u16 temperature in Kelvin and presents it as
// "{n}°C" where n = kelvin - 273.
func kelvin(b []byte) string {
	k := binary.LittleEndian.Uint16(b)
	return fmt.Sprintf("%d°C", int(k)-273)
}

// percent presents a raw 0-255 byte as "{n}%", passed through literally even
// past 100 (drive-life-used may exceed it).
func percent(b uint8) string {
	return fmt.Sprintf("%d%%", b)
}

// ascii decodes a fixed-width field as printable text with trailing spaces
// trimmed.
func ascii(b []byte) string {
	return strings.TrimRight(string(b), " \x00")
}

// u128LE reads a 16-byte little-endian unsigned counter and renders it in
// decimal; the SMART log's counters are all this wide.
func u128LE(b []byte) string {
	be := make([]byte, len(b))
	for i, v := range b {
		be[len(b)-1-i] = v
	}
	return new(big.Int).SetBytes(be).String()
}

func u16LE(b []byte) uint16 { return binary.LittleEndian.Uint16(b) }
func u32LE(b []byte) uint32 { return binary.LittleEndian.Uint32(b) }
