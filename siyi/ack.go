package siyi

import (
	"encoding/binary"
	"fmt"
)

// Decode parses a complete reply frame. It reports false for anything that
// is not a well-formed, known acknowledgment; use Parse to learn why.
func Decode(b []byte) (Ack, bool) {
	ack, err := Parse(b)
	if err != nil {
		return nil, false
	}
	return ack, true
}

// Parse validates and parses a complete reply frame. Every failure wraps an
// *InvalidPacketError whose Reason is one of ErrShort, ErrSync, ErrLength,
// ErrChecksum or ErrUnknownAck.
func Parse(b []byte) (Ack, error) {
	if len(b) < 2 {
		return nil, invalid(ErrShort, "got %d bytes", len(b))
	}
	if b[0] != SyncHi || b[1] != SyncLo {
		return nil, invalid(ErrSync, "got 0x%02x 0x%02x", b[0], b[1])
	}
	if len(b) < HeaderSize {
		return nil, invalid(ErrShort, "got %d bytes", len(b))
	}

	payloadLength := int16(binary.LittleEndian.Uint16(b[3:5]))
	if payloadLength < 0 || HeaderSize+int(payloadLength)+CRCSize != len(b) {
		return nil, invalid(ErrLength, "declared %d for a %d byte frame", payloadLength, len(b))
	}

	crc := binary.LittleEndian.Uint16(b[len(b)-CRCSize:])
	if expected := CRC16(b[:len(b)-CRCSize]); crc != expected {
		return nil, invalid(ErrChecksum, "got 0x%04x, expecting 0x%04x", crc, expected)
	}

	id, ok := ParseAckID(b[7])
	if !ok {
		return nil, invalid(ErrUnknownAck, "id 0x%02x", b[7])
	}

	// Fields are read at fixed frame offsets whatever the declared length,
	// the way the firmware lays them out.
	switch id {
	case AckCenter:
		// The firmware reports success as a nonzero byte.
		result := AckError
		if b[8] != 0 {
			result = AckSuccess
		}
		return CenterAck{Result: result}, nil
	case AckControlAngle:
		if len(b) < 14 {
			return nil, invalid(ErrShort, "control angle ack of %d bytes", len(b))
		}
		// Big-endian, and pitch comes before yaw.
		return ControlAngleAck{Angles: ControlAngles{
			Pitch: int16(binary.BigEndian.Uint16(b[8:10])),
			Yaw:   int16(binary.BigEndian.Uint16(b[10:12])),
			Roll:  int16(binary.BigEndian.Uint16(b[12:14])),
		}}, nil
	}
	return nil, invalid(ErrUnknownAck, "id 0x%02x", b[7])
}

func invalid(reason error, format string, args ...interface{}) error {
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), &InvalidPacketError{Reason: reason})
}
