package siyi

import (
	"encoding/binary"
	"errors"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ackFrame builds a reply frame the way the gimbal sends it.
func ackFrame(id byte, payload ...byte) []byte {
	b := []byte{SyncHi, SyncLo, 0x02}
	b = binary.LittleEndian.AppendUint16(b, uint16(len(payload)))
	b = append(b, 0x00, 0x00, id)
	b = append(b, payload...)
	return binary.LittleEndian.AppendUint16(b, CRC16(b))
}

var (
	centerSuccessFrame = []byte{0x55, 0x66, 0x02, 0x01, 0x00, 0x00, 0x00, 0x08, 0x01, 0x53, 0xca}
	centerErrorFrame   = []byte{0x55, 0x66, 0x02, 0x01, 0x00, 0x00, 0x00, 0x08, 0x00, 0x72, 0xda}
	angleFrame         = []byte{
		0x55, 0x66, 0x02, 0x06, 0x00, 0x00, 0x00, 0x0e,
		0xff, 0xa6, 0x00, 0x64, 0x00, 0x05, 0x99, 0xf2,
	}
)

func TestAckFrameHelper(t *testing.T) {
	assert.Equal(t, centerSuccessFrame, ackFrame(0x08, 0x01))
	assert.Equal(t, angleFrame, ackFrame(0x0e, 0xff, 0xa6, 0x00, 0x64, 0x00, 0x05))
}

func TestDecodeCenter(t *testing.T) {
	ack, ok := Decode(centerSuccessFrame)
	require.True(t, ok)
	assert.Equal(t, CenterAck{Result: AckSuccess}, ack)
	assert.Equal(t, AckCenter, ack.ID())

	ack, ok = Decode(centerErrorFrame)
	require.True(t, ok)
	assert.Equal(t, CenterAck{Result: AckError}, ack)

	ack, ok = Decode(ackFrame(0x08, 0x7f))
	require.True(t, ok)
	assert.Equal(t, CenterAck{Result: AckSuccess}, ack)
}

func TestDecodeControlAngle(t *testing.T) {
	ack, ok := Decode(angleFrame)
	require.True(t, ok)
	assert.Equal(t, AckControlAngle, ack.ID())
	assert.Equal(t, ControlAngleAck{Angles: ControlAngles{Yaw: 100, Pitch: -90, Roll: 5}}, ack)

	yaw, pitch, roll := ack.(ControlAngleAck).Angles.Degrees()
	assert.InDelta(t, 10.0, yaw, 1e-9)
	assert.InDelta(t, -9.0, pitch, 1e-9)
	assert.InDelta(t, 0.5, roll, 1e-9)
}

func TestParseRejects(t *testing.T) {
	badCRC := append([]byte{}, centerSuccessFrame...)
	badCRC[len(badCRC)-1] ^= 0xff

	negative := append([]byte{}, centerSuccessFrame...)
	negative[3], negative[4] = 0xfe, 0xff

	tests := []struct {
		name   string
		data   []byte
		reason error
	}{
		{name: "nil", data: nil, reason: ErrShort},
		{name: "one byte", data: []byte{0x55}, reason: ErrShort},
		{name: "bad sync", data: []byte{0x55, 0x67, 0x02, 0x01, 0x00, 0x00, 0x00, 0x08, 0x01, 0x00, 0x00}, reason: ErrSync},
		{name: "swapped sync", data: []byte{0x66, 0x55}, reason: ErrSync},
		{name: "header only", data: []byte{0x55, 0x66, 0x02, 0x00, 0x00, 0x00, 0x00}, reason: ErrShort},
		{name: "truncated", data: centerSuccessFrame[:len(centerSuccessFrame)-1], reason: ErrLength},
		{name: "trailing garbage", data: append(append([]byte{}, centerSuccessFrame...), 0x00), reason: ErrLength},
		{name: "negative length", data: negative, reason: ErrLength},
		{name: "bad checksum", data: badCRC, reason: ErrChecksum},
		{name: "unknown id", data: ackFrame(0x19, 0x01), reason: ErrUnknownAck},
		{name: "short angle ack", data: ackFrame(0x0e, 0x00, 0x01), reason: ErrShort},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ack, err := Parse(tt.data)
			require.Error(t, err)
			assert.Nil(t, ack)
			assert.ErrorIs(t, err, tt.reason)

			var perr *InvalidPacketError
			assert.True(t, errors.As(err, &perr))

			ack, ok := Decode(tt.data)
			assert.False(t, ok)
			assert.Nil(t, ack)
		})
	}
}

func TestDecodeShortInputNeverSucceeds(t *testing.T) {
	rnd := rand.New(rand.NewSource(7))
	for n := 0; n < HeaderSize; n++ {
		for i := 0; i < 200; i++ {
			b := make([]byte, n)
			rnd.Read(b)
			if n >= 2 && i%2 == 0 {
				b[0], b[1] = SyncHi, SyncLo
			}
			_, ok := Decode(b)
			require.False(t, ok, "% x", b)
		}
	}
}

func TestDecodeSingleBitCorruption(t *testing.T) {
	for _, frame := range [][]byte{centerSuccessFrame, centerErrorFrame, angleFrame} {
		for i := range frame {
			for bit := 0; bit < 8; bit++ {
				corrupt := append([]byte{}, frame...)
				corrupt[i] ^= 1 << bit
				_, ok := Decode(corrupt)
				require.False(t, ok, "byte %d bit %d of % x", i, bit, frame)
			}
		}
	}
}

func TestDecodeOwnCommandFrames(t *testing.T) {
	// A ControlAngle command shares its id with the ControlAngle ack.
	ack, ok := Decode(Encode(ControlAngle{Yaw: 0, Pitch: -90}))
	require.True(t, ok)
	assert.Equal(t, AckControlAngle, ack.ID())

	_, err := Parse(Encode(WorkingMode{Mode: LockMode}))
	assert.ErrorIs(t, err, ErrUnknownAck)
}

func TestParseAckID(t *testing.T) {
	id, ok := ParseAckID(0x08)
	assert.True(t, ok)
	assert.Equal(t, AckCenter, id)

	id, ok = ParseAckID(0x0e)
	assert.True(t, ok)
	assert.Equal(t, AckControlAngle, id)

	for _, b := range []byte{0x00, 0x05, 0x0f, 0x19, 0xff} {
		_, ok := ParseAckID(b)
		assert.False(t, ok, "0x%02x", b)
	}
}
