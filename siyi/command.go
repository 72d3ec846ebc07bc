package siyi

import (
	"encoding/binary"
	"fmt"
	"math"
)

type CommandID uint8

const (
	CmdAutoZoom     CommandID = 0x05
	CmdCenter       CommandID = 0x08
	CmdControlAngle CommandID = 0x0E
	CmdAbsZoom      CommandID = 0x0F
	CmdWorkingMode  CommandID = 0x19
)

const (
	MinYaw   = -1350
	MaxYaw   = 1350
	MinPitch = -900
	MaxPitch = 250
)

// payloadLengths is what the firmware expects in the length field of each
// command. It is not derived from the serialized parameters.
var payloadLengths = map[CommandID]int16{
	CmdControlAngle: 4,
	CmdAbsZoom:      2,
	CmdAutoZoom:     1,
	CmdWorkingMode:  1,
	CmdCenter:       1,
}

// Command is one of ControlAngle, AbsZoom, AutoZoom, WorkingMode or Center.
type Command interface {
	ID() CommandID
	appendParams(b []byte) []byte
}

// ControlAngle points the gimbal. Yaw and pitch are in tenths of a degree
// and are clamped to the mechanical range when encoded.
type ControlAngle struct {
	Yaw   int16
	Pitch int16
}

// ControlAngleDegrees builds a ControlAngle from degrees, rounded to the
// nearest tenth.
func ControlAngleDegrees(yaw, pitch float64) ControlAngle {
	return ControlAngle{
		Yaw:   int16(clampFloat(math.Round(yaw*10), MinYaw, MaxYaw)),
		Pitch: int16(clampFloat(math.Round(pitch*10), MinPitch, MaxPitch)),
	}
}

func (ControlAngle) ID() CommandID { return CmdControlAngle }

func (c ControlAngle) appendParams(b []byte) []byte {
	b = binary.LittleEndian.AppendUint16(b, uint16(clampInt16(c.Yaw, MinYaw, MaxYaw)))
	return binary.LittleEndian.AppendUint16(b, uint16(clampInt16(c.Pitch, MinPitch, MaxPitch)))
}

func (c ControlAngle) String() string {
	return fmt.Sprintf("control angle yaw=%.1f pitch=%.1f", float64(c.Yaw)/10, float64(c.Pitch)/10)
}

type AbsZoom struct {
	Zoom ZoomFactor
}

func (AbsZoom) ID() CommandID { return CmdAbsZoom }

func (c AbsZoom) appendParams(b []byte) []byte {
	// A zero ZoomFactor was never built by NewZoomFactor.
	integer := c.Zoom.integer
	if integer < MinZoomInt {
		integer = MinZoomInt
	} else if integer > MaxZoomInt {
		integer = MaxZoomInt
	}
	fract := c.Zoom.fract
	if fract > MaxZoomFract {
		fract = MaxZoomFract
	}
	return append(b, integer, fract)
}

func (c AbsZoom) String() string { return "absolute zoom " + c.Zoom.String() }

type AutoZoom struct {
	Mode ZoomMode
}

func (AutoZoom) ID() CommandID { return CmdAutoZoom }

func (c AutoZoom) appendParams(b []byte) []byte { return append(b, c.Mode.wire()) }

func (c AutoZoom) String() string { return "auto zoom " + c.Mode.String() }

type WorkingMode struct {
	Mode GimbalMode
}

func (WorkingMode) ID() CommandID { return CmdWorkingMode }

func (c WorkingMode) appendParams(b []byte) []byte { return append(b, c.Mode.wire()) }

func (c WorkingMode) String() string { return "working mode " + c.Mode.String() }

type Center struct {
	Pos CenterPos
}

func (Center) ID() CommandID { return CmdCenter }

func (c Center) appendParams(b []byte) []byte { return append(b, c.Pos.wire()) }

func (c Center) String() string { return "center " + c.Pos.String() }

func clampInt16(v, lo, hi int16) int16 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Encode serializes cmd with sequence number 0.
func Encode(cmd Command) []byte {
	return EncodeSeq(cmd, 0)
}

// EncodeSeq serializes cmd into a complete frame: header, parameters and
// trailing little-endian CRC16 of everything before it.
func EncodeSeq(cmd Command, seq uint8) []byte {
	id := cmd.ID()

	buf := make([]byte, 0, MaxFrameSize)
	buf = append(buf, SyncHi, SyncLo, FlagNeedAck)
	buf = binary.LittleEndian.AppendUint16(buf, uint16(payloadLengths[id]))
	buf = append(buf, seq, 0x00, byte(id))
	buf = cmd.appendParams(buf)
	return binary.LittleEndian.AppendUint16(buf, CRC16(buf))
}
