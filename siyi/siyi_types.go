package siyi

import (
	"fmt"
	"math"
)

const (
	MinZoomInt   = 1
	MaxZoomInt   = 30
	MaxZoomFract = 9
)

// ZoomFactor is an absolute zoom level between 1.0 and 30.0 with one decimal digit.
type ZoomFactor struct {
	integer uint8
	fract   uint8
}

// NewZoomFactor floors f for the integer part and keeps the first decimal
// digit of the fractional part. Both parts saturate at their bounds.
func NewZoomFactor(f float32) ZoomFactor {
	whole := float32(math.Trunc(float64(f)))
	return ZoomFactor{
		integer: uint8(clampFloat(math.Floor(float64(f)), MinZoomInt, MaxZoomInt)),
		fract:   uint8(clampFloat(float64((f-whole)*10), 0, MaxZoomFract)),
	}
}

func (z ZoomFactor) Int() uint8   { return z.integer }
func (z ZoomFactor) Fract() uint8 { return z.fract }

func (z ZoomFactor) Float() float32 {
	return float32(z.integer) + float32(z.fract)/10
}

func (z ZoomFactor) String() string {
	return fmt.Sprintf("%d.%dx", z.integer, z.fract)
}

// clampFloat maps NaN to lo.
func clampFloat(v, lo, hi float64) float64 {
	if !(v >= lo) {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

type ZoomMode int8

const (
	ZoomOut  ZoomMode = -1
	StopZoom ZoomMode = 0
	ZoomIn   ZoomMode = 1
)

func (m ZoomMode) wire() byte {
	switch {
	case m < ZoomOut:
		m = ZoomOut
	case m > ZoomIn:
		m = ZoomIn
	}
	return byte(int8(m))
}

func (m ZoomMode) String() string {
	switch m {
	case ZoomIn:
		return "zoom-in"
	case StopZoom:
		return "stop"
	case ZoomOut:
		return "zoom-out"
	}
	return fmt.Sprintf("ZoomMode(%d)", int8(m))
}

type CenterPos uint8

const (
	CenterDefault CenterPos = 0
	CenterPos0    CenterPos = 1
)

func (p CenterPos) wire() byte {
	if p > CenterPos0 {
		return byte(CenterPos0)
	}
	return byte(p)
}

func (p CenterPos) String() string {
	switch p {
	case CenterDefault:
		return "default"
	case CenterPos0:
		return "pos0"
	}
	return fmt.Sprintf("CenterPos(%d)", uint8(p))
}

type GimbalMode uint8

const (
	LockMode   GimbalMode = 0
	FollowMode GimbalMode = 1
	FPVMode    GimbalMode = 2
)

func (m GimbalMode) wire() byte {
	if m > FPVMode {
		return byte(FPVMode)
	}
	return byte(m)
}

func (m GimbalMode) String() string {
	switch m {
	case LockMode:
		return "lock"
	case FollowMode:
		return "follow"
	case FPVMode:
		return "fpv"
	}
	return fmt.Sprintf("GimbalMode(%d)", uint8(m))
}

type AckResult uint8

const (
	AckSuccess AckResult = iota
	AckError
)

func (r AckResult) String() string {
	if r == AckSuccess {
		return "success"
	}
	return "error"
}

// ControlAngles is the orientation reported by the gimbal, in tenths of a degree.
type ControlAngles struct {
	Yaw   int16
	Pitch int16
	Roll  int16
}

// Degrees returns yaw, pitch and roll in degrees.
func (a ControlAngles) Degrees() (yaw, pitch, roll float64) {
	return float64(a.Yaw) / 10, float64(a.Pitch) / 10, float64(a.Roll) / 10
}

func (a ControlAngles) String() string {
	yaw, pitch, roll := a.Degrees()
	return fmt.Sprintf("yaw=%.1f pitch=%.1f roll=%.1f", yaw, pitch, roll)
}

type AckID uint8

const (
	AckCenter       AckID = 0x08
	AckControlAngle AckID = 0x0E
)

// ParseAckID reports whether b identifies a known acknowledgment.
func ParseAckID(b byte) (AckID, bool) {
	switch id := AckID(b); id {
	case AckCenter, AckControlAngle:
		return id, true
	}
	return 0, false
}

func (id AckID) String() string {
	switch id {
	case AckCenter:
		return "center"
	case AckControlAngle:
		return "control-angle"
	}
	return fmt.Sprintf("AckID(0x%02x)", uint8(id))
}

// Ack is a decoded reply frame. It is either a CenterAck or a ControlAngleAck.
type Ack interface {
	ID() AckID
	isAck()
}

type CenterAck struct {
	Result AckResult
}

func (CenterAck) ID() AckID { return AckCenter }
func (CenterAck) isAck()    {}

func (a CenterAck) String() string { return "center ack: " + a.Result.String() }

type ControlAngleAck struct {
	Angles ControlAngles
}

func (ControlAngleAck) ID() AckID { return AckControlAngle }
func (ControlAngleAck) isAck()    {}

func (a ControlAngleAck) String() string { return "control angle ack: " + a.Angles.String() }
