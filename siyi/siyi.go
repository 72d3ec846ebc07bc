package siyi

import (
	"bufio"
	"encoding/hex"
	"errors"
	"io"
	"sync/atomic"

	"github.com/sirupsen/logrus"
)

const (
	SyncHi      = 0x55
	SyncLo      = 0x66
	FlagNeedAck = 0x01

	HeaderSize = 8 // sync, flag, length, seq, reserved, id
	CRCSize    = 2

	// MaxFrameSize bounds every frame on the wire.
	MaxFrameSize = 255
)

var (
	ErrShort      = errors.New("frame too short")
	ErrSync       = errors.New("bad sync marker")
	ErrLength     = errors.New("length mismatch")
	ErrChecksum   = errors.New("checksum mismatch")
	ErrUnknownAck = errors.New("unknown ack id")
)

type InvalidPacketError struct {
	Reason error
}

func (e *InvalidPacketError) Error() string {
	if e.Reason == nil {
		return "invalid packet"
	}
	return "invalid packet: " + e.Reason.Error()
}

func (e *InvalidPacketError) Unwrap() error {
	return e.Reason
}

// Conn writes commands to and reads acks from a gimbal attached to Port.
type Conn struct {
	Port   io.ReadWriter
	r      *bufio.Reader
	seq    atomic.Uint32
	logger *logrus.Logger
}

func New(port io.ReadWriter, logger *logrus.Logger) (*Conn, error) {
	if port == nil {
		return nil, errors.New("siyi: nil port")
	}
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Conn{
		Port:   port,
		r:      bufio.NewReaderSize(port, MaxFrameSize),
		logger: logger,
	}, nil
}

// WriteCmd encodes cmd with the next sequence number and writes it to the port.
func (c *Conn) WriteCmd(cmd Command) (int, error) {
	seq := uint8(c.seq.Add(1) - 1)
	frame := EncodeSeq(cmd, seq)

	c.logger.WithFields(logrus.Fields{"cmd": cmd, "seq": seq}).Debugf("< %s", hex.EncodeToString(frame))

	return c.Port.Write(frame)
}

// ReadFrame returns the next complete frame from the port. Bytes before a
// sync marker are discarded. The checksum is not verified here.
func (c *Conn) ReadFrame() ([]byte, error) {
	skipped, err := c.sync()
	if err != nil {
		return nil, err
	}
	if skipped > 0 {
		c.logger.Debugf("skipped %d bytes before sync", skipped)
	}

	buf := make([]byte, HeaderSize, MaxFrameSize)
	buf[0], buf[1] = SyncHi, SyncLo
	if _, err := io.ReadFull(c.r, buf[2:]); err != nil {
		return nil, err
	}

	payloadLength := int(int16(uint16(buf[3]) | uint16(buf[4])<<8))
	size := HeaderSize + payloadLength + CRCSize
	if payloadLength < 0 || size > MaxFrameSize {
		return nil, invalid(ErrLength, "declared payload length %d", payloadLength)
	}

	buf = buf[:size]
	if _, err := io.ReadFull(c.r, buf[HeaderSize:]); err != nil {
		return nil, err
	}

	c.logger.Debugf("> %s", hex.EncodeToString(buf))

	return buf, nil
}

// ReadAck reads the next frame and parses it. Malformed or unknown frames
// return an error wrapping *InvalidPacketError; the stream stays usable.
func (c *Conn) ReadAck() (Ack, error) {
	frame, err := c.ReadFrame()
	if err != nil {
		return nil, err
	}
	return Parse(frame)
}

func (c *Conn) sync() (int, error) {
	skipped := 0
	for {
		b, err := c.r.ReadByte()
		if err != nil {
			return skipped, err
		}
		if b != SyncHi {
			skipped++
			continue
		}
		next, err := c.r.ReadByte()
		if err != nil {
			return skipped, err
		}
		if next == SyncLo {
			return skipped, nil
		}
		skipped++
		if next == SyncHi {
			_ = c.r.UnreadByte()
			continue
		}
		skipped++
	}
}
