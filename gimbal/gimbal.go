package gimbal

import (
	"errors"
	"io"
	"sync"

	"github.com/gtu-nova/siyi-cli/siyi"
	"github.com/sirupsen/logrus"
)

type AckCallback func(ack siyi.Ack, g *Gimbal) error

// Gimbal owns the connection to a gimbal and dispatches every ack it
// receives to the callback registered for its id, or to the default one.
// Use New() to start it and Close() to stop reading.
type Gimbal struct {
	conn        *siyi.Conn
	mu          sync.RWMutex
	callbackMap map[siyi.AckID]AckCallback
	onAck       AckCallback
	logger      *logrus.Logger
	closeChan   chan struct{}
	closeOnce   sync.Once
	done        chan struct{}
}

// New returns a Gimbal reading acks from port in the background. onAck is
// optional.
func New(port io.ReadWriter, onAck AckCallback, logger *logrus.Logger) (*Gimbal, error) {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	c, err := siyi.New(port, logger)
	if err != nil {
		return nil, err
	}
	g := &Gimbal{
		conn:        c,
		callbackMap: make(map[siyi.AckID]AckCallback),
		onAck:       onAck,
		logger:      logger,
		closeChan:   make(chan struct{}),
		done:        make(chan struct{}),
	}
	go g.mainLoop()
	return g, nil
}

func (g *Gimbal) AddCallback(id siyi.AckID, fn AckCallback) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.callbackMap[id] = fn
}

func (g *Gimbal) WriteCmd(cmd siyi.Command) (int, error) {
	return g.conn.WriteCmd(cmd)
}

// Rotate points the gimbal at yaw and pitch given in degrees.
func (g *Gimbal) Rotate(yaw, pitch float64) error {
	_, err := g.WriteCmd(siyi.ControlAngleDegrees(yaw, pitch))
	return err
}

func (g *Gimbal) Zoom(factor float32) error {
	_, err := g.WriteCmd(siyi.AbsZoom{Zoom: siyi.NewZoomFactor(factor)})
	return err
}

func (g *Gimbal) AutoZoom(mode siyi.ZoomMode) error {
	_, err := g.WriteCmd(siyi.AutoZoom{Mode: mode})
	return err
}

func (g *Gimbal) SetMode(mode siyi.GimbalMode) error {
	_, err := g.WriteCmd(siyi.WorkingMode{Mode: mode})
	return err
}

func (g *Gimbal) Center(pos siyi.CenterPos) error {
	_, err := g.WriteCmd(siyi.Center{Pos: pos})
	return err
}

// Close stops dispatching acks. A read already blocked on the port returns
// only when the port does.
func (g *Gimbal) Close() {
	g.closeOnce.Do(func() { close(g.closeChan) })
}

// Done is closed once the read loop has ended.
func (g *Gimbal) Done() <-chan struct{} {
	return g.done
}

func (g *Gimbal) closed() bool {
	select {
	case <-g.closeChan:
		return true
	default:
		return false
	}
}

func (g *Gimbal) mainLoop() {
	defer close(g.done)
	defer g.logger.Info("Main loop ended")

	for !g.closed() {
		ack, err := g.conn.ReadAck()
		if err != nil {
			var perr *siyi.InvalidPacketError
			if errors.As(err, &perr) {
				g.logger.Warnf("Invalid packet (%v)", err)
				continue
			}
			if !g.closed() {
				g.logger.Errorf("Connection lost (%v)", err)
			}
			return
		}
		if g.closed() {
			return
		}

		g.mu.RLock()
		callback, found := g.callbackMap[ack.ID()]
		g.mu.RUnlock()
		if !found {
			callback = g.onAck
		}
		if callback == nil {
			g.logger.Debugf("Unhandled ack %v", ack)
			continue
		}
		if err := callback(ack, g); err != nil {
			g.logger.Errorf("Error in callback for ack %v (%v)", ack.ID(), err)
		}
	}
}
