package main

import (
	"flag"
	"fmt"
	"os"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/gtu-nova/siyi-cli/config"
	"github.com/gtu-nova/siyi-cli/gimbal"
	"github.com/gtu-nova/siyi-cli/siyi"
	"github.com/sirupsen/logrus"
	"github.com/tarm/serial"
)

var (
	portName   = flag.String("p", "", "Serial port (overrides config)")
	baud       = flag.Int("b", 0, "Baud rate (overrides config)")
	configPath = flag.String("c", "", "YAML config file")
	verbose    = flag.Bool("v", false, "Log frames")
)

var logger = logrus.New()

func initLogger(level string) {
	logger.SetOutput(os.Stdout)
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		logger.Warnf("Unknown log level %q, using info", level)
		lvl = logrus.InfoLevel
	}
	if *verbose {
		lvl = logrus.DebugLevel
	}
	logger.SetLevel(lvl)
}

func usage() {
	fmt.Fprintf(flag.CommandLine.Output(), `Usage: %s [flags] <command> [args]

Commands:
  angle <yaw> <pitch>      point the gimbal, degrees
  zoom <factor>            absolute zoom, 1.0 to 30.0
  autozoom in|stop|out     continuous zoom
  mode lock|follow|fpv     working mode
  center [default|pos0]    re-center

Flags:
`, os.Args[0])
	flag.PrintDefaults()
}

// parseCommand turns command line arguments into a gimbal command.
func parseCommand(args []string) (siyi.Command, error) {
	if len(args) == 0 {
		return nil, fmt.Errorf("missing command")
	}
	name, args := strings.ToLower(args[0]), args[1:]

	switch name {
	case "angle":
		if len(args) != 2 {
			return nil, fmt.Errorf("angle needs <yaw> <pitch>")
		}
		yaw, err := strconv.ParseFloat(args[0], 64)
		if err != nil {
			return nil, fmt.Errorf("bad yaw %q: %w", args[0], err)
		}
		pitch, err := strconv.ParseFloat(args[1], 64)
		if err != nil {
			return nil, fmt.Errorf("bad pitch %q: %w", args[1], err)
		}
		return siyi.ControlAngleDegrees(yaw, pitch), nil
	case "zoom":
		if len(args) != 1 {
			return nil, fmt.Errorf("zoom needs <factor>")
		}
		f, err := strconv.ParseFloat(args[0], 32)
		if err != nil {
			return nil, fmt.Errorf("bad zoom factor %q: %w", args[0], err)
		}
		return siyi.AbsZoom{Zoom: siyi.NewZoomFactor(float32(f))}, nil
	case "autozoom":
		if len(args) != 1 {
			return nil, fmt.Errorf("autozoom needs in|stop|out")
		}
		switch args[0] {
		case "in":
			return siyi.AutoZoom{Mode: siyi.ZoomIn}, nil
		case "stop":
			return siyi.AutoZoom{Mode: siyi.StopZoom}, nil
		case "out":
			return siyi.AutoZoom{Mode: siyi.ZoomOut}, nil
		}
		return nil, fmt.Errorf("unknown zoom mode %q", args[0])
	case "mode":
		if len(args) != 1 {
			return nil, fmt.Errorf("mode needs lock|follow|fpv")
		}
		switch args[0] {
		case "lock":
			return siyi.WorkingMode{Mode: siyi.LockMode}, nil
		case "follow":
			return siyi.WorkingMode{Mode: siyi.FollowMode}, nil
		case "fpv":
			return siyi.WorkingMode{Mode: siyi.FPVMode}, nil
		}
		return nil, fmt.Errorf("unknown gimbal mode %q", args[0])
	case "center":
		if len(args) == 0 || args[0] == "default" {
			return siyi.Center{Pos: siyi.CenterDefault}, nil
		}
		if args[0] == "pos0" {
			return siyi.Center{Pos: siyi.CenterPos0}, nil
		}
		return nil, fmt.Errorf("unknown center position %q", args[0])
	}
	return nil, fmt.Errorf("unknown command %q", name)
}

func portIsPresent(name string) bool {
	if runtime.GOOS == "windows" {
		return true
	}
	_, err := os.Stat(name)
	return err == nil
}

func handleAck(ack siyi.Ack, g *gimbal.Gimbal) error {
	switch a := ack.(type) {
	case siyi.CenterAck:
		if a.Result != siyi.AckSuccess {
			logger.Warn("Gimbal refused to center")
			return nil
		}
		logger.Info("Centered")
	case siyi.ControlAngleAck:
		yaw, pitch, roll := a.Angles.Degrees()
		logger.Infof("Attitude yaw %.1f pitch %.1f roll %.1f", yaw, pitch, roll)
	default:
		logger.Warnf("Unhandled ack %v", ack)
	}
	return nil
}

func main() {
	flag.Usage = usage
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	initLogger(cfg.LogLevel)

	if *portName != "" {
		cfg.Port = *portName
	}
	if *baud > 0 {
		cfg.Baud = *baud
	}

	cmd, err := parseCommand(flag.Args())
	if err != nil {
		usage()
		logger.Fatal(err)
	}

	if !portIsPresent(cfg.Port) {
		logger.Fatalf("Port %s not found", cfg.Port)
	}
	port, err := serial.OpenPort(&serial.Config{
		Name:        cfg.Port,
		Baud:        cfg.Baud,
		ReadTimeout: cfg.ReadTimeout,
	})
	if err != nil {
		logger.Fatalf("Can't open port (%v)", err)
	}
	defer port.Close()

	g, err := gimbal.New(port, handleAck, logger)
	if err != nil {
		logger.Fatal(err)
	}
	defer g.Close()

	logger.Infof("Sending %v", cmd)
	if _, err := g.WriteCmd(cmd); err != nil {
		logger.Fatalf("Write failed (%v)", err)
	}

	select {
	case <-time.After(cfg.Wait):
	case <-g.Done():
	}
}
