package main

import (
	"testing"

	"github.com/gtu-nova/siyi-cli/siyi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCommand(t *testing.T) {
	tests := []struct {
		args     []string
		expected siyi.Command
	}{
		{[]string{"angle", "10", "-9"}, siyi.ControlAngle{Yaw: 100, Pitch: -90}},
		{[]string{"ANGLE", "200", "-120.5"}, siyi.ControlAngle{Yaw: 1350, Pitch: -900}},
		{[]string{"zoom", "4.5"}, siyi.AbsZoom{Zoom: siyi.NewZoomFactor(4.5)}},
		{[]string{"autozoom", "in"}, siyi.AutoZoom{Mode: siyi.ZoomIn}},
		{[]string{"autozoom", "stop"}, siyi.AutoZoom{Mode: siyi.StopZoom}},
		{[]string{"autozoom", "out"}, siyi.AutoZoom{Mode: siyi.ZoomOut}},
		{[]string{"mode", "lock"}, siyi.WorkingMode{Mode: siyi.LockMode}},
		{[]string{"mode", "follow"}, siyi.WorkingMode{Mode: siyi.FollowMode}},
		{[]string{"mode", "fpv"}, siyi.WorkingMode{Mode: siyi.FPVMode}},
		{[]string{"center"}, siyi.Center{Pos: siyi.CenterDefault}},
		{[]string{"center", "pos0"}, siyi.Center{Pos: siyi.CenterPos0}},
	}

	for _, tt := range tests {
		cmd, err := parseCommand(tt.args)
		require.NoError(t, err, "%v", tt.args)
		assert.Equal(t, tt.expected, cmd, "%v", tt.args)
	}
}

func TestParseCommandErrors(t *testing.T) {
	for _, args := range [][]string{
		nil,
		{"spin"},
		{"angle", "10"},
		{"angle", "x", "1"},
		{"zoom"},
		{"zoom", "far"},
		{"autozoom", "sideways"},
		{"mode", "sport"},
		{"center", "pos9"},
	} {
		_, err := parseCommand(args)
		assert.Error(t, err, "%v", args)
	}
}
