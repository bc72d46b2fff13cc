package handtrack

import (
	"encoding/json"
	"fmt"
	"strings"
	"testing"

	"github.com/gonewx/snowglobe/pkg/components"
	"github.com/gonewx/snowglobe/pkg/systems"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func arrayMessage(frame *components.HandFrame) []byte {
	points := make([]string, len(frame.Landmarks))
	for i, lm := range frame.Landmarks {
		points[i] = fmt.Sprintf("[%g,%g,%g]", lm.X, lm.Y, lm.Z)
	}
	return []byte(`{"landmarks":[` + strings.Join(points, ",") + `]}`)
}

func mediaPipeMessage(t *testing.T, frame *components.HandFrame) []byte {
	t.Helper()
	data, err := json.Marshal(map[string]any{
		"multiHandLandmarks": [][]components.Landmark{frame.Landmarks},
	})
	require.NoError(t, err)
	return data
}

func TestDecodeArrayFormat(t *testing.T) {
	src := SyntheticFrame(components.GestureFist, 0.4)

	frame, err := DecodeFrame(arrayMessage(src))
	require.NoError(t, err)
	require.NotNil(t, frame)
	assert.Len(t, frame.Landmarks, components.LandmarkCount)
	assert.Equal(t, components.GestureFist, systems.ClassifyGesture(frame).Kind)
}

func TestDecodeMediaPipeFormat(t *testing.T) {
	src := SyntheticFrame(components.GestureVictory, 0.3)

	frame, err := DecodeFrame(mediaPipeMessage(t, src))
	require.NoError(t, err)
	require.NotNil(t, frame)

	g := systems.ClassifyGesture(frame)
	assert.Equal(t, components.GestureVictory, g.Kind)
	assert.InDelta(t, 0.3, g.X, 1e-9)
}

func TestDecodeTwoCoordinateLandmarks(t *testing.T) {
	frame, err := DecodeFrame([]byte(`{"landmarks":[[0.1,0.2]]}`))
	require.NoError(t, err)
	require.Len(t, frame.Landmarks, 1)
	assert.Equal(t, components.Landmark{X: 0.1, Y: 0.2}, frame.Landmarks[0])
}

func TestDecodeEmptyHands(t *testing.T) {
	for _, msg := range []string{
		`{"landmarks":[]}`,
		`{"multiHandLandmarks":[]}`,
		`{"multiHandLandmarks":[[]]}`,
	} {
		frame, err := DecodeFrame([]byte(msg))
		assert.NoError(t, err, msg)
		assert.Nil(t, frame, msg)
	}
}

func TestDecodeMalformed(t *testing.T) {
	for _, msg := range []string{
		`not json`,
		`{}`,
		`{"landmarks":[[0.1]]}`,
		`{"landmarks":[[0.1,0.2,0.3,0.4]]}`,
		`{"landmarks":"oops"}`,
	} {
		_, err := DecodeFrame([]byte(msg))
		assert.ErrorIs(t, err, ErrMalformedFrame, msg)
	}
}

func TestDecodeShortFrameIsKept(t *testing.T) {
	// 关键点不足的帧照常存入，由分类器判定为无手
	frame, err := DecodeFrame([]byte(`{"landmarks":[[0.5,0.5,0],[0.5,0.4,0]]}`))
	require.NoError(t, err)
	require.NotNil(t, frame)
	assert.Equal(t, components.GestureNone, systems.ClassifyGesture(frame).Kind)
}
