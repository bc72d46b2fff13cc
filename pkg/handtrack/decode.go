package handtrack

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/gonewx/snowglobe/pkg/components"
)

// ErrMalformedFrame 消息无法解析为手部帧
var ErrMalformedFrame = errors.New("malformed hand frame")

// wireFrame 兼容两种消息格式：
//
//	{"landmarks": [[x, y, z], ...]}
//	{"multiHandLandmarks": [[{"x": .., "y": .., "z": ..}, ...]]}
type wireFrame struct {
	Landmarks          *[][]float64             `json:"landmarks"`
	MultiHandLandmarks *[][]components.Landmark `json:"multiHandLandmarks"`
}

// DecodeFrame 解析一条追踪消息
//
// 手部列表为空时返回 (nil, nil)，表示未检测到手。
// 关键点数量不足 21 的帧原样返回，由分类器按无效观测处理。
func DecodeFrame(data []byte) (*components.HandFrame, error) {
	var wf wireFrame
	if err := json.Unmarshal(data, &wf); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedFrame, err)
	}

	switch {
	case wf.Landmarks != nil:
		points := *wf.Landmarks
		if len(points) == 0 {
			return nil, nil
		}
		lm := make([]components.Landmark, len(points))
		for i, p := range points {
			if len(p) < 2 || len(p) > 3 {
				return nil, fmt.Errorf("%w: landmark %d has %d coordinates", ErrMalformedFrame, i, len(p))
			}
			lm[i] = components.Landmark{X: p[0], Y: p[1]}
			if len(p) == 3 {
				lm[i].Z = p[2]
			}
		}
		return &components.HandFrame{Landmarks: lm}, nil

	case wf.MultiHandLandmarks != nil:
		hands := *wf.MultiHandLandmarks
		if len(hands) == 0 || len(hands[0]) == 0 {
			return nil, nil
		}
		// 只追踪第一只手
		return components.NewHandFrame(hands[0]), nil
	}

	return nil, fmt.Errorf("%w: missing landmarks", ErrMalformedFrame)
}
