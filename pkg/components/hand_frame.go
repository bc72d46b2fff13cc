package components

// LandmarkCount 一帧手部观测的关键点数量（MediaPipe Hands 拓扑）
const LandmarkCount = 21

// 关键点索引（MediaPipe Hands 编号）
const (
	LandmarkWrist     = 0
	LandmarkThumbIP   = 3
	LandmarkThumbTip  = 4
	LandmarkIndexPIP  = 6
	LandmarkIndexTip  = 8
	LandmarkMiddlePIP = 10
	LandmarkMiddleTip = 12
	LandmarkRingPIP   = 14
	LandmarkRingTip   = 16
	LandmarkPinkyPIP  = 18
	LandmarkPinkyTip  = 20
)

// Landmark 单个手部关键点，坐标为归一化图像坐标
// X 向右增大，Y 向下增大（图像空间），Z 为相对深度
type Landmark struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// HandFrame 一次推理周期的手部快照（不可变）
//
// nil *HandFrame 表示本周期未检测到手。
// Landmarks 数量不足 LandmarkCount 时视为无效观测，分类器按"无手"处理。
type HandFrame struct {
	Landmarks []Landmark
}

// NewHandFrame 复制关键点切片并创建快照，调用方后续修改不会影响快照
func NewHandFrame(landmarks []Landmark) *HandFrame {
	cp := make([]Landmark, len(landmarks))
	copy(cp, landmarks)
	return &HandFrame{Landmarks: cp}
}

// IsComplete 是否为完整的 21 点观测
func (f *HandFrame) IsComplete() bool {
	return f != nil && len(f.Landmarks) >= LandmarkCount
}
