package components

// GestureKind 手势类型
type GestureKind int

const (
	// GestureNone 未检测到手（或观测无效）
	GestureNone GestureKind = iota
	// GestureOpenHand 张开手掌：控制缩放与自动旋转
	GestureOpenHand
	// GestureFist 握拳：触发烟花
	GestureFist
	// GestureVictory 剪刀手：触发 Merry Christmas 序列
	GestureVictory
)

// String 返回手势类型名称（用于日志和指标标签）
func (k GestureKind) String() string {
	switch k {
	case GestureOpenHand:
		return "open"
	case GestureFist:
		return "fist"
	case GestureVictory:
		return "victory"
	default:
		return "none"
	}
}

// Gesture 一帧分类得到的离散手势
//
// X 为手腕的归一化水平坐标 [0,1]，仅对 OpenHand 和 Victory 有意义。
// 每帧重新计算，没有持久身份。
type Gesture struct {
	Kind GestureKind
	X    float64
}

// FingerStates 各手指的伸展状态
// Thumb 会被计算但当前没有手势使用它
type FingerStates struct {
	Thumb  bool
	Index  bool
	Middle bool
	Ring   bool
	Pinky  bool
}
