package components

// Vec3 世界坐标中的三维向量
type Vec3 struct {
	X, Y, Z float64
}

// Add 向量相加
func (v Vec3) Add(o Vec3) Vec3 {
	return Vec3{X: v.X + o.X, Y: v.Y + o.Y, Z: v.Z + o.Z}
}

// Position 返回相机位置向量
func (c CameraState) Position() Vec3 {
	return Vec3{X: c.X, Y: c.Y, Z: c.Z}
}
