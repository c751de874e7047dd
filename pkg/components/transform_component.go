package components

import "github.com/go-gl/mathgl/mgl64"

// TransformComponent 部件在世界中的位置与绕Y轴的旋转
type TransformComponent struct {
	Position  mgl64.Vec3
	RotationY float64 // 弧度
}
