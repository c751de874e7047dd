package components

import "github.com/go-gl/mathgl/mgl64"

// CameraComponent 相机位姿、轨道参数和过渡动画状态
//
// 过渡进行中时由相机系统独占写入 Position/LookAt，轨道控制暂停；
// 过渡结束后 LookAt 成为新的轨道中心。
type CameraComponent struct {
	// Position 相机世界坐标
	Position mgl64.Vec3

	// LookAt 注视点
	LookAt mgl64.Vec3

	// FOV 垂直视角（度）
	FOV float64
	// Near, Far 裁剪面
	Near, Far float64

	// ===== 轨道控制 =====
	// Radius 与轨道中心的距离
	Radius float64
	// Azimuth 绕Y轴的水平角（弧度，0 指向 +Z）
	Azimuth float64
	// Elevation 相对水平面的仰角（弧度）
	Elevation float64

	// ===== 过渡动画 =====
	// IsAnimating 是否正在过渡
	IsAnimating bool
	// StartPosition 过渡起点（开始时的实时位置）
	StartPosition mgl64.Vec3
	// TargetPosition 过渡终点
	TargetPosition mgl64.Vec3
	// Elapsed 已经过的时间（秒）
	Elapsed float64
	// Duration 过渡总时长（秒）
	Duration float64
}
