package components

// RotationComponent 主部件的往返旋转状态
//
// 激活时每帧推进 Angle，到达 [0, MaxAngle] 任一边界后停止并反转 Direction，
// 因此每次激活都从上一次停下的边界向另一端运动。
type RotationComponent struct {
	// Active 是否正在旋转
	Active bool

	// Angle 当前角度（弧度），范围 [0, MaxAngle]
	Angle float64

	// Direction 旋转方向，+1 或 -1
	Direction float64

	// Speed 每帧基础步长（弧度）
	Speed float64

	// MaxAngle 旋转上限（弧度）
	MaxAngle float64
}
