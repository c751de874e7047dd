package utils

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Easing Functions (缓动函数)
//
// 所有函数接受一个进度值 t ∈ [0, 1]，返回缓动后的值 ∈ [0, 1]。
//
// 参考：https://easings.net/

// EaseInOutQuad 二次方缓入缓出
// 特点：开始慢，中间快，结束慢（相机过渡使用）
// 公式：
//
//	t < 0.5: f(t) = 2t²
//	t >= 0.5: f(t) = 1 - (-2t + 2)² / 2
func EaseInOutQuad(t float64) float64 {
	if t < 0.5 {
		return 2 * t * t
	}
	u := -2*t + 2
	return 1 - u*u/2
}

// PingPongEase 往返旋转的速度曲线
//
// p 为当前角度占上限的比例 |angle/max|，speed 为基础步长。
// 两端（p=0、p=1）最慢，中点最快；speed 作为下限保证在边界处仍能起步。
// 公式：f(p) = sqrt((sin(π(2p - 0.5)) + 1) / 2 + speed)
func PingPongEase(p, speed float64) float64 {
	return math.Sqrt((math.Sin(math.Pi*(2*p-0.5))+1)/2 + speed)
}

// Clamp 将 v 限制在 [lo, hi]
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// LerpVec3 向量线性插值
func LerpVec3(a, b mgl64.Vec3, t float64) mgl64.Vec3 {
	return a.Add(b.Sub(a).Mul(t))
}
