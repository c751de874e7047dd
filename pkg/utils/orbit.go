package utils

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// 轨道坐标约定：
//   - Azimuth 绕 Y 轴，0 指向 +Z，正方向朝 +X
//   - Elevation 相对 XZ 平面，正值在上方

// OrbitOffset 由球坐标计算相机相对轨道中心的偏移
func OrbitOffset(radius, azimuth, elevation float64) mgl64.Vec3 {
	cosE := math.Cos(elevation)
	return mgl64.Vec3{
		radius * cosE * math.Sin(azimuth),
		radius * math.Sin(elevation),
		radius * cosE * math.Cos(azimuth),
	}
}

// OrbitFromOffset 由相对轨道中心的偏移反推球坐标
// 零向量返回半径 0、角度 0
func OrbitFromOffset(offset mgl64.Vec3) (radius, azimuth, elevation float64) {
	radius = offset.Len()
	if radius == 0 {
		return 0, 0, 0
	}
	azimuth = math.Atan2(offset.X(), offset.Z())
	elevation = math.Asin(Clamp(offset.Y()/radius, -1, 1))
	return radius, azimuth, elevation
}
