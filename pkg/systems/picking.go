package systems

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/gonewx/configurator/internal/assets"
	"github.com/gonewx/configurator/pkg/components"
)

// Ray 世界空间中的射线
type Ray struct {
	Origin    mgl64.Vec3
	Direction mgl64.Vec3 // 单位向量
}

// ScreenRay 由屏幕坐标生成拾取射线
//
// 屏幕 y 轴向下，而 UnProject 使用左下角为原点的窗口坐标，需要翻转。
func ScreenRay(cam *components.CameraComponent, x, y, width, height int) (Ray, bool) {
	view := ViewMatrix(cam)
	proj := ProjectionMatrix(cam, width, height)
	winY := float64(height - y)

	near, err := mgl64.UnProject(mgl64.Vec3{float64(x), winY, 0}, view, proj, 0, 0, width, height)
	if err != nil {
		return Ray{}, false
	}
	far, err := mgl64.UnProject(mgl64.Vec3{float64(x), winY, 1}, view, proj, 0, 0, width, height)
	if err != nil {
		return Ray{}, false
	}

	dir := far.Sub(near)
	if dir.Len() == 0 {
		return Ray{}, false
	}
	return Ray{Origin: near, Direction: dir.Normalize()}, true
}

// ProjectPoint 将世界坐标投影到屏幕坐标
// 点在相机后方或超出裁剪范围时 ok 为 false
func ProjectPoint(p mgl64.Vec3, view, proj mgl64.Mat4, width, height int) (x, y float64, ok bool) {
	win := mgl64.Project(p, view, proj, 0, 0, width, height)
	if math.IsNaN(win.Z()) || win.Z() < 0 || win.Z() > 1 {
		return 0, 0, false
	}
	return win.X(), float64(height) - win.Y(), true
}

// IntersectBox 射线与轴对齐包围盒求交（slab 法）
// 返回最近的非负交点距离
func IntersectBox(ray Ray, box assets.Box) (float64, bool) {
	tMin, tMax := 0.0, math.Inf(1)

	for axis := 0; axis < 3; axis++ {
		origin, dir := ray.Origin[axis], ray.Direction[axis]
		lo, hi := box.Min[axis], box.Max[axis]

		if math.Abs(dir) < 1e-12 {
			if origin < lo || origin > hi {
				return 0, false
			}
			continue
		}

		t1, t2 := (lo-origin)/dir, (hi-origin)/dir
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		tMin = math.Max(tMin, t1)
		tMax = math.Min(tMax, t2)
		if tMin > tMax {
			return 0, false
		}
	}
	return tMin, true
}

// IntersectAsset 射线与摆放在 transform 处的模型求交
//
// 射线先变换到模型局部空间（先平移再绕 Y 轴反向旋转），再逐个盒子检测。
func IntersectAsset(ray Ray, transform *components.TransformComponent, asset *assets.Asset) (float64, bool) {
	inv := mgl64.Rotate3DY(-transform.RotationY)
	local := Ray{
		Origin:    inv.Mul3x1(ray.Origin.Sub(transform.Position)),
		Direction: inv.Mul3x1(ray.Direction),
	}

	best, hit := math.Inf(1), false
	for _, box := range asset.Boxes {
		if t, ok := IntersectBox(local, box); ok && t < best {
			best, hit = t, true
		}
	}
	return best, hit
}

// ModelMatrix 部件的模型矩阵（平移 * 绕 Y 旋转）
func ModelMatrix(transform *components.TransformComponent) mgl64.Mat4 {
	pos := transform.Position
	return mgl64.Translate3D(pos.X(), pos.Y(), pos.Z()).Mul4(mgl64.HomogRotate3DY(transform.RotationY))
}
