package systems

import (
	"log"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/gonewx/configurator/pkg/components"
	"github.com/gonewx/configurator/pkg/config"
	"github.com/gonewx/configurator/pkg/ecs"
	"github.com/gonewx/configurator/pkg/game"
	"github.com/gonewx/configurator/pkg/utils"
)

// CameraSystem 管理相机过渡动画和轨道控制
//
// 过渡期间位置按二次方缓入缓出从起点插值到终点，每一步注视点都重新对准
// 焦点部件（位置加垂直偏移）；新的过渡总是从当前实时位置重新开始。
// 过渡期间轨道控制不生效。
type CameraSystem struct {
	entityManager *ecs.EntityManager
	state         *game.ConfiguratorState
	cfg           config.CameraConfig

	focusEntity ecs.EntityID // 过渡期间注视的部件
}

// NewCameraSystem 创建相机系统
func NewCameraSystem(em *ecs.EntityManager, state *game.ConfiguratorState) *CameraSystem {
	return &CameraSystem{
		entityManager: em,
		state:         state,
		cfg:           state.Config.Camera,
	}
}

// StartTransition 开始向 target 的过渡，注视点跟随 focus 部件
func (cs *CameraSystem) StartTransition(target mgl64.Vec3, focus ecs.EntityID) {
	cam := cs.state.Camera()
	if cam == nil {
		return
	}

	cam.StartPosition = cam.Position
	cam.TargetPosition = target
	cam.Elapsed = 0
	cam.Duration = cs.cfg.TransitionDuration
	cam.IsAnimating = true
	cs.focusEntity = focus

	log.Printf("[CameraSystem] Transition started: %v -> %v (%.2fs)", cam.StartPosition, target, cam.Duration)
}

// IsAnimating 是否正在过渡
func (cs *CameraSystem) IsAnimating() bool {
	cam := cs.state.Camera()
	return cam != nil && cam.IsAnimating
}

// Update 推进过渡动画
func (cs *CameraSystem) Update(dt float64) {
	cam := cs.state.Camera()
	if cam == nil || !cam.IsAnimating {
		return
	}

	cam.Elapsed += dt
	progress := 1.0
	if cam.Duration > 0 {
		progress = utils.Clamp(cam.Elapsed/cam.Duration, 0, 1)
	}

	cam.Position = utils.LerpVec3(cam.StartPosition, cam.TargetPosition, utils.EaseInOutQuad(progress))
	if focus, ok := cs.focusPoint(); ok {
		cam.LookAt = focus
	}

	if progress >= 1 {
		cam.Position = cam.TargetPosition
		cam.IsAnimating = false
		// 过渡结束后以当前注视点作为新的轨道中心
		cam.Radius, cam.Azimuth, cam.Elevation = utils.OrbitFromOffset(cam.Position.Sub(cam.LookAt))
		cs.state.MarkChanged()
		log.Printf("[CameraSystem] Transition finished at %v", cam.Position)
	}
}

// focusPoint 焦点部件位置加上垂直偏移
func (cs *CameraSystem) focusPoint() (mgl64.Vec3, bool) {
	transform, ok := ecs.GetComponent[*components.TransformComponent](cs.entityManager, cs.focusEntity)
	if !ok {
		return mgl64.Vec3{}, false
	}
	return transform.Position.Add(mgl64.Vec3{0, cs.cfg.LookAtBias, 0}), true
}

// Orbit 按拖拽位移旋转相机
// 过渡期间返回 false 且不做修改
func (cs *CameraSystem) Orbit(dx, dy int) bool {
	cam := cs.state.Camera()
	if cam == nil || cam.IsAnimating {
		return false
	}

	cam.Azimuth -= float64(dx) * cs.cfg.OrbitSensitivity
	cam.Elevation = utils.Clamp(cam.Elevation+float64(dy)*cs.cfg.OrbitSensitivity,
		cs.cfg.MinElevation, cs.cfg.MaxElevation)
	cs.applyOrbit(cam)
	return true
}

// Zoom 按滚轮增量缩放（向上滚动拉近）
// 过渡期间返回 false 且不做修改
func (cs *CameraSystem) Zoom(wheel float64) bool {
	cam := cs.state.Camera()
	if cam == nil || cam.IsAnimating || wheel == 0 {
		return false
	}

	cam.Radius = utils.Clamp(cam.Radius-wheel*cs.cfg.ZoomSpeed, cs.cfg.MinRadius, cs.cfg.MaxRadius)
	cs.applyOrbit(cam)
	return true
}

// RestoreOrbit 恢复保存的轨道参数（超出范围的值会被夹紧）
func (cs *CameraSystem) RestoreOrbit(radius, azimuth, elevation float64) {
	cam := cs.state.Camera()
	if cam == nil {
		return
	}
	cam.IsAnimating = false
	cam.Radius = utils.Clamp(radius, cs.cfg.MinRadius, cs.cfg.MaxRadius)
	cam.Azimuth = azimuth
	cam.Elevation = utils.Clamp(elevation, cs.cfg.MinElevation, cs.cfg.MaxElevation)
	cs.applyOrbit(cam)
}

func (cs *CameraSystem) applyOrbit(cam *components.CameraComponent) {
	cam.Position = cam.LookAt.Add(utils.OrbitOffset(cam.Radius, cam.Azimuth, cam.Elevation))
	cs.state.MarkChanged()
}

// ViewMatrix 相机的观察矩阵
func ViewMatrix(cam *components.CameraComponent) mgl64.Mat4 {
	return mgl64.LookAtV(cam.Position, cam.LookAt, mgl64.Vec3{0, 1, 0})
}

// ProjectionMatrix 相机的透视投影矩阵
func ProjectionMatrix(cam *components.CameraComponent, width, height int) mgl64.Mat4 {
	aspect := 1.0
	if height > 0 {
		aspect = float64(width) / float64(height)
	}
	return mgl64.Perspective(mgl64.DegToRad(cam.FOV), aspect, cam.Near, cam.Far)
}
