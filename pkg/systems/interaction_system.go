package systems

import (
	"errors"
	"fmt"
	"log"

	"github.com/gonewx/configurator/pkg/components"
	"github.com/gonewx/configurator/pkg/ecs"
	"github.com/gonewx/configurator/pkg/game"
	"github.com/gonewx/configurator/pkg/types"
	"github.com/gonewx/configurator/pkg/utils"
)

// ErrAssetNotReady 主部件尚未加载，交互被忽略
var ErrAssetNotReady = errors.New("asset not ready")

// InteractionSystem 把输入手势翻译为可见性切换、旋转和相机过渡
//
//   - 悬停档位 -> VisibilitySystem.ApplyTier
//   - 点击主部件 -> 切换旋转 + 相机过渡到当前档位的终点
//   - 拖拽 / 滚轮 -> 轨道控制（过渡期间无效）
type InteractionSystem struct {
	entityManager *ecs.EntityManager
	state         *game.ConfiguratorState
	visibility    *VisibilitySystem
	rotation      *RotationSystem
	camera        *CameraSystem

	drag          *utils.DragTracker
	width, height int // 拾取使用的屏幕尺寸，与窗口逻辑尺寸一致
	uiHitTest     func(x, y int) bool // 返回 true 表示该位置被界面元素占用
}

// NewInteractionSystem 创建交互系统
func NewInteractionSystem(em *ecs.EntityManager, state *game.ConfiguratorState, visibility *VisibilitySystem, rotation *RotationSystem, camera *CameraSystem) *InteractionSystem {
	return &InteractionSystem{
		entityManager: em,
		state:         state,
		visibility:    visibility,
		rotation:      rotation,
		camera:        camera,
		drag:          utils.NewDragTracker(state.Config.Camera.DragThreshold),
		width:         state.Config.Window.Width,
		height:        state.Config.Window.Height,
	}
}

// SetUIHitTest 设置界面元素命中检测，命中时按下不会开始点击或拖拽
func (s *InteractionSystem) SetUIHitTest(hit func(x, y int) bool) {
	s.uiHitTest = hit
}

// HoverIntent 悬停档位按钮（或等效的远程/键盘意图）
func (s *InteractionSystem) HoverIntent(tier types.Tier) {
	s.visibility.ApplyTier(tier)
}

// HandlePointer 处理一帧的指针输入
func (s *InteractionSystem) HandlePointer(p utils.PointerState) {
	if p.JustPressed && s.uiHitTest != nil && s.uiHitTest(p.X, p.Y) {
		s.drag.Reset()
		return
	}

	gesture := s.drag.Update(p)
	switch gesture.Kind {
	case utils.GestureSelect:
		s.Select(gesture.X, gesture.Y)
	case utils.GestureDrag:
		s.camera.Orbit(gesture.DX, gesture.DY)
	}

	if p.WheelY != 0 {
		s.camera.Zoom(p.WheelY)
	}
}

// Select 处理屏幕坐标 (x, y) 处的点击
//
// 射线命中主部件时切换旋转并开始相机过渡，返回 true。
// 主部件未加载或未命中时什么也不做。
func (s *InteractionSystem) Select(x, y int) bool {
	primary, err := s.primary()
	if err != nil {
		log.Printf("[InteractionSystem] Select ignored: %v", err)
		return false
	}

	if !s.hitsAssembly(primary, x, y) {
		return false
	}

	s.activate(primary)
	return true
}

// SelectPrimary 不经过射线检测直接触发主部件（远程选择）
func (s *InteractionSystem) SelectPrimary() bool {
	primary, err := s.primary()
	if err != nil {
		log.Printf("[InteractionSystem] Select ignored: %v", err)
		return false
	}
	s.activate(primary)
	return true
}

// activate 切换旋转并把相机移向当前档位的终点
func (s *InteractionSystem) activate(primary ecs.EntityID) {
	s.rotation.Toggle(primary)

	target := s.state.Config.Camera.DefaultTarget
	if tier, ok := s.visibility.CurrentTier(); ok {
		target = s.state.Config.CameraTarget(tier)
	}
	s.camera.StartTransition(target, primary)
	s.state.MarkChanged()
}

// primary 返回已加载的主部件
func (s *InteractionSystem) primary() (ecs.EntityID, error) {
	id, err := s.state.Primary()
	if err != nil {
		return 0, fmt.Errorf("primary assembly %q: %w", s.state.Config.PrimaryAssembly().Key, ErrAssetNotReady)
	}
	return id, nil
}

// hitsAssembly 屏幕坐标处的射线是否命中可见部件
func (s *InteractionSystem) hitsAssembly(id ecs.EntityID, x, y int) bool {
	asm, ok := ecs.GetComponent[*components.AssemblyComponent](s.entityManager, id)
	if !ok || !asm.Visible {
		return false
	}
	transform, ok := ecs.GetComponent[*components.TransformComponent](s.entityManager, id)
	if !ok {
		return false
	}
	mesh, ok := ecs.GetComponent[*components.MeshComponent](s.entityManager, id)
	if !ok || mesh.Asset == nil {
		return false
	}

	cam := s.state.Camera()
	if cam == nil {
		return false
	}
	ray, ok := ScreenRay(cam, x, y, s.width, s.height)
	if !ok {
		return false
	}

	_, hit := IntersectAsset(ray, transform, mesh.Asset)
	return hit
}
