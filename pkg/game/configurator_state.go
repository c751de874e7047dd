package game

import (
	"errors"
	"log"
	"sort"

	"github.com/gonewx/configurator/pkg/components"
	"github.com/gonewx/configurator/pkg/config"
	"github.com/gonewx/configurator/pkg/ecs"
	"github.com/gonewx/configurator/pkg/utils"
)

// ErrAssemblyNotLoaded 部件尚未加载完成（或加载失败）
var ErrAssemblyNotLoaded = errors.New("assembly not loaded")

// ConfiguratorState 配置器的共享状态
//
// 启动时创建一次，显式传给可见性控制、交互动画和渲染系统。
// 只在渲染循环 goroutine 上读写。
type ConfiguratorState struct {
	EntityManager *ecs.EntityManager
	Config        *config.ConfiguratorConfig

	// CameraEntity 唯一的相机实体
	CameraEntity ecs.EntityID

	// ToolpathVisible 刀路叠加层是否显示
	ToolpathVisible bool

	assemblies map[string]ecs.EntityID // key -> 已加载的部件实体
	changed    bool                    // 自上次 TakeChanged 以来是否有可观察的状态变化
}

// NewConfiguratorState 创建共享状态并生成相机实体
func NewConfiguratorState(em *ecs.EntityManager, cfg *config.ConfiguratorConfig) *ConfiguratorState {
	s := &ConfiguratorState{
		EntityManager:   em,
		Config:          cfg,
		ToolpathVisible: cfg.Toolpath.Visible,
		assemblies:      make(map[string]ecs.EntityID),
	}

	cam := cfg.Camera
	offset := cam.Position.Sub(cam.Pivot)
	radius, azimuth, elevation := utils.OrbitFromOffset(offset)

	s.CameraEntity = em.CreateEntity()
	ecs.AddComponent(em, s.CameraEntity, &components.CameraComponent{
		Position:  cam.Position,
		LookAt:    cam.Pivot,
		FOV:       cam.FOV,
		Near:      cam.Near,
		Far:       cam.Far,
		Radius:    radius,
		Azimuth:   azimuth,
		Elevation: elevation,
		Duration:  cam.TransitionDuration,
	})

	return s
}

// RegisterAssembly 记录已加载的部件实体
// 同一 key 重复注册时保留第一次的实体
func (s *ConfiguratorState) RegisterAssembly(key string, id ecs.EntityID) bool {
	if _, exists := s.assemblies[key]; exists {
		log.Printf("[ConfiguratorState] Assembly %q already registered, ignoring entity %d", key, id)
		return false
	}
	s.assemblies[key] = id
	s.changed = true
	return true
}

// Assembly 按 key 查找已加载的部件实体
func (s *ConfiguratorState) Assembly(key string) (ecs.EntityID, bool) {
	id, ok := s.assemblies[key]
	return id, ok
}

// Primary 返回主部件实体
//
// 返回：
//   - ErrAssemblyNotLoaded: 主部件尚未加载完成
func (s *ConfiguratorState) Primary() (ecs.EntityID, error) {
	key := s.Config.PrimaryAssembly().Key
	id, ok := s.assemblies[key]
	if !ok {
		return 0, ErrAssemblyNotLoaded
	}
	return id, nil
}

// AssemblyKeys 返回已加载部件的 key（排序）
func (s *ConfiguratorState) AssemblyKeys() []string {
	keys := make([]string, 0, len(s.assemblies))
	for key := range s.assemblies {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// Camera 返回相机组件
func (s *ConfiguratorState) Camera() *components.CameraComponent {
	cam, _ := ecs.GetComponent[*components.CameraComponent](s.EntityManager, s.CameraEntity)
	return cam
}

// MarkChanged 标记状态已变化（用于远程广播）
func (s *ConfiguratorState) MarkChanged() {
	s.changed = true
}

// TakeChanged 返回并清除变化标记
func (s *ConfiguratorState) TakeChanged() bool {
	changed := s.changed
	s.changed = false
	return changed
}
