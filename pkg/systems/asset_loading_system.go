package systems

import (
	"context"
	"image/color"
	"log"
	"sort"

	"github.com/gonewx/configurator/internal/assets"
	"github.com/gonewx/configurator/pkg/components"
	"github.com/gonewx/configurator/pkg/config"
	"github.com/gonewx/configurator/pkg/ecs"
	"github.com/gonewx/configurator/pkg/game"
)

// defaultAssemblyColor 配置和模型都未指定颜色时使用
var defaultAssemblyColor = color.RGBA{R: 0xcc, G: 0xcc, B: 0xcc, A: 0xff}

// pendingAssembly 正在后台加载的部件
type pendingAssembly struct {
	cfg    config.AssemblyConfig
	future *assets.Future
}

// AssetLoadingSystem 把异步加载完成的模型注册为部件实体
//
// 加载在后台 goroutine 中进行，本系统每帧在渲染循环上轮询结果，
// 所有实体和组件的创建都发生在渲染循环 goroutine 上。
// 加载失败的部件记录日志后丢弃，不重试。
type AssetLoadingSystem struct {
	entityManager *ecs.EntityManager
	state         *game.ConfiguratorState
	loader        *assets.Loader

	pending []pendingAssembly
	failed  map[string]error
}

// NewAssetLoadingSystem 创建资源加载系统
func NewAssetLoadingSystem(em *ecs.EntityManager, state *game.ConfiguratorState, loader *assets.Loader) *AssetLoadingSystem {
	return &AssetLoadingSystem{
		entityManager: em,
		state:         state,
		loader:        loader,
		failed:        make(map[string]error),
	}
}

// Start 为配置中的每个部件发起异步加载
func (s *AssetLoadingSystem) Start(ctx context.Context) {
	for _, asm := range s.state.Config.Assemblies {
		s.pending = append(s.pending, pendingAssembly{
			cfg:    asm,
			future: s.loader.Load(ctx, asm.Asset),
		})
	}
	log.Printf("[AssetLoadingSystem] Loading %d assemblies", len(s.pending))
}

// Update 轮询加载结果
func (s *AssetLoadingSystem) Update(dt float64) {
	if len(s.pending) == 0 {
		return
	}

	remaining := s.pending[:0]
	for _, p := range s.pending {
		if !p.future.Ready() {
			remaining = append(remaining, p)
			continue
		}

		asset, err := p.future.Result()
		if err != nil {
			log.Printf("[AssetLoadingSystem] Failed to load assembly %q: %v", p.cfg.Key, err)
			s.failed[p.cfg.Key] = err
			continue
		}
		s.Spawn(p.cfg, asset)
	}
	s.pending = remaining

	if len(s.pending) == 0 {
		log.Printf("[AssetLoadingSystem] Loading finished: %d assemblies, %d failed, %d entities",
			len(s.state.AssemblyKeys()), len(s.failed), s.entityManager.EntityCount())
	}
}

// Pending 返回仍在加载中的部件数量
func (s *AssetLoadingSystem) Pending() int {
	return len(s.pending)
}

// FailedKeys 返回所有加载失败的部件 key（排序后）
func (s *AssetLoadingSystem) FailedKeys() []string {
	keys := make([]string, 0, len(s.failed))
	for key := range s.failed {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// Spawn 创建部件实体（及其标签和旋转状态）
//
// 部件使用配置中的初始可见性，不追补加载前已应用的档位，标签与部件一致。
func (s *AssetLoadingSystem) Spawn(cfg config.AssemblyConfig, asset *assets.Asset) ecs.EntityID {
	if existing, ok := s.state.Assembly(cfg.Key); ok {
		log.Printf("[AssetLoadingSystem] Assembly %q already spawned as entity %d", cfg.Key, existing)
		return existing
	}

	em := s.entityManager
	id := em.CreateEntity()

	asm := &components.AssemblyComponent{
		Key:            cfg.Key,
		Visible:        cfg.Visible,
		TierControlled: cfg.TierControlled,
		Primary:        cfg.Primary,
	}
	ecs.AddComponent(em, id, asm)
	ecs.AddComponent(em, id, &components.TransformComponent{Position: cfg.Position})
	ecs.AddComponent(em, id, &components.MeshComponent{Asset: asset, Color: assemblyColor(cfg, asset)})

	if cfg.Primary {
		ecs.AddComponent(em, id, &components.RotationComponent{
			Direction: 1,
			Speed:     s.state.Config.Rotation.Speed,
			MaxAngle:  s.state.Config.Rotation.MaxAngle,
		})
	}

	if cfg.Label != "" {
		labelID := em.CreateEntity()
		ecs.AddComponent(em, labelID, &components.LabelComponent{
			Owner:   id,
			Text:    cfg.Label,
			Offset:  cfg.LabelOffset,
			Visible: asm.Visible,
		})
		asm.LabelEntity = labelID
	}

	s.state.RegisterAssembly(cfg.Key, id)
	log.Printf("[AssetLoadingSystem] Assembly %q ready (entity %d, %d boxes, visible=%v)",
		cfg.Key, id, len(asset.Boxes), asm.Visible)
	return id
}

// assemblyColor 配置颜色优先，其次模型颜色
func assemblyColor(cfg config.AssemblyConfig, asset *assets.Asset) color.RGBA {
	for _, hex := range []string{cfg.Color, asset.Color} {
		if hex == "" {
			continue
		}
		if c, err := config.ParseHexColor(hex); err == nil {
			return c
		}
	}
	return defaultAssemblyColor
}
