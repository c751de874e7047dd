package scenes

import (
	"context"
	"log"

	"github.com/gonewx/configurator/internal/assets"
	"github.com/gonewx/configurator/internal/toolpath"
	"github.com/gonewx/configurator/pkg/components"
	"github.com/gonewx/configurator/pkg/config"
	"github.com/gonewx/configurator/pkg/ecs"
	"github.com/gonewx/configurator/pkg/embedded"
	"github.com/gonewx/configurator/pkg/game"
	"github.com/gonewx/configurator/pkg/remote"
	"github.com/gonewx/configurator/pkg/systems"
	"github.com/gonewx/configurator/pkg/types"
	"github.com/gonewx/configurator/pkg/utils"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// tierKeys 数字键 1-6 对应六个档位
var tierKeys = map[ebiten.Key]types.Tier{
	ebiten.Key1: types.Tier1,
	ebiten.Key2: types.Tier1Plus,
	ebiten.Key3: types.Tier2,
	ebiten.Key4: types.Tier2Plus,
	ebiten.Key5: types.Tier3,
	ebiten.Key6: types.Tier3Plus,
}

// Options 配置器场景的启动选项
type Options struct {
	// Context 控制后台资源加载的生命周期
	Context context.Context
	// Loader 模型加载器，nil 时使用嵌入资源
	Loader *assets.Loader
	// InitialTier 启动时应用的档位，nil 表示不指定
	InitialTier *types.Tier
	// Session 会话管理器，nil 时不恢复也不保存会话
	Session *game.SessionManager
	// Remote 远程桥接，nil 时不启用
	Remote *remote.Server
}

// ConfiguratorScene 产品配置器主场景
//
// 持有共享状态和所有系统，每帧的处理顺序：
// 资源轮询 -> 远程意图 -> 键盘 -> 按钮悬停 -> 指针 -> 旋转 -> 相机 -> 广播
type ConfiguratorScene struct {
	entityManager *ecs.EntityManager
	state         *game.ConfiguratorState

	visibility  *systems.VisibilitySystem
	rotation    *systems.RotationSystem
	camera      *systems.CameraSystem
	interaction *systems.InteractionSystem
	buttons     *systems.TierButtonSystem
	loading     *systems.AssetLoadingSystem
	render      *systems.RenderSystem

	session *game.SessionManager
	remote  *remote.Server

	// startupTier 启动档位（命令行或会话），全部模型加载结束后再应用一次
	startupTier *types.Tier

	// 输入来源，测试时可替换
	readPointer func() utils.PointerState
	readKeys    func() []ebiten.Key
}

// NewConfiguratorScene 创建场景并开始异步加载模型
func NewConfiguratorScene(cfg *config.ConfiguratorConfig, opts Options) *ConfiguratorScene {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}
	loader := opts.Loader
	if loader == nil {
		loader = assets.NewLoader(embedded.ReadFile)
	}

	em := ecs.NewEntityManager()
	state := game.NewConfiguratorState(em, cfg)

	s := &ConfiguratorScene{
		entityManager: em,
		state:         state,
		session:       opts.Session,
		remote:        opts.Remote,
		readPointer:   utils.ReadPointerState,
		readKeys:      func() []ebiten.Key { return inpututil.AppendJustPressedKeys(nil) },
	}

	s.visibility = systems.NewVisibilitySystem(em, state)
	s.rotation = systems.NewRotationSystem(em)
	s.camera = systems.NewCameraSystem(em, state)
	s.interaction = systems.NewInteractionSystem(em, state, s.visibility, s.rotation, s.camera)
	s.buttons = systems.NewTierButtonSystem(em, state, s.interaction, s.visibility)
	s.interaction.SetUIHitTest(s.buttons.HitTest)
	s.loading = systems.NewAssetLoadingSystem(em, state, loader)
	s.render = systems.NewRenderSystem(em, state)

	s.loadToolpath()
	s.restoreSession(opts.InitialTier)
	s.loading.Start(ctx)

	return s
}

// loadToolpath 加载刀路叠加层，失败只记录日志
func (s *ConfiguratorScene) loadToolpath() {
	path := s.state.Config.Toolpath.Path
	if path == "" {
		return
	}

	if !embedded.Exists(path) {
		log.Printf("[ConfiguratorScene] Toolpath %s not found, overlay disabled", path)
		return
	}
	data, err := embedded.ReadFile(path)
	if err != nil {
		log.Printf("[ConfiguratorScene] Toolpath unavailable: %v", err)
		return
	}
	tp, err := toolpath.Parse(data)
	if err != nil {
		log.Printf("[ConfiguratorScene] Toolpath %s invalid: %v", path, err)
		return
	}

	points := tp.ScenePoints()
	s.render.SetToolpath(points)
	log.Printf("[ConfiguratorScene] Toolpath loaded: %d layers, %d points", len(tp.Layers), len(points))
}

// restoreSession 应用启动档位和上次的视角
// 命令行指定的档位优先于会话中的档位
func (s *ConfiguratorScene) restoreSession(initial *types.Tier) {
	restore := s.session != nil && s.state.Config.Session.Restore

	switch {
	case initial != nil:
		tier := *initial
		s.startupTier = &tier
	case restore:
		if tier, ok := s.session.LastTier(); ok {
			log.Printf("[ConfiguratorScene] Restoring tier %s", tier.ID())
			s.startupTier = &tier
		}
	}
	if s.startupTier != nil {
		s.visibility.ApplyTier(*s.startupTier)
	}

	if restore {
		if sess := s.session.GetSession(); sess.HasOrbit {
			s.camera.RestoreOrbit(sess.Radius, sess.Azimuth, sess.Elevation)
		}
	}
}

// Update 更新场景逻辑
func (s *ConfiguratorScene) Update(deltaTime float64) {
	s.loading.Update(deltaTime)
	s.applyStartupTier()
	s.drainRemote()

	for _, key := range s.readKeys() {
		s.HandleKey(key)
	}

	pointer := s.readPointer()
	s.buttons.Update(pointer)
	s.interaction.HandlePointer(pointer)

	s.rotation.Update(deltaTime)
	if s.isRotating() {
		s.state.MarkChanged()
	}
	s.camera.Update(deltaTime)

	if s.state.TakeChanged() && s.remote != nil {
		if err := s.remote.Broadcast(s.Snapshot()); err != nil {
			log.Printf("[ConfiguratorScene] Broadcast failed: %v", err)
		}
	}
}

// applyStartupTier 模型全部加载结束后重新应用启动档位
//
// 加载期间用户已切换到其他档位时放弃，不覆盖用户的选择。
func (s *ConfiguratorScene) applyStartupTier() {
	if s.startupTier == nil || s.loading.Pending() > 0 {
		return
	}
	tier := *s.startupTier
	s.startupTier = nil

	if current, ok := s.visibility.CurrentTier(); ok && current == tier {
		s.visibility.ApplyTier(tier)
	}
}

// HandleKey 处理一次按键
func (s *ConfiguratorScene) HandleKey(key ebiten.Key) {
	if tier, ok := tierKeys[key]; ok {
		s.interaction.HoverIntent(tier)
		return
	}
	if key == ebiten.KeyT {
		s.state.ToolpathVisible = !s.state.ToolpathVisible
		s.state.MarkChanged()
		log.Printf("[ConfiguratorScene] Toolpath visible=%v", s.state.ToolpathVisible)
	}
}

// drainRemote 非阻塞地处理所有排队的远程意图
func (s *ConfiguratorScene) drainRemote() {
	if s.remote == nil {
		return
	}
	for {
		select {
		case intent := <-s.remote.Intents():
			s.HandleIntent(intent)
		default:
			return
		}
	}
}

// HandleIntent 处理一条远程意图
func (s *ConfiguratorScene) HandleIntent(intent remote.Intent) {
	switch intent.Kind {
	case remote.IntentHover:
		s.interaction.HoverIntent(intent.Tier)
	case remote.IntentSelect:
		s.interaction.SelectPrimary()
	}
}

func (s *ConfiguratorScene) isRotating() bool {
	primary, err := s.state.Primary()
	if err != nil {
		return false
	}
	rot, ok := ecs.GetComponent[*components.RotationComponent](s.entityManager, primary)
	return ok && rot.Active
}

// Snapshot 生成远程广播用的状态快照
func (s *ConfiguratorScene) Snapshot() remote.State {
	snap := remote.State{
		Assemblies: make(map[string]bool),
		Loading:    s.loading.Pending(),
	}
	if tier, ok := s.visibility.CurrentTier(); ok {
		snap.Tier = tier.ID()
	}

	for _, key := range s.state.AssemblyKeys() {
		id, _ := s.state.Assembly(key)
		if asm, ok := ecs.GetComponent[*components.AssemblyComponent](s.entityManager, id); ok {
			snap.Assemblies[key] = asm.Visible
		}
	}

	if primary, err := s.state.Primary(); err == nil {
		if rot, ok := ecs.GetComponent[*components.RotationComponent](s.entityManager, primary); ok {
			snap.Rotation = &remote.RotationState{Active: rot.Active, Angle: rot.Angle, Direction: rot.Direction}
		}
	}
	return snap
}

// Draw 绘制场景
func (s *ConfiguratorScene) Draw(screen *ebiten.Image) {
	tier := "-"
	if current, ok := s.visibility.CurrentTier(); ok {
		tier = current.ID()
	}
	s.render.Draw(screen, systems.StatusText(tier, s.loading.Pending(), s.loading.FailedKeys(), s.state.ToolpathVisible))
}

// SaveOnExit 保存当前档位和视角
func (s *ConfiguratorScene) SaveOnExit() bool {
	if s.session == nil {
		return true
	}

	if tier, ok := s.visibility.CurrentTier(); ok {
		s.session.SetTier(tier)
	}
	if cam := s.state.Camera(); cam != nil {
		s.session.SetOrbit(cam.Radius, cam.Azimuth, cam.Elevation)
	}

	if err := s.session.Save(); err != nil {
		log.Printf("[ConfiguratorScene] Failed to save session: %v", err)
		return false
	}
	return true
}

// State 返回共享状态
func (s *ConfiguratorScene) State() *game.ConfiguratorState {
	return s.state
}
