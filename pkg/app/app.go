// Package app 提供配置器应用的核心包装器
//
// 该包把启动逻辑从 main 包中提取出来：加载配置、打开会话存储、
// 启动远程桥接并创建配置器场景。
package app

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"io"
	"log"
	"time"

	"github.com/gonewx/configurator/internal/snapshot"
	"github.com/gonewx/configurator/pkg/config"
	"github.com/gonewx/configurator/pkg/embedded"
	"github.com/gonewx/configurator/pkg/game"
	"github.com/gonewx/configurator/pkg/remote"
	"github.com/gonewx/configurator/pkg/scenes"
	"github.com/gonewx/configurator/pkg/types"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// Config 定义应用启动配置
type Config struct {
	// Verbose 启用详细日志输出
	Verbose bool
	// ConfigPath 配置文件路径，"data/" 开头从嵌入资源读取
	ConfigPath string
	// Tier 启动时应用的档位（如 "2K+"），为空则从会话恢复
	Tier string
	// RemoteAddr 远程桥接监听地址，为空则不启用
	RemoteAddr string
	// SnapshotDir F12 截图目录，为空则禁用截图
	SnapshotDir string
	// SnapshotMaxWidth 截图最大宽度，0 表示不缩放
	SnapshotMaxWidth int
	// NoSession 不读写会话
	NoSession bool
}

// App 是配置器应用的核心包装器，实现 ebiten.Game 接口
type App struct {
	cfg          *config.ConfiguratorConfig
	sceneManager *game.SceneManager
	remote       *remote.Server
	snapshots    *snapshot.Saver
	cancel       context.CancelFunc
	closed       bool

	snapshotRequested        bool
	pendingWindowSizeReset   bool // 延迟设置窗口大小标志
	windowSizeResetCountdown int  // 延迟帧数
}

// NewApp 创建并初始化应用
//
// 调用此函数前，必须先调用 embedded.Init() 初始化嵌入资源。
func NewApp(cfg Config) (*App, error) {
	// 配置日志输出
	if !cfg.Verbose {
		log.SetOutput(io.Discard)
		log.SetFlags(0)
	}

	if !embedded.IsInitialized() {
		return nil, fmt.Errorf("embedded 资源未初始化，请先调用 embedded.Init()")
	}

	configPath := cfg.ConfigPath
	if configPath == "" {
		configPath = config.DefaultConfigPath
	}
	sceneCfg, err := config.LoadConfiguratorConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("配置加载失败: %w", err)
	}
	log.Printf("[App] Loaded config %s: %d assemblies", configPath, len(sceneCfg.Assemblies))

	var initialTier *types.Tier
	if cfg.Tier != "" {
		tier, err := types.ParseTier(cfg.Tier)
		if err != nil {
			return nil, fmt.Errorf("--tier: %w", err)
		}
		initialTier = &tier
	}

	var session *game.SessionManager
	if !cfg.NoSession {
		// 存储不可用时降级为内存会话
		manager, err := game.OpenSessionStorage(sceneCfg.Session.AppName)
		if err != nil {
			log.Printf("[App] Warning: %v (session will not persist)", err)
		}
		session = game.NewSessionManager(manager)
	}

	var server *remote.Server
	if cfg.RemoteAddr != "" {
		server = remote.NewServer(64)
		if _, err := server.Start(cfg.RemoteAddr); err != nil {
			return nil, fmt.Errorf("远程桥接启动失败: %w", err)
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	scene := scenes.NewConfiguratorScene(sceneCfg, scenes.Options{
		Context:     ctx,
		InitialTier: initialTier,
		Session:     session,
		Remote:      server,
	})

	sceneManager := game.NewSceneManager()
	sceneManager.SwitchTo(scene)

	a := &App{
		cfg:          sceneCfg,
		sceneManager: sceneManager,
		remote:       server,
		cancel:       cancel,
	}
	if cfg.SnapshotDir != "" {
		a.snapshots = snapshot.NewSaver(cfg.SnapshotDir, cfg.SnapshotMaxWidth)
	}
	return a, nil
}

// WindowSize 返回配置的窗口尺寸
func (a *App) WindowSize() (int, int) {
	return a.cfg.Window.Width, a.cfg.Window.Height
}

// WindowTitle 返回配置的窗口标题
func (a *App) WindowTitle() string {
	return a.cfg.Window.Title
}

// Update 更新应用逻辑
// 每个 tick 调用一次（通常每秒 60 次）
func (a *App) Update() error {
	// 窗口关闭时先保存会话再退出
	if ebiten.IsWindowBeingClosed() {
		a.Close()
		return ebiten.Termination
	}

	// 延迟设置窗口大小（退出全屏后需要等待几帧才能正确设置）
	if a.pendingWindowSizeReset {
		a.windowSizeResetCountdown--
		if a.windowSizeResetCountdown <= 0 {
			w, h := a.WindowSize()
			ebiten.SetWindowSize(w, h)
			log.Printf("[App] Delayed SetWindowSize(%d, %d)", w, h)
			a.pendingWindowSizeReset = false
		}
	}

	// F11 切换全屏
	if inpututil.IsKeyJustPressed(ebiten.KeyF11) {
		if ebiten.IsFullscreen() {
			ebiten.SetFullscreen(false)
			if ebiten.IsWindowMaximized() || ebiten.IsWindowMinimized() {
				ebiten.RestoreWindow()
			}
			a.pendingWindowSizeReset = true
			a.windowSizeResetCountdown = 3
			log.Printf("[App] Exit fullscreen, will reset window size in 3 frames")
		} else {
			ebiten.SetFullscreen(true)
		}
	}

	// F12 截图（在下一次 Draw 中读取像素）
	if a.snapshots != nil && inpututil.IsKeyJustPressed(ebiten.KeyF12) {
		a.snapshotRequested = true
	}

	deltaTime := 1.0 / 60.0
	a.sceneManager.Update(deltaTime)
	return nil
}

// Draw 绘制画面
func (a *App) Draw(screen *ebiten.Image) {
	a.sceneManager.Draw(screen)

	if a.snapshotRequested {
		a.snapshotRequested = false
		img := image.NewRGBA(screen.Bounds())
		screen.ReadPixels(img.Pix)

		// 编码放到后台，避免卡住渲染循环
		go func() {
			path, err := a.snapshots.Save(img)
			if err != nil {
				log.Printf("[App] Snapshot failed: %v", err)
				return
			}
			log.Printf("[App] Snapshot saved: %s", path)
		}()
	}
}

// DrawFinalScreen 实现 FinalScreenDrawer 接口
// 用于控制全屏时的缩放和 letterbox 颜色
func (a *App) DrawFinalScreen(screen ebiten.FinalScreen, offscreen *ebiten.Image, geoM ebiten.GeoM) {
	screen.Fill(color.Black)
	op := &ebiten.DrawImageOptions{}
	op.GeoM = geoM
	op.Filter = ebiten.FilterLinear
	screen.DrawImage(offscreen, op)
}

// Layout 返回逻辑屏幕尺寸
func (a *App) Layout(outsideWidth, outsideHeight int) (int, int) {
	return a.WindowSize()
}

// Close 保存会话、停止后台加载并关闭远程桥接
// 可以重复调用
func (a *App) Close() {
	if a.closed {
		return
	}
	a.closed = true

	a.sceneManager.SaveCurrent()
	a.cancel()

	if a.remote != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := a.remote.Shutdown(ctx); err != nil {
			log.Printf("[App] Remote shutdown: %v", err)
		}
	}
}
