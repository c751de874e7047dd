package config

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/gonewx/configurator/pkg/embedded"
	"github.com/gonewx/configurator/pkg/types"
	"gopkg.in/yaml.v3"
)

// DefaultConfigPath 默认配置文件（嵌入资源）
const DefaultConfigPath = "data/configurator.yaml"

// WindowConfig 窗口配置
type WindowConfig struct {
	Width      int    `yaml:"width"`      // 逻辑屏幕宽度（像素）
	Height     int    `yaml:"height"`     // 逻辑屏幕高度（像素）
	Title      string `yaml:"title"`      // 窗口标题
	Background string `yaml:"background"` // 背景色，"#RRGGBB"
}

// AssemblyConfig 单个可渲染部件的配置
type AssemblyConfig struct {
	Key            string     `yaml:"key"`            // 部件唯一标识
	Asset          string     `yaml:"asset"`          // 模型描述文件路径
	Visible        bool       `yaml:"visible"`        // 加载完成时的初始可见性
	TierControlled bool       `yaml:"tierControlled"` // 是否由配置档位控制显隐
	Primary        bool       `yaml:"primary"`        // 是否为可点击旋转的主部件
	Label          string     `yaml:"label"`          // 附着在部件上的标签文字，空表示无标签
	LabelOffset    mgl64.Vec3 `yaml:"labelOffset"`    // 标签相对部件原点的偏移
	Position       mgl64.Vec3 `yaml:"position"`       // 世界坐标位置
	Color          string     `yaml:"color"`          // 线框颜色，"#RRGGBB"，空则使用模型描述中的颜色
}

// RotationConfig 主部件往返旋转参数
type RotationConfig struct {
	Speed    float64 `yaml:"speed"`    // 每帧基础步长（弧度）
	MaxAngle float64 `yaml:"maxAngle"` // 旋转上限（弧度），下限固定为 0
}

// CameraConfig 相机与轨道控制参数
type CameraConfig struct {
	FOV                float64               `yaml:"fov"`                // 垂直视角（度）
	Near               float64               `yaml:"near"`               // 近裁剪面
	Far                float64               `yaml:"far"`                // 远裁剪面
	Position           mgl64.Vec3            `yaml:"position"`           // 初始相机位置
	Pivot              mgl64.Vec3            `yaml:"pivot"`              // 初始轨道中心
	LookAtBias         float64               `yaml:"lookAtBias"`         // 过渡时注视点相对主部件的垂直偏移
	TransitionDuration float64               `yaml:"transitionDuration"` // 过渡时长（秒）
	MinRadius          float64               `yaml:"minRadius"`          // 最小缩放距离
	MaxRadius          float64               `yaml:"maxRadius"`          // 最大缩放距离
	MinElevation       float64               `yaml:"minElevation"`       // 最小仰角（弧度）
	MaxElevation       float64               `yaml:"maxElevation"`       // 最大仰角（弧度）
	OrbitSensitivity   float64               `yaml:"orbitSensitivity"`   // 拖拽灵敏度（弧度/像素）
	ZoomSpeed          float64               `yaml:"zoomSpeed"`          // 滚轮缩放速度
	DragThreshold      float64               `yaml:"dragThreshold"`      // 超过此像素距离的按下-释放视为拖拽而非点击
	DefaultTarget      mgl64.Vec3            `yaml:"defaultTarget"`      // 未指定档位目标时的过渡终点
	Targets            map[string]mgl64.Vec3 `yaml:"targets"`            // 档位 -> 过渡终点
}

// ButtonConfig 档位按钮的布局
type ButtonConfig struct {
	X       float64 `yaml:"x"`
	Y       float64 `yaml:"y"`
	Width   float64 `yaml:"width"`
	Height  float64 `yaml:"height"`
	Spacing float64 `yaml:"spacing"`
}

// ToolpathConfig 刀路叠加层
type ToolpathConfig struct {
	Path    string `yaml:"path"`    // JSON 刀路文件，空表示不加载
	Visible bool   `yaml:"visible"` // 启动时是否显示
	Color   string `yaml:"color"`   // 折线颜色
}

// SessionConfig 会话持久化
type SessionConfig struct {
	AppName string `yaml:"appName"` // gdata 存储目录名
	Restore bool   `yaml:"restore"` // 启动时是否恢复上次的档位与视角
}

// ConfiguratorConfig 配置文件结构
type ConfiguratorConfig struct {
	Window     WindowConfig        `yaml:"window"`
	Assemblies []AssemblyConfig    `yaml:"assemblies"`
	Tiers      map[string][]string `yaml:"tiers"`
	Rotation   RotationConfig      `yaml:"rotation"`
	Camera     CameraConfig        `yaml:"camera"`
	Buttons    ButtonConfig        `yaml:"buttons"`
	Toolpath   ToolpathConfig      `yaml:"toolpath"`
	Session    SessionConfig       `yaml:"session"`

	// 以下字段在校验后构建
	TierTable     *TierTable                `yaml:"-"`
	CameraTargets map[types.Tier]mgl64.Vec3 `yaml:"-"`
}

// LoadConfiguratorConfig 从 YAML 文件加载配置
// 参数：
//
//	path - 配置文件路径，"data/" 开头从嵌入资源读取
//
// 返回：
//
//	*ConfiguratorConfig - 解析并校验后的配置
//	error - 文件读取、解析或校验失败
func LoadConfiguratorConfig(path string) (*ConfiguratorConfig, error) {
	data, err := embedded.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read configurator config %s: %w", path, err)
	}

	cfg, err := ParseConfiguratorConfig(data)
	if err != nil {
		return nil, fmt.Errorf("invalid configurator config %s: %w", path, err)
	}
	return cfg, nil
}

// ParseConfiguratorConfig 解析 YAML 内容，补齐默认值并校验
func ParseConfiguratorConfig(data []byte) (*ConfiguratorConfig, error) {
	cfg := &ConfiguratorConfig{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	applyDefaults(cfg)

	if err := validateConfiguratorConfig(cfg); err != nil {
		return nil, err
	}

	table, err := NewTierTable(cfg.Tiers, cfg.tierControlledKeys())
	if err != nil {
		return nil, err
	}
	cfg.TierTable = table

	cfg.CameraTargets = make(map[types.Tier]mgl64.Vec3, len(cfg.Camera.Targets))
	for id, target := range cfg.Camera.Targets {
		tier, err := types.ParseTier(id)
		if err != nil {
			return nil, fmt.Errorf("camera target: %w", err)
		}
		cfg.CameraTargets[tier] = target
	}

	return cfg, nil
}

// applyDefaults 为未填写的字段补齐默认值（与原始场景一致）
func applyDefaults(cfg *ConfiguratorConfig) {
	if cfg.Window.Width == 0 {
		cfg.Window.Width = 960
	}
	if cfg.Window.Height == 0 {
		cfg.Window.Height = 640
	}
	if cfg.Window.Title == "" {
		cfg.Window.Title = "Product Configurator"
	}
	if cfg.Window.Background == "" {
		cfg.Window.Background = "#021129"
	}

	if cfg.Rotation.Speed == 0 {
		cfg.Rotation.Speed = 0.08
	}
	if cfg.Rotation.MaxAngle == 0 {
		cfg.Rotation.MaxAngle = 2
	}

	cam := &cfg.Camera
	if cam.FOV == 0 {
		cam.FOV = 35
	}
	if cam.Near == 0 {
		cam.Near = 0.1
	}
	if cam.Far == 0 {
		cam.Far = 100
	}
	if cam.Position == (mgl64.Vec3{}) {
		cam.Position = mgl64.Vec3{3, 3, 3}
	}
	if cam.TransitionDuration == 0 {
		cam.TransitionDuration = 1
	}
	if cam.MaxRadius == 0 {
		cam.MinRadius, cam.MaxRadius = 1, 20
	}
	if cam.MinElevation == 0 && cam.MaxElevation == 0 {
		cam.MinElevation, cam.MaxElevation = -1.4, 1.4
	}
	if cam.OrbitSensitivity == 0 {
		cam.OrbitSensitivity = 0.01
	}
	if cam.ZoomSpeed == 0 {
		cam.ZoomSpeed = 0.5
	}
	if cam.DragThreshold == 0 {
		cam.DragThreshold = 4
	}
	if cam.DefaultTarget == (mgl64.Vec3{}) {
		cam.DefaultTarget = cam.Position
	}

	if cfg.Buttons.Width == 0 {
		cfg.Buttons = ButtonConfig{X: 20, Y: 20, Width: 64, Height: 28, Spacing: 8}
	}

	if cfg.Toolpath.Color == "" {
		cfg.Toolpath.Color = "#0085eb"
	}
	if cfg.Session.AppName == "" {
		cfg.Session.AppName = "product-configurator"
	}
}

// validateConfiguratorConfig 验证配置的完整性和合法性
func validateConfiguratorConfig(cfg *ConfiguratorConfig) error {
	if len(cfg.Assemblies) == 0 {
		return fmt.Errorf("at least one assembly is required")
	}

	seen := make(map[string]bool, len(cfg.Assemblies))
	primaries := 0
	for i, asm := range cfg.Assemblies {
		if asm.Key == "" {
			return fmt.Errorf("assembly #%d: key is required", i)
		}
		if seen[asm.Key] {
			return fmt.Errorf("assembly %s: duplicate key", asm.Key)
		}
		seen[asm.Key] = true

		if asm.Asset == "" {
			return fmt.Errorf("assembly %s: asset is required", asm.Key)
		}
		if asm.Primary {
			primaries++
		}
		if asm.Color != "" {
			if _, err := ParseHexColor(asm.Color); err != nil {
				return fmt.Errorf("assembly %s: %w", asm.Key, err)
			}
		}
	}
	if primaries != 1 {
		return fmt.Errorf("exactly one primary assembly is required, got %d", primaries)
	}

	if cfg.Rotation.Speed <= 0 {
		return fmt.Errorf("rotation speed must be positive, got %v", cfg.Rotation.Speed)
	}
	if cfg.Rotation.MaxAngle <= 0 {
		return fmt.Errorf("rotation maxAngle must be positive, got %v", cfg.Rotation.MaxAngle)
	}

	cam := cfg.Camera
	if cam.TransitionDuration <= 0 {
		return fmt.Errorf("camera transitionDuration must be positive, got %v", cam.TransitionDuration)
	}
	if cam.MinRadius <= 0 || cam.MinRadius > cam.MaxRadius {
		return fmt.Errorf("camera radius bounds invalid: [%v, %v]", cam.MinRadius, cam.MaxRadius)
	}
	if cam.MinElevation > cam.MaxElevation {
		return fmt.Errorf("camera elevation bounds invalid: [%v, %v]", cam.MinElevation, cam.MaxElevation)
	}
	if cam.Near <= 0 || cam.Far <= cam.Near {
		return fmt.Errorf("camera clip planes invalid: near=%v far=%v", cam.Near, cam.Far)
	}

	if _, err := ParseHexColor(cfg.Window.Background); err != nil {
		return fmt.Errorf("window background: %w", err)
	}
	if _, err := ParseHexColor(cfg.Toolpath.Color); err != nil {
		return fmt.Errorf("toolpath color: %w", err)
	}

	return nil
}

// tierControlledKeys 返回所有受档位控制的部件 key（按配置顺序）
func (cfg *ConfiguratorConfig) tierControlledKeys() []string {
	keys := make([]string, 0, len(cfg.Assemblies))
	for _, asm := range cfg.Assemblies {
		if asm.TierControlled {
			keys = append(keys, asm.Key)
		}
	}
	return keys
}

// PrimaryAssembly 返回主部件配置
func (cfg *ConfiguratorConfig) PrimaryAssembly() AssemblyConfig {
	for _, asm := range cfg.Assemblies {
		if asm.Primary {
			return asm
		}
	}
	return AssemblyConfig{}
}

// CameraTarget 返回档位对应的相机过渡终点，未配置时返回默认终点
func (cfg *ConfiguratorConfig) CameraTarget(tier types.Tier) mgl64.Vec3 {
	if target, ok := cfg.CameraTargets[tier]; ok {
		return target
	}
	return cfg.Camera.DefaultTarget
}

// ButtonRect 计算第 index 个档位按钮的矩形（按钮横向排列）
//
// 返回：
//   - x, y: 左上角坐标
//   - w, h: 宽高
func (cfg *ConfiguratorConfig) ButtonRect(index int) (x, y, w, h float64) {
	b := cfg.Buttons
	return b.X + float64(index)*(b.Width+b.Spacing), b.Y, b.Width, b.Height
}

// ParseHexColor 解析 "#RRGGBB" 或 "#RRGGBBAA" 颜色
func ParseHexColor(s string) (color.RGBA, error) {
	hex := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(hex) != 6 && len(hex) != 8 {
		return color.RGBA{}, fmt.Errorf("invalid color %q: want #RRGGBB", s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("invalid color %q: %w", s, err)
	}
	if len(hex) == 6 {
		return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xff}, nil
	}
	return color.RGBA{R: uint8(v >> 24), G: uint8(v >> 16), B: uint8(v >> 8), A: uint8(v)}, nil
}
