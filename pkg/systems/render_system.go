package systems

import (
	"fmt"
	"image/color"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/gonewx/configurator/pkg/components"
	"github.com/gonewx/configurator/pkg/config"
	"github.com/gonewx/configurator/pkg/ecs"
	"github.com/gonewx/configurator/pkg/game"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// 按钮配色
var (
	buttonFill     = color.RGBA{R: 0x0b, G: 0x2a, B: 0x4a, A: 0xd0}
	buttonHover    = color.RGBA{R: 0x1e, G: 0x6f, B: 0xc0, A: 0xf0}
	buttonBorder   = color.RGBA{R: 0x5a, G: 0x9b, B: 0xd5, A: 0xff}
	selectedBorder = color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
)

// RenderSystem 以线框方式绘制场景
//
// 绘制顺序：背景 -> 部件线框 -> 刀路 -> 标签 -> 档位按钮 -> 状态文字
type RenderSystem struct {
	entityManager *ecs.EntityManager
	state         *game.ConfiguratorState

	background    color.RGBA
	toolpathColor color.RGBA
	toolpath      []mgl64.Vec3 // 场景坐标
}

// NewRenderSystem 创建渲染系统
func NewRenderSystem(em *ecs.EntityManager, state *game.ConfiguratorState) *RenderSystem {
	// 颜色已在配置加载时校验
	bg, _ := config.ParseHexColor(state.Config.Window.Background)
	tp, _ := config.ParseHexColor(state.Config.Toolpath.Color)
	return &RenderSystem{
		entityManager: em,
		state:         state,
		background:    bg,
		toolpathColor: tp,
	}
}

// SetToolpath 设置刀路折线（场景坐标）
func (s *RenderSystem) SetToolpath(points []mgl64.Vec3) {
	s.toolpath = points
}

// Draw 绘制一帧
func (s *RenderSystem) Draw(screen *ebiten.Image, status string) {
	screen.Fill(s.background)

	cam := s.state.Camera()
	if cam == nil {
		return
	}

	bounds := screen.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	view := ViewMatrix(cam)
	proj := ProjectionMatrix(cam, w, h)

	s.drawAssemblies(screen, view, proj, w, h)
	if s.state.ToolpathVisible {
		s.drawPolyline(screen, s.toolpath, s.toolpathColor, view, proj, w, h)
	}
	s.drawLabels(screen, view, proj, w, h)
	s.drawButtons(screen)

	if status != "" {
		ebitenutil.DebugPrintAt(screen, status, 20, h-24)
	}
}

func (s *RenderSystem) drawAssemblies(screen *ebiten.Image, view, proj mgl64.Mat4, w, h int) {
	entities := ecs.GetEntitiesWith3[*components.AssemblyComponent, *components.TransformComponent, *components.MeshComponent](s.entityManager)
	for _, id := range entities {
		asm, _ := ecs.GetComponent[*components.AssemblyComponent](s.entityManager, id)
		if !asm.Visible {
			continue
		}
		transform, _ := ecs.GetComponent[*components.TransformComponent](s.entityManager, id)
		mesh, _ := ecs.GetComponent[*components.MeshComponent](s.entityManager, id)
		if mesh.Asset == nil {
			continue
		}

		model := ModelMatrix(transform)
		for _, edge := range mesh.Asset.Edges() {
			a := mgl64.TransformCoordinate(edge.A, model)
			b := mgl64.TransformCoordinate(edge.B, model)
			s.drawLine3D(screen, a, b, mesh.Color, view, proj, w, h)
		}
	}
}

func (s *RenderSystem) drawPolyline(screen *ebiten.Image, points []mgl64.Vec3, clr color.RGBA, view, proj mgl64.Mat4, w, h int) {
	for i := 1; i < len(points); i++ {
		s.drawLine3D(screen, points[i-1], points[i], clr, view, proj, w, h)
	}
}

// drawLine3D 投影并绘制线段，任一端点不可见时跳过整条线段
func (s *RenderSystem) drawLine3D(screen *ebiten.Image, a, b mgl64.Vec3, clr color.RGBA, view, proj mgl64.Mat4, w, h int) {
	x0, y0, ok0 := ProjectPoint(a, view, proj, w, h)
	x1, y1, ok1 := ProjectPoint(b, view, proj, w, h)
	if !ok0 || !ok1 {
		return
	}
	vector.StrokeLine(screen, float32(x0), float32(y0), float32(x1), float32(y1), 1, clr, true)
}

func (s *RenderSystem) drawLabels(screen *ebiten.Image, view, proj mgl64.Mat4, w, h int) {
	for _, id := range ecs.GetEntitiesWith1[*components.LabelComponent](s.entityManager) {
		label, _ := ecs.GetComponent[*components.LabelComponent](s.entityManager, id)
		if !label.Visible {
			continue
		}
		transform, ok := ecs.GetComponent[*components.TransformComponent](s.entityManager, label.Owner)
		if !ok {
			continue
		}

		x, y, ok := ProjectPoint(transform.Position.Add(label.Offset), view, proj, w, h)
		if !ok {
			continue
		}
		// DebugPrint 字符宽 6 像素，标签居中
		ebitenutil.DebugPrintAt(screen, label.Text, int(x)-len(label.Text)*3, int(y)-8)
	}
}

func (s *RenderSystem) drawButtons(screen *ebiten.Image) {
	for _, id := range ecs.GetEntitiesWith1[*components.TierButtonComponent](s.entityManager) {
		button, _ := ecs.GetComponent[*components.TierButtonComponent](s.entityManager, id)

		fill := blend(buttonFill, buttonHover, button.Highlight)
		x, y := float32(button.X), float32(button.Y)
		bw, bh := float32(button.Width), float32(button.Height)
		vector.DrawFilledRect(screen, x, y, bw, bh, fill, false)

		border := buttonBorder
		if button.Selected {
			border = selectedBorder
		}
		vector.StrokeRect(screen, x, y, bw, bh, 1, border, false)

		text := button.Tier.ID()
		ebitenutil.DebugPrintAt(screen, text, int(button.X+button.Width/2)-len(text)*3, int(button.Y+button.Height/2)-8)
	}
}

// blend 在两种颜色之间插值，t 超出 [0,1] 时夹紧（弹簧可能超调）
func blend(a, b color.RGBA, t float64) color.RGBA {
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}
	mix := func(x, y uint8) uint8 {
		return uint8(float64(x) + (float64(y)-float64(x))*t + 0.5)
	}
	return color.RGBA{R: mix(a.R, b.R), G: mix(a.G, b.G), B: mix(a.B, b.B), A: mix(a.A, b.A)}
}

// StatusText 左下角的状态文字
// failed 为加载失败的部件 key，按给定顺序列出
func StatusText(tier string, pending int, failed []string, toolpath bool) string {
	text := fmt.Sprintf("Tier: %s", tier)
	if pending > 0 {
		text += fmt.Sprintf("  Loading %d...", pending)
	}
	if len(failed) > 0 {
		text += fmt.Sprintf("  Failed: %s", strings.Join(failed, ", "))
	}
	if toolpath {
		text += "  [Toolpath]"
	}
	return text
}
