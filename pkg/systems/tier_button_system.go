package systems

import (
	"log"

	"github.com/charmbracelet/harmonica"
	"github.com/gonewx/configurator/pkg/components"
	"github.com/gonewx/configurator/pkg/ecs"
	"github.com/gonewx/configurator/pkg/game"
	"github.com/gonewx/configurator/pkg/types"
	"github.com/gonewx/configurator/pkg/utils"
)

// 高亮弹簧的目标值
const (
	highlightHovered  = 1.0
	highlightSelected = 0.55
)

// TierButtonSystem 配置档位按钮交互系统
//
// 职责：
//   - 创建六个档位按钮实体（横向排列）
//   - 检测鼠标进入按钮（触发一次档位切换，对应网页的 mouseenter）
//   - 用弹簧平滑更新悬停高亮
type TierButtonSystem struct {
	entityManager *ecs.EntityManager
	interaction   *InteractionSystem
	visibility    *VisibilitySystem

	spring  harmonica.Spring
	buttons []ecs.EntityID
}

// NewTierButtonSystem 创建按钮系统并生成按钮实体
func NewTierButtonSystem(em *ecs.EntityManager, state *game.ConfiguratorState, interaction *InteractionSystem, visibility *VisibilitySystem) *TierButtonSystem {
	s := &TierButtonSystem{
		entityManager: em,
		interaction:   interaction,
		visibility:    visibility,
		spring:        harmonica.NewSpring(harmonica.FPS(60), 8.0, 0.8),
	}

	for i, tier := range types.AllTiers() {
		x, y, w, h := state.Config.ButtonRect(i)
		id := em.CreateEntity()
		ecs.AddComponent(em, id, &components.TierButtonComponent{
			Tier:   tier,
			X:      x,
			Y:      y,
			Width:  w,
			Height: h,
			State:  components.UINormal,
		})
		s.buttons = append(s.buttons, id)
	}

	return s
}

// Update 更新按钮悬停状态，进入按钮时触发档位切换
func (s *TierButtonSystem) Update(p utils.PointerState) {
	current, hasTier := s.visibility.CurrentTier()

	for _, id := range s.buttons {
		button, ok := ecs.GetComponent[*components.TierButtonComponent](s.entityManager, id)
		if !ok {
			continue
		}

		hovered := isPointInRect(float64(p.X), float64(p.Y), button.X, button.Y, button.Width, button.Height)
		wasHovered := button.State == components.UIHovered || button.State == components.UIClicked

		switch {
		case hovered && p.Pressed:
			button.State = components.UIClicked
		case hovered:
			button.State = components.UIHovered
		default:
			button.State = components.UINormal
		}

		if hovered && !wasHovered {
			log.Printf("[TierButtonSystem] Hover enter: %s", button.Tier.ID())
			s.interaction.HoverIntent(button.Tier)
			current, hasTier = button.Tier, true
		}

		button.Selected = hasTier && current == button.Tier

		target := 0.0
		if hovered {
			target = highlightHovered
		} else if button.Selected {
			target = highlightSelected
		}
		button.Highlight, button.HighlightVelocity = s.spring.Update(button.Highlight, button.HighlightVelocity, target)
	}
}

// HitTest 屏幕坐标是否落在任一按钮上
func (s *TierButtonSystem) HitTest(x, y int) bool {
	for _, id := range s.buttons {
		button, ok := ecs.GetComponent[*components.TierButtonComponent](s.entityManager, id)
		if ok && isPointInRect(float64(x), float64(y), button.X, button.Y, button.Width, button.Height) {
			return true
		}
	}
	return false
}

// isPointInRect 检测点是否在矩形范围内
func isPointInRect(px, py, x, y, w, h float64) bool {
	return px >= x && px <= x+w && py >= y && py <= y+h
}
