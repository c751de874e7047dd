package systems

import (
	"testing"

	"github.com/gonewx/configurator/pkg/components"
	"github.com/gonewx/configurator/pkg/ecs"
	"github.com/gonewx/configurator/pkg/types"
	"github.com/gonewx/configurator/pkg/utils"
)

func newTestButtons(t *testing.T) (*testEnv, *TierButtonSystem) {
	t.Helper()
	env := newTestEnv(t)
	env.loadAll(t)
	return env, NewTierButtonSystem(env.em, env.state, env.interaction, env.visibility)
}

// buttonCenter 第 index 个按钮的中心
func buttonCenter(env *testEnv, index int) (int, int) {
	x, y, w, h := env.state.Config.ButtonRect(index)
	return int(x + w/2), int(y + h/2)
}

// TestTierButtonSystem_CreatesSixButtons 测试按钮数量和顺序
func TestTierButtonSystem_CreatesSixButtons(t *testing.T) {
	env, bs := newTestButtons(t)

	if len(bs.buttons) != len(types.AllTiers()) {
		t.Fatalf("Expected %d buttons, got %d", len(types.AllTiers()), len(bs.buttons))
	}
	for i, id := range bs.buttons {
		button, ok := ecs.GetComponent[*components.TierButtonComponent](env.em, id)
		if !ok {
			t.Fatalf("button %d missing component", i)
		}
		if button.Tier != types.AllTiers()[i] {
			t.Errorf("button %d tier = %v, want %v", i, button.Tier, types.AllTiers()[i])
		}
	}
}

// TestTierButtonSystem_HoverEnterAppliesTier 测试鼠标进入按钮时切换档位
func TestTierButtonSystem_HoverEnterAppliesTier(t *testing.T) {
	env, bs := newTestButtons(t)

	x, y := buttonCenter(env, 3) // 2K+
	bs.Update(utils.PointerState{X: x, Y: y})

	tier, ok := env.visibility.CurrentTier()
	if !ok || tier != types.Tier2Plus {
		t.Fatalf("CurrentTier() = %v, %v; want 2K+", tier, ok)
	}
	if !env.assembly(t, "plus").Visible || !env.assembly(t, "tier2").Visible {
		t.Error("2K+ should show plus and tier2")
	}

	button, _ := ecs.GetComponent[*components.TierButtonComponent](env.em, bs.buttons[3])
	if button.State != components.UIHovered {
		t.Errorf("Expected Hovered, got %v", button.State)
	}
	if !button.Selected {
		t.Error("hovered tier button should be selected")
	}
}

// TestTierButtonSystem_HoverFiresOnce 测试停留在按钮上不会重复触发
func TestTierButtonSystem_HoverFiresOnce(t *testing.T) {
	env, bs := newTestButtons(t)
	x, y := buttonCenter(env, 1)

	bs.Update(utils.PointerState{X: x, Y: y})
	env.state.TakeChanged()
	bs.Update(utils.PointerState{X: x, Y: y})

	if env.state.TakeChanged() {
		t.Error("staying inside a button should not re-apply the tier")
	}
}

// TestTierButtonSystem_LeaveKeepsTier 测试离开按钮后档位保持
func TestTierButtonSystem_LeaveKeepsTier(t *testing.T) {
	env, bs := newTestButtons(t)
	x, y := buttonCenter(env, 5)

	bs.Update(utils.PointerState{X: x, Y: y})
	bs.Update(utils.PointerState{X: 900, Y: 600})

	tier, _ := env.visibility.CurrentTier()
	if tier != types.Tier3Plus {
		t.Errorf("tier should stay 3K+ after leaving, got %v", tier)
	}
	button, _ := ecs.GetComponent[*components.TierButtonComponent](env.em, bs.buttons[5])
	if button.State != components.UINormal {
		t.Errorf("Expected Normal after leaving, got %v", button.State)
	}
}

// TestTierButtonSystem_HighlightSpring 测试高亮向目标收敛
func TestTierButtonSystem_HighlightSpring(t *testing.T) {
	env, bs := newTestButtons(t)
	x, y := buttonCenter(env, 0)

	for i := 0; i < 180; i++ {
		bs.Update(utils.PointerState{X: x, Y: y})
	}
	button, _ := ecs.GetComponent[*components.TierButtonComponent](env.em, bs.buttons[0])
	if button.Highlight < 0.9 || button.Highlight > 1.1 {
		t.Errorf("highlight should settle near 1 while hovered, got %v", button.Highlight)
	}
}

// TestTierButtonSystem_HitTest 测试按钮命中检测
func TestTierButtonSystem_HitTest(t *testing.T) {
	env, bs := newTestButtons(t)
	x, y := buttonCenter(env, 2)

	if !bs.HitTest(x, y) {
		t.Error("button center should be a hit")
	}
	if bs.HitTest(900, 600) {
		t.Error("far corner should not be a hit")
	}
}
