package systems

import (
	"fmt"
	"log"

	"github.com/gonewx/configurator/pkg/components"
	"github.com/gonewx/configurator/pkg/ecs"
	"github.com/gonewx/configurator/pkg/game"
	"github.com/gonewx/configurator/pkg/types"
)

// VisibilitySystem 根据配置档位切换受控部件的显隐
//
// 只修改 AssemblyComponent.Visible 和 LabelComponent.Visible，
// 未受档位控制的部件始终保持原状。
type VisibilitySystem struct {
	entityManager *ecs.EntityManager
	state         *game.ConfiguratorState

	currentTier types.Tier
	hasTier     bool
}

// NewVisibilitySystem 创建可见性控制系统
func NewVisibilitySystem(em *ecs.EntityManager, state *game.ConfiguratorState) *VisibilitySystem {
	return &VisibilitySystem{
		entityManager: em,
		state:         state,
	}
}

// ApplyTier 应用配置档位
//
// 档位集合内的已加载部件显示，其余已加载的受控部件隐藏，随后同步所有标签。
// 尚未加载的部件视为不存在：之后加载完成时保持配置中的初始可见性。
// 重复调用同一档位结果不变。
//
// 档位不在枚举范围内属于编程错误（ParseTier 无法产生），直接 panic。
func (s *VisibilitySystem) ApplyTier(tier types.Tier) {
	if !tier.Valid() {
		panic(fmt.Sprintf("VisibilitySystem.ApplyTier: %v", tier))
	}

	table := s.state.Config.TierTable
	for _, id := range ecs.GetEntitiesWith1[*components.AssemblyComponent](s.entityManager) {
		asm, _ := ecs.GetComponent[*components.AssemblyComponent](s.entityManager, id)
		if !asm.TierControlled {
			continue
		}
		asm.Visible = table.IsVisible(tier, asm.Key)
	}
	s.syncLabels()

	if !s.hasTier || s.currentTier != tier {
		log.Printf("[VisibilitySystem] Tier applied: %s -> %v", tier.ID(), table.VisibleKeys(tier))
	}
	s.currentTier = tier
	s.hasTier = true
	s.state.MarkChanged()
}

// CurrentTier 返回最近一次应用的档位
func (s *VisibilitySystem) CurrentTier() (types.Tier, bool) {
	return s.currentTier, s.hasTier
}

// syncLabels 所有标签的可见性与所属部件一致
func (s *VisibilitySystem) syncLabels() {
	for _, id := range ecs.GetEntitiesWith1[*components.LabelComponent](s.entityManager) {
		label, _ := ecs.GetComponent[*components.LabelComponent](s.entityManager, id)
		owner, ok := ecs.GetComponent[*components.AssemblyComponent](s.entityManager, label.Owner)
		if !ok {
			label.Visible = false
			continue
		}
		label.Visible = owner.Visible
	}
}
