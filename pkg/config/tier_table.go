package config

import (
	"fmt"
	"sort"

	"github.com/gonewx/configurator/pkg/types"
)

// TierTable 档位 -> 可见部件集合 的静态映射
//
// 初始化后不可修改。每个档位都显式列出应当可见的部件，
// 不在集合中的受控部件一律隐藏，因此任意顺序的档位切换结果都一致。
type TierTable struct {
	visible map[types.Tier]map[string]bool
}

// NewTierTable 构建档位映射
//
// 参数：
//   - raw: 档位标识 -> 可见部件 key 列表
//   - controlled: 所有受档位控制的部件 key
//
// 返回：
//   - error: 缺少档位、档位标识无法识别或引用了非受控部件
func NewTierTable(raw map[string][]string, controlled []string) (*TierTable, error) {
	known := make(map[string]bool, len(controlled))
	for _, key := range controlled {
		known[key] = true
	}

	table := &TierTable{
		visible: make(map[types.Tier]map[string]bool, len(raw)),
	}

	for id, keys := range raw {
		tier, err := types.ParseTier(id)
		if err != nil {
			return nil, fmt.Errorf("tier table: %w", err)
		}
		if _, dup := table.visible[tier]; dup {
			return nil, fmt.Errorf("tier table: tier %s defined twice", tier.ID())
		}

		set := make(map[string]bool, len(keys))
		for _, key := range keys {
			if !known[key] {
				return nil, fmt.Errorf("tier table: tier %s references %q which is not a tier-controlled assembly", tier.ID(), key)
			}
			set[key] = true
		}
		table.visible[tier] = set
	}

	for _, tier := range types.AllTiers() {
		if _, ok := table.visible[tier]; !ok {
			return nil, fmt.Errorf("tier table: missing tier %s", tier.ID())
		}
	}

	return table, nil
}

// IsVisible 返回部件在该档位下是否可见
//
// 档位超出枚举范围属于编程错误，直接 panic。
func (t *TierTable) IsVisible(tier types.Tier, key string) bool {
	set, ok := t.visible[tier]
	if !ok {
		panic(fmt.Sprintf("tier table: %v: %v", types.ErrUnknownTier, tier))
	}
	return set[key]
}

// VisibleKeys 返回档位下可见部件 key（排序后）
func (t *TierTable) VisibleKeys(tier types.Tier) []string {
	keys := make([]string, 0, len(t.visible[tier]))
	for key := range t.visible[tier] {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
