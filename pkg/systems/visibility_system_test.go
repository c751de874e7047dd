package systems

import (
	"testing"

	"github.com/gonewx/configurator/pkg/types"
)

var tierControlledKeys = []string{"plus", "tier2", "tier3", "tier3plus"}

// TestVisibilitySystem_ApplyTier 测试每个档位的显隐结果
func TestVisibilitySystem_ApplyTier(t *testing.T) {
	tests := []struct {
		tier    types.Tier
		visible []string
	}{
		{types.Tier1, nil},
		{types.Tier1Plus, []string{"plus"}},
		{types.Tier2, []string{"tier2"}},
		{types.Tier2Plus, []string{"plus", "tier2"}},
		{types.Tier3, []string{"plus", "tier2", "tier3"}},
		{types.Tier3Plus, []string{"plus", "tier2", "tier3", "tier3plus"}},
	}

	for _, tt := range tests {
		t.Run(tt.tier.ID(), func(t *testing.T) {
			env := newTestEnv(t)
			env.loadAll(t)

			env.visibility.ApplyTier(tt.tier)

			want := make(map[string]bool)
			for _, key := range tt.visible {
				want[key] = true
			}
			for _, key := range tierControlledKeys {
				if got := env.assembly(t, key).Visible; got != want[key] {
					t.Errorf("%s visible = %v, want %v", key, got, want[key])
				}
			}

			// 非受控部件不受影响
			for _, key := range []string{"carter01", "base"} {
				if !env.assembly(t, key).Visible {
					t.Errorf("%s should stay visible", key)
				}
			}

			tier, ok := env.visibility.CurrentTier()
			if !ok || tier != tt.tier {
				t.Errorf("CurrentTier() = %v, %v; want %v", tier, ok, tt.tier)
			}
		})
	}
}

// TestVisibilitySystem_HidesVisibleAssemblies 测试从全部可见切换到较低档位
func TestVisibilitySystem_HidesVisibleAssemblies(t *testing.T) {
	tests := []struct {
		name string
		tier types.Tier
		want map[string]bool
	}{
		{
			name: "1K+ 隐藏 2K 和 3K 部件",
			tier: types.Tier1Plus,
			want: map[string]bool{"plus": true, "tier2": false, "tier3": false, "tier3plus": false},
		},
		{
			name: "1K 隐藏全部受控部件",
			tier: types.Tier1,
			want: map[string]bool{"plus": false, "tier2": false, "tier3": false, "tier3plus": false},
		},
		{
			name: "2K 只保留 2K 部件",
			tier: types.Tier2,
			want: map[string]bool{"plus": false, "tier2": true, "tier3": false, "tier3plus": false},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			env.loadAll(t)

			// 所有受控部件及其标签先处于可见状态
			for _, key := range tierControlledKeys {
				asm := env.assembly(t, key)
				asm.Visible = true
				if asm.LabelEntity != 0 {
					env.label(t, key).Visible = true
				}
			}

			env.visibility.ApplyTier(tt.tier)

			for key, want := range tt.want {
				asm := env.assembly(t, key)
				if asm.Visible != want {
					t.Errorf("%s visible = %v, want %v", key, asm.Visible, want)
				}
				if asm.LabelEntity != 0 && env.label(t, key).Visible != want {
					t.Errorf("label of %s visible = %v, want %v", key, env.label(t, key).Visible, want)
				}
			}
		})
	}
}

// TestVisibilitySystem_LabelsFollowOwner 测试标签与所属部件同步
func TestVisibilitySystem_LabelsFollowOwner(t *testing.T) {
	env := newTestEnv(t)
	env.loadAll(t)

	for _, tier := range types.AllTiers() {
		env.visibility.ApplyTier(tier)
		for _, key := range []string{"plus", "tier2", "tier3plus"} {
			if env.label(t, key).Visible != env.assembly(t, key).Visible {
				t.Errorf("tier %s: label of %s out of sync", tier.ID(), key)
			}
		}
	}
}

// TestVisibilitySystem_Idempotent 测试重复应用同一档位结果不变
func TestVisibilitySystem_Idempotent(t *testing.T) {
	env := newTestEnv(t)
	env.loadAll(t)

	env.visibility.ApplyTier(types.Tier2Plus)
	first := make(map[string]bool)
	for _, key := range tierControlledKeys {
		first[key] = env.assembly(t, key).Visible
	}

	env.visibility.ApplyTier(types.Tier2Plus)
	for _, key := range tierControlledKeys {
		if env.assembly(t, key).Visible != first[key] {
			t.Errorf("%s changed on repeated apply", key)
		}
	}
}

// TestVisibilitySystem_UncontrolledUntouched 测试非受控部件的手动状态被保留
func TestVisibilitySystem_UncontrolledUntouched(t *testing.T) {
	env := newTestEnv(t)
	env.loadAll(t)

	env.assembly(t, "base").Visible = false
	env.visibility.ApplyTier(types.Tier3Plus)
	if env.assembly(t, "base").Visible {
		t.Error("ApplyTier must not touch assemblies outside tier control")
	}
}

// TestVisibilitySystem_LateLoad 测试档位应用后才加载完成的部件保持初始可见性
func TestVisibilitySystem_LateLoad(t *testing.T) {
	env := newTestEnv(t)
	env.load(t, "carter01")

	// 只有已加载的部件受影响，未加载的部件视为不存在
	env.visibility.ApplyTier(types.Tier2)

	env.load(t, "tier2")
	env.load(t, "plus")

	if env.assembly(t, "tier2").Visible {
		t.Error("tier2 loaded after 2K was applied should keep its initial visibility")
	}
	if env.assembly(t, "plus").Visible {
		t.Error("plus loaded after 2K was applied should keep its initial visibility")
	}
	if env.label(t, "tier2").Visible || env.label(t, "plus").Visible {
		t.Error("labels of late-loaded assemblies should follow their owners")
	}

	// 再次悬停时才生效
	env.visibility.ApplyTier(types.Tier2)
	if !env.assembly(t, "tier2").Visible || !env.label(t, "tier2").Visible {
		t.Error("tier2 should be visible once 2K is applied after it loaded")
	}
}

// TestVisibilitySystem_InitialVisibility 测试未应用档位前保持配置的初始可见性
func TestVisibilitySystem_InitialVisibility(t *testing.T) {
	env := newTestEnv(t)
	env.loadAll(t)

	if _, ok := env.visibility.CurrentTier(); ok {
		t.Error("no tier should be current before ApplyTier")
	}
	for _, key := range tierControlledKeys {
		if env.assembly(t, key).Visible {
			t.Errorf("%s should start hidden", key)
		}
	}
	if !env.assembly(t, "carter01").Visible {
		t.Error("primary should start visible")
	}
}

// TestVisibilitySystem_MarksChanged 测试应用档位会标记状态变化
func TestVisibilitySystem_MarksChanged(t *testing.T) {
	env := newTestEnv(t)
	env.state.TakeChanged()

	env.visibility.ApplyTier(types.Tier1)
	if !env.state.TakeChanged() {
		t.Error("ApplyTier should mark state changed")
	}
}

// TestVisibilitySystem_InvalidTierPanics 测试越界档位 panic
func TestVisibilitySystem_InvalidTierPanics(t *testing.T) {
	env := newTestEnv(t)

	defer func() {
		if recover() == nil {
			t.Error("ApplyTier with an invalid tier should panic")
		}
	}()
	env.visibility.ApplyTier(types.Tier(99))
}
