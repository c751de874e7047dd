package config

import (
	"reflect"
	"strings"
	"testing"

	"github.com/gonewx/configurator/pkg/types"
)

func newTestTierTable(t *testing.T) *TierTable {
	t.Helper()
	table, err := NewTierTable(map[string][]string{
		"1K":  {},
		"1K+": {"plus"},
		"2K":  {"tier2"},
		"2K+": {"plus", "tier2"},
		"3K":  {"plus", "tier2", "tier3"},
		"3K+": {"plus", "tier2", "tier3", "tier3plus"},
	}, []string{"plus", "tier2", "tier3", "tier3plus"})
	if err != nil {
		t.Fatalf("NewTierTable failed: %v", err)
	}
	return table
}

func TestTierTable_VisibleKeys(t *testing.T) {
	table := newTestTierTable(t)

	tests := []struct {
		tier types.Tier
		want []string
	}{
		{types.Tier1, []string{}},
		{types.Tier1Plus, []string{"plus"}},
		{types.Tier2, []string{"tier2"}},
		{types.Tier2Plus, []string{"plus", "tier2"}},
		{types.Tier3, []string{"plus", "tier2", "tier3"}},
		{types.Tier3Plus, []string{"plus", "tier2", "tier3", "tier3plus"}},
	}

	for _, tt := range tests {
		t.Run(tt.tier.ID(), func(t *testing.T) {
			got := table.VisibleKeys(tt.tier)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("VisibleKeys(%s) = %v, want %v", tt.tier.ID(), got, tt.want)
			}
			for _, key := range []string{"plus", "tier2", "tier3", "tier3plus"} {
				inSet := false
				for _, k := range tt.want {
					inSet = inSet || k == key
				}
				if table.IsVisible(tt.tier, key) != inSet {
					t.Errorf("IsVisible(%s, %s) = %v", tt.tier.ID(), key, !inSet)
				}
			}
		})
	}
}

func TestTierTable_PanicsOnUnknownTier(t *testing.T) {
	table := newTestTierTable(t)

	defer func() {
		r := recover()
		if r == nil {
			t.Fatal("IsVisible with an out-of-range tier should panic")
		}
		if !strings.Contains(r.(string), "unknown configuration tier") {
			t.Errorf("unexpected panic value: %v", r)
		}
	}()
	table.IsVisible(types.Tier(42), "plus")
}

func TestNewTierTable_DuplicateAlias(t *testing.T) {
	_, err := NewTierTable(map[string][]string{
		"1K":    {},
		"Tier1": {},
	}, nil)
	if err == nil || !strings.Contains(err.Error(), "defined twice") {
		t.Errorf("expected duplicate tier error, got %v", err)
	}
}
