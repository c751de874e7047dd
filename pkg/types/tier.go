// Package types 定义共享的基础类型
// 这个包不依赖任何其他业务包，用于解决循环引用问题
package types

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownTier 表示无法识别的配置档位标识
var ErrUnknownTier = errors.New("unknown configuration tier")

// Tier 产品配置档位（封闭枚举）
//
// 档位对应界面上的悬停按钮 "1K" ~ "3K+"。
type Tier int

const (
	// Tier1 基础档 "1K"
	Tier1 Tier = iota
	// Tier1Plus "1K+"
	Tier1Plus
	// Tier2 "2K"
	Tier2
	// Tier2Plus "2K+"
	Tier2Plus
	// Tier3 "3K"
	Tier3
	// Tier3Plus "3K+"
	Tier3Plus

	tierCount
)

var tierIDs = [tierCount]string{"1K", "1K+", "2K", "2K+", "3K", "3K+"}

var tierNames = [tierCount]string{"Tier1", "Tier1Plus", "Tier2", "Tier2Plus", "Tier3", "Tier3Plus"}

// AllTiers 按界面顺序返回全部档位
func AllTiers() []Tier {
	tiers := make([]Tier, 0, tierCount)
	for t := Tier1; t < tierCount; t++ {
		tiers = append(tiers, t)
	}
	return tiers
}

// Valid 判断档位是否属于枚举范围
func (t Tier) Valid() bool {
	return t >= Tier1 && t < tierCount
}

// ID 返回界面上的档位标识（如 "2K+"）
func (t Tier) ID() string {
	if !t.Valid() {
		return "Unknown"
	}
	return tierIDs[t]
}

// String 返回档位的名称表示（如 "Tier2Plus"）
func (t Tier) String() string {
	if !t.Valid() {
		return fmt.Sprintf("Tier(%d)", int(t))
	}
	return tierNames[t]
}

// ParseTier 解析档位标识
//
// 同时接受界面标识（"1K+"）和名称（"Tier1Plus"，大小写不敏感）。
func ParseTier(s string) (Tier, error) {
	s = strings.TrimSpace(s)
	for t := Tier1; t < tierCount; t++ {
		if strings.EqualFold(s, tierIDs[t]) || strings.EqualFold(s, tierNames[t]) {
			return t, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownTier, s)
}

// MarshalYAML 以界面标识写出档位
func (t Tier) MarshalYAML() (interface{}, error) {
	if !t.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownTier, int(t))
	}
	return t.ID(), nil
}

// UnmarshalYAML 从界面标识或名称读取档位
func (t *Tier) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	parsed, err := ParseTier(s)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}
