package components

import "github.com/gonewx/configurator/pkg/types"

// TierButtonComponent 配置档位悬停按钮
//
// 鼠标进入按钮区域时触发一次档位切换（对应网页中的 mouseenter）。
type TierButtonComponent struct {
	// Tier 按钮代表的档位
	Tier types.Tier

	// X, Y 左上角屏幕坐标
	X, Y float64
	// Width, Height 尺寸（像素）
	Width, Height float64

	// State 当前交互状态
	State UIState

	// Highlight 悬停高亮强度（0.0 - 1.0），由弹簧平滑过渡
	Highlight float64
	// HighlightVelocity 弹簧内部速度
	HighlightVelocity float64

	// Selected 是否为当前生效的档位
	Selected bool
}
