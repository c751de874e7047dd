package components

import (
	"image/color"

	"github.com/gonewx/configurator/internal/assets"
	"github.com/gonewx/configurator/pkg/ecs"
)

// AssemblyComponent 可渲染部件
//
// 部件实体由资源加载系统在模型加载完成后创建，
// 可见性控制系统只修改 Visible。
type AssemblyComponent struct {
	// Key 部件唯一标识（与配置中的 key 一致）
	Key string

	// Visible 是否显示
	Visible bool

	// TierControlled 是否由配置档位控制显隐
	TierControlled bool

	// Primary 是否为可点击旋转的主部件
	Primary bool

	// LabelEntity 附着的标签实体，0 表示无标签
	LabelEntity ecs.EntityID
}

// MeshComponent 部件的线框几何
type MeshComponent struct {
	Asset *assets.Asset
	Color color.RGBA
}
