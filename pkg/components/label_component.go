package components

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/gonewx/configurator/pkg/ecs"
)

// LabelComponent 附着在部件上的文字标签
//
// 标签始终属于唯一的部件，Visible 在每次可见性变化后与部件同步。
type LabelComponent struct {
	// Owner 所属部件实体
	Owner ecs.EntityID

	// Text 标签文字
	Text string

	// Offset 相对部件原点的偏移（世界坐标）
	Offset mgl64.Vec3

	// Visible 与所属部件的 Visible 保持一致
	Visible bool
}
