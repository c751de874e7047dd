package systems

import (
	"log"
	"math"

	"github.com/gonewx/configurator/pkg/components"
	"github.com/gonewx/configurator/pkg/ecs"
	"github.com/gonewx/configurator/pkg/utils"
)

// RotationSystem 推进主部件的往返旋转
//
// 每帧（不按时间缩放）步进一次：
//
//	p     = |Angle / MaxAngle|
//	Angle += Speed * PingPongEase(p, Speed) * Direction
//
// 到达 0 或 MaxAngle 时夹紧、停止并反转方向。
type RotationSystem struct {
	entityManager *ecs.EntityManager
}

// NewRotationSystem 创建旋转系统
func NewRotationSystem(em *ecs.EntityManager) *RotationSystem {
	return &RotationSystem{entityManager: em}
}

// Toggle 切换实体的旋转激活状态
// 旋转中再次触发会在当前角度暂停，下次触发沿原方向继续
func (s *RotationSystem) Toggle(id ecs.EntityID) bool {
	rot, ok := ecs.GetComponent[*components.RotationComponent](s.entityManager, id)
	if !ok {
		return false
	}
	rot.Active = !rot.Active
	log.Printf("[RotationSystem] Entity %d rotation active=%v (angle=%.3f, direction=%+.0f)",
		id, rot.Active, rot.Angle, rot.Direction)
	return true
}

// Update 每帧推进所有激活的旋转，并写回部件的 TransformComponent
func (s *RotationSystem) Update(dt float64) {
	_ = dt // 旋转按帧步进

	for _, id := range ecs.GetEntitiesWith2[*components.RotationComponent, *components.TransformComponent](s.entityManager) {
		rot, _ := ecs.GetComponent[*components.RotationComponent](s.entityManager, id)
		transform, _ := ecs.GetComponent[*components.TransformComponent](s.entityManager, id)
		if rot.Active {
			Step(rot)
		}
		transform.RotationY = rot.Angle
	}
}

// Step 推进一次旋转
// 非激活状态不做任何修改
func Step(rot *components.RotationComponent) {
	if !rot.Active {
		return
	}

	p := 0.0
	if rot.MaxAngle != 0 {
		p = math.Abs(rot.Angle / rot.MaxAngle)
	}
	rot.Angle += rot.Speed * utils.PingPongEase(p, rot.Speed) * rot.Direction

	switch {
	case rot.Angle >= rot.MaxAngle:
		rot.Angle = rot.MaxAngle
		rot.Active = false
		rot.Direction = -rot.Direction
	case rot.Angle <= 0:
		rot.Angle = 0
		rot.Active = false
		rot.Direction = -rot.Direction
	}
}

