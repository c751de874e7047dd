// Package utils 提供通用工具函数
package utils

import (
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// PointerState 单帧的指针输入快照
//
// 系统只依赖快照而不直接调用 ebiten，测试时可以手工构造。
type PointerState struct {
	// X, Y 指针位置（屏幕坐标）
	X, Y int
	// Pressed 主按键（鼠标左键或触摸）是否按住
	Pressed bool
	// JustPressed 本帧刚按下
	JustPressed bool
	// JustReleased 本帧刚释放
	JustReleased bool
	// WheelY 本帧滚轮增量（向上为正）
	WheelY float64
}

// 保存最后一次触摸位置（触摸释放时 ebiten 已无法查询位置）
var lastTouchX, lastTouchY int

// ReadPointerState 读取当前帧的指针状态
// 同时支持鼠标和触摸输入，优先检测触摸
func ReadPointerState() PointerState {
	state := PointerState{}
	_, state.WheelY = ebiten.Wheel()

	// 触摸输入（移动设备）
	if touchIDs := ebiten.AppendTouchIDs(nil); len(touchIDs) > 0 {
		state.X, state.Y = ebiten.TouchPosition(touchIDs[0])
		lastTouchX, lastTouchY = state.X, state.Y
		state.Pressed = true
		state.JustPressed = len(inpututil.AppendJustPressedTouchIDs(nil)) > 0
		return state
	}
	if len(inpututil.AppendJustReleasedTouchIDs(nil)) > 0 {
		state.X, state.Y = lastTouchX, lastTouchY
		state.JustReleased = true
		return state
	}

	// 鼠标输入（桌面设备）
	state.X, state.Y = ebiten.CursorPosition()
	state.Pressed = ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft)
	state.JustPressed = inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft)
	state.JustReleased = inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonLeft)
	return state
}

// GestureKind 指针手势类型
type GestureKind int

const (
	// GestureNone 无手势
	GestureNone GestureKind = iota
	// GestureDrag 拖拽中（本帧有位移）
	GestureDrag
	// GestureSelect 按下并在阈值内释放（点击）
	GestureSelect
)

// Gesture 单帧识别出的手势
type Gesture struct {
	Kind GestureKind
	// X, Y 点击位置（GestureSelect）
	X, Y int
	// DX, DY 本帧拖拽位移（GestureDrag）
	DX, DY int
}

// DragTracker 区分点击与拖拽
//
// 按下后指针移动距离超过 threshold 即进入拖拽，之后的释放不再视为点击。
type DragTracker struct {
	threshold float64

	tracking       bool
	dragging       bool
	startX, startY int
	lastX, lastY   int
}

// NewDragTracker 创建拖拽识别器
func NewDragTracker(threshold float64) *DragTracker {
	return &DragTracker{threshold: threshold}
}

// Update 根据本帧快照推进状态，返回识别出的手势
func (d *DragTracker) Update(p PointerState) Gesture {
	if p.JustPressed {
		d.tracking = true
		d.dragging = false
		d.startX, d.startY = p.X, p.Y
		d.lastX, d.lastY = p.X, p.Y
		return Gesture{}
	}

	if !d.tracking {
		return Gesture{}
	}

	if p.JustReleased || !p.Pressed {
		wasDragging := d.dragging
		d.tracking = false
		d.dragging = false
		if wasDragging {
			return Gesture{}
		}
		return Gesture{Kind: GestureSelect, X: p.X, Y: p.Y}
	}

	if !d.dragging {
		dist := math.Hypot(float64(p.X-d.startX), float64(p.Y-d.startY))
		if dist < d.threshold {
			return Gesture{}
		}
		d.dragging = true
	}

	dx, dy := p.X-d.lastX, p.Y-d.lastY
	d.lastX, d.lastY = p.X, p.Y
	if dx == 0 && dy == 0 {
		return Gesture{}
	}
	return Gesture{Kind: GestureDrag, DX: dx, DY: dy}
}

// Reset 放弃当前跟踪
func (d *DragTracker) Reset() {
	d.tracking = false
	d.dragging = false
}
