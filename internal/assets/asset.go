// Package assets 异步加载部件模型描述
//
// 模型描述是一个 YAML 文件，由若干轴对齐盒子组成，
// 既用于线框绘制，也用于点击射线检测。
package assets

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
	"gopkg.in/yaml.v3"
)

// Box 模型局部空间中的轴对齐盒子
type Box struct {
	Min mgl64.Vec3 `yaml:"min"`
	Max mgl64.Vec3 `yaml:"max"`
}

// Asset 已加载的部件模型
type Asset struct {
	Path  string `yaml:"-"`
	Name  string `yaml:"name"`
	Color string `yaml:"color"`
	Boxes []Box  `yaml:"boxes"`
}

// Segment 线框的一条边
type Segment struct {
	A, B mgl64.Vec3
}

// ParseAsset 解析模型描述
func ParseAsset(path string, data []byte) (*Asset, error) {
	var asset Asset
	if err := yaml.Unmarshal(data, &asset); err != nil {
		return nil, fmt.Errorf("failed to parse asset YAML: %w", err)
	}
	asset.Path = path

	if len(asset.Boxes) == 0 {
		return nil, fmt.Errorf("asset has no boxes")
	}
	for i, box := range asset.Boxes {
		for axis := 0; axis < 3; axis++ {
			if box.Min[axis] > box.Max[axis] {
				return nil, fmt.Errorf("box #%d: min[%d]=%v greater than max[%d]=%v", i, axis, box.Min[axis], axis, box.Max[axis])
			}
		}
	}
	return &asset, nil
}

// Bounds 返回包围所有盒子的局部空间包围盒
func (a *Asset) Bounds() Box {
	bounds := a.Boxes[0]
	for _, box := range a.Boxes[1:] {
		for axis := 0; axis < 3; axis++ {
			bounds.Min[axis] = min(bounds.Min[axis], box.Min[axis])
			bounds.Max[axis] = max(bounds.Max[axis], box.Max[axis])
		}
	}
	return bounds
}

// Edges 返回所有盒子的 12 条边（局部空间）
func (a *Asset) Edges() []Segment {
	segments := make([]Segment, 0, len(a.Boxes)*12)
	for _, box := range a.Boxes {
		segments = append(segments, box.Edges()...)
	}
	return segments
}

// Corners 返回盒子的 8 个顶点
//
// 顶点下标的第 0/1/2 位分别选择 x/y/z 取 Max 还是 Min。
func (b Box) Corners() [8]mgl64.Vec3 {
	var corners [8]mgl64.Vec3
	for i := 0; i < 8; i++ {
		for axis := 0; axis < 3; axis++ {
			if i&(1<<axis) != 0 {
				corners[i][axis] = b.Max[axis]
			} else {
				corners[i][axis] = b.Min[axis]
			}
		}
	}
	return corners
}

// Edges 返回盒子的 12 条边
func (b Box) Edges() []Segment {
	corners := b.Corners()
	segments := make([]Segment, 0, 12)
	for i := 0; i < 8; i++ {
		for axis := 0; axis < 3; axis++ {
			j := i | (1 << axis)
			if j != i {
				segments = append(segments, Segment{A: corners[i], B: corners[j]})
			}
		}
	}
	return segments
}
