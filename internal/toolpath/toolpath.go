// Package toolpath 解析刀路 JSON 并映射到场景坐标
//
// 文件格式：
//
//	{"Toolpath": {"<layer>": {"Positions": ["x,y,z", ...]}, ...}}
//
// 所有层按文件中的出现顺序展平成一条折线。
package toolpath

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
)

// ErrNoToolpath 文件中没有 Toolpath 对象
var ErrNoToolpath = errors.New("toolpath object not found")

// Layer 一层刀路
type Layer struct {
	Name   string
	Points []mgl64.Vec3 // 机床坐标（毫米）
}

// Toolpath 解析后的刀路
type Toolpath struct {
	Layers []Layer
}

type rawLayer struct {
	Positions []string `json:"Positions"`
}

// Parse 解析刀路 JSON，保留层的出现顺序
func Parse(data []byte) (*Toolpath, error) {
	dec := json.NewDecoder(bytes.NewReader(data))

	if err := expectDelim(dec, '{'); err != nil {
		return nil, err
	}

	for dec.More() {
		key, err := readKey(dec)
		if err != nil {
			return nil, err
		}
		if key != "Toolpath" {
			var skip json.RawMessage
			if err := dec.Decode(&skip); err != nil {
				return nil, fmt.Errorf("failed to skip %q: %w", key, err)
			}
			continue
		}
		return parseLayers(dec)
	}
	return nil, ErrNoToolpath
}

func parseLayers(dec *json.Decoder) (*Toolpath, error) {
	if err := expectDelim(dec, '{'); err != nil {
		return nil, fmt.Errorf("Toolpath: %w", err)
	}

	tp := &Toolpath{}
	for dec.More() {
		name, err := readKey(dec)
		if err != nil {
			return nil, err
		}

		var raw rawLayer
		if err := dec.Decode(&raw); err != nil {
			return nil, fmt.Errorf("layer %q: %w", name, err)
		}

		layer := Layer{Name: name, Points: make([]mgl64.Vec3, 0, len(raw.Positions))}
		for i, pos := range raw.Positions {
			p, err := ParsePosition(pos)
			if err != nil {
				return nil, fmt.Errorf("layer %q position #%d: %w", name, i, err)
			}
			layer.Points = append(layer.Points, p)
		}
		tp.Layers = append(tp.Layers, layer)
	}
	return tp, nil
}

func expectDelim(dec *json.Decoder, want json.Delim) error {
	tok, err := dec.Token()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return fmt.Errorf("unexpected end of input")
		}
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != want {
		return fmt.Errorf("expected %q, got %v", want, tok)
	}
	return nil
}

func readKey(dec *json.Decoder) (string, error) {
	tok, err := dec.Token()
	if err != nil {
		return "", err
	}
	key, ok := tok.(string)
	if !ok {
		return "", fmt.Errorf("expected object key, got %v", tok)
	}
	return key, nil
}

// ParsePosition 解析 "x,y,z"
func ParsePosition(s string) (mgl64.Vec3, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return mgl64.Vec3{}, fmt.Errorf("invalid position %q: want x,y,z", s)
	}
	var v mgl64.Vec3
	for i, part := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
		if err != nil {
			return mgl64.Vec3{}, fmt.Errorf("invalid position %q: %w", s, err)
		}
		v[i] = f
	}
	return v, nil
}

// Points 按层顺序展平所有点
func (tp *Toolpath) Points() []mgl64.Vec3 {
	var all []mgl64.Vec3
	for _, layer := range tp.Layers {
		all = append(all, layer.Points...)
	}
	return all
}

// ToScene 机床坐标（毫米，Z 向上）转场景坐标（米，Y 向上）
//
//	scene = (x/1000, z/1000 - 1, y/1000 - 0.5)
func ToScene(p mgl64.Vec3) mgl64.Vec3 {
	return mgl64.Vec3{p.X() / 1000, p.Z()/1000 - 1, p.Y()/1000 - 0.5}
}

// ScenePoints 展平并映射到场景坐标
func (tp *Toolpath) ScenePoints() []mgl64.Vec3 {
	points := tp.Points()
	for i, p := range points {
		points[i] = ToScene(p)
	}
	return points
}
