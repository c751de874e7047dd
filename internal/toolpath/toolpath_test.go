package toolpath

import (
	"errors"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

func TestParse_PreservesLayerOrder(t *testing.T) {
	data := []byte(`{
		"Meta": {"unit": "mm"},
		"Toolpath": {
			"Layer10": {"Positions": ["1,2,3", "4,5,6"]},
			"Layer2":  {"Positions": ["7,8,9"]},
			"Layer0":  {"Positions": []}
		}
	}`)

	tp, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}

	wantNames := []string{"Layer10", "Layer2", "Layer0"}
	if len(tp.Layers) != len(wantNames) {
		t.Fatalf("Expected %d layers, got %d", len(wantNames), len(tp.Layers))
	}
	for i, name := range wantNames {
		if tp.Layers[i].Name != name {
			t.Errorf("layer %d = %q, want %q", i, tp.Layers[i].Name, name)
		}
	}

	points := tp.Points()
	want := []mgl64.Vec3{{1, 2, 3}, {4, 5, 6}, {7, 8, 9}}
	if len(points) != len(want) {
		t.Fatalf("Expected %d points, got %d", len(want), len(points))
	}
	for i := range want {
		if points[i] != want[i] {
			t.Errorf("point %d = %v, want %v", i, points[i], want[i])
		}
	}
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"不是对象", `[1,2,3]`},
		{"空输入", ``},
		{"坐标分量不足", `{"Toolpath": {"L": {"Positions": ["1,2"]}}}`},
		{"坐标不是数字", `{"Toolpath": {"L": {"Positions": ["a,b,c"]}}}`},
		{"Toolpath 不是对象", `{"Toolpath": []}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Parse([]byte(tt.data)); err == nil {
				t.Errorf("Parse(%q) should fail", tt.data)
			}
		})
	}

	t.Run("缺少 Toolpath", func(t *testing.T) {
		_, err := Parse([]byte(`{"Other": 1}`))
		if !errors.Is(err, ErrNoToolpath) {
			t.Errorf("Expected ErrNoToolpath, got %v", err)
		}
	})
}

func TestToScene(t *testing.T) {
	got := ToScene(mgl64.Vec3{350, 500, 1300})
	want := mgl64.Vec3{0.35, 0.3, 0}
	if !got.ApproxEqualThreshold(want, 1e-12) {
		t.Errorf("ToScene = %v, want %v", got, want)
	}
}

func TestScenePoints(t *testing.T) {
	tp := &Toolpath{Layers: []Layer{
		{Name: "a", Points: []mgl64.Vec3{{1000, 0, 1000}}},
		{Name: "b", Points: []mgl64.Vec3{{0, 500, 2000}}},
	}}

	points := tp.ScenePoints()
	want := []mgl64.Vec3{{1, 0, -0.5}, {0, 1, 0}}
	for i := range want {
		if !points[i].ApproxEqualThreshold(want[i], 1e-12) {
			t.Errorf("point %d = %v, want %v", i, points[i], want[i])
		}
	}

	// 原始层数据不被修改
	if tp.Layers[0].Points[0] != (mgl64.Vec3{1000, 0, 1000}) {
		t.Error("ScenePoints must not mutate the layers")
	}
}
