package utils

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

func TestOrbitRoundTrip(t *testing.T) {
	offsets := []mgl64.Vec3{
		{3, 3, 3},
		{0, 0, 5},
		{-2, 1, 0.5},
		{1, -4, -1},
	}

	for _, offset := range offsets {
		r, az, el := OrbitFromOffset(offset)
		if math.Abs(r-offset.Len()) > 1e-9 {
			t.Errorf("OrbitFromOffset(%v) radius = %v, want %v", offset, r, offset.Len())
		}
		back := OrbitOffset(r, az, el)
		if !back.ApproxEqualThreshold(offset, 1e-9) {
			t.Errorf("OrbitOffset(OrbitFromOffset(%v)) = %v", offset, back)
		}
	}
}

func TestOrbitOffsetAxes(t *testing.T) {
	tests := []struct {
		name       string
		az, el     float64
		wantOffset mgl64.Vec3
	}{
		{"正前方", 0, 0, mgl64.Vec3{0, 0, 2}},
		{"右侧", math.Pi / 2, 0, mgl64.Vec3{2, 0, 0}},
		{"正上方", 0, math.Pi / 2, mgl64.Vec3{0, 2, 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := OrbitOffset(2, tt.az, tt.el)
			if !got.ApproxEqualThreshold(tt.wantOffset, 1e-9) {
				t.Errorf("OrbitOffset(2, %v, %v) = %v, want %v", tt.az, tt.el, got, tt.wantOffset)
			}
		})
	}
}

func TestOrbitFromZeroOffset(t *testing.T) {
	r, az, el := OrbitFromOffset(mgl64.Vec3{})
	if r != 0 || az != 0 || el != 0 {
		t.Errorf("OrbitFromOffset(0) = (%v, %v, %v), want zeros", r, az, el)
	}
}
