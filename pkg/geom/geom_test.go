package geom

import (
	"math"
	"testing"
)

func TestRectClamp(t *testing.T) {
	r := Canvas(760, 900)
	tests := []struct {
		name string
		in   Point
		want Point
	}{
		{"inside", Pt(10, 20), Pt(10, 20)},
		{"left of canvas", Pt(-5, 20), Pt(0, 20)},
		{"below canvas", Pt(100, 950), Pt(100, 900)},
		{"corner", Pt(1000, -1), Pt(760, 0)},
		{"nan", Pt(math.NaN(), 5), Pt(0, 5)},
		{"inf", Pt(math.Inf(1), math.Inf(-1)), Pt(760, 0)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := r.Clamp(tt.in); got != tt.want {
				t.Errorf("Clamp(%v) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestRectClampIdempotent(t *testing.T) {
	rects := []Rect{Canvas(760, 900), Canvas(0, 0), {MinX: 10, MinY: 10, MaxX: 5, MaxY: 50}}
	points := []Point{Pt(-100, 3), Pt(400, 400), Pt(1e9, -1e9), Pt(math.NaN(), math.Inf(1))}
	for _, r := range rects {
		for _, p := range points {
			once := r.Clamp(p)
			if twice := r.Clamp(once); twice != once {
				t.Errorf("Clamp not idempotent for %v in %+v: %v then %v", p, r, once, twice)
			}
		}
	}
}

func TestLimitsClamp(t *testing.T) {
	l := Limits{MaxDX: 50, MaxDY: 20}
	got := l.Clamp(Offset{DX: 80, DY: -30})
	if got != (Offset{DX: 50, DY: -20}) {
		t.Errorf("Clamp = %v", got)
	}
	if !l.Allows(got) {
		t.Error("clamped offset should be allowed")
	}
	if l.Clamp(got) != got {
		t.Error("Limits.Clamp should be idempotent")
	}
	if l.Allows(Offset{DX: 51}) {
		t.Error("offset beyond MaxDX should not be allowed")
	}
}

func TestPointArithmetic(t *testing.T) {
	p := Pt(10, 20)
	if got := p.Add(Offset{DX: 5, DY: -5}); got != Pt(15, 15) {
		t.Errorf("Add = %v", got)
	}
	if got := Pt(15, 15).Sub(p); got != (Offset{DX: 5, DY: -5}) {
		t.Errorf("Sub = %v", got)
	}
	if d := Pt(0, 0).Dist(Pt(3, 4)); d != 5 {
		t.Errorf("Dist = %v, want 5", d)
	}
	if !(Offset{}).IsZero() {
		t.Error("zero offset should report IsZero")
	}
}
