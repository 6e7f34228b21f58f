package lighting

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func TestRegistry_AddKeepsOrder(t *testing.T) {
	r := NewRegistry()

	for i := 0; i < 3; i++ {
		idx := r.Add(mgl32.Vec3{float32(i), 0, 0}, mgl32.Vec3{1, 1, 1})
		if idx != i {
			t.Errorf("expected index %d, got %d", i, idx)
		}
	}

	if r.Len() != 3 {
		t.Fatalf("expected 3 lights, got %d", r.Len())
	}
	for i, p := range r.Positions() {
		if p.X() != float32(i) {
			t.Errorf("light %d: expected x = %d, got %f", i, i, p.X())
		}
	}
}

func TestRegistry_OnChange(t *testing.T) {
	r := NewRegistry()

	var counts []int
	r.OnChange(func(count int) { counts = append(counts, count) })

	r.Add(mgl32.Vec3{}, mgl32.Vec3{1, 0, 0})
	r.Add(mgl32.Vec3{}, mgl32.Vec3{0, 1, 0})

	if len(counts) != 2 || counts[0] != 1 || counts[1] != 2 {
		t.Errorf("expected counts [1 2], got %v", counts)
	}
}

func TestRegistry_CopiesAreIndependent(t *testing.T) {
	r := NewRegistry()
	r.Add(mgl32.Vec3{1, 2, 3}, mgl32.Vec3{1, 1, 1})

	pos := r.Positions()
	pos[0] = mgl32.Vec3{9, 9, 9}

	if r.Light(0).Position != (mgl32.Vec3{1, 2, 3}) {
		t.Errorf("registry position was mutated: %v", r.Light(0).Position)
	}
}

func TestRegistry_Full(t *testing.T) {
	r := NewRegistry()
	for i := 0; i < MaxPointLights; i++ {
		r.Add(mgl32.Vec3{}, mgl32.Vec3{})
	}
	if idx := r.Add(mgl32.Vec3{}, mgl32.Vec3{}); idx != -1 {
		t.Errorf("expected -1 for full registry, got %d", idx)
	}
	if r.Len() != MaxPointLights {
		t.Errorf("expected %d lights, got %d", MaxPointLights, r.Len())
	}
}

func TestFlatten(t *testing.T) {
	flat := Flatten([]mgl32.Vec3{{1, 2, 3}, {4, 5, 6}})
	want := []float32{1, 2, 3, 4, 5, 6}
	if len(flat) != len(want) {
		t.Fatalf("expected %d floats, got %d", len(want), len(flat))
	}
	for i := range want {
		if flat[i] != want[i] {
			t.Errorf("index %d: expected %f, got %f", i, want[i], flat[i])
		}
	}
}
