package viewer

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/meshview/pkg/mesh"
)

func TestNormalLines(t *testing.T) {
	g := &mesh.Geometry{
		Positions: []mgl32.Vec3{{0, 0, 0}, {1, 2, 3}},
		Normals:   []mgl32.Vec3{{0, 1, 0}, {1, 0, 0}},
	}

	tests := []struct {
		name  string
		scale float32
	}{
		{"unit", 1},
		{"fraction", 0.25},
		{"zero", 0},
		{"negative", -2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lines, err := NormalLines(g, tt.scale)
			require.NoError(t, err)
			require.Len(t, lines.Positions, 2*len(g.Positions))
			assert.False(t, lines.Indexed())

			for i, p := range g.Positions {
				assert.Equal(t, p, lines.Positions[2*i], "segment %d start", i)
				assert.Equal(t, p.Add(g.Normals[i].Mul(tt.scale)), lines.Positions[2*i+1], "segment %d end", i)
			}
		})
	}
}

func TestNormalLines_IgnoresIndices(t *testing.T) {
	g := &mesh.Geometry{
		Positions: []mgl32.Vec3{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}},
		Normals:   []mgl32.Vec3{{0, 0, 1}, {0, 0, 1}, {0, 0, 1}},
		Indices:   []uint32{0, 1, 2, 2, 1, 0},
	}
	lines, err := NormalLines(g, 1)
	require.NoError(t, err)
	assert.Len(t, lines.Positions, 6)
}

func TestOverlaySource_ExpandsIndexedCopy(t *testing.T) {
	g := &mesh.Geometry{
		Positions: []mgl32.Vec3{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}, {1, 1, 0}},
		Normals:   []mgl32.Vec3{{0, 0, 1}, {0, 0, 1}, {0, 0, 1}, {1, 0, 0}},
		Indices:   []uint32{0, 1, 2, 2, 1, 3},
	}

	flat, err := overlaySource(g)
	require.NoError(t, err)
	assert.False(t, flat.Indexed())
	require.Len(t, flat.Positions, 6)
	assert.Equal(t, g.Positions[3], flat.Positions[5])
	assert.Equal(t, mgl32.Vec3{1, 0, 0}, flat.Normals[5])

	// the source keeps its indexed layout
	assert.True(t, g.Indexed())
	assert.Len(t, g.Positions, 4)

	plain := &mesh.Geometry{Positions: g.Positions[:3], Normals: g.Normals[:3]}
	same, err := overlaySource(plain)
	require.NoError(t, err)
	assert.Same(t, plain, same)
}

func TestNormalLines_Idempotent(t *testing.T) {
	g := &mesh.Geometry{
		Positions: []mgl32.Vec3{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}},
		Normals:   []mgl32.Vec3{{0, 0, 1}, {0, 0, 1}, {0, 0, 1}},
	}
	a, err := NormalLines(g, 0.5)
	require.NoError(t, err)
	b, err := NormalLines(g, 0.5)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestNormalLines_Mismatch(t *testing.T) {
	g := &mesh.Geometry{
		Positions: []mgl32.Vec3{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}},
		Normals:   []mgl32.Vec3{{0, 0, 1}},
	}
	_, err := NormalLines(g, 1)
	assert.ErrorIs(t, err, mesh.ErrAttributeLengthMismatch)
}
