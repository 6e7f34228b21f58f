package mesh

// Interleaved vertex layout shared with the GPU renderer. Every vertex holds
// all five attributes; absent ones are filled with defaults.
const (
	AttribPosition = 0
	AttribNormal   = 1
	AttribUV       = 2
	AttribTangent  = 3
	AttribColor    = 4
)

// Float offsets within one interleaved vertex.
const (
	OffsetPosition = 0
	OffsetNormal   = 3
	OffsetUV       = 6
	OffsetTangent  = 8
	OffsetColor    = 12
	VertexStride   = 15
)

// Interleave packs the geometry into VertexStride floats per vertex.
// Missing normals are zero, missing UVs are zero, missing tangents are
// (1, 0, 0, 1) and missing colors are white.
func Interleave(g *Geometry) []float32 {
	n := g.VertexCount()
	out := make([]float32, n*VertexStride)

	for i := 0; i < n; i++ {
		v := out[i*VertexStride : (i+1)*VertexStride]
		copy(v[OffsetPosition:], g.Positions[i][:])
		if len(g.Normals) == n {
			copy(v[OffsetNormal:], g.Normals[i][:])
		}
		if len(g.UVs) == n {
			copy(v[OffsetUV:], g.UVs[i][:])
		}
		if len(g.Tangents) == n {
			copy(v[OffsetTangent:], g.Tangents[i][:])
		} else {
			v[OffsetTangent], v[OffsetTangent+3] = 1, 1
		}
		if len(g.Colors) == n {
			copy(v[OffsetColor:], g.Colors[i][:])
		} else {
			v[OffsetColor], v[OffsetColor+1], v[OffsetColor+2] = 1, 1, 1
		}
	}
	return out
}
