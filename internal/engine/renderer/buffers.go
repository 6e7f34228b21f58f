package renderer

import (
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/Faultbox/meshview/pkg/mesh"
)

// geometryKey changes whenever any attribute slice of a geometry is
// replaced or resized, which forces a re-upload.
type geometryKey struct {
	positions, normals, uvs, tangents, colors, indices unsafe.Pointer
	vertices, elements                                 int
}

func keyOf(g *mesh.Geometry) geometryKey {
	return geometryKey{
		positions: unsafe.Pointer(unsafe.SliceData(g.Positions)),
		normals:   unsafe.Pointer(unsafe.SliceData(g.Normals)),
		uvs:       unsafe.Pointer(unsafe.SliceData(g.UVs)),
		tangents:  unsafe.Pointer(unsafe.SliceData(g.Tangents)),
		colors:    unsafe.Pointer(unsafe.SliceData(g.Colors)),
		indices:   unsafe.Pointer(unsafe.SliceData(g.Indices)),
		vertices:  g.VertexCount(),
		elements:  g.ElementCount(),
	}
}

// meshBuffers is the GPU copy of one geometry.
type meshBuffers struct {
	vao, vbo, ebo uint32
	count         int32
	indexed       bool
	key           geometryKey
	lastFrame     uint64
}

// buffersFor returns the buffers for g, uploading it on first use or after
// it changed.
func (r *Renderer) buffersFor(g *mesh.Geometry) *meshBuffers {
	key := keyOf(g)
	b, ok := r.buffers[g]
	if ok && b.key != key {
		b.delete()
		ok = false
	}
	if !ok {
		b = upload(g)
		b.key = key
		r.buffers[g] = b
	}
	b.lastFrame = r.frame
	return b
}

func upload(g *mesh.Geometry) *meshBuffers {
	b := &meshBuffers{count: int32(g.ElementCount()), indexed: g.Indexed()}
	vertices := mesh.Interleave(g)
	const stride = int32(mesh.VertexStride * 4)

	gl.GenVertexArrays(1, &b.vao)
	gl.BindVertexArray(b.vao)

	gl.GenBuffers(1, &b.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, b.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(vertices)*4, gl.Ptr(vertices), gl.STATIC_DRAW)

	if b.indexed && len(g.Indices) > 0 {
		gl.GenBuffers(1, &b.ebo)
		gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, b.ebo)
		gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(g.Indices)*4, gl.Ptr(g.Indices), gl.STATIC_DRAW)
	}

	attribs := []struct {
		loc, size, offset uint32
	}{
		{mesh.AttribPosition, 3, mesh.OffsetPosition},
		{mesh.AttribNormal, 3, mesh.OffsetNormal},
		{mesh.AttribUV, 2, mesh.OffsetUV},
		{mesh.AttribTangent, 4, mesh.OffsetTangent},
		{mesh.AttribColor, 3, mesh.OffsetColor},
	}
	for _, a := range attribs {
		gl.VertexAttribPointerWithOffset(a.loc, int32(a.size), gl.FLOAT, false, stride, uintptr(a.offset*4))
		gl.EnableVertexAttribArray(a.loc)
	}

	gl.BindVertexArray(0)
	return b
}

func (b *meshBuffers) draw(primitive uint32) {
	gl.BindVertexArray(b.vao)
	if b.indexed {
		gl.DrawElementsWithOffset(primitive, b.count, gl.UNSIGNED_INT, 0)
		return
	}
	gl.DrawArrays(primitive, 0, b.count)
}

func (b *meshBuffers) delete() {
	if b.ebo != 0 {
		gl.DeleteBuffers(1, &b.ebo)
	}
	if b.vbo != 0 {
		gl.DeleteBuffers(1, &b.vbo)
	}
	if b.vao != 0 {
		gl.DeleteVertexArrays(1, &b.vao)
	}
}

// sweep frees the buffers of geometry not drawn this frame.
func (r *Renderer) sweep() {
	for g, b := range r.buffers {
		if b.lastFrame != r.frame {
			b.delete()
			delete(r.buffers, g)
		}
	}
}
