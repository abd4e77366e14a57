package renderer

import (
	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/Faultbox/deskview/internal/engine/scene"
)

// vertexStride is position(3) + normal(3) + uv(2) floats.
const vertexStride = 8

type gpuMesh struct {
	vao, vbo, ebo uint32
	count         int32
	indexed       bool
}

func (m *gpuMesh) draw() {
	if m.count == 0 {
		return
	}
	gl.BindVertexArray(m.vao)
	if m.indexed {
		gl.DrawElements(gl.TRIANGLES, m.count, gl.UNSIGNED_INT, nil)
	} else {
		gl.DrawArrays(gl.TRIANGLES, 0, m.count)
	}
	gl.BindVertexArray(0)
}

func (m *gpuMesh) delete() {
	if m.ebo != 0 {
		gl.DeleteBuffers(1, &m.ebo)
	}
	if m.vbo != 0 {
		gl.DeleteBuffers(1, &m.vbo)
	}
	if m.vao != 0 {
		gl.DeleteVertexArrays(1, &m.vao)
	}
}

// meshFor returns the uploaded buffers of p, uploading on first use.
func (r *Renderer) meshFor(p *scene.Primitive) *gpuMesh {
	if m, ok := r.meshes[p]; ok {
		return m
	}
	m := uploadPrimitive(p)
	r.meshes[p] = m
	return m
}

func uploadPrimitive(p *scene.Primitive) *gpuMesh {
	m := &gpuMesh{}
	vertices := interleave(p)
	if len(vertices) == 0 {
		return m
	}

	gl.GenVertexArrays(1, &m.vao)
	gl.BindVertexArray(m.vao)

	gl.GenBuffers(1, &m.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, m.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(vertices)*4, gl.Ptr(vertices), gl.STATIC_DRAW)

	stride := int32(vertexStride * 4)
	gl.VertexAttribPointerWithOffset(0, 3, gl.FLOAT, false, stride, 0)
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointerWithOffset(1, 3, gl.FLOAT, false, stride, 3*4)
	gl.EnableVertexAttribArray(1)
	gl.VertexAttribPointerWithOffset(2, 2, gl.FLOAT, false, stride, 6*4)
	gl.EnableVertexAttribArray(2)

	if len(p.Indices) > 0 {
		gl.GenBuffers(1, &m.ebo)
		gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, m.ebo)
		gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(p.Indices)*4, gl.Ptr(p.Indices), gl.STATIC_DRAW)
		m.indexed = true
		m.count = int32(len(p.Indices))
	} else {
		m.count = int32(p.VertexCount())
	}

	gl.BindVertexArray(0)
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	return m
}

// interleave packs the vertex attributes of p. Missing normals default to +Y
// and missing UVs to zero.
func interleave(p *scene.Primitive) []float32 {
	out := make([]float32, 0, len(p.Positions)*vertexStride)
	for i, pos := range p.Positions {
		n := [3]float32{0, 1, 0}
		if i < len(p.Normals) {
			n = p.Normals[i]
		}
		var uv [2]float32
		if i < len(p.UVs) {
			uv = p.UVs[i]
		}
		out = append(out, pos[0], pos[1], pos[2], n[0], n[1], n[2], uv[0], uv[1])
	}
	return out
}
