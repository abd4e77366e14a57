// Package loader converts glTF 2.0 documents (.gltf and .glb) into scene graphs.
package loader

import (
	"errors"
	"fmt"
	"image"
	"os"
	"path/filepath"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
	"go.uber.org/zap"

	"github.com/Faultbox/deskview/internal/engine/scene"
	"github.com/Faultbox/deskview/internal/engine/texture"
	"github.com/Faultbox/deskview/internal/logger"
)

// ErrNoScene is returned for documents without any scene to instantiate.
var ErrNoScene = errors.New("gltf document has no scene")

// LoadGLTF opens a .gltf or .glb file and builds its default scene.
func LoadGLTF(path string) (*scene.Node, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	root, err := Build(doc, filepath.Dir(path))
	if err != nil {
		return nil, fmt.Errorf("build %s: %w", path, err)
	}
	return root, nil
}

// Build converts doc into a node tree. dir resolves external image URIs.
func Build(doc *gltf.Document, dir string) (*scene.Node, error) {
	if len(doc.Scenes) == 0 {
		return nil, ErrNoScene
	}
	var sceneIdx uint32
	if doc.Scene != nil {
		sceneIdx = *doc.Scene
	}
	if int(sceneIdx) >= len(doc.Scenes) {
		return nil, fmt.Errorf("%w: default scene %d out of range", ErrNoScene, sceneIdx)
	}

	b := &builder{
		doc:       doc,
		dir:       dir,
		materials: make(map[uint32]*scene.Material),
		images:    make(map[uint32]*image.RGBA),
		visiting:  make(map[uint32]bool),
	}

	gs := doc.Scenes[sceneIdx]
	name := gs.Name
	if name == "" {
		name = "Scene"
	}
	root := scene.NewNode(name)
	for _, idx := range gs.Nodes {
		n, err := b.node(idx)
		if err != nil {
			return nil, err
		}
		root.Add(n)
	}

	logger.Debug("gltf scene built",
		zap.String("scene", name),
		zap.Int("nodes", len(doc.Nodes)),
		zap.Int("meshes", len(doc.Meshes)),
		zap.Int("materials", len(b.materials)),
	)
	return root, nil
}

type builder struct {
	doc       *gltf.Document
	dir       string
	materials map[uint32]*scene.Material
	images    map[uint32]*image.RGBA
	visiting  map[uint32]bool
}

func (b *builder) node(idx uint32) (*scene.Node, error) {
	if int(idx) >= len(b.doc.Nodes) {
		return nil, fmt.Errorf("node %d out of range", idx)
	}
	if b.visiting[idx] {
		return nil, fmt.Errorf("node %d is its own ancestor", idx)
	}
	b.visiting[idx] = true
	defer delete(b.visiting, idx)

	gn := b.doc.Nodes[idx]
	n := scene.NewNode(gn.Name)

	if gm := gn.MatrixOrDefault(); gm != gltf.DefaultMatrix {
		m := mgl32.Mat4(gm)
		n.Matrix = &m
	} else {
		t := gn.TranslationOrDefault()
		r := gn.RotationOrDefault()
		s := gn.ScaleOrDefault()
		n.Position = mgl32.Vec3(t)
		n.Rotation = mgl32.Quat{W: r[3], V: mgl32.Vec3{r[0], r[1], r[2]}}
		n.Scale = mgl32.Vec3(s)
	}

	if gn.Mesh != nil {
		if int(*gn.Mesh) >= len(b.doc.Meshes) {
			return nil, fmt.Errorf("node %d: mesh %d out of range", idx, *gn.Mesh)
		}
		mesh := b.doc.Meshes[*gn.Mesh]
		if n.Name == "" {
			n.Name = mesh.Name
		}
		for i, prim := range mesh.Primitives {
			p, err := b.primitive(prim)
			if err != nil {
				return nil, fmt.Errorf("mesh %q primitive %d: %w", mesh.Name, i, err)
			}
			if p != nil {
				n.Primitives = append(n.Primitives, p)
			}
		}
	}

	for _, c := range gn.Children {
		child, err := b.node(c)
		if err != nil {
			return nil, err
		}
		n.Add(child)
	}
	return n, nil
}

func (b *builder) primitive(prim *gltf.Primitive) (*scene.Primitive, error) {
	if prim.Mode != gltf.PrimitiveTriangles {
		logger.Warn("skipping non-triangle primitive", zap.Int("mode", int(prim.Mode)))
		return nil, nil
	}

	posIdx, ok := prim.Attributes[gltf.POSITION]
	if !ok {
		return nil, errors.New("no POSITION attribute")
	}
	positions, err := modeler.ReadPosition(b.doc, b.doc.Accessors[posIdx], nil)
	if err != nil {
		return nil, fmt.Errorf("read positions: %w", err)
	}

	p := &scene.Primitive{Positions: positions}

	if prim.Indices != nil {
		p.Indices, err = modeler.ReadIndices(b.doc, b.doc.Accessors[*prim.Indices], nil)
		if err != nil {
			return nil, fmt.Errorf("read indices: %w", err)
		}
	}

	if idx, ok := prim.Attributes[gltf.NORMAL]; ok {
		p.Normals, err = modeler.ReadNormal(b.doc, b.doc.Accessors[idx], nil)
		if err != nil {
			return nil, fmt.Errorf("read normals: %w", err)
		}
	}
	if len(p.Normals) != len(p.Positions) {
		p.Normals = ComputeNormals(p.Positions, p.Indices)
	}

	if idx, ok := prim.Attributes[gltf.TEXCOORD_0]; ok {
		p.UVs, err = modeler.ReadTextureCoord(b.doc, b.doc.Accessors[idx], nil)
		if err != nil {
			return nil, fmt.Errorf("read texcoords: %w", err)
		}
	}

	if prim.Material != nil {
		p.Material = b.material(*prim.Material)
	} else {
		p.Material = scene.DefaultMaterial()
	}
	return p, nil
}

func (b *builder) material(idx uint32) *scene.Material {
	if m, ok := b.materials[idx]; ok {
		return m
	}

	m := scene.DefaultMaterial()
	if int(idx) >= len(b.doc.Materials) {
		logger.Warn("material out of range", zap.Uint32("material", idx))
		b.materials[idx] = m
		return m
	}
	gm := b.doc.Materials[idx]
	m.Name = gm.Name
	m.DoubleSided = gm.DoubleSided

	if pbr := gm.PBRMetallicRoughness; pbr != nil {
		m.BaseColor = mgl32.Vec4(pbr.BaseColorFactorOrDefault())
		m.Metallic = pbr.MetallicFactorOrDefault()
		m.Roughness = pbr.RoughnessFactorOrDefault()
		if ti := pbr.BaseColorTexture; ti != nil {
			img, err := b.textureImage(ti.Index)
			if err != nil {
				// A missing texture degrades to the flat base color.
				logger.Warn("base color texture unavailable",
					zap.String("material", gm.Name),
					zap.Error(err),
				)
			}
			m.BaseColorTexture = img
		}
	}

	b.materials[idx] = m
	return m
}

func (b *builder) textureImage(texIdx uint32) (*image.RGBA, error) {
	if int(texIdx) >= len(b.doc.Textures) {
		return nil, fmt.Errorf("texture %d out of range", texIdx)
	}
	src := b.doc.Textures[texIdx].Source
	if src == nil {
		return nil, fmt.Errorf("texture %d has no source image", texIdx)
	}
	if img, ok := b.images[*src]; ok {
		return img, nil
	}

	if int(*src) >= len(b.doc.Images) {
		return nil, fmt.Errorf("texture %d: image %d out of range", texIdx, *src)
	}
	gi := b.doc.Images[*src]
	data, err := b.imageData(gi)
	if err != nil {
		return nil, err
	}
	img, err := texture.DecodeImage(data, gi.MimeType)
	if err != nil {
		return nil, fmt.Errorf("image %d: %w", *src, err)
	}
	b.images[*src] = img
	return img, nil
}

func (b *builder) imageData(gi *gltf.Image) ([]byte, error) {
	switch {
	case gi.BufferView != nil:
		bv := b.doc.BufferViews[*gi.BufferView]
		buf := b.doc.Buffers[bv.Buffer].Data
		start := int(bv.ByteOffset)
		end := start + int(bv.ByteLength)
		if end > len(buf) {
			return nil, fmt.Errorf("image %q: buffer view past end of buffer", gi.Name)
		}
		return buf[start:end], nil
	case gi.IsEmbeddedResource():
		return gi.MarshalData()
	case gi.URI != "":
		return os.ReadFile(filepath.Join(b.dir, filepath.FromSlash(gi.URI)))
	default:
		return nil, fmt.Errorf("image %q has no data", gi.Name)
	}
}

// ComputeNormals returns smooth per-vertex normals by summing the face
// normals of every triangle touching a vertex.
func ComputeNormals(positions [][3]float32, indices []uint32) [][3]float32 {
	acc := make([]mgl32.Vec3, len(positions))

	tri := func(i0, i1, i2 uint32) {
		if int(i0) >= len(positions) || int(i1) >= len(positions) || int(i2) >= len(positions) {
			return
		}
		a := mgl32.Vec3(positions[i0])
		e1 := mgl32.Vec3(positions[i1]).Sub(a)
		e2 := mgl32.Vec3(positions[i2]).Sub(a)
		fn := e1.Cross(e2)
		acc[i0] = acc[i0].Add(fn)
		acc[i1] = acc[i1].Add(fn)
		acc[i2] = acc[i2].Add(fn)
	}

	if len(indices) > 0 {
		for i := 0; i+2 < len(indices); i += 3 {
			tri(indices[i], indices[i+1], indices[i+2])
		}
	} else {
		for i := 0; i+2 < len(positions); i += 3 {
			tri(uint32(i), uint32(i+1), uint32(i+2))
		}
	}

	normals := make([][3]float32, len(positions))
	for i, n := range acc {
		if n.Len() == 0 {
			normals[i] = [3]float32{0, 1, 0}
			continue
		}
		normals[i] = n.Normalize()
	}
	return normals
}
