package viewer

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"

	"github.com/Faultbox/deskview/internal/engine/scene"
)

// writeDeskGLB writes a desk mesh with a child "screen" mesh offset by
// (0, 0.25, -0.5). Scaled by 4 the screen sits at (0, 1, -2).
func writeDeskGLB(t *testing.T, dir, name string) string {
	t.Helper()

	doc := gltf.NewDocument()
	pos := modeler.WritePosition(doc, [][3]float32{
		{-0.5, -0.5, 0}, {0.5, -0.5, 0}, {0.5, 0.5, 0}, {-0.5, 0.5, 0},
	})
	idx := modeler.WriteIndices(doc, []uint16{0, 1, 2, 0, 2, 3})
	doc.Meshes = append(doc.Meshes, &gltf.Mesh{Name: "quad", Primitives: []*gltf.Primitive{{
		Indices:    gltf.Index(idx),
		Attributes: gltf.Attribute{gltf.POSITION: pos},
	}}})
	doc.Nodes = append(doc.Nodes,
		&gltf.Node{Name: "desk", Mesh: gltf.Index(0), Children: []uint32{1}},
		&gltf.Node{Name: "screen", Mesh: gltf.Index(0), Translation: [3]float32{0, 0.25, -0.5}},
	)
	doc.Scenes[0].Nodes = append(doc.Scenes[0].Nodes, 0)

	path := filepath.Join(dir, name)
	if err := gltf.SaveBinary(doc, path); err != nil {
		t.Fatalf("save glb: %v", err)
	}
	return path
}

// writeSkyPNG writes a small equirectangular panorama.
func writeSkyPNG(t *testing.T, dir, name string) string {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, 8, 4))
	for y := 0; y < 4; y++ {
		for x := 0; x < 8; x++ {
			img.Set(x, y, color.RGBA{100, 150, 255, 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		t.Fatalf("write png: %v", err)
	}
	return path
}

// quadNode returns a mesh node with a unit quad.
func quadNode(name string) *scene.Node {
	n := scene.NewNode(name)
	n.Primitives = []*scene.Primitive{{
		Positions: [][3]float32{{-0.5, -0.5, 0}, {0.5, -0.5, 0}, {0.5, 0.5, 0}, {-0.5, 0.5, 0}},
		Indices:   []uint32{0, 1, 2, 0, 2, 3},
		Material:  scene.DefaultMaterial(),
	}}
	return n
}

// deskModel builds the same hierarchy as writeDeskGLB in memory.
func deskModel(withScreen bool) *LoadedModel {
	root := scene.NewNode("Scene")
	desk := quadNode("desk")
	root.Add(desk)
	if withScreen {
		screen := quadNode("screen")
		screen.Position = mgl32.Vec3{0, 0.25, -0.5}
		desk.Add(screen)
	}
	return Prepare(root, ModelOptions{Scale: 4, TargetMesh: "screen"})
}

// vecNear compares component-wise with an absolute tolerance.
func vecNear(a, b mgl32.Vec3, eps float32) bool {
	for i := range a {
		if !floatNear(a[i], b[i], eps) {
			return false
		}
	}
	return true
}

func floatNear(a, b, eps float32) bool {
	d := a - b
	return d < eps && d > -eps
}
