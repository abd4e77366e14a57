package viewer

import (
	"context"
	"fmt"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/Faultbox/deskview/internal/engine/loader"
	"github.com/Faultbox/deskview/internal/engine/scene"
	"github.com/Faultbox/deskview/internal/engine/texture"
	"github.com/Faultbox/deskview/internal/logger"
)

// LoadEnvironment decodes an equirectangular panorama for use as background
// and reflection source.
func LoadEnvironment(ctx context.Context, path string) (*texture.Panorama, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	start := time.Now()

	p, err := texture.LoadPanorama(path)
	if err != nil {
		return nil, fmt.Errorf("environment: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	p.Mapping = texture.MappingEquirectReflection
	mean := p.Average()

	logger.Info("environment loaded",
		zap.String("path", path),
		zap.Int("width", p.Width),
		zap.Int("height", p.Height),
		zap.Bool("hdr", p.HDR),
		zap.Float32s("mean", mean[:]),
		zap.Duration("took", time.Since(start)),
	)
	return p, nil
}

// ModelOptions places a model and names the sub-mesh the zoom flies to.
type ModelOptions struct {
	Position   mgl32.Vec3
	Scale      float32
	TargetMesh string
}

// LoadedModel is a prepared model subgraph, not yet attached to a scene.
type LoadedModel struct {
	Root *scene.Node

	// Target is the first mesh named ModelOptions.TargetMesh, or nil.
	Target *scene.Node

	// Bounds is the world-space box of the model; CameraTarget its center.
	Bounds       scene.Box3
	CameraTarget mgl32.Vec3
}

// LoadModel loads a glTF model and prepares it for attaching: placement,
// shadow flags on every mesh, target lookup and bounds.
func LoadModel(ctx context.Context, path string, opts ModelOptions) (*LoadedModel, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	start := time.Now()

	root, err := loader.LoadGLTF(path)
	if err != nil {
		return nil, fmt.Errorf("model: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m := Prepare(root, opts)
	logger.Info("model loaded",
		zap.String("path", path),
		zap.Bool("target_found", m.Target != nil),
		zap.String("target", opts.TargetMesh),
		zap.Float32s("center", m.CameraTarget[:]),
		zap.Duration("took", time.Since(start)),
	)
	return m, nil
}

// Prepare applies ModelOptions to a detached subgraph.
func Prepare(root *scene.Node, opts ModelOptions) *LoadedModel {
	scale := opts.Scale
	if scale == 0 {
		scale = 1
	}
	root.Position = opts.Position
	root.Scale = mgl32.Vec3{scale, scale, scale}

	root.Traverse(func(n *scene.Node) {
		if n.IsMesh() {
			n.CastShadow = true
			n.ReceiveShadow = false
		}
	})

	m := &LoadedModel{Root: root}
	if opts.TargetMesh != "" {
		m.Target = root.FindMesh(opts.TargetMesh)
	}
	m.Bounds = scene.BoxFromObject(root)
	m.CameraTarget = m.Bounds.Center()
	return m
}
