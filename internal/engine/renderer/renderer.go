// Package renderer draws a scene graph with OpenGL 4.1.
//
// A frame runs three passes: the directional light's shadow map, the
// equirectangular background, and the lit geometry. GPU resources for
// primitives and panoramas are created the first time they are drawn.
package renderer

import (
	"fmt"
	gomath "math"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/Faultbox/deskview/internal/engine/camera"
	"github.com/Faultbox/deskview/internal/engine/renderer/shaders"
	"github.com/Faultbox/deskview/internal/engine/scene"
	"github.com/Faultbox/deskview/internal/engine/shader"
	"github.com/Faultbox/deskview/internal/engine/shadow"
	"github.com/Faultbox/deskview/internal/engine/texture"
	"github.com/Faultbox/deskview/internal/logger"
)

// Texture units shared by the programs.
const (
	unitBase   = 0
	unitShadow = 1
	unitEnv    = 2
)

// Config holds renderer configuration.
type Config struct {
	Width  int
	Height int

	Shadows       bool
	ShadowMapSize int
	MSAA          bool
}

// Stats counts the work of the last frame.
type Stats struct {
	DrawCalls   int
	ShadowCalls int
	Triangles   int
}

// Renderer handles all OpenGL rendering.
type Renderer struct {
	config Config

	background *shader.Program
	depth      *shader.Program
	mesh       *shader.Program

	emptyVAO  uint32 // Bound for the attribute-less background triangle
	shadowMap *shadow.Map

	meshes     map[*scene.Primitive]*gpuMesh
	textures   map[*scene.Material]uint32
	panoramas  map[*texture.Panorama]panoramaTexture
	whiteTex   uint32
	lastStats  Stats
	lightSpace mgl32.Mat4
}

// New creates a new renderer. The OpenGL context must already be current.
func New(cfg Config) (*Renderer, error) {
	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", err)
	}

	logger.Info("OpenGL initialized",
		zap.String("version", gl.GoStr(gl.GetString(gl.VERSION))),
		zap.String("renderer", gl.GoStr(gl.GetString(gl.RENDERER))),
	)

	r := &Renderer{
		config:    cfg,
		meshes:    make(map[*scene.Primitive]*gpuMesh),
		textures:  make(map[*scene.Material]uint32),
		panoramas: make(map[*texture.Panorama]panoramaTexture),
	}

	var err error
	if r.background, err = shader.New("background", shaders.BackgroundVertexShader, shaders.BackgroundFragmentShader); err != nil {
		return nil, err
	}
	if r.depth, err = shader.New("depth", shaders.DepthVertexShader, shaders.DepthFragmentShader); err != nil {
		r.Close()
		return nil, err
	}
	if r.mesh, err = shader.New("mesh", shaders.MeshVertexShader, shaders.MeshFragmentShader); err != nil {
		r.Close()
		return nil, err
	}

	if cfg.Shadows {
		r.shadowMap, err = shadow.NewMap(cfg.ShadowMapSize)
		if err != nil {
			// Shadows are cosmetic; keep rendering without them.
			logger.Warn("shadows disabled", zap.Error(err))
		}
	}

	gl.GenVertexArrays(1, &r.emptyVAO)
	r.whiteTex = uploadRGBA(1, 1, []uint8{255, 255, 255, 255}, false)

	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LEQUAL)
	gl.Enable(gl.BLEND)
	gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)
	if cfg.MSAA {
		gl.Enable(gl.MULTISAMPLE)
	}
	gl.ClearColor(0, 0, 0, 1)

	r.Resize(cfg.Width, cfg.Height)
	return r, nil
}

// Close releases every GPU resource owned by the renderer.
func (r *Renderer) Close() {
	logger.Info("closing renderer",
		zap.Int("meshes", len(r.meshes)),
		zap.Int("textures", len(r.textures)),
		zap.Int("panoramas", len(r.panoramas)),
	)

	for _, m := range r.meshes {
		m.delete()
	}
	r.meshes = nil
	for _, tex := range r.textures {
		gl.DeleteTextures(1, &tex)
	}
	r.textures = nil
	for _, p := range r.panoramas {
		gl.DeleteTextures(1, &p.id)
	}
	r.panoramas = nil

	if r.whiteTex != 0 {
		gl.DeleteTextures(1, &r.whiteTex)
	}
	if r.emptyVAO != 0 {
		gl.DeleteVertexArrays(1, &r.emptyVAO)
	}
	if r.shadowMap != nil {
		r.shadowMap.Destroy()
	}
	for _, p := range []*shader.Program{r.background, r.depth, r.mesh} {
		if p != nil {
			p.Delete()
		}
	}
}

// Resize updates the viewport to the drawable size in pixels.
func (r *Renderer) Resize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	r.config.Width = width
	r.config.Height = height
	gl.Viewport(0, 0, int32(width), int32(height))
	logger.Debug("renderer resized",
		zap.Int("width", width),
		zap.Int("height", height),
	)
}

// Stats returns the counters of the last rendered frame.
func (r *Renderer) Stats() Stats {
	return r.lastStats
}

// ReadPixels returns the current frame as bottom-up RGBA rows.
func (r *Renderer) ReadPixels() ([]byte, int, int) {
	w, h := r.config.Width, r.config.Height
	pixels := make([]byte, w*h*4)
	gl.PixelStorei(gl.PACK_ALIGNMENT, 1)
	gl.ReadPixels(0, 0, int32(w), int32(h), gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(pixels))
	return pixels, w, h
}

// Render draws one frame of s as seen from cam.
func (r *Renderer) Render(s *scene.Scene, cam *camera.Perspective) {
	var stats Stats
	drawables := s.Meshes()

	shadows := r.shadowMap != nil && s.Sun.CastShadow
	if shadows {
		r.lightSpace = shadow.LightMatrix(s.Sun, s.Bounds())
		stats.ShadowCalls = r.shadowPass(drawables)
	}

	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)

	if s.Background != nil {
		r.backgroundPass(s.Background, cam)
	}

	stats.DrawCalls, stats.Triangles = r.meshPass(s, cam, drawables, shadows)
	r.lastStats = stats
}

func (r *Renderer) shadowPass(drawables []scene.Drawable) int {
	r.shadowMap.Begin()
	defer r.shadowMap.End()

	r.depth.Use()
	r.depth.SetMat4("uLightSpace", r.lightSpace)
	gl.Disable(gl.CULL_FACE)

	calls := 0
	for _, d := range drawables {
		if !d.Node.CastShadow {
			continue
		}
		r.depth.SetMat4("uModel", d.World)
		for _, p := range d.Node.Primitives {
			r.meshFor(p).draw()
			calls++
		}
	}
	return calls
}

func (r *Renderer) backgroundPass(p *texture.Panorama, cam *camera.Perspective) {
	pt := r.panoramaFor(p)

	// Rotation-only view so every pixel maps to a direction.
	view := cam.ViewMatrix()
	view.SetCol(3, mgl32.Vec4{0, 0, 0, 1})
	inv := cam.ProjectionMatrix().Mul4(view).Inv()

	gl.DepthMask(false)
	gl.Disable(gl.DEPTH_TEST)
	gl.Disable(gl.CULL_FACE)

	r.background.Use()
	r.background.SetMat4("uInvViewProj", inv)
	r.background.SetInt("uPanorama", unitBase)
	gl.ActiveTexture(gl.TEXTURE0 + unitBase)
	gl.BindTexture(gl.TEXTURE_2D, pt.id)

	gl.BindVertexArray(r.emptyVAO)
	gl.DrawArrays(gl.TRIANGLES, 0, 3)
	gl.BindVertexArray(0)

	gl.Enable(gl.DEPTH_TEST)
	gl.DepthMask(true)
}

func (r *Renderer) meshPass(s *scene.Scene, cam *camera.Perspective, drawables []scene.Drawable, shadows bool) (calls, triangles int) {
	m := r.mesh
	m.Use()
	m.SetMat4("uViewProj", cam.ViewProjection())
	m.SetMat4("uLightSpace", r.lightSpace)
	m.SetVec3("uCameraPos", cam.Position)
	m.SetVec3("uAmbient", s.Ambient.Color.Mul(s.Ambient.Intensity))
	m.SetVec3("uLightDir", s.Sun.Direction())
	m.SetVec3("uLightColor", s.Sun.Color.Mul(s.Sun.Intensity))

	m.SetInt("uBaseTexture", unitBase)
	m.SetInt("uShadowMap", unitShadow)
	m.SetInt("uEnvMap", unitEnv)

	m.SetBool("uShadows", shadows)
	if shadows {
		r.shadowMap.BindTexture(gl.TEXTURE0 + unitShadow)
		m.SetFloat("uShadowTexel", 1/float32(r.shadowMap.Resolution))
	}

	m.SetBool("uHasEnv", s.Environment != nil)
	if s.Environment != nil {
		pt := r.panoramaFor(s.Environment)
		gl.ActiveTexture(gl.TEXTURE0 + unitEnv)
		gl.BindTexture(gl.TEXTURE_2D, pt.id)
		m.SetFloat("uEnvMaxLod", float32(pt.levels-1))
	}

	for _, d := range drawables {
		m.SetMat4("uModel", d.World)
		m.SetMat3("uNormalMatrix", normalMatrix(d.World))
		m.SetBool("uReceiveShadow", d.Node.ReceiveShadow)

		for _, p := range d.Node.Primitives {
			r.bindMaterial(p.Material)
			gm := r.meshFor(p)
			gm.draw()
			calls++
			triangles += int(gm.count / 3)
		}
	}
	gl.Enable(gl.CULL_FACE)
	return calls, triangles
}

func (r *Renderer) bindMaterial(mat *scene.Material) {
	if mat == nil {
		mat = scene.DefaultMaterial()
	}
	m := r.mesh
	m.SetVec4("uBaseColor", mat.BaseColor)
	m.SetFloat("uMetallic", mat.Metallic)
	m.SetFloat("uRoughness", mat.Roughness)

	tex := r.materialTexture(mat)
	m.SetBool("uHasBaseTexture", tex != 0)
	if tex == 0 {
		tex = r.whiteTex
	}
	gl.ActiveTexture(gl.TEXTURE0 + unitBase)
	gl.BindTexture(gl.TEXTURE_2D, tex)

	if mat.DoubleSided {
		gl.Disable(gl.CULL_FACE)
	} else {
		gl.Enable(gl.CULL_FACE)
		gl.CullFace(gl.BACK)
	}
}

// normalMatrix is the inverse transpose of the model's upper 3x3.
func normalMatrix(model mgl32.Mat4) mgl32.Mat3 {
	m := model.Mat3()
	if gomath.Abs(float64(m.Det())) < 1e-12 {
		return m
	}
	return m.Inv().Transpose()
}
