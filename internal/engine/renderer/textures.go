package renderer

import (
	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"

	"github.com/Faultbox/deskview/internal/engine/scene"
	"github.com/Faultbox/deskview/internal/engine/texture"
	"github.com/Faultbox/deskview/internal/logger"
)

type panoramaTexture struct {
	id     uint32
	levels int
}

// panoramaFor uploads p as a mipmapped float texture on first use.
func (r *Renderer) panoramaFor(p *texture.Panorama) panoramaTexture {
	if pt, ok := r.panoramas[p]; ok {
		return pt
	}

	pt := panoramaTexture{levels: mipLevels(p.Width, p.Height)}
	gl.GenTextures(1, &pt.id)
	gl.BindTexture(gl.TEXTURE_2D, pt.id)
	if len(p.Pix) > 0 {
		gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGB16F, int32(p.Width), int32(p.Height), 0,
			gl.RGB, gl.FLOAT, gl.Ptr(p.Pix))
		gl.GenerateMipmap(gl.TEXTURE_2D)
	}

	// Longitude wraps; latitude stops at the poles.
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.REPEAT)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR_MIPMAP_LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	gl.BindTexture(gl.TEXTURE_2D, 0)

	logger.Debug("panorama uploaded",
		zap.String("source", p.Source),
		zap.Int("width", p.Width),
		zap.Int("height", p.Height),
		zap.Int("levels", pt.levels),
	)
	r.panoramas[p] = pt
	return pt
}

// materialTexture returns the base color texture of mat, or 0 if it has none.
func (r *Renderer) materialTexture(mat *scene.Material) uint32 {
	if mat.BaseColorTexture == nil {
		return 0
	}
	if id, ok := r.textures[mat]; ok {
		return id
	}
	img := mat.BaseColorTexture
	id := uploadRGBA(img.Rect.Dx(), img.Rect.Dy(), img.Pix, true)
	r.textures[mat] = id
	return id
}

// uploadRGBA creates an sRGB texture from tightly packed RGBA8 pixels.
func uploadRGBA(width, height int, pix []uint8, mipmaps bool) uint32 {
	var id uint32
	gl.GenTextures(1, &id)
	gl.BindTexture(gl.TEXTURE_2D, id)
	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 1)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.SRGB8_ALPHA8, int32(width), int32(height), 0,
		gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(pix))

	minFilter := int32(gl.LINEAR)
	if mipmaps {
		gl.GenerateMipmap(gl.TEXTURE_2D)
		minFilter = gl.LINEAR_MIPMAP_LINEAR
	}
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, minFilter)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.REPEAT)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.REPEAT)
	gl.BindTexture(gl.TEXTURE_2D, 0)
	return id
}

// mipLevels returns the length of a full mip chain for the given size.
func mipLevels(width, height int) int {
	n := width
	if height > n {
		n = height
	}
	levels := 1
	for n > 1 {
		n /= 2
		levels++
	}
	return levels
}
