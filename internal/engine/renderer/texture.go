package renderer

import (
	"image"
	"image/draw"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"unsafe"

	"go.uber.org/zap"

	"github.com/Faultbox/trackforge/internal/logger"
	"github.com/go-gl/gl/v4.1-core/gl"
)

// LoadTexture decodes an image file and uploads it as a 2D texture.
// Returns 0 on failure; callers treat 0 as "no texture" and keep going.
func (r *Renderer) LoadTexture(path string) uint32 {
	f, err := os.Open(path)
	if err != nil {
		logger.Warn("texture not found", zap.String("path", path), zap.Error(err))
		return 0
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		logger.Warn("texture decode failed", zap.String("path", path), zap.Error(err))
		return 0
	}

	rgba := image.NewRGBA(img.Bounds())
	draw.Draw(rgba, rgba.Bounds(), img, img.Bounds().Min, draw.Src)

	var tex uint32
	gl.GenTextures(1, &tex)
	gl.BindTexture(gl.TEXTURE_2D, tex)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.REPEAT)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.REPEAT)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR_MIPMAP_LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)

	size := rgba.Rect.Size()
	gl.TexImage2D(
		gl.TEXTURE_2D, 0, gl.RGBA,
		int32(size.X), int32(size.Y), 0,
		gl.RGBA, gl.UNSIGNED_BYTE,
		unsafe.Pointer(&rgba.Pix[0]),
	)
	gl.GenerateMipmap(gl.TEXTURE_2D)
	gl.BindTexture(gl.TEXTURE_2D, 0)

	logger.Debug("texture loaded",
		zap.String("path", path),
		zap.Int("width", size.X),
		zap.Int("height", size.Y),
	)
	return tex
}

// DestroyTexture releases a texture handle. A 0 handle is ignored.
func (r *Renderer) DestroyTexture(tex uint32) {
	if tex == 0 {
		return
	}
	gl.DeleteTextures(1, &tex)
}
