package graphics

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"os"

	"github.com/go-gl/gl/v4.3-core/gl"
	"golang.org/x/image/bmp"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// ShadersDir is the default location of the shader sources.
const ShadersDir = "assets/shaders"

// ReadFramebuffer copies the back buffer into an image with the origin at the top left.
func ReadFramebuffer(width, height int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	gl.PixelStorei(gl.PACK_ALIGNMENT, 1)
	gl.ReadPixels(0, 0, int32(width), int32(height), gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(img.Pix))
	flipRows(img)
	return img
}

// GL rows start at the bottom.
func flipRows(img *image.RGBA) {
	h := img.Bounds().Dy()
	row := make([]byte, img.Stride)
	for y := 0; y < h/2; y++ {
		top := img.Pix[y*img.Stride : (y+1)*img.Stride]
		bottom := img.Pix[(h-1-y)*img.Stride : (h-y)*img.Stride]
		copy(row, top)
		copy(top, bottom)
		copy(bottom, row)
	}
}

// Annotate draws lines of text in the top left corner over a dark backdrop.
func Annotate(img draw.Image, lines []string) {
	if len(lines) == 0 {
		return
	}
	face := basicfont.Face7x13
	lineHeight := face.Metrics().Height.Ceil()

	d := &font.Drawer{Dst: img, Src: image.White, Face: face}
	width := 0
	for _, l := range lines {
		width = max(width, d.MeasureString(l).Ceil())
	}

	const padding = 4
	backdrop := image.Rect(0, 0, width+2*padding, len(lines)*lineHeight+2*padding)
	draw.Draw(img, backdrop, image.NewUniform(color.RGBA{0, 0, 0, 160}), image.Point{}, draw.Over)

	for i, l := range lines {
		d.Dot = fixed.P(padding, padding+(i+1)*lineHeight-face.Descent)
		d.DrawString(l)
	}
}

// WriteBMP encodes img to path.
func WriteBMP(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create capture: %w", err)
	}
	if err := bmp.Encode(f, img); err != nil {
		_ = f.Close()
		return fmt.Errorf("encode capture: %w", err)
	}
	return f.Close()
}
