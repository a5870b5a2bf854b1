package graphics

import (
	"image"
	"image/color"
	"image/draw"
	"os"
	"path/filepath"
	"testing"

	"golang.org/x/image/bmp"
)

func TestFlipRows(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 1, 3))
	for y := 0; y < 3; y++ {
		img.Set(0, y, color.RGBA{uint8(y), 0, 0, 255})
	}
	flipRows(img)
	for y := 0; y < 3; y++ {
		if got := img.RGBAAt(0, y).R; got != uint8(2-y) {
			t.Fatalf("row %d: got %d, want %d", y, got, 2-y)
		}
	}
}

func TestAnnotateDrawsText(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 200, 60))
	Annotate(img, []string{"regions 4", "sort 0.3ms"})

	white := 0
	for i := 0; i < len(img.Pix); i += 4 {
		if img.Pix[i] > 200 {
			white++
		}
	}
	if white == 0 {
		t.Fatalf("expected glyph pixels to be drawn")
	}
	if img.RGBAAt(199, 59).A != 0 {
		t.Fatalf("pixels outside the caption must be untouched")
	}
}

func TestWriteBMP(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 8, 4))
	draw.Draw(img, img.Bounds(), image.Black, image.Point{}, draw.Src)
	img.Set(3, 1, color.RGBA{10, 20, 30, 255})
	path := filepath.Join(t.TempDir(), "frame.bmp")
	if err := WriteBMP(path, img); err != nil {
		t.Fatalf("WriteBMP: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer f.Close()
	got, err := bmp.Decode(f)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Bounds() != img.Bounds() {
		t.Fatalf("bounds: got %v, want %v", got.Bounds(), img.Bounds())
	}
	r, g, b, _ := got.At(3, 1).RGBA()
	if r>>8 != 10 || g>>8 != 20 || b>>8 != 30 {
		t.Fatalf("pixel: got %d %d %d", r>>8, g>>8, b>>8)
	}
}
