// Package gifgen writes captured frames as an animated GIF.
package gifgen

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/gif"
	"os"
	"sort"

	"github.com/nfnt/resize"
	"golang.org/x/sync/errgroup"
)

const (
	defaultMaxWidth = 800
	paletteSize     = 256
	sampleStep      = 4
	// Frames sampled for the shared palette.
	paletteSamples = 5
)

// Options configures GIF generation.
type Options struct {
	FPS      int
	MaxWidth uint
	// Workers bounds parallel resize and dithering.
	Workers int
}

// Generate writes frames to path and returns the file size.
func Generate(ctx context.Context, frames []image.Image, path string, opts Options) (int64, error) {
	if len(frames) == 0 {
		return 0, errors.New("no frames to encode")
	}
	if opts.FPS <= 0 {
		return 0, fmt.Errorf("invalid fps %d", opts.FPS)
	}
	if opts.Workers <= 0 {
		opts.Workers = 4
	}

	width, height := outputSize(frames[0].Bounds(), opts.MaxWidth)
	palette := buildPalette(frames)
	delay := frameDelay(opts.FPS)

	g := &gif.GIF{
		Image:     make([]*image.Paletted, len(frames)),
		Delay:     make([]int, len(frames)),
		LoopCount: 0,
	}

	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(opts.Workers)
	for i, frame := range frames {
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			resized := resize.Resize(width, height, frame, resize.Lanczos3)
			paletted := image.NewPaletted(resized.Bounds(), palette)
			draw.FloydSteinberg.Draw(paletted, resized.Bounds(), resized, image.Point{})
			g.Image[i] = paletted
			g.Delay[i] = delay
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return 0, err
	}

	f, err := os.Create(path)
	if err != nil {
		return 0, fmt.Errorf("failed to create gif: %w", err)
	}
	defer f.Close()

	if err := gif.EncodeAll(f, g); err != nil {
		return 0, fmt.Errorf("failed to encode gif: %w", err)
	}
	info, err := f.Stat()
	if err != nil {
		return 0, err
	}
	return info.Size(), nil
}

// frameDelay is the per-frame delay in hundredths of a second.
func frameDelay(fps int) int {
	return max(2, (100+fps/2)/fps)
}

func outputSize(b image.Rectangle, maxWidth uint) (uint, uint) {
	if maxWidth == 0 {
		maxWidth = defaultMaxWidth
	}
	w := min(maxWidth, uint(b.Dx()))
	if b.Dx() == 0 {
		return w, 0
	}
	return w, uint(float64(w) * float64(b.Dy()) / float64(b.Dx()))
}

// buildPalette picks the most frequent colours across a few frames spread
// over the recording, so overlays that appear late still get colours.
func buildPalette(frames []image.Image) color.Palette {
	counts := make(map[color.RGBA]int)
	step := max(1, len(frames)/paletteSamples)
	for i := 0; i < len(frames); i += step {
		sampleColors(frames[i], counts)
	}
	sampleColors(frames[len(frames)-1], counts)

	type entry struct {
		c     color.RGBA
		count int
	}
	entries := make([]entry, 0, len(counts))
	for c, n := range counts {
		entries = append(entries, entry{c, n})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].count != entries[j].count {
			return entries[i].count > entries[j].count
		}
		a, b := entries[i].c, entries[j].c
		return uint32(a.R)<<16|uint32(a.G)<<8|uint32(a.B) < uint32(b.R)<<16|uint32(b.G)<<8|uint32(b.B)
	})

	palette := make(color.Palette, 0, paletteSize)
	palette = append(palette, color.RGBA{0, 0, 0, 0})
	for _, e := range entries {
		if len(palette) == paletteSize {
			break
		}
		palette = append(palette, e.c)
	}
	for len(palette) < paletteSize {
		gray := uint8(len(palette))
		palette = append(palette, color.RGBA{gray, gray, gray, 255})
	}
	return palette
}

func sampleColors(img image.Image, counts map[color.RGBA]int) {
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y += sampleStep {
		for x := b.Min.X; x < b.Max.X; x += sampleStep {
			r, g, bl, a := img.At(x, y).RGBA()
			counts[color.RGBA{uint8(r >> 8), uint8(g >> 8), uint8(bl >> 8), uint8(a >> 8)}]++
		}
	}
}
