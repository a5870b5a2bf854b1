package graphics

import (
	"fmt"
	"path/filepath"
	"strconv"

	"regionview/internal/graphics/device"
	"regionview/internal/render/chunk"
)

// ChunkPrograms compiles the chunk draw and sort programs from the shader
// sources in Dir.
type ChunkPrograms struct {
	Dir string
}

// NewChunkPrograms returns a factory reading shaders from dir.
func NewChunkPrograms(dir string) *ChunkPrograms {
	return &ChunkPrograms{Dir: dir}
}

// NewChunkProgram compiles the block layer program. The cutout pass discards
// fragments below the alpha cutoff.
func (p *ChunkPrograms) NewChunkProgram(pass chunk.Pass) (device.Program, error) {
	var defines []Define
	if pass == chunk.PassCutout {
		defines = append(defines, Define{Name: "ALPHA_CUTOFF", Value: "0.5"})
	}
	s, err := NewShader(p.path("block_layer.vert"), p.path("block_layer.frag"), defines...)
	if err != nil {
		return nil, fmt.Errorf("%s pass: %w", pass, err)
	}
	return s, nil
}

// NewSortProgram compiles the translucent sort kernel for the given local size.
func (p *ChunkPrograms) NewSortProgram(workGroupWidth int) (device.Program, error) {
	s, err := NewComputeShader(p.path("translucent_sort.comp"),
		Define{Name: "LOCAL_SIZE_X", Value: strconv.Itoa(workGroupWidth)},
	)
	if err != nil {
		return nil, fmt.Errorf("translucent sort (local size %d): %w", workGroupWidth, err)
	}
	return s, nil
}

func (p *ChunkPrograms) path(name string) string {
	return filepath.Join(p.Dir, name)
}
