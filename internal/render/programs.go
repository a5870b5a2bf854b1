package render

import (
	"regionview/internal/graphics/device"
	"regionview/internal/render/chunk"
)

// Uniform names shared by the chunk programs.
const (
	UniformProjection   = "u_ProjectionMatrix"
	UniformModelView    = "u_ModelViewMatrix"
	UniformModelScale   = "u_ModelScale"
	UniformModelOffset  = "u_ModelOffset"
	BlockDrawParameters = "ubo_DrawParameters"

	// BindingDrawParameters is the uniform-block binding of the chunk-info buffer.
	BindingDrawParameters uint32 = 0
)

// ProgramFactory compiles the programs the renderer needs.
type ProgramFactory interface {
	// NewChunkProgram returns the draw program for pass.
	NewChunkProgram(pass chunk.Pass) (device.Program, error)
	// NewSortProgram returns the compute program of the translucent resort
	// with the given local size.
	NewSortProgram(workGroupWidth int) (device.Program, error)
}
