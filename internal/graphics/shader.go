package graphics

import (
	"fmt"
	"os"
	"strings"

	"regionview/internal/graphics/device"

	"github.com/go-gl/gl/v4.3-core/gl"
	"github.com/go-gl/mathgl/mgl32"
)

// Define is a preprocessor constant injected after the #version line.
type Define struct {
	Name  string
	Value string
}

// Shader represents an OpenGL shader program. It implements device.Program.
type Shader struct {
	ID       uint32
	uniforms map[string]int32
	blocks   map[string]uint32
}

// NewShader creates a new shader program from vertex and fragment shader source files
func NewShader(vertexPath, fragmentPath string, defines ...Define) (*Shader, error) {
	vertexSource, err := readSource(vertexPath, defines)
	if err != nil {
		return nil, fmt.Errorf("could not read vertex shader file: %w", err)
	}

	fragmentSource, err := readSource(fragmentPath, defines)
	if err != nil {
		return nil, fmt.Errorf("could not read fragment shader file: %w", err)
	}

	program, err := linkProgram(
		stageSource{vertexSource, gl.VERTEX_SHADER},
		stageSource{fragmentSource, gl.FRAGMENT_SHADER},
	)
	if err != nil {
		return nil, err
	}
	return newShader(program), nil
}

// NewComputeShader creates a compute program from a single source file.
func NewComputeShader(computePath string, defines ...Define) (*Shader, error) {
	source, err := readSource(computePath, defines)
	if err != nil {
		return nil, fmt.Errorf("could not read compute shader file: %w", err)
	}

	program, err := linkProgram(stageSource{source, gl.COMPUTE_SHADER})
	if err != nil {
		return nil, err
	}
	return newShader(program), nil
}

func newShader(program uint32) *Shader {
	return &Shader{
		ID:       program,
		uniforms: make(map[string]int32),
		blocks:   make(map[string]uint32),
	}
}

// Bind activates the shader program
func (s *Shader) Bind() {
	gl.UseProgram(s.ID)
}

// Unbind clears the active program
func (s *Shader) Unbind() {
	gl.UseProgram(0)
}

// SetInt sets an integer uniform
func (s *Shader) SetInt(name string, value int32) {
	gl.Uniform1i(s.location(name), value)
}

// SetFloat sets a float uniform
func (s *Shader) SetFloat(name string, value float32) {
	gl.Uniform1f(s.location(name), value)
}

// SetMatrix4 sets a 4x4 matrix uniform
func (s *Shader) SetMatrix4(name string, value mgl32.Mat4) {
	gl.UniformMatrix4fv(s.location(name), 1, false, &value[0])
}

// BindUniformBlock attaches buf to the named uniform block
func (s *Shader) BindUniformBlock(name string, binding uint32, buf *device.Buffer) {
	idx, ok := s.blocks[name]
	if !ok {
		idx = gl.GetUniformBlockIndex(s.ID, gl.Str(name+"\x00"))
		s.blocks[name] = idx
		if idx != gl.INVALID_INDEX {
			gl.UniformBlockBinding(s.ID, idx, binding)
		}
	}
	if idx == gl.INVALID_INDEX {
		return
	}
	gl.BindBufferBase(gl.UNIFORM_BUFFER, binding, buf.ID)
}

// Delete releases the program object
func (s *Shader) Delete() {
	if s.ID != 0 {
		gl.DeleteProgram(s.ID)
		s.ID = 0
	}
}

// location caches uniform lookups; missing uniforms resolve to -1 which GL ignores.
func (s *Shader) location(name string) int32 {
	if loc, ok := s.uniforms[name]; ok {
		return loc
	}
	loc := gl.GetUniformLocation(s.ID, gl.Str(name+"\x00"))
	s.uniforms[name] = loc
	return loc
}

func readSource(path string, defines []Define) (string, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return injectDefines(string(src), defines), nil
}

// injectDefines inserts #define lines directly after the #version directive.
func injectDefines(src string, defines []Define) string {
	if len(defines) == 0 {
		return src
	}
	var b strings.Builder
	for _, d := range defines {
		b.WriteString("#define ")
		b.WriteString(d.Name)
		b.WriteByte(' ')
		b.WriteString(d.Value)
		b.WriteByte('\n')
	}

	if strings.HasPrefix(src, "#version") {
		nl := strings.IndexByte(src, '\n')
		if nl < 0 {
			return src + "\n" + b.String()
		}
		return src[:nl+1] + b.String() + src[nl+1:]
	}
	return b.String() + src
}

type stageSource struct {
	source string
	kind   uint32
}

// Helper functions
func linkProgram(stages ...stageSource) (uint32, error) {
	shaders := make([]uint32, 0, len(stages))
	defer func() {
		for _, sh := range shaders {
			gl.DeleteShader(sh)
		}
	}()

	for _, st := range stages {
		sh, err := compileShader(st.source, st.kind)
		if err != nil {
			return 0, err
		}
		shaders = append(shaders, sh)
	}

	program := gl.CreateProgram()
	for _, sh := range shaders {
		gl.AttachShader(program, sh)
	}
	gl.LinkProgram(program)

	var status int32
	gl.GetProgramiv(program, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetProgramiv(program, gl.INFO_LOG_LENGTH, &logLength)

		log := strings.Repeat("\x00", int(logLength+1))
		gl.GetProgramInfoLog(program, logLength, nil, gl.Str(log))
		gl.DeleteProgram(program)

		return 0, fmt.Errorf("failed to link program: %v", log)
	}
	return program, nil
}

func compileShader(source string, shaderType uint32) (uint32, error) {
	shader := gl.CreateShader(shaderType)
	csources, free := gl.Strs(source + "\x00")
	gl.ShaderSource(shader, 1, csources, nil)
	free()
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLength)

		log := strings.Repeat("\x00", int(logLength+1))
		gl.GetShaderInfoLog(shader, logLength, nil, gl.Str(log))
		gl.DeleteShader(shader)

		return 0, fmt.Errorf("failed to compile shader: %v", log)
	}
	return shader, nil
}
