package glbackend

import (
	"fmt"
	"strings"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"
)

// Material is a linked GLSL program plus the uniform values to upload when
// it is bound. Uniforms the program does not use are silently ignored.
type Material struct {
	dev      *Device
	label    string
	program  uint32
	location map[string]int32
	matrices map[string]mgl32.Mat4
	floats   map[string]float32
}

func (d *Device) NewMaterial(label, vertexSrc, fragmentSrc string) (*Material, error) {
	program, err := buildProgram(vertexSrc, fragmentSrc)
	if err != nil {
		return nil, fmt.Errorf("glbackend: material %s: %w", label, err)
	}
	d.log.Debugf("gl: material %s linked as program %d", label, program)
	return &Material{
		dev:      d,
		label:    label,
		program:  program,
		location: make(map[string]int32),
		matrices: make(map[string]mgl32.Mat4),
		floats:   make(map[string]float32),
	}, nil
}

func (m *Material) SetMatrix(name string, v mgl32.Mat4) { m.matrices[name] = v }
func (m *Material) SetFloat(name string, v float32)     { m.floats[name] = v }

func (m *Material) uniform(name string) int32 {
	loc, ok := m.location[name]
	if !ok {
		loc = gl.GetUniformLocation(m.program, gl.Str(name+"\x00"))
		m.location[name] = loc
		if loc < 0 {
			m.dev.log.Debugf("gl: material %s has no active uniform %q", m.label, name)
		}
	}
	return loc
}

func (m *Material) Bind() {
	gl.UseProgram(m.program)
	for name, v := range m.matrices {
		if loc := m.uniform(name); loc >= 0 {
			gl.UniformMatrix4fv(loc, 1, false, &v[0])
		}
	}
	for name, v := range m.floats {
		if loc := m.uniform(name); loc >= 0 {
			gl.Uniform1f(loc, v)
		}
	}
	m.dev.current = m
}

func (m *Material) Unbind() {
	gl.UseProgram(0)
	if m.dev.current == m {
		m.dev.current = nil
	}
}

func (m *Material) Release() {
	gl.DeleteProgram(m.program)
	m.program = 0
}

func buildProgram(vertexSrc, fragmentSrc string) (uint32, error) {
	vs, err := compileShader(gl.VERTEX_SHADER, vertexSrc)
	if err != nil {
		return 0, fmt.Errorf("vertex shader: %w", err)
	}
	defer gl.DeleteShader(vs)
	fs, err := compileShader(gl.FRAGMENT_SHADER, fragmentSrc)
	if err != nil {
		return 0, fmt.Errorf("fragment shader: %w", err)
	}
	defer gl.DeleteShader(fs)

	program := gl.CreateProgram()
	gl.AttachShader(program, vs)
	gl.AttachShader(program, fs)
	gl.LinkProgram(program)

	var status int32
	gl.GetProgramiv(program, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetProgramiv(program, gl.INFO_LOG_LENGTH, &logLength)
		log := strings.Repeat("\x00", int(logLength+1))
		gl.GetProgramInfoLog(program, logLength, nil, gl.Str(log))
		gl.DeleteProgram(program)
		return 0, fmt.Errorf("link error: %s", strings.TrimRight(log, "\x00"))
	}
	return program, nil
}

func compileShader(shaderType uint32, source string) (uint32, error) {
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
		return 0, fmt.Errorf("compile error: %s", strings.TrimRight(log, "\x00"))
	}
	return shader, nil
}
