package proxy

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/gekko3d/lightvol"
	"github.com/go-gl/mathgl/mgl32"
)

// ParseError reports a malformed vertex or face record.
type ParseError struct {
	Line   int
	Text   string
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("line %d: %s: %q", e.Line, e.Reason, e.Text)
}

// Parse reads the restricted OBJ subset used for proxy shapes: "v x y z"
// position records followed by "f a b c" triangles of 1-based vertex
// indices. Vertices must precede the faces that reference them. Any other
// line is reported at debug level and skipped.
func Parse(r io.Reader, log lightvol.Logger) (Mesh, error) {
	log = lightvol.OrNop(log)
	var mesh Mesh

	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimRight(scanner.Text(), "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}

		switch {
		case strings.HasPrefix(line, "v "):
			fields := strings.Fields(line[2:])
			if len(fields) != 3 {
				return Mesh{}, &ParseError{Line: lineNo, Text: line, Reason: fmt.Sprintf("vertex needs 3 coordinates, got %d", len(fields))}
			}
			var v mgl32.Vec3
			for i, f := range fields {
				c, err := strconv.ParseFloat(f, 32)
				if err != nil || math.IsNaN(c) || math.IsInf(c, 0) {
					return Mesh{}, &ParseError{Line: lineNo, Text: line, Reason: "bad coordinate " + strconv.Quote(f)}
				}
				v[i] = float32(c)
			}
			mesh.Vertices = append(mesh.Vertices, v)

		case line[0] == 'f':
			tokens := strings.Fields(line)[1:]
			if len(tokens) != 3 {
				return Mesh{}, &ParseError{Line: lineNo, Text: line, Reason: fmt.Sprintf("face must list 3 vertex indices, got %d", len(tokens))}
			}
			var tri [3]uint32
			for i, tok := range tokens {
				if strings.ContainsRune(tok, '/') {
					return Mesh{}, &ParseError{Line: lineNo, Text: line, Reason: "only plain vertex indices are supported"}
				}
				n, err := strconv.ParseUint(tok, 10, 32)
				if err != nil || n == 0 {
					return Mesh{}, &ParseError{Line: lineNo, Text: line, Reason: "bad vertex index " + strconv.Quote(tok)}
				}
				if n > uint64(len(mesh.Vertices)) {
					return Mesh{}, &ParseError{Line: lineNo, Text: line, Reason: fmt.Sprintf("vertex index %d out of range, %d vertices read so far", n, len(mesh.Vertices))}
				}
				tri[i] = uint32(n - 1)
			}
			mesh.Indices = append(mesh.Indices, tri[:]...)

		default:
			log.Debugf("proxy: line %d skipped: %s", lineNo, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return Mesh{}, err
	}
	return mesh, nil
}

func Open(path string, log lightvol.Logger) (Mesh, error) {
	f, err := os.Open(path)
	if err != nil {
		return Mesh{}, err
	}
	defer f.Close()

	mesh, err := Parse(f, log)
	if err != nil {
		return Mesh{}, fmt.Errorf("proxy mesh %s: %w", path, err)
	}
	return mesh, nil
}

// Load is Open for callers that must keep going without the mesh. Failures
// are logged and yield an empty mesh, which renders as a zero-triangle draw.
func Load(path string, log lightvol.Logger) Mesh {
	log = lightvol.OrNop(log)
	mesh, err := Open(path, log)
	if err != nil {
		log.Errorf("Can't read proxy mesh: %v", err)
		return Mesh{}
	}
	log.Debugf("proxy: loaded %s (%d vertices, %d triangles)", path, len(mesh.Vertices), mesh.TriangleCount())
	return mesh
}
