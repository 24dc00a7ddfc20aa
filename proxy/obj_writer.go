package proxy

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// WriteOBJ emits m in the subset Parse accepts: all vertices first, then
// one triangle per face line.
func WriteOBJ(w io.Writer, m Mesh, comment string) error {
	if err := m.Validate(); err != nil {
		return err
	}
	bw := bufio.NewWriter(w)
	if strings.ContainsAny(comment, "\r\n") {
		return fmt.Errorf("proxy: comment %q spans several lines", comment)
	}
	if comment != "" {
		fmt.Fprintf(bw, "# %s\n", comment)
	}
	for _, v := range m.Vertices {
		fmt.Fprintf(bw, "v %s %s %s\n", formatCoord(v[0]), formatCoord(v[1]), formatCoord(v[2]))
	}
	for i := 0; i+2 < len(m.Indices); i += 3 {
		fmt.Fprintf(bw, "f %d %d %d\n", m.Indices[i]+1, m.Indices[i+1]+1, m.Indices[i+2]+1)
	}
	return bw.Flush()
}

func formatCoord(c float32) string {
	return strconv.FormatFloat(float64(c), 'g', -1, 32)
}
