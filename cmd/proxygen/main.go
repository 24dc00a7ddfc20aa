// Command proxygen writes the procedural light proxy meshes as OBJ files
// readable by the proxy loader.
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gekko3d/lightvol"
	"github.com/gekko3d/lightvol/proxy"
)

func main() {
	out := flag.String("out", "assets", "Output directory")
	rings := flag.Int("rings", proxy.DefaultSphereRings, "Sphere latitude bands")
	segments := flag.Int("segments", proxy.DefaultSphereSegments, "Sphere longitude segments")
	coneSegments := flag.Int("cone-segments", proxy.DefaultConeSegments, "Cone rim segments")
	debug := flag.Bool("debug", false, "Enable debug logging")
	flag.Parse()

	log := lightvol.NewDefaultLogger("proxygen", *debug)
	defer log.Sync()

	meshes := []struct {
		name string
		mesh proxy.Mesh
		desc string
	}{
		{"sphere.obj", proxy.Sphere(*rings, *segments), fmt.Sprintf("unit sphere, %d rings x %d segments", *rings, *segments)},
		{"cone.obj", proxy.Cone(*coneSegments), fmt.Sprintf("unit cone, apex at origin, base at z=1, %d segments", *coneSegments)},
	}

	if err := os.MkdirAll(*out, 0o755); err != nil {
		log.Errorf("%v", err)
		os.Exit(1)
	}
	for _, m := range meshes {
		path := filepath.Join(*out, m.name)
		if err := writeMesh(path, m.mesh, m.desc); err != nil {
			log.Errorf("%v", err)
			os.Exit(1)
		}
		log.Infof("wrote %s: %d vertices, %d triangles", path, len(m.mesh.Vertices), m.mesh.TriangleCount())
	}
}

func writeMesh(path string, m proxy.Mesh, comment string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := proxy.WriteOBJ(f, m, comment); err != nil {
		f.Close()
		return fmt.Errorf("%s: %w", path, err)
	}
	return f.Close()
}
