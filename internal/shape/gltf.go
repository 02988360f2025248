package shape

import (
	"fmt"

	"collidex/internal/core"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
)

// Hull is a named collision polyhedron read from a glTF document
type Hull struct {
	Name  string
	Shape *Polyhedron
}

// LoadGLTF opens a .gltf or .glb file and returns one hull per mesh primitive
func LoadGLTF(path string) ([]Hull, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open gltf %s: %w", path, err)
	}
	return HullsFromDocument(doc)
}

// HullsFromDocument converts every mesh primitive of doc into a Polyhedron.
// Points follow index order, so a triangle list yields one face normal per
// triangle. The polyhedron is positioned at the centre of its bounds with
// points relative to that centre.
func HullsFromDocument(doc *gltf.Document) ([]Hull, error) {
	var hulls []Hull
	for mi, mesh := range doc.Meshes {
		for pi, prim := range mesh.Primitives {
			posIndex, ok := prim.Attributes[gltf.POSITION]
			if !ok {
				continue
			}
			acc, err := accessor(doc, posIndex)
			if err != nil {
				return nil, fmt.Errorf("mesh %d primitive %d: positions: %w", mi, pi, err)
			}
			positions, err := modeler.ReadPosition(doc, acc, nil)
			if err != nil {
				return nil, fmt.Errorf("mesh %d primitive %d: read positions: %w", mi, pi, err)
			}

			var order []uint32
			if prim.Indices != nil {
				acc, err := accessor(doc, *prim.Indices)
				if err != nil {
					return nil, fmt.Errorf("mesh %d primitive %d: indices: %w", mi, pi, err)
				}
				order, err = modeler.ReadIndices(doc, acc, nil)
				if err != nil {
					return nil, fmt.Errorf("mesh %d primitive %d: read indices: %w", mi, pi, err)
				}
			} else {
				order = make([]uint32, len(positions))
				for i := range order {
					order[i] = uint32(i)
				}
			}

			points := make([]core.Vector3D, 0, len(order))
			for _, idx := range order {
				if int(idx) >= len(positions) {
					return nil, fmt.Errorf("mesh %d primitive %d: index %d out of range: %w", mi, pi, idx, core.ErrInvalidShape)
				}
				p := positions[idx]
				points = append(points, core.Vector3D{X: float64(p[0]), Y: float64(p[1]), Z: float64(p[2])})
			}

			poly, err := NewPolyhedron(core.Vector3D{}, points...)
			if err != nil {
				return nil, fmt.Errorf("mesh %d primitive %d: %w", mi, pi, err)
			}
			recentre(poly)

			name := mesh.Name
			if len(mesh.Primitives) > 1 {
				name = fmt.Sprintf("%s.%d", mesh.Name, pi)
			}
			hulls = append(hulls, Hull{Name: name, Shape: poly})
		}
	}
	return hulls, nil
}

func accessor(doc *gltf.Document, i int) (*gltf.Accessor, error) {
	if i < 0 || i >= len(doc.Accessors) || doc.Accessors[i] == nil {
		return nil, fmt.Errorf("accessor %d of %d: %w", i, len(doc.Accessors), core.ErrInvalidShape)
	}
	return doc.Accessors[i], nil
}

func recentre(p *Polyhedron) {
	centre := p.Bounds().Center()
	for i := range p.points {
		p.points[i] = p.points[i].Sub(centre)
	}
	p.Position = p.Position.Add(centre)
}
