package objbridge

import (
	"bufio"
	"bytes"
	"strconv"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"

	"github.com/tw1tools/ntfcore/meshmodel"
)

type corner struct {
	pos, uv, normal int // indices into the global pools; -1 if absent
	computedFace    int // face sequence number, set only when normal < 0, so
	// corners needing a computed normal never merge across different faces
}

type groupBuilder struct {
	mg      *meshmodel.MeshGroup
	matName string
	corners map[corner]uint16
}

// ReadOBJ parses the interchange format into MeshGroups, resolving
// each group's material by usemtl name against materials (typically
// the return of ParseMTL on the sibling .mtl file; pass nil if none).
func ReadOBJ(data []byte, materials map[string]meshmodel.Shader) ([]meshmodel.MeshGroup, error) {
	var positions []mgl32.Vec3
	var uvs []mgl32.Vec2
	var normals []mgl32.Vec3

	var builders []*groupBuilder
	var current *groupBuilder
	pendingName, pendingMat := "", ""
	dirty := true
	faceCounter := 0

	ensureGroup := func() *groupBuilder {
		if current != nil && pendingMat != "" && current.matName == pendingMat {
			current.mg.Name = pendingName
			return current
		}
		mg := &meshmodel.MeshGroup{Name: pendingName, VertexFormat: 1}
		if mat, ok := materials[pendingMat]; ok {
			mg.Material = mat
		} else if pendingMat != "" {
			mg.Material = meshmodel.Shader{Name: pendingMat, ShaderName: pendingMat}
		}
		b := &groupBuilder{mg: mg, matName: pendingMat, corners: map[corner]uint16{}}
		builders = append(builders, b)
		current = b
		return b
	}

	localIndex := func(b *groupBuilder, c corner, computedNormal mgl32.Vec3) uint16 {
		if idx, ok := b.corners[c]; ok {
			return idx
		}
		v := meshmodel.Vertex{}
		if c.pos >= 0 {
			v.Position = positions[c.pos]
		}
		if c.uv >= 0 {
			v.UV0 = uvs[c.uv]
		}
		if c.normal >= 0 {
			v.Normal = normals[c.normal]
		} else {
			v.Normal = computedNormal
		}
		idx := uint16(len(b.mg.Vertices))
		b.mg.Vertices = append(b.mg.Vertices, v)
		b.corners[c] = idx
		return idx
	}

	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		switch fields[0] {
		case "v":
			p, err := parseVec3(fields[1:])
			if err != nil {
				return nil, errors.Wrapf(err, "v directive")
			}
			positions = append(positions, p)
		case "vt":
			if len(fields) < 3 {
				return nil, errors.Wrapf(ErrMalformedDirective, "vt directive: %q", line)
			}
			u, err1 := strconv.ParseFloat(fields[1], 32)
			v, err2 := strconv.ParseFloat(fields[2], 32)
			if err1 != nil || err2 != nil {
				return nil, errors.Wrapf(ErrMalformedDirective, "vt directive: %q", line)
			}
			uvs = append(uvs, mgl32.Vec2{float32(u), float32(v)})
		case "vn":
			n, err := parseVec3(fields[1:])
			if err != nil {
				return nil, errors.Wrapf(err, "vn directive")
			}
			normals = append(normals, n)
		case "g":
			pendingName = strings.Join(fields[1:], " ")
			dirty = true
		case "usemtl":
			pendingMat = strings.Join(fields[1:], " ")
			dirty = true
		case "mtllib":
			// consumed by the caller, not by this package.
		case "f":
			if dirty {
				ensureGroup()
				dirty = false
			}
			corners := make([]corner, len(fields)-1)
			for i, tok := range fields[1:] {
				c, err := parseCorner(tok, len(positions), len(uvs), len(normals))
				if err != nil {
					return nil, err
				}
				corners[i] = c
			}
			if len(corners) < 3 {
				return nil, errors.Wrapf(ErrMalformedDirective, "f directive has fewer than 3 corners: %q", line)
			}

			var faceNormal mgl32.Vec3
			needsComputed := false
			for _, c := range corners {
				if c.normal < 0 {
					needsComputed = true
				}
			}
			if needsComputed {
				faceNormal = computeFaceNormal(positions, corners)
				faceCounter++
				for i := range corners {
					if corners[i].normal < 0 {
						corners[i].computedFace = faceCounter
					}
				}
			}

			idxs := make([]uint16, len(corners))
			for i, c := range corners {
				idxs[i] = localIndex(current, c, faceNormal)
			}
			for k := 1; k < len(idxs)-1; k++ {
				current.mg.Triangles = append(current.mg.Triangles, meshmodel.Triangle{idxs[0], idxs[k], idxs[k+1]})
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	groups := make([]meshmodel.MeshGroup, len(builders))
	for i, b := range builders {
		groups[i] = *b.mg
	}
	return groups, nil
}

func parseVec3(fields []string) (mgl32.Vec3, error) {
	if len(fields) < 3 {
		return mgl32.Vec3{}, errors.Wrapf(ErrMalformedDirective, "want 3 components, got %d", len(fields))
	}
	var v mgl32.Vec3
	for i := 0; i < 3; i++ {
		f, err := strconv.ParseFloat(fields[i], 32)
		if err != nil {
			return v, errors.Wrapf(ErrMalformedDirective, "component %d: %v", i, err)
		}
		v[i] = float32(f)
	}
	return v, nil
}

// parseCorner parses one face-corner token (v, v/vt, v//vn, v/vt/vn),
// resolving 1-based and negative (from-the-end) indices to 0-based
// indices into the pools already read at this point in the file.
func parseCorner(tok string, numPos, numUV, numNormal int) (corner, error) {
	parts := strings.Split(tok, "/")
	c := corner{pos: -1, uv: -1, normal: -1}

	pos, err := resolveIndex(parts[0], numPos)
	if err != nil {
		return c, errors.Wrapf(ErrIndexOutOfRange, "face corner %q: %v", tok, err)
	}
	c.pos = pos

	if len(parts) >= 2 && parts[1] != "" {
		uv, err := resolveIndex(parts[1], numUV)
		if err != nil {
			return c, errors.Wrapf(ErrIndexOutOfRange, "face corner %q: %v", tok, err)
		}
		c.uv = uv
	}
	if len(parts) >= 3 && parts[2] != "" {
		n, err := resolveIndex(parts[2], numNormal)
		if err != nil {
			return c, errors.Wrapf(ErrIndexOutOfRange, "face corner %q: %v", tok, err)
		}
		c.normal = n
	}
	return c, nil
}

func resolveIndex(s string, count int) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, err
	}
	switch {
	case n > 0:
		if n > count {
			return 0, errors.Errorf("index %d exceeds pool of %d", n, count)
		}
		return n - 1, nil
	case n < 0:
		idx := count + n
		if idx < 0 {
			return 0, errors.Errorf("negative index %d underflows pool of %d", n, count)
		}
		return idx, nil
	default:
		return 0, errors.Errorf("index 0 is not valid (indices are 1-based)")
	}
}

func computeFaceNormal(positions []mgl32.Vec3, corners []corner) mgl32.Vec3 {
	if len(corners) < 3 {
		return mgl32.Vec3{0, 0, 1}
	}
	p0, p1, p2 := positions[corners[0].pos], positions[corners[1].pos], positions[corners[2].pos]
	n := p1.Sub(p0).Cross(p2.Sub(p0))
	if n.Len() < 1e-8 {
		return mgl32.Vec3{0, 0, 1}
	}
	return n.Normalize()
}
