// Package objbridge reads and writes the textual triangle-mesh
// interchange format (the common v/vt/vn/f/g/usemtl/mtllib directive
// set and its sibling material file) used to move meshmodel.MeshGroup
// data in and out of third-party 3D editors.
package objbridge

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/tw1tools/ntfcore/meshmodel"
	"github.com/tw1tools/ntfcore/utils"
)

// WriteOBJ emits positions, uv0 (as vt) and averaged per-vertex
// normals for every group. uv1 is never emitted — the engine
// regenerates lightmap UVs, and the skeleton is the only mechanism
// that preserves it.
func WriteOBJ(out io.Writer, groups []meshmodel.MeshGroup, mtllibName string) error {
	w := func(format string, args ...interface{}) {
		fmt.Fprintf(out, format+"\n", args...)
	}

	if mtllibName != "" {
		w("mtllib %s", mtllibName)
	}

	for _, g := range groups {
		for _, v := range g.Vertices {
			w("v %f %f %f", v.Position[0], v.Position[1], v.Position[2])
		}
		for _, v := range g.Vertices {
			w("vt %f %f", v.UV0[0], v.UV0[1])
		}
		for _, v := range g.Vertices {
			w("vn %f %f %f", v.Normal[0], v.Normal[1], v.Normal[2])
		}
	}

	iV, iT, iN := uint32(1), uint32(1), uint32(1)
	for _, g := range groups {
		w("g %s", g.Name)
		if matName := materialName(g.Material); matName != "" {
			w("usemtl %s", matName)
		}
		for _, tri := range g.Triangles {
			w("f %d/%d/%d %d/%d/%d %d/%d/%d",
				iV+uint32(tri[0]), iT+uint32(tri[0]), iN+uint32(tri[0]),
				iV+uint32(tri[1]), iT+uint32(tri[1]), iN+uint32(tri[1]),
				iV+uint32(tri[2]), iT+uint32(tri[2]), iN+uint32(tri[2]))
		}
		n := uint32(len(g.Vertices))
		iV += n
		iT += n
		iN += n
	}
	return nil
}

// WriteMTL emits one newmtl block per group's material, in the field
// mapping from spec.md §4.8. Texture names are written verbatim; DDS
// normalization happens on read, when a name is about to be written
// into a shader field, not on write of the interchange file itself.
func WriteMTL(out io.Writer, groups []meshmodel.MeshGroup) error {
	w := func(format string, args ...interface{}) {
		fmt.Fprintf(out, format+"\n", args...)
	}
	for _, g := range groups {
		m := g.Material
		name := materialName(m)
		if name == "" {
			continue
		}
		w("newmtl %s", name)
		w("Kd %.4f %.4f %.4f", m.DestColor[0], m.DestColor[1], m.DestColor[2])
		pr, pg, pb, pa := m.PreviewRGBA()
		w("# preview rgba %02x%02x%02x%02x", pr, pg, pb, pa)
		w("Ks %.4f %.4f %.4f", m.SpecColor[0], m.SpecColor[1], m.SpecColor[2])
		w("Ns %.1f", m.SpecColor[3])
		w("d %.4f", m.Alpha)
		if m.TexS0 != "" {
			w("map_Kd %s", m.TexS0)
		}
		if m.TexS1 != "" {
			w("map_bump %s", m.TexS1)
		}
		if m.TexS2 != "" {
			w("map_Ka %s", m.TexS2)
		}
	}
	return nil
}

func materialName(m meshmodel.Shader) string {
	if m.Name != "" {
		return m.Name
	}
	return m.ShaderName
}

// normalizeDDS rewrites a texture reference's extension to .dds,
// case-insensitively, leaving names already ending in .dds untouched.
// Applied only when a name is about to land in a shader texture
// field, matching the reference toolkit's _ensure_dds helper.
func normalizeDDS(name string) string {
	if name == "" {
		return name
	}
	dot := strings.LastIndexByte(name, '.')
	if dot < 0 {
		return name + ".dds"
	}
	if strings.EqualFold(name[dot:], ".dds") {
		return name
	}
	return name[:dot] + ".dds"
}

// ParseMTL reads newmtl blocks into a name-keyed Shader map.
func ParseMTL(data []byte) (map[string]meshmodel.Shader, error) {
	out := map[string]meshmodel.Shader{}
	var cur *meshmodel.Shader

	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 || strings.HasPrefix(fields[0], "#") {
			continue
		}
		switch fields[0] {
		case "newmtl":
			name := strings.Join(fields[1:], " ")
			s := meshmodel.Shader{Name: name, ShaderName: name}
			out[name] = s
			cur = &s
		case "Kd":
			if cur == nil || len(fields) < 4 {
				continue
			}
			rgb, err := parseFloats(fields[1:4])
			if err != nil {
				return nil, err
			}
			cur.DestColor = utils.NewColorFloat(rgb[:])
			out[cur.Name] = *cur
		case "Ks":
			if cur == nil || len(fields) < 4 {
				continue
			}
			rgb, err := parseFloats(fields[1:4])
			if err != nil {
				return nil, err
			}
			cur.SpecColor = utils.NewColorFloat(rgb[:])
			out[cur.Name] = *cur
		case "Ns":
			if cur == nil || len(fields) < 2 {
				continue
			}
			v, err := strconv.ParseFloat(fields[1], 32)
			if err != nil {
				return nil, errors.Wrapf(err, "Ns")
			}
			cur.SpecColor[3] = float32(v)
			out[cur.Name] = *cur
		case "d":
			if cur == nil || len(fields) < 2 {
				continue
			}
			v, err := strconv.ParseFloat(fields[1], 32)
			if err != nil {
				return nil, errors.Wrapf(err, "d")
			}
			cur.Alpha = float32(v)
			out[cur.Name] = *cur
		case "map_Kd":
			if cur == nil {
				continue
			}
			cur.TexS0 = normalizeDDS(strings.Join(fields[1:], " "))
			out[cur.Name] = *cur
		case "map_bump", "bump":
			if cur == nil {
				continue
			}
			cur.TexS1 = normalizeDDS(strings.Join(fields[1:], " "))
			out[cur.Name] = *cur
		case "map_Ka":
			if cur == nil {
				continue
			}
			cur.TexS2 = normalizeDDS(strings.Join(fields[1:], " "))
			out[cur.Name] = *cur
		}
	}
	return out, scanner.Err()
}

func parseFloats(fields []string) ([3]float32, error) {
	var out [3]float32
	for i, f := range fields {
		v, err := strconv.ParseFloat(f, 32)
		if err != nil {
			return out, errors.Wrapf(err, "field %d", i)
		}
		out[i] = float32(v)
	}
	return out, nil
}
