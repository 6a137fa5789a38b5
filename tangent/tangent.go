// Package tangent generates per-vertex tangents for a triangle mesh:
// accumulate a per-triangle tangent contribution at each corner, then
// orthogonalize the accumulated sum against the vertex's normal.
package tangent

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/tw1tools/ntfcore/meshmodel"
)

const degenerateEpsilon = 1e-8

// worldAxes are the candidate fallback directions for a degenerate
// triangle or a tangent that collapses to zero after orthogonalizing.
var worldAxes = [3]mgl32.Vec3{
	{1, 0, 0},
	{0, 1, 0},
	{0, 0, 1},
}

// Solve computes and writes Tangent/TangentW for every vertex in
// verts, given the triangle list. Positions, normals and UV0 must
// already be populated; Tangent/TangentW are overwritten.
func Solve(verts []meshmodel.Vertex, tris []meshmodel.Triangle) {
	sums := make([]mgl32.Vec3, len(verts))

	for _, tri := range tris {
		p0, p1, p2 := verts[tri[0]].Position, verts[tri[1]].Position, verts[tri[2]].Position
		u0, u1, u2 := verts[tri[0]].UV0, verts[tri[1]].UV0, verts[tri[2]].UV0

		edge1 := p1.Sub(p0)
		edge2 := p2.Sub(p0)
		du1 := u1.Sub(u0)
		du2 := u2.Sub(u0)

		d := du1[0]*du2[1] - du2[0]*du1[1]

		var t mgl32.Vec3
		if math.Abs(float64(d)) < degenerateEpsilon {
			n := faceNormal(p0, p1, p2)
			t = arbitraryPerpendicular(n)
		} else {
			inv := float32(1.0) / d
			t = edge1.Mul(du2[1]).Sub(edge2.Mul(du1[1])).Mul(inv)
		}

		sums[tri[0]] = sums[tri[0]].Add(t)
		sums[tri[1]] = sums[tri[1]].Add(t)
		sums[tri[2]] = sums[tri[2]].Add(t)
	}

	for i := range verts {
		n := verts[i].Normal
		sum := sums[i]
		projected := sum.Sub(n.Mul(n.Dot(sum)))
		t := projected.Normalize()
		if !finite(t) {
			t = arbitraryPerpendicular(n)
		}
		verts[i].Tangent = t
		verts[i].TangentW = 255
	}
}

// arbitraryPerpendicular returns a deterministic unit vector
// perpendicular to n, chosen by crossing with the world axis whose
// absolute dot with n is smallest (the axis n is least aligned with).
func arbitraryPerpendicular(n mgl32.Vec3) mgl32.Vec3 {
	best := 0
	bestAbsDot := math.Abs(float64(n.Dot(worldAxes[0])))
	for i := 1; i < len(worldAxes); i++ {
		d := math.Abs(float64(n.Dot(worldAxes[i])))
		if d < bestAbsDot {
			bestAbsDot = d
			best = i
		}
	}
	t := n.Cross(worldAxes[best])
	if !finite(t) || t.Len() < degenerateEpsilon {
		return worldAxes[(best+1)%3]
	}
	return t.Normalize()
}

func faceNormal(p0, p1, p2 mgl32.Vec3) mgl32.Vec3 {
	n := p1.Sub(p0).Cross(p2.Sub(p0))
	if !finite(n) || n.Len() < degenerateEpsilon {
		return worldAxes[2]
	}
	return n.Normalize()
}

func finite(v mgl32.Vec3) bool {
	for _, c := range v {
		f := float64(c)
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return false
		}
	}
	return v.Len() > degenerateEpsilon
}
