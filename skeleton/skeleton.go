// Package skeleton produces and restores "skeletons": serialized
// copies of a Tree with mesh payload chunks blanked, so shader
// assignments, locators and engine-private data survive an external
// mesh edit untouched.
package skeleton

import (
	"encoding/base64"

	"github.com/tw1tools/ntfcore/ntf"
)

// Emit clones tree, zeroes every "Vertexes"/"Faces" chunk payload and
// their paired counts, and serializes the result. The caller is
// expected to persist the bytes (typically base64-wrapped) alongside
// the edited mesh; this package performs no I/O of its own.
func Emit(tree *ntf.Tree) []byte {
	clone := tree.Clone()
	blank(clone.Entries)
	return ntf.Write(clone)
}

// EmitBase64 is a convenience wrapper around Emit for callers that
// immediately base64-encode the result before embedding it in a
// sidecar record, which is every caller observed in the reference
// toolkit.
func EmitBase64(tree *ntf.Tree) string {
	return base64.StdEncoding.EncodeToString(Emit(tree))
}

// Restore parses a previously emitted skeleton. The caller is
// expected to immediately call binding.InjectMeshGroups on the result
// to repopulate the blanked chunks.
func Restore(data []byte) (*ntf.Tree, error) {
	return ntf.Parse(data)
}

// RestoreBase64 decodes and parses a base64-wrapped skeleton.
func RestoreBase64(encoded string) (*ntf.Tree, error) {
	data, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, err
	}
	return Restore(data)
}

func blank(entries []ntf.Entry) {
	for _, e := range entries {
		switch {
		case e.IsChunk():
			switch e.Chunk.Name {
			case "Vertexes", "Faces":
				if _, ok := e.Chunk.Value.([]byte); ok {
					e.Chunk.Value = []byte{}
				}
			case "NumVertexes", "NumFaces":
				e.Chunk.Value = uint32(0)
			}
		case e.IsChild():
			blank(e.Child.Entries)
		}
	}
}
