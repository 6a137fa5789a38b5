package ntf

import (
	"fmt"

	"github.com/davecgh/go-spew/spew"
	"gopkg.in/yaml.v3"
)

var spewConfig *spew.ConfigState

func init() {
	spewConfig = spew.NewDefaultConfig()
	spewConfig.DisableCapacities = true
}

// Dump prints a structural dump of v, in the style of the teacher's
// utils.Dump. Never called by Parse/Write; for caller/test debugging
// only.
func Dump(v ...interface{}) {
	fmt.Println(spewConfig.Sdump(v...))
}

func SDump(v ...interface{}) string {
	return spewConfig.Sdump(v...)
}

// MarshalYAML renders a chunk as {name: value}, with a trailing
// comment documenting its on-disk tag and decoded Go type — the NTF
// analogue of the teacher's VFSAbstractNode.MarshalYAML, which
// annotates each field with its original C type.
func (c *Chunk) MarshalYAML() (interface{}, error) {
	valueNode := &yaml.Node{}
	if err := valueNode.Encode(c.Value); err != nil {
		return nil, err
	}
	valueNode.LineComment = fmt.Sprintf("tag %d (%T)", c.Type, c.Value)

	nameNode := &yaml.Node{Kind: yaml.ScalarNode, Value: c.Name}
	return &yaml.Node{
		Kind:    yaml.MappingNode,
		Content: []*yaml.Node{nameNode, valueNode},
	}, nil
}

func (c *Child) MarshalYAML() (interface{}, error) {
	m := map[string]interface{}{
		"type":    int32(c.Type),
		"entries": c.Entries,
	}
	return m, nil
}

func (e Entry) MarshalYAML() (interface{}, error) {
	if e.IsChunk() {
		return e.Chunk, nil
	}
	if e.IsChild() {
		return e.Child, nil
	}
	return nil, nil
}

// DumpYAML renders a Tree as YAML, one mapping per entry, chunk values
// inlined and children nested — a readable alternative to Dump for
// spot-checking a parsed file, mirroring the teacher's
// VFSAbstractNode.MarshalYAML debug dump.
func DumpYAML(t *Tree) (string, error) {
	out, err := yaml.Marshal(t.Entries)
	if err != nil {
		return "", err
	}
	return string(out), nil
}
