// Package treefile reads and writes family graphs as YAML documents. It is
// the CLI's codec for the engine's own serialization format; interchange
// formats like GEDCOM are converted upstream before reaching the engine.
package treefile

import (
	"os"

	"github.com/goccy/go-yaml"

	"github.com/ACiDekCZ/strom-sub000/pkg/errors"
	"github.com/ACiDekCZ/strom-sub000/pkg/gentree"
)

// Load reads a YAML tree file from path.
func Load(path string) (*gentree.Tree, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.WrapIO("read", path, err)
	}
	return Decode(data, path)
}

// Decode parses YAML tree data. The name is used in error messages only.
func Decode(data []byte, name string) (*gentree.Tree, error) {
	var doc gentree.Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, errors.WrapParse("yaml", name, err)
	}
	tree, err := gentree.FromDocument(&doc)
	if err != nil {
		return nil, errors.WrapParse("yaml", name, err)
	}
	return tree, nil
}

// Save writes a tree to path as YAML.
func Save(path string, tree *gentree.Tree) error {
	data, err := Encode(tree)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.WrapIO("write", path, err)
	}
	return nil
}

// Encode serializes a tree to YAML.
func Encode(tree *gentree.Tree) ([]byte, error) {
	data, err := yaml.Marshal(tree.Document())
	if err != nil {
		return nil, errors.WrapParse("yaml", "", err)
	}
	return data, nil
}
