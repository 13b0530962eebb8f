package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/matzehuels/treemap/pkg/core/tree"
)

type node struct {
	Label    string            `json:"label" yaml:"label"`
	Weight   *float64          `json:"weight,omitempty" yaml:"weight,omitempty"`
	Color    string            `json:"color,omitempty" yaml:"color,omitempty"`
	Info     map[string]string `json:"info,omitempty" yaml:"info,omitempty"`
	Children []node            `json:"children,omitempty" yaml:"children,omitempty"`
}

func toDoc(n *tree.Node) node {
	w := n.RealWeight()
	doc := node{
		Label:  n.Label(),
		Weight: &w,
		Info:   n.Infos(),
	}
	if c, ok := n.Color(); ok {
		doc.Color = c.Hex()
	}
	for _, c := range n.Children() {
		doc.Children = append(doc.Children, toDoc(c))
	}
	return doc
}

// WriteJSON encodes the tree under root as an indented nested document.
func WriteJSON(root *tree.Node, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(toDoc(root)); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// WriteYAML encodes the tree under root as a nested YAML document.
func WriteYAML(root *tree.Node, w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(toDoc(root)); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return enc.Close()
}

// ExportFile writes root to path in the format implied by its extension.
func ExportFile(root *tree.Node, path string) error {
	format, err := DetectFormat(path)
	if err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	switch format {
	case FormatYAML:
		return WriteYAML(root, f)
	case FormatJSON:
		return WriteJSON(root, f)
	default:
		return fmt.Errorf("export to %s is not supported", format)
	}
}
