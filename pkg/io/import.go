package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/matzehuels/treemap/pkg/core/tree"
	"github.com/matzehuels/treemap/pkg/errors"
	"github.com/matzehuels/treemap/pkg/histogram"
)

// Input formats.
const (
	FormatJSON      = "json"
	FormatYAML      = "yaml"
	FormatHistogram = "histogram"
)

var formatByExt = map[string]string{
	".json":  FormatJSON,
	".yaml":  FormatYAML,
	".yml":   FormatYAML,
	".histo": FormatHistogram,
	".txt":   FormatHistogram,
	".csv":   FormatHistogram,
}

// DetectFormat returns the input format implied by path's extension.
func DetectFormat(path string) (string, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if f, ok := formatByExt[ext]; ok {
		return f, nil
	}
	return "", errors.New(errors.ErrCodeInvalidFormat, "cannot infer format from %q (use json, yaml or histogram)", path)
}

// ImportFile reads the tree at path. An empty format is inferred from the
// extension. Histogram options are ignored for the other formats.
func ImportFile(path, format string, opts ...histogram.Option) (*tree.Node, error) {
	if format == "" {
		f, err := DetectFormat(path)
		if err != nil {
			return nil, err
		}
		format = f
	}
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "open %s", path)
		}
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	root, err := Read(f, format, opts...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return root, nil
}

// Read decodes a tree from r in the given format.
func Read(r io.Reader, format string, opts ...histogram.Option) (*tree.Node, error) {
	switch format {
	case FormatJSON:
		return ReadJSON(r)
	case FormatYAML:
		return ReadYAML(r)
	case FormatHistogram:
		h, err := histogram.Parse(r)
		if err != nil {
			return nil, err
		}
		return histogram.FromHistogram(h, opts...), nil
	default:
		return nil, errors.New(errors.ErrCodeInvalidFormat, "unknown input format %q", format)
	}
}

// ReadJSON decodes a nested JSON document. Interior weights are recomputed
// from the leaves. ReadJSON does not close r.
func ReadJSON(r io.Reader) (*tree.Node, error) {
	var doc node
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode json")
	}
	return build(doc)
}

// ReadYAML decodes a nested YAML document. Interior weights are recomputed
// from the leaves. ReadYAML does not close r.
func ReadYAML(r io.Reader) (*tree.Node, error) {
	var doc node
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode yaml")
	}
	return build(doc)
}

func build(doc node) (*tree.Node, error) {
	root, err := buildNode(doc, "")
	if err != nil {
		return nil, err
	}
	tree.FillWeights(root)
	return root, nil
}

func buildNode(doc node, path string) (*tree.Node, error) {
	path = path + "/" + doc.Label
	var w float64
	if doc.Weight != nil {
		w = *doc.Weight
	}
	n := tree.NewNode(doc.Label, w)
	if doc.Color != "" {
		c, err := tree.ParseColor(doc.Color)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "node %s", path)
		}
		n.SetColor(c)
	}
	for k, v := range doc.Info {
		n.SetInfo(k, v)
	}
	for _, c := range doc.Children {
		child, err := buildNode(c, path)
		if err != nil {
			return nil, err
		}
		n.AddChild(child)
	}
	return n, nil
}
