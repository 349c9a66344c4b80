// Package batchfile loads authored batch declarations from YAML files into
// the in-memory batch consumed by the resolution engine.
package batchfile

import (
	"fmt"
	"os"

	"github.com/goccy/go-yaml"

	"github.com/tracefold/graphpub/pkg/errors"
	"github.com/tracefold/graphpub/pkg/graph"
)

// File is the on-disk YAML shape of an authored batch.
type File struct {
	Types      []TypeDecl     `yaml:"types"`
	Properties []PropertyDecl `yaml:"properties"`
	Entities   []EntityDecl   `yaml:"entities"`
}

// TypeDecl declares a type and its default properties.
type TypeDecl struct {
	Name       string   `yaml:"name"`
	Properties []string `yaml:"properties"`
	SourceTab  string   `yaml:"sourceTab"`
}

// PropertyDecl declares a property and its data type.
type PropertyDecl struct {
	Name      string `yaml:"name"`
	DataType  string `yaml:"dataType"`
	SourceTab string `yaml:"sourceTab"`
}

// EntityDecl declares an entity row.
type EntityDecl struct {
	Name        string              `yaml:"name"`
	Types       []string            `yaml:"types"`
	Description string              `yaml:"description"`
	Values      map[string]string   `yaml:"values"`
	Relations   map[string][]string `yaml:"relations"`
	Cover       string              `yaml:"cover"`
	SourceTab   string              `yaml:"sourceTab"`
}

// Load reads and parses a batch file from path.
func Load(path string) (*graph.Batch, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &errors.NotFoundError{Resource: "batch file", ID: path}
	}
	return Parse(data)
}

// Parse parses YAML batch declarations.
func Parse(data []byte) (*graph.Batch, error) {
	var file File
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, &errors.ValidationError{
			Field:   "batch file",
			Message: fmt.Sprintf("invalid YAML: %v", err),
		}
	}
	return file.Batch()
}

// Batch converts the file declarations into an engine batch, validating
// declaration names and data types.
func (f *File) Batch() (*graph.Batch, error) {
	batch := &graph.Batch{}

	for i, t := range f.Types {
		if t.Name == "" {
			return nil, &errors.ValidationError{
				Field:   fmt.Sprintf("types[%d].name", i),
				Message: "type name must not be empty",
			}
		}
		batch.Types = append(batch.Types, graph.TypeDeclaration{
			Name:       t.Name,
			Properties: t.Properties,
			SourceTab:  t.SourceTab,
		})
	}

	for i, p := range f.Properties {
		if p.Name == "" {
			return nil, &errors.ValidationError{
				Field:   fmt.Sprintf("properties[%d].name", i),
				Message: "property name must not be empty",
			}
		}
		dt, err := graph.ParseDataType(p.DataType)
		if err != nil {
			return nil, &errors.ValidationError{
				Field:   fmt.Sprintf("properties[%d].dataType", i),
				Value:   p.DataType,
				Message: err.Error(),
			}
		}
		batch.Properties = append(batch.Properties, graph.PropertyDeclaration{
			Name:      p.Name,
			DataType:  dt,
			SourceTab: p.SourceTab,
		})
	}

	for i, e := range f.Entities {
		if e.Name == "" {
			return nil, &errors.ValidationError{
				Field:   fmt.Sprintf("entities[%d].name", i),
				Message: "entity name must not be empty",
			}
		}
		batch.Entities = append(batch.Entities, graph.EntityDeclaration{
			Name:        e.Name,
			Types:       e.Types,
			Description: e.Description,
			Values:      e.Values,
			Relations:   e.Relations,
			CoverURL:    e.Cover,
			SourceTab:   e.SourceTab,
		})
	}

	return batch, nil
}
