// Package mapfile loads level collision maps written as ASCII rows, top row
// first, in YAML or HJSON.
package mapfile

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/hjson/hjson-go/v4"
	"gopkg.in/yaml.v3"

	"github.com/RomanSolomatin/2d-platformer-pathfinding/internal/navgrid"
)

type Format string

const (
	FormatYAML  Format = "yaml"
	FormatHJSON Format = "hjson"
)

var (
	ErrUnknownFormat = errors.New("mapfile: unknown format")
	ErrSizeMismatch  = errors.New("mapfile: declared size does not match rows")
)

// Document is the on-disk shape of a level. Width and Height are optional;
// when present they must agree with Rows.
type Document struct {
	Name              string   `json:"name" yaml:"name"`
	Width             int      `json:"width,omitempty" yaml:"width,omitempty"`
	Height            int      `json:"height,omitempty" yaml:"height,omitempty"`
	JumpHeight        int      `json:"jumpHeight" yaml:"jumpHeight"`
	BodyHeight        int      `json:"bodyHeight" yaml:"bodyHeight"`
	MaxDropsAfterJump int      `json:"maxDropsAfterJump,omitempty" yaml:"maxDropsAfterJump,omitempty"`
	Rows              []string `json:"rows" yaml:"rows"`
}

// FormatFor picks the decoder from a file extension. JSON is read by the
// HJSON decoder.
func FormatFor(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".hjson", ".json":
		return FormatHJSON, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, filepath.Ext(path))
	}
}

func Load(path string) (Document, error) {
	format, err := FormatFor(path)
	if err != nil {
		return Document{}, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Document{}, fmt.Errorf("read map %s: %w", path, err)
	}
	doc, err := Parse(data, format)
	if err != nil {
		return Document{}, fmt.Errorf("parse map %s: %w", path, err)
	}
	if doc.Name == "" {
		doc.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return doc, nil
}

func Parse(data []byte, format Format) (Document, error) {
	var doc Document
	switch format {
	case FormatYAML:
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return Document{}, err
		}
	case FormatHJSON:
		// Strip a UTF-8 byte order mark left by some editors.
		data = []byte(strings.TrimPrefix(string(data), "\ufeff"))
		if err := hjson.Unmarshal(data, &doc); err != nil {
			return Document{}, err
		}
	default:
		return Document{}, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
	return doc, nil
}

// CollisionMap converts the rows to a bottom-first tile buffer.
func (d Document) CollisionMap() (navgrid.CollisionMap, error) {
	m, err := navgrid.ParseRows(d.Rows)
	if err != nil {
		return navgrid.CollisionMap{}, err
	}
	if (d.Width != 0 && d.Width != m.Width) || (d.Height != 0 && d.Height != m.Height) {
		return navgrid.CollisionMap{}, fmt.Errorf("%w: declared %dx%d, rows are %dx%d", ErrSizeMismatch, d.Width, d.Height, m.Width, m.Height)
	}
	return m, nil
}

func (d Document) Params() navgrid.Params {
	return navgrid.Params{
		JumpHeight:        d.JumpHeight,
		BodyHeight:        d.BodyHeight,
		MaxDropsAfterJump: d.MaxDropsAfterJump,
	}
}

// Encode writes the document back out in the requested format.
func (d Document) Encode(format Format) ([]byte, error) {
	switch format {
	case FormatYAML:
		return yaml.Marshal(d)
	case FormatHJSON:
		return hjson.MarshalWithOptions(d, hjson.DefaultOptions())
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}

// FromCollisionMap builds a document for an existing map.
func FromCollisionMap(name string, m navgrid.CollisionMap, params navgrid.Params) Document {
	return Document{
		Name:              name,
		Width:             m.Width,
		Height:            m.Height,
		JumpHeight:        params.JumpHeight,
		BodyHeight:        params.BodyHeight,
		MaxDropsAfterJump: params.MaxDropsAfterJump,
		Rows:              m.Rows(),
	}
}
