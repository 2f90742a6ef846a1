// Package presets loads named image geometries (size/ninodes/nlog triples)
// from CSV, so newfs can offer a --preset shorthand alongside its three
// positional arguments.
package presets

import (
	"fmt"
	"io"
	"strings"

	"github.com/gocarina/gocsv"

	"github.com/xv6tools/xv6fs/image"
)

// Geometry is one named row of a preset catalog.
type Geometry struct {
	Name    string `csv:"name"`
	Size    uint32 `csv:"size"`
	NInodes uint32 `csv:"ninodes"`
	NLog    uint32 `csv:"nlog"`
}

// ToImageGeometry converts g to the image.Geometry Setup expects.
func (g Geometry) ToImageGeometry() image.Geometry {
	return image.Geometry{Size: g.Size, NInodes: g.NInodes, NLog: g.NLog}
}

// Load parses a CSV catalog, rejecting duplicate preset names.
func Load(r io.Reader) (map[string]Geometry, error) {
	result := map[string]Geometry{}
	err := gocsv.UnmarshalToCallback(r, func(row Geometry) error {
		if _, exists := result[row.Name]; exists {
			return fmt.Errorf("duplicate preset name %q", row.Name)
		}
		result[row.Name] = row
		return nil
	})
	if err != nil && err != io.EOF {
		return nil, err
	}
	return result, nil
}

// defaultCatalog ships three presets covering a minimal lab image, a
// general-purpose default, and a larger stress-test size.
const defaultCatalog = `name,size,ninodes,nlog
tiny,64,32,4
default,1024,200,30
large,8192,1000,64
`

// LoadDefaults parses the built-in preset catalog.
func LoadDefaults() (map[string]Geometry, error) {
	return Load(strings.NewReader(defaultCatalog))
}
