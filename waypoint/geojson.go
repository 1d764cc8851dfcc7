package waypoint

import (
	"errors"
	"fmt"
	"os"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"github.com/lixenwraith/vi-traffic/vmath"
)

// NameProperty is the feature property holding the waypoint name
const NameProperty = "name"

var ErrNotPoint = errors.New("waypoint feature is not a point")

// LoadGeoJSON parses a FeatureCollection of named points
func LoadGeoJSON(data []byte) ([]Waypoint, error) {
	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return nil, fmt.Errorf("parse geojson: %w", err)
	}

	out := make([]Waypoint, 0, len(fc.Features))
	for i, f := range fc.Features {
		p, ok := f.Geometry.(orb.Point)
		if !ok {
			return nil, fmt.Errorf("%w: feature %d is %T", ErrNotPoint, i, f.Geometry)
		}
		name := f.Properties.MustString(NameProperty, "")
		if name == "" {
			return nil, fmt.Errorf("%w: feature %d", ErrEmptyName, i)
		}
		out = append(out, Waypoint{
			Name:     name,
			Position: vmath.Vec2{X: p.X(), Y: p.Y()},
		})
	}
	return out, nil
}

// LoadGeoJSONFile reads and parses a scene file
func LoadGeoJSONFile(path string) ([]Waypoint, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scene: %w", err)
	}
	return LoadGeoJSON(data)
}

// MarshalGeoJSON encodes waypoints back to a FeatureCollection
func MarshalGeoJSON(items []Waypoint) ([]byte, error) {
	fc := geojson.NewFeatureCollection()
	for _, w := range items {
		f := geojson.NewFeature(w.Point())
		f.Properties[NameProperty] = w.Name
		fc.Append(f)
	}
	return fc.MarshalJSON()
}
