package asset

import _ "embed"

// DefaultSceneGeoJSON is the built-in plaza used when no scene is configured
// Routes between opposite corners cross at the fountain so agents meet head on
//
//go:embed scene.geojson
var DefaultSceneGeoJSON []byte
