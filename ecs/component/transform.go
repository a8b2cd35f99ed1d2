package component

import "github.com/jakecoffman/cp"

// Transform places an entity in world space. Z orders drawing; higher is
// drawn later.
type Transform struct {
	Position cp.Vector
	Z        float64
}

var TransformComponent = NewComponent[Transform]()
