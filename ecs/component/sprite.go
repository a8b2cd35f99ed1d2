package component

import "github.com/milk9111/dndrepro/assets"

// Sprite draws a texture centred on the entity's transform. The texture
// may still be loading.
type Sprite struct {
	Texture *assets.Handle
}

var SpriteComponent = NewComponent[Sprite]()
