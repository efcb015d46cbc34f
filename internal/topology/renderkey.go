package topology

import (
	nanoid "github.com/matoous/go-nanoid/v2"
	"go.uber.org/zap"
)

const (
	renderKeyAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"
	renderKeyLength   = 12
)

// nextRenderKey uses the generator set with WithRenderKey, falling back to a
// random nanoid.
func (b *Builder) nextRenderKey() string {
	if b.renderKey != nil {
		return b.renderKey()
	}
	return b.newRenderKey()
}

// newRenderKey returns a random key that lets the rendering layer force a
// redraw. It never takes part in node or edge identity.
func (b *Builder) newRenderKey() string {
	key, err := nanoid.Generate(renderKeyAlphabet, renderKeyLength)
	if err != nil {
		b.logger.Warn("Failed to generate render key", zap.Error(err))
		return ""
	}
	return key
}
