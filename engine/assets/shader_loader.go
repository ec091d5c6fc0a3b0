package assets

import (
	"embed"
	"fmt"
	"path"
)

//go:embed shaders
var shaderFS embed.FS

// LoadShader returns the source of an embedded shader, e.g. "sprite.vert".
func LoadShader(name string) (string, error) {
	b, err := shaderFS.ReadFile(path.Join("shaders", name))
	if err != nil {
		return "", fmt.Errorf("load shader %q: %w", name, err)
	}
	return string(b), nil
}
