// Package shaders holds the built-in GLSL sources and resolves overrides
// from an asset directory.
package shaders

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

//go:embed *.vert *.frag
var builtin embed.FS

// Sources returns the vertex and fragment source of the named program.
// Files named <name>.vert and <name>.frag in dir take precedence; a missing
// file falls back to the built-in copy.
func Sources(dir, name string) (vert, frag string, err error) {
	if vert, err = read(dir, name+".vert"); err != nil {
		return "", "", err
	}
	if frag, err = read(dir, name+".frag"); err != nil {
		return "", "", err
	}
	return vert, frag, nil
}

func read(dir, file string) (string, error) {
	if dir != "" {
		data, err := os.ReadFile(filepath.Join(dir, file))
		if err == nil {
			return string(data), nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("could not read shader file: %w", err)
		}
	}
	data, err := builtin.ReadFile(file)
	if err != nil {
		return "", fmt.Errorf("no shader %s: %w", file, err)
	}
	return string(data), nil
}
