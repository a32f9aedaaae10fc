// Package configutil reads layered json5 configuration files.
package configutil

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"dario.cat/mergo"
	"github.com/titanous/json5"
)

// localPath gives the override file that sits next to path, config.json5 becomes
// config.local.json5.
func localPath(path string) string {
	ext := filepath.Ext(path)
	return strings.TrimSuffix(path, ext) + ".local" + ext
}

func readLayer[T any](path string) (T, bool, error) {
	var layer T
	contents, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return layer, false, nil
	}
	if err != nil {
		return layer, false, err
	}
	if len(contents) == 0 {
		return layer, false, nil
	}
	err = json5.Unmarshal(contents, &layer)
	if err != nil {
		return layer, false, fmt.Errorf("parse %s: %w", path, err)
	}
	return layer, true, nil
}

// ReadConfig reads the json5 file at path and merges the fields set in its local override
// on top. It returns os.ErrNotExist when neither file exists.
func ReadConfig[T any](path string) (T, error) {
	var out T
	found := false

	for i, layerPath := range []string{path, localPath(path)} {
		layer, ok, err := readLayer[T](layerPath)
		if err != nil {
			return out, err
		}
		if !ok {
			continue
		}
		found = true

		if i == 0 {
			out = layer
			continue
		}
		err = mergo.Merge(&out, layer, mergo.WithOverride)
		if err != nil {
			return out, fmt.Errorf("merge %s: %w", layerPath, err)
		}
		slog.Info("merged local config overrides", "path", layerPath)
	}

	if !found {
		return out, os.ErrNotExist
	}
	return out, nil
}

// WithDefaults fills every zero field of config from defaults.
func WithDefaults[T any](config T, defaults T) (T, error) {
	err := mergo.Merge(&config, defaults)
	return config, err
}
