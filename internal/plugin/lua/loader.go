package lua

import (
	"errors"
	"fmt"
	"io/fs"
	"path"
	"strings"
)

// Plugin discovery errors.
var (
	ErrMissingDependency = errors.New("missing dependency")
	ErrDependencyCycle   = errors.New("dependency cycle")
	ErrDuplicatePlugin   = errors.New("plugin found twice")
)

// pluginSource is a plugin found on disk.
type pluginSource struct {
	manifest *Manifest
	dir      string
}

func (s pluginSource) mainPath() string {
	return path.Join(s.dir, s.manifest.Main)
}

// discover finds the plugins at the top of fsys, in name order. A file
// name.lua is a plugin without a manifest. A directory is a plugin when
// it holds plugin.json or init.lua; other directories are skipped.
func discover(fsys fs.FS) ([]pluginSource, []error) {
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return nil, []error{err}
	}

	var (
		found []pluginSource
		errs  []error
		seen  = make(map[string]bool)
	)
	for _, e := range entries {
		var src pluginSource
		switch {
		case e.IsDir():
			m, err := inspectDir(fsys, e.Name())
			if err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", e.Name(), err))
				continue
			}
			if m == nil {
				continue
			}
			src = pluginSource{manifest: m, dir: e.Name()}
		case path.Ext(e.Name()) == ".lua":
			src = pluginSource{manifest: minimalManifest(strings.TrimSuffix(e.Name(), ".lua"), e.Name())}
		default:
			continue
		}

		if seen[src.manifest.Name] {
			errs = append(errs, fmt.Errorf("%s: %w", src.manifest.Name, ErrDuplicatePlugin))
			continue
		}
		seen[src.manifest.Name] = true
		found = append(found, src)
	}
	return found, errs
}

// inspectDir returns the manifest of a plugin directory, nil when dir is
// not a plugin.
func inspectDir(fsys fs.FS, dir string) (*Manifest, error) {
	data, err := fs.ReadFile(fsys, path.Join(dir, ManifestFile))
	switch {
	case err == nil:
		return ParseManifest(data)
	case !errors.Is(err, fs.ErrNotExist):
		return nil, err
	}
	if _, err := fs.Stat(fsys, path.Join(dir, "init.lua")); err != nil {
		return nil, nil
	}
	return minimalManifest(dir, "init.lua"), nil
}

// loadOrder sorts plugins so each follows its dependencies. Plugins with
// a missing dependency or in a cycle are left out and reported.
func loadOrder(srcs []pluginSource) ([]pluginSource, []error) {
	const (
		visiting = 1
		visited  = 2
	)
	byName := make(map[string]pluginSource, len(srcs))
	for _, s := range srcs {
		byName[s.manifest.Name] = s
	}

	var (
		order []pluginSource
		state = make(map[string]int)
		visit func(s pluginSource, chain []string) error
	)
	visit = func(s pluginSource, chain []string) error {
		name := s.manifest.Name
		switch state[name] {
		case visited:
			return nil
		case visiting:
			return fmt.Errorf("%w: %s", ErrDependencyCycle, strings.Join(append(chain, name), " -> "))
		}
		state[name] = visiting
		defer func() { state[name] = visited }()
		for _, dep := range s.manifest.Dependencies {
			d, ok := byName[dep]
			if !ok {
				return fmt.Errorf("%s: %w %s", name, ErrMissingDependency, dep)
			}
			if err := visit(d, append(chain, name)); err != nil {
				return err
			}
		}
		order = append(order, s)
		return nil
	}

	var errs []error
	for _, s := range srcs {
		if err := visit(s, nil); err != nil {
			errs = append(errs, err)
		}
	}
	return order, errs
}
