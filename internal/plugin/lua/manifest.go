package lua

import (
	"errors"
	"fmt"
	"io/fs"
	"path"
	"regexp"

	"github.com/tidwall/gjson"
)

// ManifestFile is the name of the manifest in a plugin directory.
const ManifestFile = "plugin.json"

// Manifest validation errors.
var (
	ErrInvalidManifest   = errors.New("manifest: not a JSON object")
	ErrMissingName       = errors.New("manifest: name is required")
	ErrInvalidName       = errors.New("manifest: name must be lowercase alphanumeric with hyphens")
	ErrInvalidVersion    = errors.New("manifest: version must be valid semver")
	ErrInvalidMain       = errors.New("manifest: main must be a .lua file inside the plugin")
	ErrInvalidCapability = errors.New("manifest: invalid capability")
)

var (
	namePattern   = regexp.MustCompile(`^[a-z][a-z0-9-]*[a-z0-9]$|^[a-z]$`)
	semverPattern = regexp.MustCompile(`^\d+\.\d+\.\d+(-[a-zA-Z0-9.-]+)?(\+[a-zA-Z0-9.-]+)?$`)
)

// Manifest describes a plugin directory.
type Manifest struct {
	Name        string
	Version     string
	Description string

	// Main is the entry file, relative to the plugin directory.
	Main string

	// Dependencies are plugins that must load first.
	Dependencies []string

	// Capabilities are granted to the plugin. When the manifest has no
	// capabilities field the plugin gets all of them.
	Capabilities []Capability
}

// ParseManifest reads a plugin.json document:
//
//	{"name": "surround", "version": "1.0.0", "main": "init.lua",
//	 "dependencies": ["repeat"], "capabilities": ["keymap", "buffer"]}
func ParseManifest(data []byte) (*Manifest, error) {
	if !gjson.ValidBytes(data) {
		return nil, ErrInvalidManifest
	}
	doc := gjson.ParseBytes(data)
	if !doc.IsObject() {
		return nil, ErrInvalidManifest
	}

	m := &Manifest{
		Name:        doc.Get("name").String(),
		Version:     doc.Get("version").String(),
		Description: doc.Get("description").String(),
		Main:        doc.Get("main").String(),
	}
	for _, dep := range doc.Get("dependencies").Array() {
		m.Dependencies = append(m.Dependencies, dep.String())
	}

	caps := doc.Get("capabilities")
	if caps.Exists() {
		m.Capabilities = []Capability{}
		for _, c := range caps.Array() {
			capability, ok := ParseCapability(c.String())
			if !ok {
				return nil, fmt.Errorf("%w: %s", ErrInvalidCapability, c.String())
			}
			m.Capabilities = append(m.Capabilities, capability)
		}
	} else {
		m.Capabilities = AllCapabilities()
	}

	m.applyDefaults()
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return m, nil
}

// minimalManifest describes a plugin without a manifest.
func minimalManifest(name, main string) *Manifest {
	return &Manifest{Name: name, Version: "0.0.0", Main: main, Capabilities: AllCapabilities()}
}

func (m *Manifest) applyDefaults() {
	if m.Main == "" {
		m.Main = "init.lua"
	}
	if m.Version == "" {
		m.Version = "0.0.0"
	}
}

// Validate checks the manifest.
func (m *Manifest) Validate() error {
	if m.Name == "" {
		return ErrMissingName
	}
	if !namePattern.MatchString(m.Name) {
		return fmt.Errorf("%w: %s", ErrInvalidName, m.Name)
	}
	if !semverPattern.MatchString(m.Version) {
		return fmt.Errorf("%w: %s", ErrInvalidVersion, m.Version)
	}
	if path.Ext(m.Main) != ".lua" || !fs.ValidPath(m.Main) {
		return fmt.Errorf("%w: %s", ErrInvalidMain, m.Main)
	}
	return nil
}

// String returns the name and version.
func (m *Manifest) String() string {
	return fmt.Sprintf("%s v%s", m.Name, m.Version)
}
