package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// FileSystem is an abstraction for file system operations.
// This allows for easy testing with in-memory file systems.
type FileSystem interface {
	// ReadFile reads the entire file at path.
	ReadFile(path string) ([]byte, error)
}

// OSFS implements FileSystem using the real OS file system.
type OSFS struct{}

// ReadFile reads the entire file at path.
func (OSFS) ReadFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}

// fileOptions is the on-disk form of Options.
type fileOptions struct {
	TimeoutLen      *int      `toml:"timeoutlen" yaml:"timeoutlen"`
	Timeout         *bool     `toml:"timeout" yaml:"timeout"`
	MaxMapDepth     *int      `toml:"maxmapdepth" yaml:"maxmapdepth"`
	Selection       *string   `toml:"selection" yaml:"selection"`
	IgnoreCase      *bool     `toml:"ignorecase" yaml:"ignorecase"`
	SmartCase       *bool     `toml:"smartcase" yaml:"smartcase"`
	WrapScan        *bool     `toml:"wrapscan" yaml:"wrapscan"`
	ShiftWidth      *int      `toml:"shiftwidth" yaml:"shiftwidth"`
	TabStop         *int      `toml:"tabstop" yaml:"tabstop"`
	ExpandTab       *bool     `toml:"expandtab" yaml:"expandtab"`
	MapLeader       *string   `toml:"mapleader" yaml:"mapleader"`
	AsyncTimeoutMS  *int      `toml:"async_timeout_ms" yaml:"async_timeout_ms"`
	ArgTextObjLimit *int      `toml:"argtextobj_line_limit" yaml:"argtextobj_line_limit"`
	RC              *string   `toml:"rc" yaml:"rc"`
	WatchRC         *bool     `toml:"watch_rc" yaml:"watch_rc"`
	Mappings        []Mapping `toml:"mappings" yaml:"mappings"`
}

// Load reads options from path, starting from Default. A missing file
// yields the defaults.
func Load(path string) (*Options, error) {
	return LoadFS(OSFS{}, path)
}

// LoadFS is Load over a custom file system.
func LoadFS(fsys FileSystem, path string) (*Options, error) {
	data, err := fsys.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Default(), nil
		}
		return nil, fmt.Errorf("reading config file %s: %w", path, err)
	}
	return Parse(path, data)
}

// Parse decodes configuration data. The format is taken from the
// extension of name.
func Parse(name string, data []byte) (*Options, error) {
	var f fileOptions
	switch strings.ToLower(filepath.Ext(name)) {
	case ".toml":
		if err := toml.Unmarshal(data, &f); err != nil {
			pe := &ParseError{Path: name, Message: err.Error(), Err: err}
			var de *toml.DecodeError
			if errors.As(err, &de) {
				pe.Line, pe.Column = de.Position()
			}
			return nil, pe
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &f); err != nil {
			return nil, &ParseError{Path: name, Message: err.Error(), Err: err}
		}
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, name)
	}

	o := Default()
	if err := f.apply(o); err != nil {
		return nil, &ParseError{Path: name, Message: err.Error(), Err: err}
	}
	return o, nil
}

func (f *fileOptions) apply(o *Options) error {
	if f.TimeoutLen != nil {
		if *f.TimeoutLen < 0 {
			return fmt.Errorf("timeoutlen must not be negative")
		}
		o.TimeoutLen = time.Duration(*f.TimeoutLen) * time.Millisecond
	}
	setBool(&o.Timeout, f.Timeout)
	if f.MaxMapDepth != nil {
		if *f.MaxMapDepth < 1 {
			return fmt.Errorf("maxmapdepth must be positive")
		}
		o.MaxMapDepth = *f.MaxMapDepth
	}
	if f.Selection != nil {
		if err := o.SetValue("selection", *f.Selection); err != nil {
			return err
		}
	}
	setBool(&o.IgnoreCase, f.IgnoreCase)
	setBool(&o.SmartCase, f.SmartCase)
	setBool(&o.WrapScan, f.WrapScan)
	setBool(&o.ExpandTab, f.ExpandTab)
	setBool(&o.WatchRC, f.WatchRC)
	setInt(&o.ShiftWidth, f.ShiftWidth)
	setInt(&o.TabStop, f.TabStop)
	setInt(&o.ArgTextObjectLineLimit, f.ArgTextObjLimit)
	if f.AsyncTimeoutMS != nil {
		o.AsyncTimeout = time.Duration(*f.AsyncTimeoutMS) * time.Millisecond
	}
	if f.MapLeader != nil {
		o.MapLeader = *f.MapLeader
	}
	if f.RC != nil {
		o.RCPath = *f.RC
	}
	o.Mappings = append(o.Mappings, f.Mappings...)
	return nil
}

func setBool(dst *bool, v *bool) {
	if v != nil {
		*dst = *v
	}
}

func setInt(dst *int, v *int) {
	if v != nil {
		*dst = *v
	}
}
