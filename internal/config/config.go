package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/petervdpas/deskview/internal/icon"
	"github.com/petervdpas/deskview/internal/util"
)

// Descriptor is the flattened, editable form of an application descriptor.
// It is what descriptor files, CLI flags and the C entry point produce;
// New turns it into an immutable AppConfig.
type Descriptor struct {
	Name     string `json:"name" yaml:"name" toml:"name"`
	BundleID string `json:"bundle_id" yaml:"bundle_id" toml:"bundle_id"`
	Icon     string `json:"icon" yaml:"icon" toml:"icon"`
	Vendor   string `json:"vendor,omitempty" yaml:"vendor,omitempty" toml:"vendor,omitempty"`
	Version  string `json:"version" yaml:"version" toml:"version"`
	URL      string `json:"url" yaml:"url" toml:"url"`

	FullScreen bool `json:"full_screen" yaml:"full_screen" toml:"full_screen"`
	Maximized  bool `json:"maximized" yaml:"maximized" toml:"maximized"`
	Decorated  bool `json:"decorated" yaml:"decorated" toml:"decorated"`
	Width      int  `json:"width" yaml:"width" toml:"width"`
	Height     int  `json:"height" yaml:"height" toml:"height"`

	DevelopMode bool `json:"develop_mode" yaml:"develop_mode" toml:"develop_mode"`

	// Paths reloaded on change while DevelopMode is on.
	Watch []string `json:"watch,omitempty" yaml:"watch,omitempty" toml:"watch,omitempty"`
}

// ConfigError reports a descriptor field that cannot produce a valid AppConfig.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config: %s %s", e.Field, e.Reason)
}

// DisplayMode is the initial presentation state of the window.
type DisplayMode int

const (
	DisplayNormal DisplayMode = iota
	DisplayMaximized
	DisplayFullScreen
)

func (m DisplayMode) String() string {
	switch m {
	case DisplayFullScreen:
		return "fullscreen"
	case DisplayMaximized:
		return "maximized"
	default:
		return "normal"
	}
}

// AppConfig is the validated application descriptor. It never changes after New.
type AppConfig struct {
	name     string
	bundleID string
	icon     string
	vendor   string
	version  string
	url      string

	fullScreen bool
	maximized  bool
	decorated  bool
	width      int
	height     int

	developMode bool
	watch       []string
}

func Default() Descriptor {
	return Descriptor{
		Name:      "Deskview",
		BundleID:  "com.example.deskview",
		Icon:      "applications-internet",
		Version:   "0.1.0",
		URL:       "http://127.0.0.1:8080",
		Decorated: true,
		Width:     1280,
		Height:    720,
	}
}

// New validates d and returns the immutable configuration. It performs no I/O.
func New(d Descriptor) (AppConfig, error) {
	d.Name = strings.TrimSpace(d.Name)
	d.BundleID = strings.TrimSpace(d.BundleID)
	d.Icon = strings.TrimSpace(d.Icon)
	d.Vendor = strings.TrimSpace(d.Vendor)
	d.Version = strings.TrimSpace(d.Version)
	d.URL = strings.TrimSpace(d.URL)

	if err := d.Validate(); err != nil {
		return AppConfig{}, err
	}

	var watch []string
	for _, p := range d.Watch {
		if p = strings.TrimSpace(p); p != "" {
			watch = append(watch, p)
		}
	}

	return AppConfig{
		name:        d.Name,
		bundleID:    d.BundleID,
		icon:        d.Icon,
		vendor:      d.Vendor,
		version:     d.Version,
		url:         d.URL,
		fullScreen:  d.FullScreen,
		maximized:   d.Maximized,
		decorated:   d.Decorated,
		width:       d.Width,
		height:      d.Height,
		developMode: d.DevelopMode,
		watch:       watch,
	}, nil
}

// Validate checks identity, content and geometry fields.
func (d *Descriptor) Validate() error {
	if strings.TrimSpace(d.Name) == "" {
		return &ConfigError{Field: "name", Reason: "is required"}
	}
	if strings.TrimSpace(d.BundleID) == "" {
		return &ConfigError{Field: "bundle_id", Reason: "is required"}
	}
	if d.Width <= 0 {
		return &ConfigError{Field: "width", Reason: "must be > 0"}
	}
	if d.Height <= 0 {
		return &ConfigError{Field: "height", Reason: "must be > 0"}
	}
	if err := validateURL(strings.TrimSpace(d.URL)); err != nil {
		return &ConfigError{Field: "url", Reason: err.Error()}
	}
	return nil
}

func validateURL(raw string) error {
	if raw == "" {
		return errors.New("is required")
	}
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("is invalid: %v", err)
	}
	if u.Scheme == "" {
		return errors.New("must include a scheme")
	}
	return nil
}

func (c AppConfig) Name() string { return c.name }
func (c AppConfig) BundleID() string { return c.bundleID }
func (c AppConfig) Icon() string { return c.icon }
func (c AppConfig) Vendor() string { return c.vendor }
func (c AppConfig) Version() string { return c.version }
func (c AppConfig) URL() string { return c.url }
func (c AppConfig) FullScreen() bool { return c.fullScreen }
func (c AppConfig) Maximized() bool { return c.maximized }
func (c AppConfig) Decorated() bool { return c.decorated }
func (c AppConfig) Width() int { return c.width }
func (c AppConfig) Height() int { return c.height }
func (c AppConfig) DevelopMode() bool { return c.developMode }
func (c AppConfig) Watch() []string { return append([]string(nil), c.watch...) }
func (c AppConfig) IsZero() bool { return c.bundleID == "" }
func (c AppConfig) Size() (int, int) { return c.width, c.height }
func (c AppConfig) MinSize() (int, int) { return c.width / 2, c.height / 2 }

// DisplayMode resolves the requested presentation. Fullscreen is checked
// first, so it wins when both fullscreen and maximized are set.
func (c AppConfig) DisplayMode() DisplayMode {
	if c.fullScreen {
		return DisplayFullScreen
	}
	if c.maximized {
		return DisplayMaximized
	}
	return DisplayNormal
}

// Descriptor returns the editable form of c.
func (c AppConfig) Descriptor() Descriptor {
	return Descriptor{
		Name:        c.name,
		BundleID:    c.bundleID,
		Icon:        c.icon,
		Vendor:      c.vendor,
		Version:     c.version,
		URL:         c.url,
		FullScreen:  c.fullScreen,
		Maximized:   c.maximized,
		Decorated:   c.decorated,
		Width:       c.width,
		Height:      c.height,
		DevelopMode: c.developMode,
		Watch:       c.Watch(),
	}
}

// Load reads a descriptor file. The format follows the extension: .json,
// .yaml/.yml or .toml. Missing keys keep their Default values and relative
// icon/watch paths are resolved against the file's directory.
func Load(path string) (Descriptor, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Descriptor{}, err
	}

	// Strip UTF-8 BOM if present (common when editing on Windows).
	b = stripBOM(b)

	d := Default()
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", "":
		err = json.Unmarshal(b, &d)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(b, &d)
	case ".toml":
		err = toml.Unmarshal(b, &d)
	default:
		return Descriptor{}, fmt.Errorf("unsupported descriptor format %q", filepath.Ext(path))
	}
	if err != nil {
		return Descriptor{}, fmt.Errorf("parse %s: %w", path, err)
	}

	base := filepath.Dir(path)
	if icon.IsFile(d.Icon) {
		d.Icon = util.ResolvePath(base, d.Icon)
	}
	for i, w := range d.Watch {
		d.Watch[i] = util.ResolvePath(base, w)
	}

	return d, nil
}

// stripBOM removes a UTF-8 byte order mark if present.
func stripBOM(b []byte) []byte {
	if len(b) >= 3 && b[0] == 0xEF && b[1] == 0xBB && b[2] == 0xBF {
		return b[3:]
	}
	return b
}

func Save(path string, d Descriptor) error {
	if err := d.Validate(); err != nil {
		return err
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		b, err := yaml.Marshal(d)
		if err != nil {
			return err
		}
		return util.WriteFile(path, b)
	case ".toml":
		b, err := toml.Marshal(d)
		if err != nil {
			return err
		}
		return util.WriteFile(path, b)
	default:
		return util.WriteJSONFile(path, d)
	}
}

// Ensure loads the descriptor if it exists; otherwise creates a default one.
// Returns (descriptor, createdNew, err).
func Ensure(path string) (Descriptor, bool, error) {
	if _, err := os.Stat(path); err == nil {
		d, err := Load(path)
		return d, false, err
	} else if !os.IsNotExist(err) {
		return Descriptor{}, false, err
	}

	d := Default()
	if err := Save(path, d); err != nil {
		return Descriptor{}, false, fmt.Errorf("create default descriptor: %w", err)
	}
	return d, true, nil
}
