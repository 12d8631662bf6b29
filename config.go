package applescene

import (
	"fmt"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config is the editor configuration
type Config struct {
	Debug       bool         `yaml:"debug"`
	LogPrefix   string       `yaml:"log_prefix"`
	Prototypes  string       `yaml:"prototypes"`
	Keybindings string       `yaml:"keybindings"`
	Camera      CameraConfig `yaml:"camera"`
}

// CameraConfig controls the editor fly camera
type CameraConfig struct {
	Speed       float32 `yaml:"speed"`
	Sensitivity float32 `yaml:"sensitivity"`
}

// DefaultConfig returns a Config that uses the built-in prototypes and keymap
func DefaultConfig() *Config {
	return &Config{
		LogPrefix: "applescene",
		Camera: CameraConfig{
			Speed:       5,
			Sensitivity: 0.1,
		},
	}
}

// LoadConfig loads configuration from a YAML file on fsys (nil means the OS
// filesystem). Relative resource paths are resolved against the directory
// holding the file.
func LoadConfig(fsys FileSystem, path string) (*Config, error) {
	if fsys == nil {
		fsys = OSFileSystem{}
	}
	data, err := fsys.ReadFile(path)
	if err != nil {
		if isNotExist(err) {
			return nil, NewResourceError("config file "+path, ErrResourceMissing)
		}
		return nil, NewResourceError("failed to read config file", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, NewParseError("failed to parse config file", err)
	}

	dir := filepath.Dir(path)
	cfg.Prototypes = resolvePath(dir, cfg.Prototypes)
	cfg.Keybindings = resolvePath(dir, cfg.Keybindings)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// FindConfigFile looks for a config file in dir and its parents
func FindConfigFile(fsys FileSystem, dir string) string {
	if fsys == nil {
		fsys = OSFileSystem{}
	}
	names := []string{".applescene.yml", ".applescene.yaml", "applescene.yml", "applescene.yaml"}
	for {
		for _, name := range names {
			candidate := filepath.Join(dir, name)
			if fsys.Exists(candidate) {
				return candidate
			}
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}

// Validate checks value ranges. Resource files are checked when the editor
// opens them.
func (c *Config) Validate() error {
	if c.Camera.Speed < 0 {
		return NewParseError(fmt.Sprintf("camera.speed must not be negative, got %v", c.Camera.Speed), nil)
	}
	if c.Camera.Sensitivity < 0 {
		return NewParseError(fmt.Sprintf("camera.sensitivity must not be negative, got %v", c.Camera.Sensitivity), nil)
	}
	return nil
}

func resolvePath(base, p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(base, p)
}
