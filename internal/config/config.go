// Package config handles application configuration loading and management.
package config

// Config holds all application settings.
type Config struct {
	Graphics GraphicsConfig `yaml:"graphics"`
	Editor   EditorConfig   `yaml:"editor"`
	Scene    SceneConfig    `yaml:"scene"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// GraphicsConfig holds display and rendering settings.
type GraphicsConfig struct {
	Width      int  `yaml:"width"`
	Height     int  `yaml:"height"`
	Fullscreen bool `yaml:"fullscreen"`
	VSync      bool `yaml:"vsync"`
}

// EditorConfig holds track sketching and bake settings.
type EditorConfig struct {
	// HeightStep is how far one keypress raises or lowers a control point.
	HeightStep float32 `yaml:"height_step"`
	// MaxHeight caps a control point's height; the floor is always zero.
	MaxHeight float32 `yaml:"max_height"`
	// TrackWidth is the ribbon width the bake extrudes around the center line.
	TrackWidth float32 `yaml:"track_width"`
	// BakeDensity is the number of curve samples per control-point segment
	// used for the extruded surface.
	BakeDensity int `yaml:"bake_density"`
	// OutputDir receives the baked track, animation, and scene files.
	OutputDir string `yaml:"output_dir"`
}

// SceneConfig holds baked-scene viewing settings.
type SceneConfig struct {
	// File is the scene document the viewer loads.
	File string `yaml:"file"`
	// CurveDensity is the sample count per segment for displayed curves
	// that do not specify their own.
	CurveDensity int `yaml:"curve_density"`
	// AnimationRate is animation waypoint steps per second.
	AnimationRate float64 `yaml:"animation_rate"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Graphics: GraphicsConfig{
			Width:      1280,
			Height:     720,
			Fullscreen: false,
			VSync:      true,
		},
		Editor: EditorConfig{
			HeightStep:  0.3,
			MaxHeight:   5.0,
			TrackWidth:  2.0,
			BakeDensity: 50,
			OutputDir:   ".",
		},
		Scene: SceneConfig{
			File:          "Scene.txt",
			CurveDensity:  100,
			AnimationRate: 30,
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}
