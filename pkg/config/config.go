package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the application configuration.
type Config struct {
	Serial    SerialConfig    `yaml:"serial"`
	Engine    EngineConfig    `yaml:"engine"`
	Histogram HistogramConfig `yaml:"histogram"`
	Mock      MockConfig      `yaml:"mock"`
}

// SerialConfig contains serial port configuration.
type SerialConfig struct {
	Port string `yaml:"port"`
	Baud int    `yaml:"baud"`
}

// EngineConfig contains the sampling engine channel lists. Entries may be
// raw channel indices or board pin numbers.
type EngineConfig struct {
	Fast []int `yaml:"fast"`
	Slow []int `yaml:"slow"`
}

// HistogramConfig contains the statistics histogram window. The window is
// only meaningful when the signal is known in advance to center near
// AssumedMean; it is required configuration, not something computed from
// the data.
type HistogramConfig struct {
	AssumedMean float32 `yaml:"assumed_mean"`
	BinWidth    float32 `yaml:"bin_width"`
}

// MockConfig contains mock capture device configuration.
type MockConfig struct {
	SamplePeriod time.Duration `yaml:"sample_period"` // Time between records
	Center       float64       `yaml:"center"`        // Signal center (ADC counts)
	Amplitude    float64       `yaml:"amplitude"`     // Signal amplitude (ADC counts)
	NoiseLevel   float64       `yaml:"noise_level"`   // Noise amplitude (ADC counts)
}

// Default returns a default configuration with sensible values.
func Default() *Config {
	return &Config{
		Serial: SerialConfig{
			Port: "COM3", // Default for Windows, should be "/dev/ttyACM0" on Linux/Mac
			Baud: 115200,
		},
		Engine: EngineConfig{
			Fast: []int{0},
			Slow: nil,
		},
		Histogram: HistogramConfig{
			AssumedMean: 1024,
			BinWidth:    25,
		},
		Mock: MockConfig{
			SamplePeriod: time.Millisecond,
			Center:       1024,
			Amplitude:    400,
			NoiseLevel:   8,
		},
	}
}

// Load loads configuration from a YAML file. If the file doesn't exist or
// fields are missing, it uses default values.
func Load(filename string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(filename)
	if err != nil {
		if os.IsNotExist(err) {
			// File doesn't exist, return defaults
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	// Ensure minimum required fields are set (use defaults if missing)
	cfg.ensureDefaults()

	return cfg, nil
}

// Save saves the configuration to a YAML file.
func (c *Config) Save(filename string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(filename, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// ensureDefaults ensures that all required fields have default values if missing.
func (c *Config) ensureDefaults() {
	def := Default()

	if c.Serial.Port == "" {
		c.Serial.Port = def.Serial.Port
	}
	if c.Serial.Baud == 0 {
		c.Serial.Baud = def.Serial.Baud
	}

	if len(c.Engine.Fast) == 0 {
		c.Engine.Fast = def.Engine.Fast
	}

	if c.Histogram.AssumedMean == 0 {
		c.Histogram.AssumedMean = def.Histogram.AssumedMean
	}
	if c.Histogram.BinWidth == 0 {
		c.Histogram.BinWidth = def.Histogram.BinWidth
	}

	if c.Mock.SamplePeriod == 0 {
		c.Mock.SamplePeriod = def.Mock.SamplePeriod
	}
	if c.Mock.Center == 0 {
		c.Mock.Center = def.Mock.Center
	}
	if c.Mock.Amplitude == 0 {
		c.Mock.Amplitude = def.Mock.Amplitude
	}
}
