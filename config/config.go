package config

import (
	"os"

	"gopkg.in/yaml.v3"

	"github.com/blin/nuc1261-fwreloc/fwerrors"
)

// Config holds the settings both host tools need to talk to the MCU and
// to relocate a firmware image before sending it.
type Config struct {
	Port            string `yaml:"port"`
	Baud            int    `yaml:"baud"`
	CenterID        byte   `yaml:"center_id"`
	OriginalBase    uint32 `yaml:"original_base"`
	VectorTableSize uint32 `yaml:"vector_table_size"`
}

// Default returns the settings the tooling this package replaces used
// as global constants.
func Default() Config {
	return Config{
		Port:            "COM3",
		Baud:            115200,
		CenterID:        1,
		OriginalBase:    0,
		VectorTableSize: 192,
	}
}

// Load reads path as YAML into a copy of Default(), so any field the
// file omits keeps its default value. A missing file is not an error:
// Load returns Default() unchanged.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return Config{}, fwerrors.Wrap(fwerrors.ConfigUnreadable, err, path)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fwerrors.Wrap(fwerrors.ConfigMalformed, err, path)
	}
	return cfg, nil
}
