package configuration

import (
	"backoffice/internal/models"

	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/v2"
)

// LoadForTesting builds a configuration from the defaults plus overrides,
// skipping file and environment sources. It should only be used in test code.
func LoadForTesting(overrides map[string]any) (models.Configuration, error) {
	k := koanf.New(".")
	loadDefaults(k)
	if err := k.Load(confmap.Provider(overrides, "."), nil); err != nil {
		return models.Configuration{}, err
	}
	loadConditionalDefaults(k)
	return load(k)
}
