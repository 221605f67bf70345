package configuration

import (
	"backoffice/internal/models"

	"go.uber.org/zap"
)

const (
	ProfileDefault  = "default"
	ProfileHeadless = "headless"
)

// Profiles defines all available deployment profiles.
var Profiles = map[string]models.Profile{
	ProfileDefault: {
		Name:       ProfileDefault,
		HTTPServer: true,
		Workers: models.WorkerConfig{
			OrderPoller:        models.WorkerModeEnabled,
			DashboardRefresher: models.WorkerModeEnabled,
		},
	},
	ProfileHeadless: {
		Name:       ProfileHeadless,
		HTTPServer: false,
		Workers: models.WorkerConfig{
			OrderPoller:        models.WorkerModeDisabled,
			DashboardRefresher: models.WorkerModeEnabled,
		},
	},
}

// GetProfile returns the profile by name. Returns the default profile if name is empty.
func GetProfile(name string) models.Profile {
	if name == "" {
		name = ProfileDefault
	}

	profile, ok := Profiles[name]

	if !ok {
		zap.L().Fatal("Unknown profile",
			zap.String("profile", name),
			zap.Strings("available_profiles", []string{ProfileDefault, ProfileHeadless}))
	}

	zap.L().Info("Loaded profile", zap.String("profile", profile.Name))

	return profile
}
