package configuration

import (
	"os"
	"strings"

	"backoffice/internal/models"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"go.uber.org/zap"
)

func parseArrayFields(k *koanf.Koanf) {
	for _, field := range ArrayConfigFields {
		if stringVal := k.String(field); stringVal != "" {
			stringVal = strings.Trim(stringVal, "[]")
			var items []string
			if strings.Contains(stringVal, ",") {
				items = strings.Split(stringVal, ",")
			} else {
				items = strings.Fields(stringVal)
			}
			for i, item := range items {
				items[i] = strings.TrimSpace(item)
			}
			err := k.Set(field, items)
			if err != nil {
				zap.L().
					Error("Error parsing array field", zap.String("field", field), zap.Error(err))
			}
		}
	}
}

// loadDotEnv exports variables from an optional .env file without overriding
// variables already set in the process environment.
func loadDotEnv() {
	for _, path := range EnvFileSearchPaths {
		if _, err := os.Stat(path); err != nil {
			continue
		}
		if err := godotenv.Load(path); err != nil {
			zap.L().Warn("Error loading env file", zap.String("path", path), zap.Error(err))
			continue
		}
		zap.L().Info("Loaded environment file " + path)
	}
}

func readEnvVars(k *koanf.Koanf) {
	loadDotEnv()

	err := k.Load(env.Provider("", ".", func(s string) string {
		s = strings.ToLower(s)
		segments := strings.Split(s, "__")
		result := strings.Join(segments, ".")
		return result
	}), nil)
	if err != nil {
		zap.L().Warn("Error loading environment variables", zap.Error(err))
	}

	parseArrayFields(k)
}

func readFileConfig(k *koanf.Koanf) {
	configFilePath := os.Getenv("CONFIG_FILE_PATH")
	var filePath string
	if configFilePath == "" {
		for _, path := range ConfigFileSearchPaths {
			if _, err := os.Stat(path); err == nil {
				filePath = path
				break
			}
		}
	} else {
		filePath = configFilePath
	}

	if filePath != "" {
		err := k.Load(file.Provider(filePath), yaml.Parser())
		if err != nil {
			zap.L().
				Fatal("Fatal error loading config file", zap.String("path", filePath), zap.Error(err))
		}
		zap.L().Info("Read configuration from file " + filePath)
	} else {
		zap.L().Warn("No configuration file found")
	}
}

func defaults() map[string]any {
	return map[string]any{
		"app.profile":         ProfileDefault,
		"app.log_level":       "info",
		"app.port":            8080,
		"app.allowed_origins": []string{"http://localhost:5173"},

		"backend.timeout_seconds": 0,

		"session.type":            ProviderFilesystem,
		"session.filesystem.path": "data/session.json",

		"cache.type": ProviderMemory,

		"push.transports":                  []string{ProviderNATS, ProviderJetstream},
		"push.room":                        "admin",
		"push.subject_prefix":              "sithee",
		"push.buffer_size":                 DefaultPushBufferSize,
		"push.nats.host":                   "localhost",
		"push.nats.port":                   "4222",
		"push.nats.reconnect_wait_seconds": 2,
		"push.jetstream.host":              "localhost",
		"push.jetstream.port":              "4222",
		"push.jetstream.stream":            "SITHEE_EVENTS",

		"dashboard.staleness_minutes":        DefaultStalenessMinutes,
		"dashboard.recent_orders_limit":      DefaultRecentOrders,
		"dashboard.products_limit":           DefaultProductsLimit,
		"dashboard.refresh_interval_seconds": 60,

		"orders.poll_interval_seconds": DefaultOrdersPollSecs,
		"orders.page_size":             DefaultOrdersPageSize,

		"products.listing_limit":  DefaultProductsLimit,
		"products.page_size":      DefaultProductsPageSize,
		"products.max_image_size": DefaultMaxImageSize,

		"notifier.type":       ProviderFilesystem,
		"notifier.permission": string(models.PermissionDefault),

		"activity.type": ProviderMemory,

		"telemetry.service_name": AppName,
	}
}

func loadDefaults(k *koanf.Koanf) {
	if err := k.Load(confmap.Provider(defaults(), "."), nil); err != nil {
		zap.L().Fatal("Failed to load default configuration", zap.Error(err))
	}
}

func setIfMissing(k *koanf.Koanf, key string, value any) {
	if !k.Exists(key) {
		_ = k.Set(key, value)
	}
}

func loadConditionalDefaults(k *koanf.Koanf) {
	if k.String("notifier.type") == ProviderFilesystem {
		setIfMissing(k, "notifier.filesystem.directory", "data/notifications")
	}
	if k.String("notifier.type") == ProviderSMTP {
		setIfMissing(k, "notifier.smtp.enable_tls", false)
		setIfMissing(k, "notifier.smtp.skip_verify_tls", false)
	}
	if k.String("activity.type") == ProviderFilesystem {
		setIfMissing(k, "activity.filesystem.directory", "data/activity")
	}
	if k.String("cache.type") == ProviderRedis {
		setIfMissing(k, "cache.redis.hosts", []string{"localhost:6379"})
	}
}

func load(k *koanf.Koanf) (models.Configuration, error) {
	var config models.Configuration
	err := k.UnmarshalWithConf("", &config, koanf.UnmarshalConf{Tag: "mapstructure"})
	if err != nil {
		return config, err
	}

	validate := validator.New()
	if err = validate.Struct(config); err != nil {
		return config, err
	}

	return config, nil
}

func Read() models.Configuration {
	k := koanf.New(".")

	loadDefaults(k)
	readFileConfig(k)
	readEnvVars(k)
	loadConditionalDefaults(k)

	config, err := load(k)
	if err != nil {
		zap.L().Fatal("Invalid configuration", zap.Error(err))
	}

	return config
}
