package configuration

const AppName = "backoffice"

// Keys of the durable client state.
const (
	StoreTokenKey      = "token"
	StoreAdminKey      = "admin"
	StorePermissionKey = "notification_permission"
	StoreKeyPrefix     = "backoffice:"
)

// Push transport and sink provider types.
const (
	ProviderNATS       = "nats"
	ProviderJetstream  = "jetstream"
	ProviderMemory     = "memory"
	ProviderRedis      = "redis"
	ProviderFilesystem = "filesystem"
	ProviderCache      = "cache"
	ProviderSMTP       = "smtp"
	ProviderNone       = "none"
)

const (
	DefaultStalenessMinutes = 5
	DefaultRecentOrders     = 5
	DefaultProductsLimit    = 100
	DefaultOrdersPageSize   = 50
	DefaultOrdersPollSecs   = 10
	DefaultProductsPageSize = 12
	DefaultMaxImageSize     = int64(5 * 1024 * 1024)
	DefaultPushBufferSize   = 64
	ToastHistorySize        = 50
)

var ArrayConfigFields = []string{
	"app.allowed_origins",
	"cache.redis.hosts",
	"push.transports",
}

var ConfigFileSearchPaths = []string{
	"./config.yaml",
	"templates/config.yaml",
}

var EnvFileSearchPaths = []string{
	".env",
}
