package models

type Configuration struct {
	App       AppConfiguration       `mapstructure:"app"       validate:"required"`
	Backend   BackendConfiguration   `mapstructure:"backend"   validate:"required"`
	Session   SessionConfiguration   `mapstructure:"session"   validate:"required"`
	Cache     CacheConfiguration     `mapstructure:"cache"     validate:"required"`
	Push      PushConfiguration      `mapstructure:"push"      validate:"required"`
	Dashboard DashboardConfiguration `mapstructure:"dashboard" validate:"required"`
	Orders    OrdersConfiguration    `mapstructure:"orders"    validate:"required"`
	Products  ProductsConfiguration  `mapstructure:"products"  validate:"required"`
	Notifier  NotifierConfiguration  `mapstructure:"notifier"  validate:"required"`
	Activity  ActivityConfiguration  `mapstructure:"activity"  validate:"required"`
	Telemetry TelemetryConfiguration `mapstructure:"telemetry"`
}

type AppConfiguration struct {
	Profile        string   `mapstructure:"profile"         validate:"oneof=default headless"`
	LogLevel       string   `mapstructure:"log_level"       validate:"oneof=debug info warn error fatal panic"`
	Port           int      `mapstructure:"port"            validate:"gte=80,lte=65535"`
	AllowedOrigins []string `mapstructure:"allowed_origins" validate:"required"`
}

// BackendConfiguration points at the shop REST API.
// A zero TimeoutSeconds keeps the transport default.
type BackendConfiguration struct {
	URL            string `mapstructure:"url"             validate:"required,http_url"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds" validate:"gte=0,lte=300"`
}

type SessionConfiguration struct {
	Type       string                          `mapstructure:"type"       validate:"required,oneof=filesystem cache"`
	Filesystem *FilesystemSessionConfiguration `mapstructure:"filesystem" validate:"required_if=Type filesystem"`
}

type FilesystemSessionConfiguration struct {
	Path string `mapstructure:"path" validate:"required"`
}

type CacheConfiguration struct {
	Type  string                   `mapstructure:"type"  validate:"required,oneof=memory redis"`
	Redis *RedisCacheConfiguration `mapstructure:"redis" validate:"required_if=Type redis"`
}

type RedisCacheConfiguration struct {
	Hosts         []string `mapstructure:"hosts"           validate:"required,min=1"`
	Password      string   `mapstructure:"password"`
	TLSEnabled    bool     `mapstructure:"tls_enabled"`
	TLSServerName string   `mapstructure:"tls_server_name"`
}

// PushConfiguration lists the transports in fallback order.
type PushConfiguration struct {
	Transports    []string                   `mapstructure:"transports"     validate:"required,min=1,dive,oneof=nats jetstream memory"`
	Room          string                     `mapstructure:"room"           validate:"required"`
	SubjectPrefix string                     `mapstructure:"subject_prefix" validate:"required"`
	BufferSize    int                        `mapstructure:"buffer_size"    validate:"gte=1,lte=4096"`
	NATS          NATSPushConfiguration      `mapstructure:"nats"`
	JetStream     JetStreamPushConfiguration `mapstructure:"jetstream"`
}

type NATSPushConfiguration struct {
	Host                 string `mapstructure:"host"                   validate:"required"`
	Port                 string `mapstructure:"port"                   validate:"required"`
	ReconnectWaitSeconds int    `mapstructure:"reconnect_wait_seconds" validate:"gte=1,lte=300"`
}

type JetStreamPushConfiguration struct {
	Host   string `mapstructure:"host"   validate:"required"`
	Port   string `mapstructure:"port"   validate:"required"`
	Stream string `mapstructure:"stream" validate:"required"`
}

type DashboardConfiguration struct {
	StalenessMinutes       int `mapstructure:"staleness_minutes"        validate:"gte=1,lte=1440"`
	RecentOrdersLimit      int `mapstructure:"recent_orders_limit"      validate:"gte=1,lte=100"`
	ProductsLimit          int `mapstructure:"products_limit"           validate:"gte=1,lte=1000"`
	RefreshIntervalSeconds int `mapstructure:"refresh_interval_seconds" validate:"gte=1,lte=3600"`
}

type OrdersConfiguration struct {
	PollIntervalSeconds int `mapstructure:"poll_interval_seconds" validate:"gte=1,lte=3600"`
	PageSize            int `mapstructure:"page_size"             validate:"gte=1,lte=500"`
}

type ProductsConfiguration struct {
	ListingLimit int   `mapstructure:"listing_limit"  validate:"gte=1,lte=1000"`
	PageSize     int   `mapstructure:"page_size"      validate:"gte=1,lte=100"`
	MaxImageSize int64 `mapstructure:"max_image_size" validate:"gte=1"`
}

type MailerConfiguration struct {
	Host          string `mapstructure:"host"            validate:"required"`
	Port          int    `mapstructure:"port"            validate:"required"`
	Username      string `mapstructure:"username"`
	Password      string `mapstructure:"password"`
	Sender        string `mapstructure:"sender"          validate:"required"`
	Recipient     string `mapstructure:"recipient"       validate:"required,email"`
	EnableTLS     bool   `mapstructure:"enable_tls"`
	SkipVerifyTLS bool   `mapstructure:"skip_verify_tls"`
}

// NotifierConfiguration selects the OS-level notification sink.
// Permission is the initial permission state recorded on first run.
type NotifierConfiguration struct {
	Type       string                           `mapstructure:"type"       validate:"required,oneof=smtp filesystem none"`
	Permission string                           `mapstructure:"permission" validate:"oneof=default granted denied"`
	SMTP       *MailerConfiguration             `mapstructure:"smtp"       validate:"required_if=Type smtp"`
	Filesystem *FilesystemNotifierConfiguration `mapstructure:"filesystem" validate:"required_if=Type filesystem"`
}

type FilesystemNotifierConfiguration struct {
	Directory string `mapstructure:"directory" validate:"required"`
}

type ActivityConfiguration struct {
	Type       string                           `mapstructure:"type"       validate:"required,oneof=filesystem memory"`
	Filesystem *FilesystemActivityConfiguration `mapstructure:"filesystem" validate:"required_if=Type filesystem"`
}

type FilesystemActivityConfiguration struct {
	Directory string `mapstructure:"directory" validate:"required"`
}

type TelemetryConfiguration struct {
	ServiceName string                 `mapstructure:"service_name"`
	Tracing     TracingConfiguration   `mapstructure:"tracing"`
	Profiling   ProfilingConfiguration `mapstructure:"profiling"`
}

type TracingConfiguration struct {
	Enabled  bool   `mapstructure:"enabled"`
	Endpoint string `mapstructure:"endpoint" validate:"required_if=Enabled true"`
}

type ProfilingConfiguration struct {
	Enabled       bool   `mapstructure:"enabled"`
	ServerAddress string `mapstructure:"server_address" validate:"required_if=Enabled true"`
}
