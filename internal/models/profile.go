package models

// WorkerMode defines whether a background worker runs.
type WorkerMode string

const (
	WorkerModeDisabled WorkerMode = "disabled" // Worker is disabled
	WorkerModeEnabled  WorkerMode = "enabled"  // Worker runs for the lifetime of the process
)

// Profile defines which components run for a given deployment mode.
type Profile struct {
	Name       string
	HTTPServer bool
	Workers    WorkerConfig
}

// WorkerConfig defines which workers are enabled.
type WorkerConfig struct {
	OrderPoller        WorkerMode
	DashboardRefresher WorkerMode
}

// AnyEnabled returns true if any worker is enabled.
func (w WorkerConfig) AnyEnabled() bool {
	return w.OrderPoller != WorkerModeDisabled || w.DashboardRefresher != WorkerModeDisabled
}
