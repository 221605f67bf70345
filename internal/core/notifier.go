package core

import (
	"backoffice/internal/cache"
	"backoffice/internal/configuration"
	"backoffice/internal/models"
	"backoffice/internal/notifier"
)

// NewNotifier builds the OS-level notification sink behind the permission gate.
func NewNotifier(config models.NotifierConfiguration, store cache.ICache) *notifier.PermissionGate {
	var sink notifier.INotifier

	switch config.Type {
	case configuration.ProviderSMTP:
		sink = notifier.NewSMTPNotifier(*config.SMTP)
	case configuration.ProviderFilesystem:
		sink = notifier.NewFilesystemNotifier(*config.Filesystem)
	default:
		sink = notifier.NoopNotifier{}
	}

	return notifier.NewPermissionGate(sink, store, models.PermissionState(config.Permission))
}
