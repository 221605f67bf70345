package notifier

import (
	"context"

	"backoffice/internal/models"
)

// INotifier raises notifications outside the console, the way an OS
// notification reaches an admin who is looking at another window.
type INotifier interface {
	Notify(ctx context.Context, notification models.Notification) error
	// RequestPermission asks the sink whether notifications may be shown.
	RequestPermission(ctx context.Context) (models.PermissionState, error)
}
