package notifier

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"backoffice/internal/models"

	"go.uber.org/zap"
)

type FilesystemNotifier struct {
	directory string
}

func NewFilesystemNotifier(config models.FilesystemNotifierConfiguration) *FilesystemNotifier {
	if err := os.MkdirAll(config.Directory, 0750); err != nil {
		zap.L().Fatal("Failed to create notification directory", zap.Error(err))
	}
	return &FilesystemNotifier{directory: config.Directory}
}

func (f *FilesystemNotifier) Notify(_ context.Context, notification models.Notification) error {
	if notification.CreatedAt.IsZero() {
		notification.CreatedAt = time.Now().UTC()
	}

	content, err := json.MarshalIndent(notification, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal notification: %w", err)
	}

	filename := fmt.Sprintf("%d.json", time.Now().UnixNano())
	path := filepath.Join(f.directory, filename)

	if err = os.WriteFile(path, content, 0600); err != nil {
		return fmt.Errorf("failed to write notification file: %w", err)
	}

	zap.L().Info("Notification written to filesystem",
		zap.String("path", path),
		zap.String("title", notification.Title),
		zap.String("tag", notification.Tag),
	)

	return nil
}

// RequestPermission grants when the notification directory is writable.
func (f *FilesystemNotifier) RequestPermission(_ context.Context) (models.PermissionState, error) {
	probe, err := os.CreateTemp(f.directory, ".probe-*")
	if err != nil {
		return models.PermissionDenied, nil
	}
	_ = probe.Close()
	_ = os.Remove(probe.Name())
	return models.PermissionGranted, nil
}
