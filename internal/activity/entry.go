package activity

import (
	"strconv"
	"time"

	"backoffice/internal/models"

	"go.uber.org/zap"
)

// NewActivity builds an audit entry stamped with the current time.
func NewActivity(action, objectType, objectID, message string, object any) models.Activity {
	return models.Activity{
		Message: message,
		Filter: models.LogFilter{
			Fields: map[string]string{
				"action":      action,
				"object_type": objectType,
				"object_id":   objectID,
			},
			Timestamp: strconv.FormatInt(time.Now().UnixNano(), 10),
		},
		Object: object,
	}
}

// Record sends an activity and only logs failures; auditing never blocks a mutation.
func Record(logger IActivityLogger, a models.Activity) {
	if logger == nil {
		return
	}
	if err := logger.Send(a); err != nil {
		zap.L().Warn("Failed to record activity",
			zap.String("action", a.Filter.Fields["action"]),
			zap.Error(err))
	}
}
