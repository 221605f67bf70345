package activity

import "backoffice/internal/models"

// IActivityLogger records and queries the audit trail of admin mutations.
type IActivityLogger interface {
	Search(searchCriteria map[string][]string) ([]map[string]any, error)
	Send(message models.Activity) error
	CountByDay(searchCriteria map[string][]string, days int) ([]models.TimeSeriesPoint, error)
	Close() error
}
