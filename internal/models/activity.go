package models

type LogFilter struct {
	Fields    map[string]string `json:"fields"`
	Timestamp string            `json:"timestamp"`
}

// Activity is one audited admin mutation.
type Activity struct {
	Message string    `json:"message"`
	Filter  LogFilter `json:"filter"`
	Object  any       `json:"object,omitempty"`
}

type TimeSeriesPoint struct {
	Date  string `json:"date"`
	Count int64  `json:"count"`
}

type ActivitySearchQueryParams struct {
	Action string `json:"action" validate:"omitempty,max=64"`
	Days   int    `json:"days"   validate:"omitempty,gte=1,lte=90"`
}

const (
	ActivityLogin              = "login"
	ActivityLogout             = "logout"
	ActivityOrderStatusUpdated = "order_status_updated"
	ActivityOrderCancelled     = "order_cancelled"
	ActivityProductCreated     = "product_created"
	ActivityProductUpdated     = "product_updated"
	ActivityProductDeleted     = "product_deleted"
)
