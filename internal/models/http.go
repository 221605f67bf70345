package models

// Request context keys set by the middlewares.
type (
	BodyKey   struct{}
	QueryKey  struct{}
	LoggerKey struct{}
)

// Error is the JSON error body of the console API.
type Error struct {
	Status int      `json:"status"`
	Error  []string `json:"error"`
}
