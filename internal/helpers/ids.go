package helpers

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
)

// ParseIDs collects the path parameters id0, id1, ... in order.
func ParseIDs(r *http.Request) []string {
	var ids []string
	for i := 0; ; i++ {
		id := chi.URLParam(r, fmt.Sprintf("id%d", i))
		if id == "" {
			return ids
		}
		ids = append(ids, id)
	}
}
