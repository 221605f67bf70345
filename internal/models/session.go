package models

// Session is the administrator credential held for the whole run.
type Session struct {
	Token   string `json:"token,omitempty"`
	IsAdmin bool   `json:"admin"`
}

// Authenticated reports whether protected views may be served.
func (s Session) Authenticated() bool {
	return s.Token != "" && s.IsAdmin
}
