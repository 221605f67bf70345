package models

import "time"

// Notification is an OS-level notification raised outside the console.
type Notification struct {
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	Tag       string    `json:"tag"`
	CreatedAt time.Time `json:"createdAt"`
}

type PermissionState string

const (
	PermissionDefault PermissionState = "default"
	PermissionGranted PermissionState = "granted"
	PermissionDenied  PermissionState = "denied"
)

type ToastLevel string

const (
	ToastSuccess ToastLevel = "success"
	ToastInfo    ToastLevel = "info"
	ToastError   ToastLevel = "error"
)

// Toast is a transient in-app message.
type Toast struct {
	ID        string     `json:"id"`
	Level     ToastLevel `json:"level"`
	Message   string     `json:"message"`
	CreatedAt time.Time  `json:"createdAt"`
}
