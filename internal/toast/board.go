package toast

import (
	"sync"
	"time"

	"backoffice/internal/models"

	"github.com/google/uuid"
)

// IToaster raises transient in-app messages.
type IToaster interface {
	Success(message string)
	Info(message string)
	Error(message string)
}

// Board keeps the most recent toasts in a ring buffer for the presentation layer.
type Board struct {
	mu      sync.Mutex
	entries []models.Toast
	pos     int
	full    bool
	size    int

	onToast func(models.Toast)
}

func NewBoard(size int) *Board {
	if size < 1 {
		size = 1
	}
	return &Board{
		entries: make([]models.Toast, size),
		size:    size,
	}
}

// SetOnToast sets a callback invoked for each new toast, outside the lock.
func (b *Board) SetOnToast(fn func(models.Toast)) {
	b.mu.Lock()
	b.onToast = fn
	b.mu.Unlock()
}

func (b *Board) Success(message string) { b.push(models.ToastSuccess, message) }
func (b *Board) Info(message string)    { b.push(models.ToastInfo, message) }
func (b *Board) Error(message string)   { b.push(models.ToastError, message) }

func (b *Board) push(level models.ToastLevel, message string) {
	t := models.Toast{
		ID:        uuid.New().String(),
		Level:     level,
		Message:   message,
		CreatedAt: time.Now().UTC(),
	}

	b.mu.Lock()
	b.entries[b.pos] = t
	b.pos = (b.pos + 1) % b.size
	if b.pos == 0 || b.full {
		b.full = true
	}
	cb := b.onToast
	b.mu.Unlock()

	if cb != nil {
		cb(t)
	}
}

// Recent returns up to n toasts, newest first. n <= 0 returns all of them.
func (b *Board) Recent(n int) []models.Toast {
	b.mu.Lock()
	defer b.mu.Unlock()

	count := b.pos
	if b.full {
		count = b.size
	}
	if n <= 0 || n > count {
		n = count
	}

	out := make([]models.Toast, 0, n)
	for i := 1; i <= n; i++ {
		idx := (b.pos - i + b.size) % b.size
		out = append(out, b.entries[idx])
	}
	return out
}
