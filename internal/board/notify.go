package board

import (
	"context"
	"log/slog"
	"sync"
)

// Variant selects how a toast is presented.
type Variant string

const (
	VariantDefault     Variant = "default"
	VariantDestructive Variant = "destructive"
)

// Toast is a fire-and-forget user notification.
type Toast struct {
	Title       string
	Description string
	Variant     Variant
}

// Notifier surfaces toasts to the user. Notify must not block.
type Notifier interface {
	Notify(t Toast)
}

// LogNotifier writes toasts to a structured logger.
type LogNotifier struct {
	Logger *slog.Logger
}

// Notify implements Notifier
func (n LogNotifier) Notify(t Toast) {
	logger := n.Logger
	if logger == nil {
		logger = slog.Default()
	}

	level := slog.LevelInfo
	if t.Variant == VariantDestructive {
		level = slog.LevelWarn
	}
	logger.Log(context.Background(), level, t.Title, slog.String("description", t.Description))
}

// Recorder keeps every toast it receives, in order.
type Recorder struct {
	mu     sync.Mutex
	toasts []Toast
}

// Notify implements Notifier
func (r *Recorder) Notify(t Toast) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.toasts = append(r.toasts, t)
}

// Toasts returns a copy of the recorded toasts.
func (r *Recorder) Toasts() []Toast {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Toast{}, r.toasts...)
}

// Reset drops all recorded toasts.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.toasts = nil
}
