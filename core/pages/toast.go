// Package pages holds the page controllers: list, dialog and workflow state driven by the console.
package pages

import "sync"

type ToastKind string

const (
	ToastSuccess ToastKind = "success"
	ToastInfo    ToastKind = "info"
	ToastWarn    ToastKind = "warn"
	ToastError   ToastKind = "error"
)

type Toast struct {
	Kind    ToastKind
	Summary string
	Detail  string
}

// Toaster queues toasts until the shell drains them into the next rendered page.
type Toaster struct {
	mu    sync.Mutex
	queue []Toast
}

func NewToaster() *Toaster {
	return &Toaster{}
}

func (t *Toaster) Push(toast Toast) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.queue = append(t.queue, toast)
}

func (t *Toaster) Success(detail string) {
	t.Push(Toast{Kind: ToastSuccess, Summary: "Success", Detail: detail})
}

func (t *Toaster) Info(detail string) {
	t.Push(Toast{Kind: ToastInfo, Summary: "Info", Detail: detail})
}

func (t *Toaster) Warn(detail string) {
	t.Push(Toast{Kind: ToastWarn, Summary: "Warning", Detail: detail})
}

func (t *Toaster) Error(detail string) {
	t.Push(Toast{Kind: ToastError, Summary: "Error", Detail: detail})
}

// Drain returns and forgets the queued toasts.
func (t *Toaster) Drain() []Toast {
	t.mu.Lock()
	defer t.mu.Unlock()
	toasts := t.queue
	t.queue = nil
	return toasts
}

// Peek returns the queued toasts without removing them.
func (t *Toaster) Peek() []Toast {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]Toast(nil), t.queue...)
}
