// internal/types/interfaces.go
package types

// ToastKind classifies a non-blocking notification.
type ToastKind string

const (
	ToastInfo    ToastKind = "info"
	ToastSuccess ToastKind = "success"
	ToastError   ToastKind = "error"
)

// Toaster surfaces non-blocking notifications. Transient backend failures go
// through here rather than blocking dialogs so unsaved editor state survives
// a retry.
type Toaster interface {
	Show(kind ToastKind, message string)
}

// ToastFunc adapts a function to the Toaster interface.
type ToastFunc func(kind ToastKind, message string)

func (f ToastFunc) Show(kind ToastKind, message string) {
	f(kind, message)
}
