package outbound

// TaskDispatcher submits work to the shared bounded worker pool. The pool
// size is chosen to respect provider rate limits, not CPU count.
type TaskDispatcher interface {
	Submit(task func()) error
}
