package manager

// notLoadedError signals a predict before any successful load. Manager-state
// issue, distinct from the registry's and backends' artifact errors.
type notLoadedError struct{}

func (notLoadedError) Error() string { return "no model loaded" }

// ErrNotLoaded constructs a notLoadedError.
func ErrNotLoaded() error { return notLoadedError{} }

// IsNotLoaded reports whether err indicates the manager has no loaded model.
func IsNotLoaded(err error) bool {
	_, ok := err.(notLoadedError)
	return ok
}
