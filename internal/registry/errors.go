package registry

// unknownModelError signals a model id that is not in the static catalog.
// Client error, always safe to surface verbatim.
type unknownModelError struct{ id string }

func (e unknownModelError) Error() string { return "unknown model: " + e.id }

// ErrUnknownModel constructs an unknownModelError.
func ErrUnknownModel(id string) error { return unknownModelError{id: id} }

// IsUnknownModel reports whether err indicates an id missing from the catalog.
func IsUnknownModel(err error) bool {
	_, ok := err.(unknownModelError)
	return ok
}
