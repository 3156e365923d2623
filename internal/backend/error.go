package backend

import "fmt"

// artifactMissingError signals that catalog artifacts are absent or
// incomplete on disk. Operational error: the model exists in the catalog but
// has not been trained/deployed yet.
type artifactMissingError struct {
	path   string
	detail string
}

func (e artifactMissingError) Error() string {
	return fmt.Sprintf("model artifacts missing at %s: %s", e.path, e.detail)
}

// ErrArtifactMissing constructs an artifactMissingError.
func ErrArtifactMissing(path, detail string) error {
	return artifactMissingError{path: path, detail: detail}
}

// IsArtifactMissing reports whether err indicates absent/incomplete artifacts.
func IsArtifactMissing(err error) bool {
	_, ok := err.(artifactMissingError)
	return ok
}

// artifactCorruptError signals artifacts that are present but fail to
// deserialize. Fatal for the load attempt; the manager stays on its previous
// model.
type artifactCorruptError struct {
	path  string
	cause error
}

func (e artifactCorruptError) Error() string {
	return fmt.Sprintf("model artifacts corrupt at %s: %v", e.path, e.cause)
}

func (e artifactCorruptError) Unwrap() error { return e.cause }

// ErrArtifactCorrupt constructs an artifactCorruptError wrapping cause.
func ErrArtifactCorrupt(path string, cause error) error {
	return artifactCorruptError{path: path, cause: cause}
}

// IsArtifactCorrupt reports whether err indicates undecodable artifacts.
func IsArtifactCorrupt(err error) bool {
	_, ok := err.(artifactCorruptError)
	return ok
}

// inferenceError wraps any failure raised during tokenization or the forward
// pass, with the original cause attached.
type inferenceError struct {
	cause error
}

func (e inferenceError) Error() string { return fmt.Sprintf("inference failed: %v", e.cause) }

func (e inferenceError) Unwrap() error { return e.cause }

// ErrInference constructs an inferenceError wrapping cause.
func ErrInference(cause error) error { return inferenceError{cause: cause} }

// IsInference reports whether err originated inside a backend inference call.
func IsInference(err error) bool {
	_, ok := err.(inferenceError)
	return ok
}
