package httpapi

// maxBodyBytes caps the request body size for JSON endpoints.
var maxBodyBytes int64 = 1 << 20

// SetMaxBodyBytes configures the maximum request body size (<=0 restores the
// 1 MiB default).
func SetMaxBodyBytes(n int64) {
	if n <= 0 {
		maxBodyBytes = 1 << 20
		return
	}
	maxBodyBytes = n
}

// maxTextLen caps the text field of predict requests, in bytes. Zero
// disables the check; backends still truncate to their own sequence limits.
var maxTextLen = 10000

// SetMaxTextLen configures the maximum accepted text length.
func SetMaxTextLen(n int) {
	if n < 0 {
		n = 0
	}
	maxTextLen = n
}

// CORS configuration (opt-in). If disabled, no CORS middleware is added.
var (
	corsEnabled        bool
	corsAllowedOrigins []string
	corsAllowedMethods []string
	corsAllowedHeaders []string
)

// SetCORSOptions configures CORS behavior for the HTTP server.
func SetCORSOptions(enabled bool, origins, methods, headers []string) {
	corsEnabled = enabled
	corsAllowedOrigins = append([]string(nil), origins...)
	corsAllowedMethods = append([]string(nil), methods...)
	corsAllowedHeaders = append([]string(nil), headers...)
}
