package http

// ContextKey is the type of Gorilla context keys.
type ContextKey int

const (
	// ContextRequestIDKey is the key to use to store/retrieve the request ID.
	ContextRequestIDKey ContextKey = iota

	// ContextLogPrefixKey is the key to use to store/retrieve the log prefix.
	ContextLogPrefixKey
)
