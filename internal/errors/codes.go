package errors

// Common error codes
const (
	// System errors
	ErrInternal       ErrorCode = "internal_error"
	ErrNotImplemented ErrorCode = "not_implemented"
	ErrUnavailable    ErrorCode = "service_unavailable"

	// Configuration errors
	ErrInvalidConfig   ErrorCode = "invalid_configuration"
	ErrBindFlags       ErrorCode = "bind_flags_failed"
	ErrReadConfig      ErrorCode = "read_config_failed"
	ErrInvalidInterval ErrorCode = "invalid_interval"
	ErrInvalidFormat   ErrorCode = "invalid_format"
	ErrUnknownField    ErrorCode = "unknown_field"
	ErrInvalidOutput   ErrorCode = "invalid_output"

	// Logging errors
	ErrInvalidLogLevel ErrorCode = "invalid_log_level"

	// Resource errors
	ErrResourceNotFound ErrorCode = "resource_not_found"
	ErrAlreadyRunning   ErrorCode = "already_running"

	// Application errors
	ErrInitApp     ErrorCode = "init_app_failed"
	ErrMainLoop    ErrorCode = "main_loop_failed"
	ErrOpenSink    ErrorCode = "open_sink_failed"
	ErrPublish     ErrorCode = "publish_failed"
	ErrDaemonize   ErrorCode = "daemonize_failed"
	ErrReadMetric  ErrorCode = "read_metric_failed"
	ErrParseMetric ErrorCode = "parse_metric_failed"

	// Operation errors
	ErrTimeout ErrorCode = "operation_timeout"
)

// Common error messages
var errorMessages = map[ErrorCode]string{
	ErrInternal:         "Internal error occurred",
	ErrNotImplemented:   "Operation not implemented",
	ErrUnavailable:      "Service unavailable",
	ErrInvalidConfig:    "Invalid configuration",
	ErrBindFlags:        "Failed to bind flags",
	ErrReadConfig:       "Failed to read config file",
	ErrInvalidInterval:  "Invalid interval value",
	ErrInvalidFormat:    "Invalid status format",
	ErrUnknownField:     "Unknown status field",
	ErrInvalidOutput:    "Invalid output destination",
	ErrInvalidLogLevel:  "Invalid log level",
	ErrResourceNotFound: "Resource not found",
	ErrAlreadyRunning:   "Another instance is already running",
	ErrInitApp:          "Failed to initialize application",
	ErrMainLoop:         "Error in main loop",
	ErrOpenSink:         "Failed to open output",
	ErrPublish:          "Failed to publish status",
	ErrDaemonize:        "Failed to start daemon",
	ErrReadMetric:       "Failed to read metric",
	ErrParseMetric:      "Failed to parse metric",
	ErrTimeout:          "Operation timed out",
}

// GetErrorMessage returns the message for a given error code
func GetErrorMessage(code ErrorCode) string {
	if msg, ok := errorMessages[code]; ok {
		return msg
	}

	return string(code)
}
