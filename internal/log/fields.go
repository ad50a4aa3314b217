package log

// Common field names for structured logging
const (
	FieldComponent  = "component"
	FieldRequestID  = "request_id"
	FieldMethod     = "method"
	FieldPath       = "path"
	FieldStatusCode = "status_code"
	FieldDuration   = "duration_ms"
	FieldSuccess    = "success"
	FieldError      = "error"
	FieldErrorType  = "error_type"
	FieldOperation  = "operation"
	FieldSection    = "section"
	FieldGeneration = "generation"
	FieldPeriod     = "period"
	FieldResource   = "resource"
	FieldRecordID   = "record_id"
	FieldSlot       = "slot"
	FieldCount      = "count"
)

// Components defines standard component names
const (
	ComponentApp       = "app"
	ComponentAPI       = "api"
	ComponentFetch     = "fetch"
	ComponentDashboard = "dashboard"
	ComponentGateway   = "gateway"
	ComponentChart     = "chart"
	ComponentTUI       = "tui"
	ComponentStub      = "stub"
)

// Operations defines standard operation names
const (
	OpCreate   = "create"
	OpDelete   = "delete"
	OpList     = "list"
	OpLoad     = "load"
	OpActivate = "activate"
	OpBind     = "bind"
	OpValidate = "validate"
	OpShutdown = "shutdown"
	OpStartup  = "startup"
)

// ErrorTypes defines standard error type categories
const (
	ErrorTypeValidation    = "validation_error"
	ErrorTypeConfiguration = "configuration_error"
	ErrorTypeNetwork       = "network_error"
	ErrorTypeStatus        = "status_error"
	ErrorTypeParse         = "parse_error"
	ErrorTypeCancelled     = "cancelled"
	ErrorTypeInternal      = "internal_error"
)

// LogFields provides a builder pattern for structured log fields
type LogFields map[string]any

// NewFields creates a new LogFields instance
func NewFields() LogFields {
	return make(LogFields)
}

func (f LogFields) WithError(err error) LogFields {
	if err != nil {
		f[FieldError] = err.Error()
	}
	return f
}

func (f LogFields) WithErrorType(kind string) LogFields {
	if kind != "" {
		f[FieldErrorType] = kind
	}
	return f
}

func (f LogFields) WithOperation(op string) LogFields {
	f[FieldOperation] = op
	return f
}

func (f LogFields) WithSection(section string, generation uint64) LogFields {
	f[FieldSection] = section
	f[FieldGeneration] = generation
	return f
}

func (f LogFields) WithResource(resource string, id int64) LogFields {
	f[FieldResource] = resource
	if id != 0 {
		f[FieldRecordID] = id
	}
	return f
}

// WithHTTPExchange adds outbound request/response fields.
func (f LogFields) WithHTTPExchange(method, path string, status int, durationMs int64) LogFields {
	f[FieldMethod] = method
	f[FieldPath] = path
	f[FieldStatusCode] = status
	f[FieldDuration] = durationMs
	f[FieldSuccess] = status > 0 && status < 400
	return f
}

// ToSlice converts LogFields to a slice for slog
func (f LogFields) ToSlice() []any {
	slice := make([]any, 0, len(f)*2)
	for k, v := range f {
		slice = append(slice, k, v)
	}
	return slice
}
