package log

// Имена полей структурированных логов
const (
	FieldComponent   = "component"
	FieldRequestID   = "request_id"
	FieldMethod      = "method"
	FieldPath        = "path"
	FieldStatusCode  = "status_code"
	FieldDuration    = "duration_ms"
	FieldError       = "error"
	FieldTool        = "tool"
	FieldPrincipal   = "principal"
	FieldRate        = "annual_rate_percent"
	FieldMonths      = "months"
	FieldScheduleLen = "schedule_length"
)

// Компоненты
const (
	ComponentApp     = "app"
	ComponentHTTP    = "http"
	ComponentTools   = "tools"
	ComponentTracing = "tracing"
)
