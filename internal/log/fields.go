package log

const (
	FieldRequestID = "request_id"
	FieldMethod    = "method"
	FieldPath      = "path"
	FieldStatus    = "status"
	FieldLatency   = "latency_ms"
	FieldClientIP  = "client_ip"

	FieldUserID  = "user_id"
	FieldPersona = "persona"
	FieldFailure = "failure"

	FieldService = "service"
	FieldWorker  = "worker"
)
