package logging

// Common structured log field keys.
const (
	FieldRequestID  = "request_id"
	FieldMethod     = "method"
	FieldURI        = "uri"
	FieldStatusCode = "status_code"
	FieldDurationMS = "duration_ms"
	FieldManagerID  = "manager_id"
	FieldLabelID    = "label_id"
	FieldSellerID   = "seller_id"
	FieldSessionID  = "session_id"
	FieldCount      = "count"
)
