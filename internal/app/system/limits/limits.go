// internal/app/system/limits/limits.go
package limits

// Request and response size bounds shared by the JSON handlers.
const (
	// MaxJSONBody is the largest request body DecodeJSON will read.
	MaxJSONBody = 64 << 10 // 64 KB

	// AuditPageSize is the number of audit events returned per page.
	AuditPageSize = 50
)
