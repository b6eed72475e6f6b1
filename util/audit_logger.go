package util

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"strings"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/andresilva/clinic-transport/model"
)

// AuditEventType represents different types of audit events
type AuditEventType string

const (
	EventEndpointCall      AuditEventType = "ENDPOINT_CALL"
	EventRateLimitExceeded AuditEventType = "RATE_LIMIT_EXCEEDED"
	EventStoreFailure      AuditEventType = "STORE_FAILURE"
)

// AuditEvent represents a request/audit event to be logged
type AuditEvent struct {
	EventType AuditEventType
	Method    string
	Path      string
	Status    int
	IP        string
	UserAgent string
	Message   string
	Details   map[string]interface{}
}

var auditLogger *log.Logger
var auditDB *gorm.DB

// SetAuditLoggerDB sets a gorm DB instance used by the audit logger.
// Call this during application startup (e.g. in main) after DB initialization.
func SetAuditLoggerDB(db *gorm.DB) {
	auditDB = db
}

// GetAuditLoggerForTest returns the current audit logger for testing purposes.
func GetAuditLoggerForTest() *log.Logger {
	return auditLogger
}

// SetAuditLoggerForTest replaces the audit logger for testing purposes.
func SetAuditLoggerForTest(l *log.Logger) {
	auditLogger = l
}

func init() {
	auditLogger = log.New(os.Stdout, "[AUDIT] ", log.LstdFlags|log.Lmsgprefix)
}

// sanitizeLogValue removes newlines and other characters that could break log parsing
func sanitizeLogValue(value string) string {
	value = strings.ReplaceAll(value, "\n", " ")
	value = strings.ReplaceAll(value, "\r", " ")
	value = strings.ReplaceAll(value, "\t", " ")
	// Truncate very long values to prevent log flooding
	if len(value) > 200 {
		value = value[:200] + "..."
	}
	return value
}

// LogAuditEvent writes the event to stdout and, when a DB was configured,
// persists it to the audit_logs table. Persistence is best-effort: a failed
// insert never fails the request being logged.
func LogAuditEvent(event AuditEvent) {
	msg := fmt.Sprintf("Event=%s Method=%s Path=%s Status=%d IP=%s UserAgent=%s Message=%s",
		sanitizeLogValue(string(event.EventType)),
		sanitizeLogValue(event.Method),
		sanitizeLogValue(event.Path),
		event.Status,
		sanitizeLogValue(event.IP),
		sanitizeLogValue(event.UserAgent),
		sanitizeLogValue(event.Message),
	)

	if len(event.Details) > 0 {
		// Don't log the Details map directly to avoid injection; log its size.
		msg = fmt.Sprintf("%s DetailsCount=%d", msg, len(event.Details))
	}

	auditLogger.Println(msg)

	if auditDB == nil {
		return
	}

	var details datatypes.JSON
	if event.Details != nil {
		if b, err := json.Marshal(event.Details); err == nil {
			details = datatypes.JSON(b)
		}
	}

	entry := model.AuditLog{
		EventType: string(event.EventType),
		Method:    sanitizeLogValue(event.Method),
		Path:      sanitizeLogValue(event.Path),
		Status:    event.Status,
		IP:        sanitizeLogValue(event.IP),
		UserAgent: sanitizeLogValue(event.UserAgent),
		Message:   sanitizeLogValue(event.Message),
		Details:   details,
	}

	if err := auditDB.Create(&entry).Error; err != nil {
		fmt.Fprintf(os.Stderr, "failed to persist audit log: %v\n", err)
	}
}

// LogRateLimitExceeded records a client hitting the rate limiter.
func LogRateLimitExceeded(ip, endpoint string) {
	LogAuditEvent(AuditEvent{
		EventType: EventRateLimitExceeded,
		Path:      endpoint,
		IP:        ip,
		Message:   fmt.Sprintf("Rate limit exceeded for %s", endpoint),
	})
}
