package logging

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"
	"strings"
)

// Common log attribute keys for consistent naming across the codebase.
const (
	KeyOperation  = "operation"
	KeyTeam       = "team_id"
	KeySpace      = "space_id"
	KeyFolder     = "folder_id"
	KeyList       = "list_id"
	KeyTask       = "task_id"
	KeyIdentifier = "identifier"
	KeyStatus     = "status"
	KeyError      = "error"
	KeyTool       = "tool"
)

// Status values for consistent logging.
// Note: These are intentionally duplicated from instrumentation package
// to avoid circular dependencies (instrumentation imports logging).
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// WithOperation returns a logger with the operation attribute set.
func WithOperation(logger *slog.Logger, operation string) *slog.Logger {
	return logger.With(slog.String(KeyOperation, operation))
}

// Operation returns a slog attribute for the operation name.
func Operation(op string) slog.Attr {
	return slog.String(KeyOperation, op)
}

// Tool returns a slog attribute for the tool name.
func Tool(tool string) slog.Attr {
	return slog.String(KeyTool, tool)
}

// Team returns a slog attribute for a ClickUp team (workspace) ID.
func Team(id string) slog.Attr {
	return slog.String(KeyTeam, id)
}

// Space returns a slog attribute for a ClickUp space ID.
func Space(id string) slog.Attr {
	return slog.String(KeySpace, id)
}

// Folder returns a slog attribute for a ClickUp folder ID.
func Folder(id string) slog.Attr {
	return slog.String(KeyFolder, id)
}

// List returns a slog attribute for a ClickUp list ID.
func List(id string) slog.Attr {
	return slog.String(KeyList, id)
}

// Task returns a slog attribute for a ClickUp task ID.
func Task(id string) slog.Attr {
	return slog.String(KeyTask, id)
}

// Status returns a slog attribute for the status.
func Status(status string) slog.Attr {
	return slog.String(KeyStatus, status)
}

// Identifier returns a slog attribute for a member identifier.
// Identifiers that look like email addresses are hashed.
//
// Usage:
//
//	logger.Warn("could not resolve member", logging.Identifier(id))
func Identifier(id string) slog.Attr {
	if strings.Contains(id, "@") {
		return slog.String(KeyIdentifier, AnonymizeEmail(id))
	}
	return slog.String(KeyIdentifier, id)
}

// Err returns a slog attribute for an error.
// If err is nil, returns an empty Group attribute that will be omitted from output.
//
// Usage:
//
//	logger.Info("operation", logging.Err(err))  // Safe even if err is nil
func Err(err error) slog.Attr {
	if err == nil {
		return slog.Group("")
	}
	return slog.String(KeyError, err.Error())
}

// AnonymizeEmail returns a hashed representation of an email for logging purposes.
// This allows correlation of log entries without exposing PII.
func AnonymizeEmail(email string) string {
	if email == "" {
		return ""
	}
	hash := sha256.Sum256([]byte(strings.ToLower(email)))
	return "user:" + hex.EncodeToString(hash[:8])
}

// SanitizeToken returns a masked version of a token for logging.
// Only the length is reported; ClickUp personal tokens keep their "pk_" prefix visible.
func SanitizeToken(token string) string {
	if token == "" {
		return "<empty>"
	}
	if strings.HasPrefix(token, "pk_") {
		return fmt.Sprintf("[token:pk_ %d chars]", len(token))
	}
	return fmt.Sprintf("[token:%d chars]", len(token))
}
