package instrumentation

import (
	"strconv"
	"strings"
)

// Cardinality helpers. Member identifiers and email addresses are unbounded,
// so they are reduced to a small set of label values before being recorded.

// Identifier kinds.
const (
	IdentifierNumeric = "numeric"
	IdentifierEmail   = "email"
	IdentifierName    = "name"
	IdentifierEmpty   = "empty"
)

// IdentifierKind classifies a member identifier for low-cardinality labels.
func IdentifierKind(identifier string) string {
	switch {
	case identifier == "":
		return IdentifierEmpty
	case isInt(identifier):
		return IdentifierNumeric
	case strings.Contains(identifier, "@"):
		return IdentifierEmail
	default:
		return IdentifierName
	}
}

func isInt(s string) bool {
	_, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	return err == nil
}

// Common operation types for ClickUp API metrics.
const (
	OperationList    = "list"
	OperationGet     = "get"
	OperationCreate  = "create"
	OperationUpdate  = "update"
	OperationDelete  = "delete"
	OperationSearch  = "search"
	OperationResolve = "resolve"
)
