package common

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/teemow/clickup-mcp/internal/clickup"
	"github.com/teemow/clickup-mcp/internal/server"
	"github.com/teemow/clickup-mcp/internal/tools/batch"
)

// MissingTokenMessage is returned by ClickUp tools when no client is configured.
const MissingTokenMessage = "ClickUp API token is not configured. Set CLICKUP_API_TOKEN (or pass --token to serve) and restart the server."

// Client returns the ClickUp client or a tool error result explaining how to
// configure one.
func Client(sc *server.ServerContext) (*clickup.Client, *mcp.CallToolResult) {
	if sc.Client() == nil {
		return nil, mcp.NewToolResultError(MissingTokenMessage)
	}
	return sc.Client(), nil
}

// GetString returns the trimmed string argument, or "" when absent.
func GetString(args map[string]interface{}, key string) string {
	v, _ := args[key].(string)
	return strings.TrimSpace(v)
}

// RequireString returns the string argument or an error naming it.
func RequireString(args map[string]interface{}, key string) (string, error) {
	v := GetString(args, key)
	if v == "" {
		return "", fmt.Errorf("%s is required", key)
	}
	return v, nil
}

// GetBoolPtr returns nil when the argument is absent.
func GetBoolPtr(args map[string]interface{}, key string) (*bool, error) {
	raw, ok := args[key]
	if !ok || raw == nil {
		return nil, nil
	}
	switch v := raw.(type) {
	case bool:
		return &v, nil
	case string:
		b, err := strconv.ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("%s must be a boolean", key)
		}
		return &b, nil
	default:
		return nil, fmt.Errorf("%s must be a boolean", key)
	}
}

// GetInt64Ptr returns nil when the argument is absent. JSON numbers arrive
// as float64 and must be whole; numeric strings are accepted as well.
func GetInt64Ptr(args map[string]interface{}, key string) (*int64, error) {
	raw, ok := args[key]
	if !ok || raw == nil {
		return nil, nil
	}
	switch v := raw.(type) {
	case float64:
		if v != math.Trunc(v) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("%s must be an integer", key)
		}
		n := int64(v)
		return &n, nil
	case int:
		n := int64(v)
		return &n, nil
	case int64:
		return &v, nil
	case json.Number:
		n, err := v.Int64()
		if err != nil {
			return nil, fmt.Errorf("%s must be an integer", key)
		}
		return &n, nil
	case string:
		if strings.TrimSpace(v) == "" {
			return nil, nil
		}
		n, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%s must be an integer", key)
		}
		return &n, nil
	default:
		return nil, fmt.Errorf("%s must be an integer", key)
	}
}

// GetIntPtr is GetInt64Ptr narrowed to int.
func GetIntPtr(args map[string]interface{}, key string) (*int, error) {
	n, err := GetInt64Ptr(args, key)
	if err != nil || n == nil {
		return nil, err
	}
	i := int(*n)
	return &i, nil
}

// GetStringList returns nil when the argument is absent, otherwise it
// accepts a single string, an array, or a JSON array encoded as a string.
func GetStringList(args map[string]interface{}, key string) ([]string, error) {
	raw, ok := args[key]
	if !ok || raw == nil {
		return nil, nil
	}
	if s, ok := raw.(string); ok && strings.TrimSpace(s) == "" {
		return nil, nil
	}
	return batch.ParseStringOrArray(raw, key)
}

// JSONResult renders v as indented JSON, optionally preceded by a heading line.
func JSONResult(heading string, v interface{}) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to encode result: %v", err)), nil
	}
	if heading != "" {
		return mcp.NewToolResultText(heading + ":\n" + string(data)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

// Hints appended to ErrorResult messages for well-known API statuses.
const (
	UnauthorizedHint = "ClickUp rejected the API token; check CLICKUP_API_TOKEN"
	NotFoundHint     = "the ID does not exist or is not visible to this token"
)

// ErrorResult formats a failed ClickUp call for the tool caller.
func ErrorResult(action string, err error) *mcp.CallToolResult {
	msg := fmt.Sprintf("Failed to %s: %v", action, err)
	switch {
	case clickup.IsUnauthorized(err):
		msg += " (" + UnauthorizedHint + ")"
	case clickup.IsNotFound(err):
		msg += " (" + NotFoundHint + ")"
	}
	return mcp.NewToolResultError(msg)
}
