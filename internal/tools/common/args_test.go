package common

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teemow/clickup-mcp/internal/clickup"
	"github.com/teemow/clickup-mcp/internal/members"
	"github.com/teemow/clickup-mcp/internal/server"
)

func resultText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	require.NotEmpty(t, result.Content)
	text, ok := result.Content[0].(mcp.TextContent)
	require.True(t, ok, "expected text content, got %T", result.Content[0])
	return text.Text
}

func TestClient(t *testing.T) {
	_, errResult := Client(newServerContext(t))
	require.NotNil(t, errResult)
	assert.True(t, errResult.IsError)
	assert.Contains(t, resultText(t, errResult), "CLICKUP_API_TOKEN")

	client, err := clickup.NewClient("pk_test")
	require.NoError(t, err)
	sc := server.NewServerContext(context.Background(), client, nil, members.Options{})
	defer func() { _ = sc.Shutdown() }()

	got, errResult := Client(sc)
	assert.Nil(t, errResult)
	assert.Same(t, client, got)
}

func TestGetString(t *testing.T) {
	args := map[string]interface{}{"name": "  Sprint 12 ", "count": 3}

	assert.Equal(t, "Sprint 12", GetString(args, "name"))
	assert.Equal(t, "", GetString(args, "count"))
	assert.Equal(t, "", GetString(args, "missing"))

	_, err := RequireString(args, "list_id")
	assert.EqualError(t, err, "list_id is required")
}

func TestGetInt64Ptr(t *testing.T) {
	tests := []struct {
		name    string
		value   interface{}
		want    *int64
		wantErr bool
	}{
		{"absent", nil, nil, false},
		{"json number", float64(81585056), int64Ptr(81585056), false},
		{"fraction", 1.5, nil, true},
		{"numeric string", "1700000000000", int64Ptr(1700000000000), false},
		{"blank string", " ", nil, false},
		{"word", "tomorrow", nil, true},
		{"bool", true, nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := map[string]interface{}{}
			if tt.value != nil {
				args["due_date"] = tt.value
			}
			got, err := GetInt64Ptr(args, "due_date")
			if tt.wantErr {
				assert.ErrorContains(t, err, "due_date must be an integer")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestGetIntPtr(t *testing.T) {
	got, err := GetIntPtr(map[string]interface{}{"priority": float64(2)}, "priority")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, 2, *got)
}

func TestGetBoolPtr(t *testing.T) {
	got, err := GetBoolPtr(map[string]interface{}{"multiple_assignees": true}, "multiple_assignees")
	require.NoError(t, err)
	assert.True(t, *got)

	got, err = GetBoolPtr(map[string]interface{}{"multiple_assignees": "false"}, "multiple_assignees")
	require.NoError(t, err)
	assert.False(t, *got)

	got, err = GetBoolPtr(map[string]interface{}{}, "multiple_assignees")
	require.NoError(t, err)
	assert.Nil(t, got)

	_, err = GetBoolPtr(map[string]interface{}{"multiple_assignees": 1}, "multiple_assignees")
	assert.Error(t, err)
}

func TestGetStringList(t *testing.T) {
	got, err := GetStringList(map[string]interface{}{"assignees": `["juan","81585056"]`}, "assignees")
	require.NoError(t, err)
	assert.Equal(t, []string{"juan", "81585056"}, got)

	got, err = GetStringList(map[string]interface{}{"assignees": []interface{}{"yarlen"}}, "assignees")
	require.NoError(t, err)
	assert.Equal(t, []string{"yarlen"}, got)

	got, err = GetStringList(map[string]interface{}{"assignees": ""}, "assignees")
	require.NoError(t, err)
	assert.Nil(t, got)

	_, err = GetStringList(map[string]interface{}{"assignees": 5}, "assignees")
	assert.Error(t, err)
}

func TestJSONResult(t *testing.T) {
	result, err := JSONResult("", map[string]int{"a": 1})
	require.NoError(t, err)
	assert.JSONEq(t, `{"a":1}`, resultText(t, result))

	result, err = JSONResult("Task created successfully", map[string]string{"id": "86abc"})
	require.NoError(t, err)
	assert.Contains(t, resultText(t, result), "Task created successfully:\n{")

	result, err = JSONResult("", func() {})
	require.NoError(t, err)
	assert.True(t, result.IsError)
}

func TestErrorResult(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"plain", errors.New("boom"), "Failed to list spaces: boom"},
		{
			"unauthorized",
			fmt.Errorf("failed to get spaces: %w", &clickup.APIError{StatusCode: 401, Code: "OAUTH_025", Message: "Token invalid"}),
			"Failed to list spaces: failed to get spaces: clickup API returned 401 (OAUTH_025): Token invalid (" + UnauthorizedHint + ")",
		},
		{
			"not found",
			&clickup.APIError{StatusCode: 404, Message: "Not Found"},
			"Failed to list spaces: clickup API returned 404: Not Found (" + NotFoundHint + ")",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ErrorResult("list spaces", tt.err)
			assert.True(t, result.IsError)
			assert.Equal(t, tt.want, resultText(t, result))
		})
	}
}

func int64Ptr(v int64) *int64 { return &v }
