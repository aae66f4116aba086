package batch

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseStringOrArray(t *testing.T) {
	tests := []struct {
		name    string
		input   interface{}
		want    []string
		wantErr bool
	}{
		{"single string", "86abc", []string{"86abc"}, false},
		{"array of strings", []interface{}{"86a", "86b", "86c"}, []string{"86a", "86b", "86c"}, false},
		{"typed string slice", []string{"juan", "81585056"}, []string{"juan", "81585056"}, false},
		{"nil input", nil, nil, true},
		{"empty string", "", nil, true},
		{"empty array", []interface{}{}, nil, true},
		{"array with non-string", []interface{}{"86a", 123}, nil, true},
		{"array with empty string", []interface{}{"86a", ""}, nil, true},
		{"invalid type", 123, nil, true},
		{"JSON string array", `["juan", "yarlen@27cobalto.com", "81585056"]`, []string{"juan", "yarlen@27cobalto.com", "81585056"}, false},
		{"JSON single element", `["86abc"]`, []string{"86abc"}, false},
		{"JSON empty array", `[]`, nil, true},
		{"invalid JSON taken literally", `[invalid json`, []string{`[invalid json`}, false},
		{"bracketed name taken literally", `[ops] juan`, []string{`[ops] juan`}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseStringOrArray(tt.input, "task_ids")
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseStringOrArray_ErrorNamesParameter(t *testing.T) {
	_, err := ParseStringOrArray(nil, "identifiers")
	assert.EqualError(t, err, "identifiers is required")
}

func TestFormatResults(t *testing.T) {
	output := FormatResults([]Result{
		NewSuccessResult("86a", "deleted"),
		NewSuccessResult("86b", "deleted"),
		NewErrorResult("86c", errors.New("clickup API returned 404 (ITEM_015): Task not found")),
	})

	var br BatchResult
	require.NoError(t, json.Unmarshal([]byte(output), &br))

	assert.Equal(t, 3, br.Total)
	assert.Equal(t, 2, br.Successful)
	assert.Equal(t, 1, br.Failed)
	assert.Len(t, br.Results, 3)
}

func TestProcessBatch(t *testing.T) {
	fn := func(_ context.Context, id string) (string, error) {
		if id == "86b" {
			return "", errors.New("failed to delete task")
		}
		return "deleted " + id, nil
	}

	results := ProcessBatch(context.Background(), []string{"86a", "86b", "86c"}, fn)
	require.Len(t, results, 3)

	assert.Equal(t, Result{ID: "86a", Status: StatusSuccess, Result: "deleted 86a"}, results[0])
	assert.Equal(t, Result{ID: "86b", Status: StatusError, Error: "failed to delete task"}, results[1])
	assert.Equal(t, Result{ID: "86c", Status: StatusSuccess, Result: "deleted 86c"}, results[2])
}

func TestProcessBatch_StopsCallingAfterCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	var calls []string
	fn := func(_ context.Context, id string) (string, error) {
		calls = append(calls, id)
		cancel()
		return "ok", nil
	}

	results := ProcessBatch(ctx, []string{"86a", "86b"}, fn)

	assert.Equal(t, []string{"86a"}, calls)
	assert.Equal(t, StatusSuccess, results[0].Status)
	assert.Equal(t, StatusError, results[1].Status)
	assert.Equal(t, context.Canceled.Error(), results[1].Error)
}
