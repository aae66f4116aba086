package clickup

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.opentelemetry.io/otel/trace"

	"github.com/teemow/clickup-mcp/internal/instrumentation"
	"github.com/teemow/clickup-mcp/internal/logging"
	"github.com/teemow/clickup-mcp/internal/members"
)

const teamsJSON = `{
  "teams": [
    {
      "id": "9001",
      "name": "27 Cobalto",
      "color": "#536cfe",
      "members": [
        {"user": {"id": 81585056, "username": "juan.perez", "email": "juan@27cobalto.com", "role": 1, "role_key": "owner", "last_active": "1718000000000"}},
        {"user": {"id": 555, "username": "yarlen", "email": "yarlen@27cobalto.com", "role": 3, "last_active": null}}
      ]
    },
    {
      "id": "9002",
      "name": "Partners",
      "members": [
        {"user": {"id": 777, "username": "melissa.ruiz", "email": "mruiz@example.org", "role_key": "guest", "last_active": ""}}
      ]
    }
  ]
}`

func newTestClient(t *testing.T, handler http.HandlerFunc, token string) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client, err := NewClient(token, WithBaseURL(srv.URL), WithLogger(logging.Discard()))
	require.NoError(t, err)
	return client
}

func TestNewClient_MissingToken(t *testing.T) {
	_, err := NewClient("   ")
	assert.ErrorIs(t, err, ErrMissingToken)
}

func TestNewClient_Defaults(t *testing.T) {
	client, err := NewClient("pk_1_ABC")
	require.NoError(t, err)
	assert.Equal(t, DefaultBaseURL, client.BaseURL())
	assert.Equal(t, DefaultTimeout, client.httpClient.Timeout)
}

func TestNewClient_TrimsBaseURL(t *testing.T) {
	client, err := NewClient("pk_1_ABC", WithBaseURL("http://example.test/"), WithTimeout(time.Second))
	require.NoError(t, err)
	assert.Equal(t, "http://example.test", client.BaseURL())
	assert.Equal(t, time.Second, client.httpClient.Timeout)
}

func TestClient_AuthorizationHeader(t *testing.T) {
	tests := []struct {
		name  string
		token string
		want  string
	}{
		{"personal token sent raw", "pk_81585056_XYZ", "pk_81585056_XYZ"},
		{"oauth token sent as bearer", "oauth-access-token", "Bearer oauth-access-token"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got string
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				got = r.Header.Get("Authorization")
				_, _ = io.WriteString(w, `{"teams":[]}`)
			}, tt.token)

			_, err := client.Teams(context.Background())
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestClient_Teams(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/v2/team", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		_, _ = io.WriteString(w, teamsJSON)
	}, "pk_test")

	teams, err := client.Teams(context.Background())

	require.NoError(t, err)
	require.Len(t, teams, 2)
	assert.Equal(t, "27 Cobalto", teams[0].Name)
	require.Len(t, teams[0].Members, 2)
	assert.Equal(t, int64(81585056), teams[0].Members[0].User.ID)
}

func TestClient_Members(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, teamsJSON)
	}, "pk_test")

	roster, err := client.Members(context.Background())

	require.NoError(t, err)
	require.Len(t, roster, 3)
	assert.Equal(t, members.Member{
		ID: 81585056, Username: "juan.perez", Email: "juan@27cobalto.com",
		RoleKey: "owner", TeamID: "9001", TeamName: "27 Cobalto", IsActive: true,
	}, roster[0])
	assert.Equal(t, members.DefaultRoleKey, roster[1].RoleKey)
	assert.False(t, roster[1].IsActive)
	assert.Equal(t, "Partners", roster[2].TeamName)
	assert.False(t, roster[2].IsActive)
}

func TestFlattenMembers_NoMembers(t *testing.T) {
	roster := FlattenMembers([]Team{{ID: "1", Name: "empty"}})
	assert.NotNil(t, roster)
	assert.Empty(t, roster)
}

func TestClient_APIError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = io.WriteString(w, `{"err":"Token invalid","ECODE":"OAUTH_025"}`)
	}, "pk_bad")

	_, err := client.Teams(context.Background())

	require.Error(t, err)
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
	assert.Equal(t, "OAUTH_025", apiErr.Code)
	assert.Equal(t, "Token invalid", apiErr.Message)
	assert.True(t, IsUnauthorized(err))
	assert.False(t, IsNotFound(err))
	assert.Contains(t, err.Error(), "failed to get teams")
}

func TestClient_APIErrorWithoutBody(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}, "pk_test")

	_, err := client.Task(context.Background(), "missing")

	require.Error(t, err)
	assert.True(t, IsNotFound(err))
	assert.Contains(t, err.Error(), "Not Found")
}

func TestClient_DecodeError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"teams": "nope"`)
	}, "pk_test")

	_, err := client.Teams(context.Background())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to decode response")
}

func TestClient_ContextCancelled(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"teams":[]}`)
	}, "pk_test")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.Teams(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestClient_OperationSpans(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder)))
	t.Cleanup(func() { otel.SetTracerProvider(prev) })

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/v2/team" {
			_, _ = io.WriteString(w, teamsJSON)
			return
		}
		w.WriteHeader(http.StatusNotFound)
	}, "pk_test")

	_, err := client.Teams(context.Background())
	require.NoError(t, err)
	_, err = client.Task(context.Background(), "missing")
	require.Error(t, err)

	spans := make(map[string]sdktrace.ReadOnlySpan)
	for _, s := range recorder.Ended() {
		spans[s.Name()] = s
	}

	teams, ok := spans["clickup.team.list"]
	require.True(t, ok, "missing clickup.team.list span")
	assert.Equal(t, trace.SpanKindClient, teams.SpanKind())
	assert.Equal(t, codes.Ok, teams.Status().Code)
	assert.Contains(t, teams.Attributes(), attribute.String(instrumentation.SpanAttrResource, instrumentation.ResourceTeam))
	assert.Contains(t, teams.Attributes(), attribute.String(instrumentation.SpanAttrOperation, instrumentation.OperationList))

	task, ok := spans["clickup.task.get"]
	require.True(t, ok, "missing clickup.task.get span")
	assert.Equal(t, codes.Error, task.Status().Code)
	assert.Contains(t, task.Status().Description, "404")
}

func TestAPIError_Error(t *testing.T) {
	err := &APIError{StatusCode: 400, Code: "ITEM_015", Message: "Task name invalid"}
	assert.Equal(t, "clickup API returned 400 (ITEM_015): Task name invalid", err.Error())

	err = &APIError{StatusCode: 500}
	assert.Equal(t, "clickup API returned 500", err.Error())
}

func TestResult(t *testing.T) {
	ok := Capture([]Team{{ID: "1"}}, nil)
	assert.True(t, ok.OK())
	assert.Len(t, ok.OrEmpty(logging.Discard(), "teams"), 1)

	failed := Capture([]Team(nil), errors.New("boom"))
	assert.False(t, failed.OK())
	assert.Empty(t, failed.OrEmpty(logging.Discard(), "teams"))
	assert.Empty(t, failed.OrEmpty(nil, "teams"))
}

func decodeBody(t *testing.T, r *http.Request, v interface{}) {
	t.Helper()
	require.NoError(t, json.NewDecoder(r.Body).Decode(v))
}
