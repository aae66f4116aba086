package member_tools

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/teemow/clickup-mcp/internal/clickup"
	"github.com/teemow/clickup-mcp/internal/clickup/clickuptest"
	"github.com/teemow/clickup-mcp/internal/instrumentation"
	"github.com/teemow/clickup-mcp/internal/logging"
	"github.com/teemow/clickup-mcp/internal/members"
	"github.com/teemow/clickup-mcp/internal/server"
	"github.com/teemow/clickup-mcp/internal/tools/common"
)

func newTestContext(t *testing.T) (*server.ServerContext, *clickuptest.Server) {
	t.Helper()
	fake := clickuptest.NewServer(t)
	sc := server.NewServerContext(context.Background(), fake.Client(t), logging.Discard(), members.Options{})
	t.Cleanup(func() { _ = sc.Shutdown() })
	return sc, fake
}

func callRequest(args map[string]interface{}) mcp.CallToolRequest {
	req := mcp.CallToolRequest{}
	req.Params.Arguments = args
	return req
}

func textOf(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	require.NotNil(t, result)
	require.NotEmpty(t, result.Content)
	text, ok := result.Content[0].(mcp.TextContent)
	require.True(t, ok)
	return text.Text
}

func TestRegisterMemberTools(t *testing.T) {
	s := mcpserver.NewMCPServer("test", "1.0.0", mcpserver.WithToolCapabilities(true))
	sc, _ := newTestContext(t)

	require.NoError(t, RegisterMemberTools(s, sc))

	tools := s.ListTools()
	for _, name := range []string{
		"clickup_list_members",
		"clickup_search_members",
		"clickup_find_member",
		"clickup_resolve_members",
		"clickup_list_list_members",
	} {
		assert.Contains(t, tools, name)
	}
}

func TestListMembers(t *testing.T) {
	sc, _ := newTestContext(t)

	tests := []struct {
		name      string
		args      map[string]interface{}
		wantTotal int
		wantIDs   []int64
	}{
		{"all", nil, 4, []int64{clickuptest.JuanID, clickuptest.YarlenID, clickuptest.EdinsonID, clickuptest.MelissaID}},
		{"active only", map[string]interface{}{"active_only": true}, 3, []int64{clickuptest.JuanID, clickuptest.YarlenID, clickuptest.EdinsonID}},
		{"role filter", map[string]interface{}{"role": "Admin"}, 1, []int64{clickuptest.EdinsonID}},
		{"default role", map[string]interface{}{"role": "member"}, 1, []int64{clickuptest.YarlenID}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := handleListMembers(context.Background(), callRequest(tt.args), sc)
			require.NoError(t, err)
			require.False(t, result.IsError, textOf(t, result))

			var view RosterView
			require.NoError(t, json.Unmarshal([]byte(textOf(t, result)), &view))
			assert.Equal(t, tt.wantTotal, view.Total)

			ids := make([]int64, 0, len(view.Members))
			for _, m := range view.Members {
				ids = append(ids, m.ID)
			}
			assert.Equal(t, tt.wantIDs, ids)
		})
	}
}

func TestListMembers_GroupByRole(t *testing.T) {
	sc, _ := newTestContext(t)

	result, err := handleListMembers(context.Background(), callRequest(map[string]interface{}{"group_by_role": true}), sc)
	require.NoError(t, err)

	var view RosterView
	require.NoError(t, json.Unmarshal([]byte(textOf(t, result)), &view))
	assert.Empty(t, view.Members)
	assert.Len(t, view.ByRole["owner"], 1)
	assert.Len(t, view.ByRole["admin"], 1)
	assert.Len(t, view.ByRole["member"], 1)
	assert.Len(t, view.ByRole["guest"], 1)
}

func TestListMembers_InvalidArgument(t *testing.T) {
	sc, _ := newTestContext(t)

	result, err := handleListMembers(context.Background(), callRequest(map[string]interface{}{"active_only": 3}), sc)
	require.NoError(t, err)
	assert.True(t, result.IsError)
}

func TestListMembers_UpstreamFailure(t *testing.T) {
	sc, fake := newTestContext(t)
	fake.Fail(http.MethodGet, "/api/v2/team", http.StatusUnauthorized)

	result, err := handleListMembers(context.Background(), callRequest(nil), sc)
	require.NoError(t, err)
	assert.True(t, result.IsError)
	assert.Contains(t, textOf(t, result), "Failed to list members")
}

func TestMemberTools_NoClient(t *testing.T) {
	sc := server.NewServerContext(context.Background(), nil, nil, members.Options{})
	defer func() { _ = sc.Shutdown() }()

	handlers := map[string]func(context.Context, mcp.CallToolRequest, *server.ServerContext) (*mcp.CallToolResult, error){
		"list":      handleListMembers,
		"search":    handleSearchMembers,
		"find":      handleFindMember,
		"resolve":   handleResolveMembers,
		"list list": handleListListMembers,
	}
	for name, h := range handlers {
		t.Run(name, func(t *testing.T) {
			result, err := h(context.Background(), callRequest(map[string]interface{}{"list_id": "901"}), sc)
			require.NoError(t, err)
			assert.True(t, result.IsError)
			assert.Equal(t, common.MissingTokenMessage, textOf(t, result))
		})
	}
}

func TestSearchMembers(t *testing.T) {
	sc, _ := newTestContext(t)

	result, err := handleSearchMembers(context.Background(), callRequest(map[string]interface{}{"query": "27cobalto.com"}), sc)
	require.NoError(t, err)
	require.False(t, result.IsError)

	text := textOf(t, result)
	assert.Contains(t, text, `Found 3 member(s) matching "27cobalto.com"`)
	assert.Contains(t, text, "juan.perez")
	assert.Contains(t, text, "edinson")
	assert.NotContains(t, text, "melissa")
}

func TestSearchMembers_MissingQuery(t *testing.T) {
	sc, fake := newTestContext(t)

	result, err := handleSearchMembers(context.Background(), callRequest(nil), sc)
	require.NoError(t, err)
	assert.True(t, result.IsError)
	assert.Equal(t, "query is required", textOf(t, result))
	assert.Zero(t, fake.Requests(http.MethodGet, "/api/v2/team"))
}

func TestFindMember(t *testing.T) {
	sc, _ := newTestContext(t)

	tests := []struct {
		identifier string
		wantID     int64
	}{
		{"juan", clickuptest.JuanID},
		{clickuptest.YarlenEmail, clickuptest.YarlenID},
		{"EDINSON", clickuptest.EdinsonID},
		{"777", clickuptest.MelissaID},
	}

	for _, tt := range tests {
		t.Run(tt.identifier, func(t *testing.T) {
			result, err := handleFindMember(context.Background(), callRequest(map[string]interface{}{"identifier": tt.identifier}), sc)
			require.NoError(t, err)
			require.False(t, result.IsError, textOf(t, result))

			var m members.Member
			require.NoError(t, json.Unmarshal([]byte(textOf(t, result)), &m))
			assert.Equal(t, tt.wantID, m.ID)
		})
	}
}

func TestFindMember_NoMatch(t *testing.T) {
	sc, _ := newTestContext(t)

	result, err := handleFindMember(context.Background(), callRequest(map[string]interface{}{"identifier": "nobody"}), sc)
	require.NoError(t, err)
	assert.True(t, result.IsError)
	assert.Equal(t, `No member matches "nobody"`, textOf(t, result))
}

func TestResolveMembers(t *testing.T) {
	sc, _ := newTestContext(t)

	tests := []struct {
		name           string
		identifiers    interface{}
		wantIDs        []int64
		wantUnresolved []string
	}{
		{
			name:        "single string",
			identifiers: "juan",
			wantIDs:     []int64{clickuptest.JuanID},
		},
		{
			name:        "array keeps order and duplicates",
			identifiers: []interface{}{"juan", clickuptest.YarlenEmail, "81585056"},
			wantIDs:     []int64{clickuptest.JuanID, clickuptest.YarlenID, clickuptest.JuanID},
		},
		{
			name:           "json array with unknown",
			identifiers:    `["ghost","edinson"]`,
			wantIDs:        []int64{clickuptest.EdinsonID},
			wantUnresolved: []string{"ghost"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := handleResolveMembers(context.Background(), callRequest(map[string]interface{}{"identifiers": tt.identifiers}), sc)
			require.NoError(t, err)
			require.False(t, result.IsError, textOf(t, result))

			var res members.Resolution
			require.NoError(t, json.Unmarshal([]byte(textOf(t, result)), &res))
			assert.Equal(t, tt.wantIDs, res.IDs)
			assert.Equal(t, tt.wantUnresolved, res.Unresolved)
		})
	}
}

func TestResolveMembers_NumericSkipsRoster(t *testing.T) {
	sc, fake := newTestContext(t)

	result, err := handleResolveMembers(context.Background(), callRequest(map[string]interface{}{"identifiers": []string{"123", "456"}}), sc)
	require.NoError(t, err)
	require.False(t, result.IsError)
	assert.Zero(t, fake.Requests(http.MethodGet, "/api/v2/team"))
}

func TestResolveMembers_InvalidIdentifiers(t *testing.T) {
	sc, _ := newTestContext(t)

	for _, args := range []map[string]interface{}{
		{},
		{"identifiers": "[]"},
		{"identifiers": []interface{}{"juan", ""}},
	} {
		result, err := handleResolveMembers(context.Background(), callRequest(args), sc)
		require.NoError(t, err)
		assert.True(t, result.IsError)
	}
}

func TestRecordResolution_Metrics(t *testing.T) {
	sc, _ := newTestContext(t)

	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() { _ = mp.Shutdown(context.Background()) })
	metrics, err := instrumentation.NewMetrics(mp.Meter("test"), false)
	require.NoError(t, err)
	sc.SetMetrics(metrics)

	res := members.Resolution{
		IDs: []int64{1, 2, 3},
		Outcomes: []members.Outcome{
			{Identifier: "1", Match: members.MatchNumeric, ID: 1},
			{Identifier: "juan", Match: members.MatchExact, ID: 2},
			{Identifier: "yar", Match: members.MatchSubstring, ID: 3},
			{Identifier: "yarlen", Match: members.MatchExact, ID: 3},
			{Identifier: "ghost", Match: members.MatchUnresolved},
		},
	}
	common.RecordResolution(context.Background(), sc, []string{"1", "juan", "yar", "yarlen", "ghost"}, res)

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))

	byMatch := map[string]int64{}
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if m.Name != "member_resolutions_total" {
				continue
			}
			for _, dp := range m.Data.(metricdata.Sum[int64]).DataPoints {
				match, _ := dp.Attributes.Value("match")
				byMatch[match.AsString()] += dp.Value
			}
		}
	}
	assert.Equal(t, map[string]int64{
		members.MatchNumeric:    1,
		members.MatchExact:      2,
		members.MatchSubstring:  1,
		members.MatchUnresolved: 1,
	}, byMatch)
}

func TestListListMembers(t *testing.T) {
	sc, _ := newTestContext(t)

	result, err := handleListListMembers(context.Background(), callRequest(map[string]interface{}{"list_id": clickuptest.ListID}), sc)
	require.NoError(t, err)
	require.False(t, result.IsError)

	var got []clickup.ListMember
	require.NoError(t, json.Unmarshal([]byte(textOf(t, result)), &got))
	require.Len(t, got, 2)
	assert.Equal(t, "juan.perez", got[0].Username)
}

func TestListListMembers_UpstreamFailure(t *testing.T) {
	sc, fake := newTestContext(t)
	fake.Fail(http.MethodGet, "/api/v2/list/{id}/member", http.StatusNotFound)

	result, err := handleListListMembers(context.Background(), callRequest(map[string]interface{}{"list_id": clickuptest.ListID}), sc)
	require.NoError(t, err)
	assert.True(t, result.IsError)
	assert.Contains(t, textOf(t, result), "Failed to list members of list")
}

func TestRecordResolution_SpanAttributes(t *testing.T) {
	sc, _ := newTestContext(t)

	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })

	ctx, span := tp.Tracer("test").Start(context.Background(), "tool.clickup_resolve_members")
	res := members.Resolution{
		IDs: []int64{clickuptest.JuanID},
		Outcomes: []members.Outcome{
			{Identifier: "juan", Match: members.MatchSubstring, ID: clickuptest.JuanID},
			{Identifier: "ghost", Match: members.MatchUnresolved},
		},
		Unresolved: []string{"ghost"},
	}
	common.RecordResolution(ctx, sc, []string{"juan", "ghost"}, res)
	span.End()

	ended := recorder.Ended()
	require.Len(t, ended, 1)
	attrs := ended[0].Attributes()
	assert.Contains(t, attrs, attribute.Int(instrumentation.SpanAttrIdentifiers, 2))
	assert.Contains(t, attrs, attribute.Int(instrumentation.SpanAttrResolved, 1))
}
