package cmd

import (
	"bytes"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teemow/clickup-mcp/internal/clickup/clickuptest"
	"github.com/teemow/clickup-mcp/internal/logging"
	"github.com/teemow/clickup-mcp/internal/members"
)

func useFakeMembers(t *testing.T, opts members.Options) *clickuptest.Server {
	t.Helper()
	fake := clickuptest.NewServer(t)
	client := fake.Client(t)

	orig := newMemberService
	newMemberService = func() (*members.Service, error) {
		return members.NewService(client, logging.Discard(), opts), nil
	}
	t.Cleanup(func() { newMemberService = orig })
	return fake
}

func runMembers(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newMembersCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestMembersList(t *testing.T) {
	useFakeMembers(t, members.Options{})

	t.Run("all", func(t *testing.T) {
		out, err := runMembers(t, "list")
		require.NoError(t, err)
		assert.Contains(t, out, "USERNAME")
		assert.Contains(t, out, "juan.perez")
		assert.Contains(t, out, "melissa.ruiz")
		assert.Contains(t, out, "4 member(s)")
	})

	t.Run("active only", func(t *testing.T) {
		out, err := runMembers(t, "list", "--active-only")
		require.NoError(t, err)
		assert.NotContains(t, out, "melissa.ruiz")
		assert.Contains(t, out, "3 member(s)")
	})

	t.Run("role filter as json", func(t *testing.T) {
		out, err := runMembers(t, "list", "--role", "ADMIN", "--json")
		require.NoError(t, err)

		var roster members.Roster
		require.NoError(t, json.Unmarshal([]byte(out), &roster))
		require.Len(t, roster, 1)
		assert.Equal(t, "edinson", roster[0].Username)
	})
}

func TestMembersSearch(t *testing.T) {
	useFakeMembers(t, members.Options{})

	out, err := runMembers(t, "search", "27cobalto.com")
	require.NoError(t, err)
	assert.Contains(t, out, "3 member(s)")

	_, err = runMembers(t, "search")
	assert.Error(t, err)
}

func TestMembersFind(t *testing.T) {
	useFakeMembers(t, members.Options{})

	out, err := runMembers(t, "find", "YARLEN@27cobalto.com")
	require.NoError(t, err)
	assert.Contains(t, out, "yarlen")
	assert.Contains(t, out, "1 member(s)")

	_, err = runMembers(t, "find", "ghost")
	assert.EqualError(t, err, `no member matches "ghost"`)
}

func TestMembersResolve(t *testing.T) {
	t.Run("table", func(t *testing.T) {
		useFakeMembers(t, members.Options{})

		out, err := runMembers(t, "resolve", "juan", "yarlen@27cobalto.com", "81585056", "ghost")
		require.NoError(t, err)
		assert.Contains(t, out, "Resolved to IDs: 81585056, 555, 81585056")
		assert.Contains(t, out, "ghost")
		assert.Contains(t, out, members.MatchUnresolved)
	})

	t.Run("numeric only skips the roster", func(t *testing.T) {
		fake := useFakeMembers(t, members.Options{})

		out, err := runMembers(t, "resolve", "--json", "123", "456")
		require.NoError(t, err)

		var res members.Resolution
		require.NoError(t, json.Unmarshal([]byte(out), &res))
		assert.Equal(t, []int64{123, 456}, res.IDs)
		assert.Zero(t, fake.Requests(http.MethodGet, "/api/v2/team"))
	})

	t.Run("verify numeric", func(t *testing.T) {
		useFakeMembers(t, members.Options{VerifyNumeric: true})

		out, err := runMembers(t, "resolve", "--json", "123", "555")
		require.NoError(t, err)

		var res members.Resolution
		require.NoError(t, json.Unmarshal([]byte(out), &res))
		assert.Equal(t, []int64{555}, res.IDs)
		assert.Equal(t, []string{"123"}, res.Unresolved)
	})

	t.Run("upstream failure", func(t *testing.T) {
		fake := useFakeMembers(t, members.Options{})
		fake.Fail(http.MethodGet, "/api/v2/team", http.StatusUnauthorized)

		_, err := runMembers(t, "resolve", "juan")
		assert.Error(t, err)
	})
}
