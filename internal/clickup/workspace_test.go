package clickup

import (
	"context"
	"io"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_Spaces(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v2/team/9001/space", r.URL.Path)
		_, _ = io.WriteString(w, `{"spaces":[{"id":"90020","name":"Test Space A","private":false,"multiple_assignees":true,
			"features":{"due_dates":{"enabled":true},"tags":{"enabled":true}},"archived":false}]}`)
	}, "pk_test")

	spaces, err := client.Spaces(context.Background(), "9001")

	require.NoError(t, err)
	require.Len(t, spaces, 1)
	assert.Equal(t, "Test Space A", spaces[0].Name)
	assert.True(t, spaces[0].MultipleAssignees)
	require.NotNil(t, spaces[0].Features)
	require.NotNil(t, spaces[0].Features.Tags)
	assert.True(t, spaces[0].Features.Tags.Enabled)
	assert.Nil(t, spaces[0].Features.Portfolios)
}

func TestClient_CreateSpace(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/v2/team/9001/space", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var body map[string]interface{}
		decodeBody(t, r, &body)
		assert.Equal(t, "Ops", body["name"])
		assert.Equal(t, true, body["multiple_assignees"])

		_, _ = io.WriteString(w, `{"id":"90021","name":"Ops","multiple_assignees":true}`)
	}, "pk_test")

	multi := true
	space, err := client.CreateSpace(context.Background(), "9001", SpaceRequest{Name: "Ops", MultipleAssignees: &multi})

	require.NoError(t, err)
	assert.Equal(t, "90021", space.ID)
}

func TestClient_FoldersAndLists(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/v2/space/90020/folder":
			_, _ = io.WriteString(w, `{"folders":[{"id":"456","name":"Sprint","orderindex":0,"task_count":"12",
				"space":{"id":"90020","name":"Test Space A"},"lists":[{"id":"901","name":"Backlog","orderindex":1,"task_count":3}]}]}`)
		case "/api/v2/folder/456/list":
			_, _ = io.WriteString(w, `{"lists":[{"id":"901","name":"Backlog","orderindex":1,"task_count":3,"folder":{"id":"456","name":"Sprint"}}]}`)
		case "/api/v2/space/90020/list":
			_, _ = io.WriteString(w, `{"lists":[]}`)
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
		}
	}, "pk_test")
	ctx := context.Background()

	folders, err := client.Folders(ctx, "90020")
	require.NoError(t, err)
	require.Len(t, folders, 1)
	assert.Equal(t, "12", folders[0].TaskCount)
	require.Len(t, folders[0].Lists, 1)
	assert.Equal(t, 3, folders[0].Lists[0].TaskCount)

	lists, err := client.Lists(ctx, "456")
	require.NoError(t, err)
	require.Len(t, lists, 1)
	require.NotNil(t, lists[0].Folder)
	assert.Equal(t, "Sprint", lists[0].Folder.Name)

	folderless, err := client.FolderlessLists(ctx, "90020")
	require.NoError(t, err)
	assert.Empty(t, folderless)
}

func TestClient_CreateFolderAndLists(t *testing.T) {
	var paths []string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		paths = append(paths, r.URL.Path)

		var body map[string]interface{}
		decodeBody(t, r, &body)
		_, _ = io.WriteString(w, `{"id":"new","name":"`+body["name"].(string)+`"}`)
	}, "pk_test")
	ctx := context.Background()

	folder, err := client.CreateFolder(ctx, "90020", FolderRequest{Name: "Q3"})
	require.NoError(t, err)
	assert.Equal(t, "Q3", folder.Name)

	list, err := client.CreateList(ctx, "456", ListRequest{Name: "Bugs"})
	require.NoError(t, err)
	assert.Equal(t, "Bugs", list.Name)

	list, err = client.CreateFolderlessList(ctx, "90020", ListRequest{Name: "Member Assignment Test List", Content: "x"})
	require.NoError(t, err)
	assert.Equal(t, "Member Assignment Test List", list.Name)

	assert.Equal(t, []string{
		"/api/v2/space/90020/folder",
		"/api/v2/folder/456/list",
		"/api/v2/space/90020/list",
	}, paths)
}

func TestClient_ListMembers(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v2/list/901/member", r.URL.Path)
		_, _ = io.WriteString(w, `{"members":[{"id":555,"username":"yarlen","email":"yarlen@27cobalto.com","initials":"Y"}]}`)
	}, "pk_test")

	got, err := client.ListMembers(context.Background(), "901")

	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, int64(555), got[0].ID)
	assert.Equal(t, "Y", got[0].Initials)
}

func TestClient_PathEscaping(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v2/space/a%2Fb/folder", r.URL.EscapedPath())
		_, _ = io.WriteString(w, `{"folders":[]}`)
	}, "pk_test")

	_, err := client.Folders(context.Background(), "a/b")
	require.NoError(t, err)
}
