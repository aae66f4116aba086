// Package clickuptest provides an in-memory ClickUp API for tests.
package clickuptest

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/teemow/clickup-mcp/internal/clickup"
	"github.com/teemow/clickup-mcp/internal/logging"
)

// Fixture IDs seeded by NewServer.
const (
	TeamID          = "9001"
	PartnersTeamID  = "9002"
	SpaceID         = "90010"
	TestSpaceID     = "90020"
	FolderID        = "456"
	ListID          = "901"
	TaskID          = "86abc"
	JuanID          = 81585056
	YarlenID        = 555
	MelissaID       = 777
	EdinsonID       = 4242
	JuanEmail       = "juan@27cobalto.com"
	YarlenEmail     = "yarlen@27cobalto.com"
	defaultAPIToken = "pk_81585056_TEST"
)

type failure struct {
	status int
	body   string
}

// Server is a fake ClickUp API backed by in-memory state.
type Server struct {
	*httptest.Server

	mu          sync.Mutex
	teams       []clickup.Team
	spaces      map[string][]clickup.Space
	folders     map[string][]clickup.Folder
	folderLists map[string][]clickup.List
	spaceLists  map[string][]clickup.List
	tasks       map[string][]clickup.Task
	listMembers map[string][]clickup.ListMember
	requests    map[string]int
	failures    map[string]failure
	nextID      int
}

// NewServer starts a fake seeded with two workspaces: "27 Cobalto" (juan.perez,
// yarlen, edinson) and "Partners" (melissa.ruiz). "27 Cobalto" has an
// Engineering space with a Sprint folder holding the Backlog list and a
// "Test Space QA" space without lists.
func NewServer(t *testing.T) *Server {
	t.Helper()

	s := &Server{
		spaces:      make(map[string][]clickup.Space),
		folders:     make(map[string][]clickup.Folder),
		folderLists: make(map[string][]clickup.List),
		spaceLists:  make(map[string][]clickup.List),
		tasks:       make(map[string][]clickup.Task),
		listMembers: make(map[string][]clickup.ListMember),
		requests:    make(map[string]int),
		failures:    make(map[string]failure),
		nextID:      1000,
	}
	s.seed()
	s.Server = httptest.NewServer(s.routes())
	t.Cleanup(s.Close)
	return s
}

func (s *Server) seed() {
	juan := clickup.User{ID: JuanID, Username: "juan.perez", Email: JuanEmail, RoleKey: "owner", LastActive: "1718000000000"}
	yarlen := clickup.User{ID: YarlenID, Username: "yarlen", Email: YarlenEmail, LastActive: "1718000000001"}
	edinson := clickup.User{ID: EdinsonID, Username: "edinson", Email: "edinson@27cobalto.com", RoleKey: "admin", LastActive: "1718000000002"}
	melissa := clickup.User{ID: MelissaID, Username: "melissa.ruiz", Email: "mruiz@example.org", RoleKey: "guest"}

	s.teams = []clickup.Team{
		{ID: TeamID, Name: "27 Cobalto", Members: []clickup.TeamMember{{User: juan}, {User: yarlen}, {User: edinson}}},
		{ID: PartnersTeamID, Name: "Partners", Members: []clickup.TeamMember{{User: melissa}}},
	}
	s.spaces[TeamID] = []clickup.Space{
		{ID: SpaceID, Name: "Engineering", MultipleAssignees: true},
		{ID: TestSpaceID, Name: "Test Space QA", MultipleAssignees: true},
	}
	backlog := clickup.List{ID: ListID, Name: "Backlog", TaskCount: 1, Folder: &clickup.FolderRef{ID: FolderID, Name: "Sprint"}, Space: &clickup.SpaceRef{ID: SpaceID}}
	s.folders[SpaceID] = []clickup.Folder{{ID: FolderID, Name: "Sprint", TaskCount: "1", Space: &clickup.SpaceRef{ID: SpaceID, Name: "Engineering"}, Lists: []clickup.List{backlog}}}
	s.folderLists[FolderID] = []clickup.List{backlog}
	s.tasks[ListID] = []clickup.Task{{
		ID:        TaskID,
		Name:      "Set up CI",
		Status:    clickup.Status{Status: "to do"},
		Assignees: []clickup.User{juan},
		URL:       "https://app.clickup.com/t/" + TaskID,
	}}
	s.listMembers[ListID] = []clickup.ListMember{
		{ID: juan.ID, Username: juan.Username, Email: juan.Email},
		{ID: yarlen.ID, Username: yarlen.Username, Email: yarlen.Email},
	}
}

// Client returns a ClickUp client pointed at the fake.
func (s *Server) Client(t *testing.T) *clickup.Client {
	t.Helper()
	client, err := clickup.NewClient(defaultAPIToken,
		clickup.WithBaseURL(s.URL),
		clickup.WithTransport(s.Server.Client().Transport),
		clickup.WithLogger(logging.Discard()),
	)
	require.NoError(t, err)
	return client
}

// Requests returns how many times method and route pattern were served.
func (s *Server) Requests(method, pattern string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.requests[method+" "+pattern]
}

// Fail makes every request to method and route pattern answer with status.
func (s *Server) Fail(method, pattern string, status int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	body, _ := json.Marshal(map[string]string{"err": http.StatusText(status), "ECODE": "TEST_" + strconv.Itoa(status)})
	s.failures[method+" "+pattern] = failure{status: status, body: string(body)}
}

// Tasks returns a copy of the tasks stored in listID.
func (s *Server) Tasks(listID string) []clickup.Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]clickup.Task(nil), s.tasks[listID]...)
}

// SpaceLists returns a copy of the folderless lists of spaceID.
func (s *Server) SpaceLists(spaceID string) []clickup.List {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]clickup.List(nil), s.spaceLists[spaceID]...)
}

// RemoveSpace drops a space from teamID.
func (s *Server) RemoveSpace(teamID, spaceID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	kept := s.spaces[teamID][:0]
	for _, sp := range s.spaces[teamID] {
		if sp.ID != spaceID {
			kept = append(kept, sp)
		}
	}
	s.spaces[teamID] = kept
}
