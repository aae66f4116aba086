package clickuptest

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/teemow/clickup-mcp/internal/clickup"
)

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()

	s.handle(r, http.MethodGet, "/api/v2/team", s.getTeams)
	s.handle(r, http.MethodGet, "/api/v2/team/{id}/space", s.getSpaces)
	s.handle(r, http.MethodPost, "/api/v2/team/{id}/space", s.createSpace)
	s.handle(r, http.MethodGet, "/api/v2/space/{id}/folder", s.getFolders)
	s.handle(r, http.MethodPost, "/api/v2/space/{id}/folder", s.createFolder)
	s.handle(r, http.MethodGet, "/api/v2/folder/{id}/list", s.getFolderLists)
	s.handle(r, http.MethodPost, "/api/v2/folder/{id}/list", s.createFolderList)
	s.handle(r, http.MethodGet, "/api/v2/space/{id}/list", s.getSpaceLists)
	s.handle(r, http.MethodPost, "/api/v2/space/{id}/list", s.createSpaceList)
	s.handle(r, http.MethodGet, "/api/v2/list/{id}/task", s.getTasks)
	s.handle(r, http.MethodPost, "/api/v2/list/{id}/task", s.createTask)
	s.handle(r, http.MethodGet, "/api/v2/list/{id}/member", s.getListMembers)
	s.handle(r, http.MethodGet, "/api/v2/task/{id}", s.getTask)
	s.handle(r, http.MethodPut, "/api/v2/task/{id}", s.updateTask)
	s.handle(r, http.MethodDelete, "/api/v2/task/{id}", s.deleteTask)

	return r
}

// handle counts requests and applies injected failures before h runs.
// h is called with s.mu held.
func (s *Server) handle(r chi.Router, method, pattern string, h http.HandlerFunc) {
	key := method + " " + pattern
	r.Method(method, pattern, http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		s.mu.Lock()
		defer s.mu.Unlock()

		s.requests[key]++
		if f, ok := s.failures[key]; ok {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(f.status)
			_, _ = w.Write([]byte(f.body))
			return
		}
		h(w, req)
	}))
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, msg string) {
	writeJSON(w, status, map[string]string{"err": msg, "ECODE": code})
}

func (s *Server) newID() string {
	s.nextID++
	return strconv.Itoa(s.nextID)
}

func (s *Server) getTeams(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{"teams": s.teams})
}

func (s *Server) getSpaces(w http.ResponseWriter, r *http.Request) {
	spaces := s.spaces[chi.URLParam(r, "id")]
	if spaces == nil {
		spaces = []clickup.Space{}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"spaces": spaces})
}

func (s *Server) createSpace(w http.ResponseWriter, r *http.Request) {
	var req clickup.SpaceRequest
	if !decode(w, r, &req) {
		return
	}
	teamID := chi.URLParam(r, "id")
	space := clickup.Space{ID: s.newID(), Name: req.Name, Features: req.Features}
	if req.MultipleAssignees != nil {
		space.MultipleAssignees = *req.MultipleAssignees
	}
	s.spaces[teamID] = append(s.spaces[teamID], space)
	writeJSON(w, http.StatusOK, space)
}

func (s *Server) getFolders(w http.ResponseWriter, r *http.Request) {
	folders := s.folders[chi.URLParam(r, "id")]
	if folders == nil {
		folders = []clickup.Folder{}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"folders": folders})
}

func (s *Server) createFolder(w http.ResponseWriter, r *http.Request) {
	var req clickup.FolderRequest
	if !decode(w, r, &req) {
		return
	}
	spaceID := chi.URLParam(r, "id")
	folder := clickup.Folder{ID: s.newID(), Name: req.Name, TaskCount: "0", Space: &clickup.SpaceRef{ID: spaceID}}
	s.folders[spaceID] = append(s.folders[spaceID], folder)
	writeJSON(w, http.StatusOK, folder)
}

func (s *Server) getFolderLists(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{"lists": nonNil(s.folderLists[chi.URLParam(r, "id")])})
}

func (s *Server) getSpaceLists(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{"lists": nonNil(s.spaceLists[chi.URLParam(r, "id")])})
}

func (s *Server) createFolderList(w http.ResponseWriter, r *http.Request) {
	var req clickup.ListRequest
	if !decode(w, r, &req) {
		return
	}
	folderID := chi.URLParam(r, "id")
	list := clickup.List{ID: s.newID(), Name: req.Name, Content: req.Content, Folder: &clickup.FolderRef{ID: folderID}}
	s.folderLists[folderID] = append(s.folderLists[folderID], list)
	writeJSON(w, http.StatusOK, list)
}

func (s *Server) createSpaceList(w http.ResponseWriter, r *http.Request) {
	var req clickup.ListRequest
	if !decode(w, r, &req) {
		return
	}
	spaceID := chi.URLParam(r, "id")
	list := clickup.List{ID: s.newID(), Name: req.Name, Content: req.Content, Space: &clickup.SpaceRef{ID: spaceID}}
	s.spaceLists[spaceID] = append(s.spaceLists[spaceID], list)
	writeJSON(w, http.StatusOK, list)
}

func (s *Server) getTasks(w http.ResponseWriter, r *http.Request) {
	tasks := s.tasks[chi.URLParam(r, "id")]
	if tasks == nil {
		tasks = []clickup.Task{}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"tasks": tasks})
}

func (s *Server) createTask(w http.ResponseWriter, r *http.Request) {
	var req clickup.TaskRequest
	if !decode(w, r, &req) {
		return
	}
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "INPUT_005", "Task name invalid")
		return
	}
	listID := chi.URLParam(r, "id")
	task := clickup.Task{
		ID:          "86" + s.newID(),
		Name:        req.Name,
		Description: req.Description,
		Status:      clickup.Status{Status: "to do"},
		Assignees:   s.users(req.Assignees),
	}
	if req.Status != "" {
		task.Status.Status = req.Status
	}
	s.tasks[listID] = append(s.tasks[listID], task)
	writeJSON(w, http.StatusOK, task)
}

func (s *Server) getListMembers(w http.ResponseWriter, r *http.Request) {
	m := s.listMembers[chi.URLParam(r, "id")]
	if m == nil {
		m = []clickup.ListMember{}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"members": m})
}

func (s *Server) getTask(w http.ResponseWriter, r *http.Request) {
	listID, i := s.findTask(chi.URLParam(r, "id"))
	if i < 0 {
		writeError(w, http.StatusNotFound, "ITEM_015", "Task not found")
		return
	}
	writeJSON(w, http.StatusOK, s.tasks[listID][i])
}

func (s *Server) updateTask(w http.ResponseWriter, r *http.Request) {
	listID, i := s.findTask(chi.URLParam(r, "id"))
	if i < 0 {
		writeError(w, http.StatusNotFound, "ITEM_015", "Task not found")
		return
	}
	var req clickup.TaskUpdate
	if !decode(w, r, &req) {
		return
	}
	task := &s.tasks[listID][i]
	if req.Name != "" {
		task.Name = req.Name
	}
	if req.Description != nil {
		task.Description = *req.Description
	}
	if req.Status != "" {
		task.Status.Status = req.Status
	}
	if req.Assignees != nil {
		ids := make([]int64, 0, len(task.Assignees))
		for _, id := range task.AssigneeIDs() {
			if !containsID(req.Assignees.Rem, id) {
				ids = append(ids, id)
			}
		}
		for _, id := range req.Assignees.Add {
			if !containsID(ids, id) {
				ids = append(ids, id)
			}
		}
		task.Assignees = s.users(ids)
	}
	writeJSON(w, http.StatusOK, task)
}

func (s *Server) deleteTask(w http.ResponseWriter, r *http.Request) {
	listID, i := s.findTask(chi.URLParam(r, "id"))
	if i < 0 {
		writeError(w, http.StatusNotFound, "ITEM_015", "Task not found")
		return
	}
	s.tasks[listID] = append(s.tasks[listID][:i], s.tasks[listID][i+1:]...)
	writeJSON(w, http.StatusOK, map[string]interface{}{})
}

func (s *Server) findTask(taskID string) (string, int) {
	for listID, tasks := range s.tasks {
		for i, t := range tasks {
			if t.ID == taskID {
				return listID, i
			}
		}
	}
	return "", -1
}

// users maps assignee IDs to team users; unknown IDs get a bare user.
func (s *Server) users(ids []int64) []clickup.User {
	out := make([]clickup.User, 0, len(ids))
	for _, id := range ids {
		u := clickup.User{ID: id}
		for _, team := range s.teams {
			for _, m := range team.Members {
				if m.User.ID == id {
					u = m.User
				}
			}
		}
		out = append(out, u)
	}
	return out
}

func decode(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "INPUT_001", "invalid JSON body")
		return false
	}
	return true
}

func nonNil(lists []clickup.List) []clickup.List {
	if lists == nil {
		return []clickup.List{}
	}
	return lists
}

func containsID(ids []int64, id int64) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
