package clickup

// Field names follow the ClickUp v2 REST schema and must not be renamed.

// Team is a ClickUp workspace.
type Team struct {
	ID      string       `json:"id"`
	Name    string       `json:"name"`
	Color   string       `json:"color,omitempty"`
	Members []TeamMember `json:"members,omitempty"`
}

// TeamMember wraps a user inside a team payload.
type TeamMember struct {
	User User `json:"user"`
}

// User is a ClickUp user as embedded in teams, tasks and lists.
type User struct {
	ID             int64  `json:"id"`
	Username       string `json:"username"`
	Email          string `json:"email"`
	Color          string `json:"color,omitempty"`
	ProfilePicture string `json:"profilePicture,omitempty"`
	Initials       string `json:"initials,omitempty"`
	Role           int    `json:"role,omitempty"`
	RoleKey        string `json:"role_key,omitempty"`
	CustomRole     string `json:"custom_role,omitempty"`
	LastActive     string `json:"last_active,omitempty"`
	DateJoined     string `json:"date_joined,omitempty"`
	DateInvited    string `json:"date_invited,omitempty"`
}

// ListMember is a user with access to a list.
type ListMember struct {
	ID             int64  `json:"id"`
	Username       string `json:"username"`
	Email          string `json:"email"`
	Color          string `json:"color,omitempty"`
	ProfilePicture string `json:"profilePicture,omitempty"`
	Initials       string `json:"initials,omitempty"`
}

// Status is a task or workflow status.
type Status struct {
	ID     string `json:"id,omitempty"`
	Status string `json:"status"`
	Color  string `json:"color,omitempty"`
}

// ListStatus is the status attached to a list.
type ListStatus struct {
	Status    string `json:"status"`
	Color     string `json:"color,omitempty"`
	HideLabel bool   `json:"hide_label,omitempty"`
}

// Priority of a task or list.
type Priority struct {
	ID       string `json:"id,omitempty"`
	Priority string `json:"priority"`
	Color    string `json:"color,omitempty"`
}

// Tag attached to a task.
type Tag struct {
	Name string `json:"name"`
}

// Task is a ClickUp task.
type Task struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Status      Status    `json:"status"`
	Priority    *Priority `json:"priority,omitempty"`
	Assignees   []User    `json:"assignees"`
	Tags        []Tag     `json:"tags,omitempty"`
	DateCreated string    `json:"date_created,omitempty"`
	DateUpdated string    `json:"date_updated,omitempty"`
	DueDate     string    `json:"due_date,omitempty"`
	URL         string    `json:"url,omitempty"`
}

// AssigneeIDs returns the IDs of the task's assignees.
func (t Task) AssigneeIDs() []int64 {
	ids := make([]int64, 0, len(t.Assignees))
	for _, a := range t.Assignees {
		ids = append(ids, a.ID)
	}
	return ids
}

// TaskRequest is the body for creating a task.
// Dates are epoch milliseconds.
type TaskRequest struct {
	Name          string   `json:"name"`
	Description   string   `json:"description,omitempty"`
	Assignees     []int64  `json:"assignees,omitempty"`
	Priority      *int     `json:"priority,omitempty"`
	DueDate       *int64   `json:"due_date,omitempty"`
	DueDateTime   *bool    `json:"due_date_time,omitempty"`
	StartDate     *int64   `json:"start_date,omitempty"`
	StartDateTime *bool    `json:"start_date_time,omitempty"`
	Status        string   `json:"status,omitempty"`
	Parent        string   `json:"parent,omitempty"`
	TimeEstimate  *int64   `json:"time_estimate,omitempty"`
	Tags          []string `json:"tags,omitempty"`
}

// TaskUpdate is the body for updating a task. Unset fields are left alone.
type TaskUpdate struct {
	Name        string           `json:"name,omitempty"`
	Description *string          `json:"description,omitempty"`
	Status      string           `json:"status,omitempty"`
	Priority    *int             `json:"priority,omitempty"`
	DueDate     *int64           `json:"due_date,omitempty"`
	DueDateTime *bool            `json:"due_date_time,omitempty"`
	Assignees   *AssigneesUpdate `json:"assignees,omitempty"`
	Archived    *bool            `json:"archived,omitempty"`
}

// AssigneesUpdate adds and removes assignees in a single update.
type AssigneesUpdate struct {
	Add []int64 `json:"add"`
	Rem []int64 `json:"rem"`
}

// FeatureToggle enables or disables a space feature.
type FeatureToggle struct {
	Enabled bool `json:"enabled"`
}

// SpaceFeatures lists the optional ClickApps of a space.
type SpaceFeatures struct {
	DueDates          *FeatureToggle `json:"due_dates,omitempty"`
	TimeTracking      *FeatureToggle `json:"time_tracking,omitempty"`
	Tags              *FeatureToggle `json:"tags,omitempty"`
	TimeEstimates     *FeatureToggle `json:"time_estimates,omitempty"`
	Checklists        *FeatureToggle `json:"checklists,omitempty"`
	CustomFields      *FeatureToggle `json:"custom_fields,omitempty"`
	RemapDependencies *FeatureToggle `json:"remap_dependencies,omitempty"`
	DependencyWarning *FeatureToggle `json:"dependency_warning,omitempty"`
	Portfolios        *FeatureToggle `json:"portfolios,omitempty"`
}

// Space is a ClickUp space.
type Space struct {
	ID                string         `json:"id"`
	Name              string         `json:"name"`
	Private           bool           `json:"private"`
	Statuses          []Status       `json:"statuses,omitempty"`
	MultipleAssignees bool           `json:"multiple_assignees"`
	Features          *SpaceFeatures `json:"features,omitempty"`
	Archived          bool           `json:"archived"`
}

// SpaceRequest is the body for creating a space.
type SpaceRequest struct {
	Name              string         `json:"name"`
	MultipleAssignees *bool          `json:"multiple_assignees,omitempty"`
	Features          *SpaceFeatures `json:"features,omitempty"`
}

// SpaceRef is the short form of a space embedded in folders and lists.
type SpaceRef struct {
	ID   string `json:"id"`
	Name string `json:"name,omitempty"`
}

// FolderRef is the short form of a folder embedded in lists.
type FolderRef struct {
	ID     string `json:"id"`
	Name   string `json:"name,omitempty"`
	Hidden bool   `json:"hidden,omitempty"`
	Access bool   `json:"access,omitempty"`
}

// Folder is a ClickUp folder.
type Folder struct {
	ID               string    `json:"id"`
	Name             string    `json:"name"`
	OrderIndex       int       `json:"orderindex"`
	OverrideStatuses bool      `json:"override_statuses"`
	Hidden           bool      `json:"hidden"`
	Space            *SpaceRef `json:"space,omitempty"`
	TaskCount        string    `json:"task_count,omitempty"`
	Archived         bool      `json:"archived"`
	Statuses         []Status  `json:"statuses,omitempty"`
	Lists            []List    `json:"lists,omitempty"`
}

// FolderRequest is the body for creating a folder.
type FolderRequest struct {
	Name string `json:"name"`
}

// List is a ClickUp list.
type List struct {
	ID               string      `json:"id"`
	Name             string      `json:"name"`
	OrderIndex       int         `json:"orderindex"`
	Content          string      `json:"content,omitempty"`
	Status           *ListStatus `json:"status,omitempty"`
	Priority         *Priority   `json:"priority,omitempty"`
	Assignee         *User       `json:"assignee,omitempty"`
	TaskCount        int         `json:"task_count"`
	DueDate          string      `json:"due_date,omitempty"`
	DueDateTime      bool        `json:"due_date_time,omitempty"`
	StartDate        string      `json:"start_date,omitempty"`
	StartDateTime    bool        `json:"start_date_time,omitempty"`
	Folder           *FolderRef  `json:"folder,omitempty"`
	Space            *SpaceRef   `json:"space,omitempty"`
	Archived         bool        `json:"archived"`
	OverrideStatuses bool        `json:"override_statuses"`
	Statuses         []Status    `json:"statuses,omitempty"`
	PermissionLevel  string      `json:"permission_level,omitempty"`
}

// ListRequest is the body for creating a list.
type ListRequest struct {
	Name        string `json:"name"`
	Content     string `json:"content,omitempty"`
	DueDate     *int64 `json:"due_date,omitempty"`
	DueDateTime *bool  `json:"due_date_time,omitempty"`
	Priority    *int   `json:"priority,omitempty"`
	Assignee    *int64 `json:"assignee,omitempty"`
	Status      string `json:"status,omitempty"`
}

type teamsResponse struct {
	Teams []Team `json:"teams"`
}

type spacesResponse struct {
	Spaces []Space `json:"spaces"`
}

type foldersResponse struct {
	Folders []Folder `json:"folders"`
}

type listsResponse struct {
	Lists []List `json:"lists"`
}

type tasksResponse struct {
	Tasks []Task `json:"tasks"`
}

type listMembersResponse struct {
	Members []ListMember `json:"members"`
}
