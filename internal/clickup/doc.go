// Package clickup provides a client for the ClickUp v2 REST API.
//
// The client covers the slice of the API this project needs:
//   - Teams (workspaces) and their member rosters
//   - Spaces, folders and lists, including folderless lists
//   - Tasks: list, get, create, update, delete
//   - List members
//
// Every method takes a context and returns an explicit error. Non-2xx
// responses surface as *APIError carrying the HTTP status and ClickUp's
// ECODE. Callers that want the older "empty on failure" behaviour can wrap a
// call in Capture and use Result.OrEmpty.
//
// # Authentication
//
// A single token is attached to every request. Personal tokens ("pk_...")
// are sent as-is; OAuth access tokens are sent as Bearer tokens.
//
// # Example Usage
//
//	client, err := clickup.NewClient(os.Getenv("CLICKUP_API_TOKEN"))
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	roster, err := client.Members(ctx)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	ids := members.Resolve(roster, []string{"juan", "81585056"}, logger)
//	task, err := client.CreateTask(ctx, listID, clickup.TaskRequest{
//	    Name:      "Review contract",
//	    Assignees: ids,
//	})
package clickup
