package clickup

import (
	"context"
	"net/http"

	"github.com/teemow/clickup-mcp/internal/instrumentation"
	"github.com/teemow/clickup-mcp/internal/logging"
)

// Spaces returns the spaces of a team.
func (c *Client) Spaces(ctx context.Context, teamID string) ([]Space, error) {
	var resp spacesResponse
	if err := c.get(ctx, call{instrumentation.ResourceSpace, instrumentation.OperationList}, pathf("/api/v2/team/%s/space", teamID), &resp); err != nil {
		return nil, c.fail("clickup.spaces", "get spaces", err, logging.Team(teamID))
	}
	return resp.Spaces, nil
}

// CreateSpace creates a space in a team.
func (c *Client) CreateSpace(ctx context.Context, teamID string, req SpaceRequest) (*Space, error) {
	var space Space
	if err := c.do(ctx, call{instrumentation.ResourceSpace, instrumentation.OperationCreate}, http.MethodPost, pathf("/api/v2/team/%s/space", teamID), req, &space); err != nil {
		return nil, c.fail("clickup.create_space", "create space", err, logging.Team(teamID))
	}
	return &space, nil
}

// Folders returns the folders of a space.
func (c *Client) Folders(ctx context.Context, spaceID string) ([]Folder, error) {
	var resp foldersResponse
	if err := c.get(ctx, call{instrumentation.ResourceFolder, instrumentation.OperationList}, pathf("/api/v2/space/%s/folder", spaceID), &resp); err != nil {
		return nil, c.fail("clickup.folders", "get folders", err, logging.Space(spaceID))
	}
	return resp.Folders, nil
}

// CreateFolder creates a folder in a space.
func (c *Client) CreateFolder(ctx context.Context, spaceID string, req FolderRequest) (*Folder, error) {
	var folder Folder
	if err := c.do(ctx, call{instrumentation.ResourceFolder, instrumentation.OperationCreate}, http.MethodPost, pathf("/api/v2/space/%s/folder", spaceID), req, &folder); err != nil {
		return nil, c.fail("clickup.create_folder", "create folder", err, logging.Space(spaceID))
	}
	return &folder, nil
}

// Lists returns the lists of a folder.
func (c *Client) Lists(ctx context.Context, folderID string) ([]List, error) {
	var resp listsResponse
	if err := c.get(ctx, call{instrumentation.ResourceList, instrumentation.OperationList}, pathf("/api/v2/folder/%s/list", folderID), &resp); err != nil {
		return nil, c.fail("clickup.lists", "get lists", err, logging.Folder(folderID))
	}
	return resp.Lists, nil
}

// FolderlessLists returns the lists that sit directly in a space.
func (c *Client) FolderlessLists(ctx context.Context, spaceID string) ([]List, error) {
	var resp listsResponse
	if err := c.get(ctx, call{instrumentation.ResourceList, instrumentation.OperationList}, pathf("/api/v2/space/%s/list", spaceID), &resp); err != nil {
		return nil, c.fail("clickup.folderless_lists", "get folderless lists", err, logging.Space(spaceID))
	}
	return resp.Lists, nil
}

// CreateList creates a list in a folder.
func (c *Client) CreateList(ctx context.Context, folderID string, req ListRequest) (*List, error) {
	var list List
	if err := c.do(ctx, call{instrumentation.ResourceList, instrumentation.OperationCreate}, http.MethodPost, pathf("/api/v2/folder/%s/list", folderID), req, &list); err != nil {
		return nil, c.fail("clickup.create_list", "create list", err, logging.Folder(folderID))
	}
	return &list, nil
}

// CreateFolderlessList creates a list directly in a space.
func (c *Client) CreateFolderlessList(ctx context.Context, spaceID string, req ListRequest) (*List, error) {
	var list List
	if err := c.do(ctx, call{instrumentation.ResourceList, instrumentation.OperationCreate}, http.MethodPost, pathf("/api/v2/space/%s/list", spaceID), req, &list); err != nil {
		return nil, c.fail("clickup.create_folderless_list", "create folderless list", err, logging.Space(spaceID))
	}
	return &list, nil
}
