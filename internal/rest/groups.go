package rest

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"zap-chat/go-client/pkg/models"
)

type CreateGroupRequest struct {
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	MemberIDs   []string `json:"memberIds"`
}

func (c *Client) CreateGroup(ctx context.Context, req CreateGroupRequest) (models.Group, error) {
	data, err := c.doRequest(ctx, http.MethodPost, "/groups", req, nil)
	if err != nil {
		return models.Group{}, err
	}
	return decodeJSON[models.Group](data)
}

func (c *Client) GetUserGroups(ctx context.Context) ([]models.Group, error) {
	data, err := c.doRequest(ctx, http.MethodGet, "/groups", nil, nil)
	if err != nil {
		return nil, err
	}
	return decodeJSON[[]models.Group](data)
}

func (c *Client) GetGroupByID(ctx context.Context, groupID string) (models.Group, error) {
	data, err := c.doRequest(ctx, http.MethodGet, "/groups/"+url.PathEscape(groupID), nil, nil)
	if err != nil {
		return models.Group{}, err
	}
	return decodeJSON[models.Group](data)
}

// GetGroupMessages pages the group's history newest-first, same cursor
// contract as GetChatHistory.
func (c *Client) GetGroupMessages(ctx context.Context, groupID, cursor string, limit int) ([]models.Message, error) {
	query := map[string]string{"limit": strconv.Itoa(limit)}
	if cursor != "" {
		query["cursor"] = cursor
	}
	data, err := c.doRequest(ctx, http.MethodGet, "/groups/"+url.PathEscape(groupID)+"/messages", nil, query)
	if err != nil {
		return nil, err
	}
	return decodeJSON[[]models.Message](data)
}

func (c *Client) AddGroupMembers(ctx context.Context, groupID string, memberIDs []string) error {
	body := map[string][]string{"memberIds": memberIDs}
	_, err := c.doRequest(ctx, http.MethodPost, "/groups/"+url.PathEscape(groupID)+"/members", body, nil)
	return err
}

func (c *Client) RemoveGroupMember(ctx context.Context, groupID, memberID string) error {
	_, err := c.doRequest(ctx, http.MethodDelete,
		"/groups/"+url.PathEscape(groupID)+"/members/"+url.PathEscape(memberID), nil, nil)
	return err
}

func (c *Client) LeaveGroup(ctx context.Context, groupID string) error {
	_, err := c.doRequest(ctx, http.MethodPost, "/groups/"+url.PathEscape(groupID)+"/leave", nil, nil)
	return err
}
