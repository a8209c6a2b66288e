package rest

import (
	"context"
	"net/http"
	"net/url"

	"zap-chat/go-client/pkg/models"
)

func (c *Client) GetUsers(ctx context.Context) ([]models.User, error) {
	data, err := c.doRequest(ctx, http.MethodGet, "/users", nil, nil)
	if err != nil {
		return nil, err
	}
	return decodeJSON[[]models.User](data)
}

func (c *Client) GetUserByID(ctx context.Context, userID string) (models.User, error) {
	data, err := c.doRequest(ctx, http.MethodGet, "/users/"+url.PathEscape(userID), nil, nil)
	if err != nil {
		return models.User{}, err
	}
	return decodeJSON[models.User](data)
}

// SearchUsers matches usernames against q on the backend.
func (c *Client) SearchUsers(ctx context.Context, q string) ([]models.User, error) {
	data, err := c.doRequest(ctx, http.MethodGet, "/users/search", nil, map[string]string{"q": q})
	if err != nil {
		return nil, err
	}
	return decodeJSON[[]models.User](data)
}
