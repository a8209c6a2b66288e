package rest

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"zap-chat/go-client/pkg/models"
)

// GetChatHistory fetches one page of the direct conversation with userID.
// cursor is the opaque pagination token from the previous page, empty for the
// newest page.
func (c *Client) GetChatHistory(ctx context.Context, userID, cursor string, limit int) ([]models.Message, error) {
	query := map[string]string{"limit": strconv.Itoa(limit)}
	if cursor != "" {
		query["cursor"] = cursor
	}
	data, err := c.doRequest(ctx, http.MethodGet, "/messages/"+url.PathEscape(userID), nil, query)
	if err != nil {
		return nil, err
	}
	return decodeJSON[[]models.Message](data)
}

// MarkMessagesRead tells the backend every message from userID is read.
func (c *Client) MarkMessagesRead(ctx context.Context, userID string) error {
	_, err := c.doRequest(ctx, http.MethodPost, "/messages/"+url.PathEscape(userID)+"/read", nil, nil)
	return err
}
