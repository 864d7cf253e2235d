package aguli

import (
	"context"
	"fmt"
	"net/http"
	"strings"
)

const defaultNotificationScreen = "newsDetails"

// Notification is a push message broadcast to every app user.
type Notification struct {
	Title        string `json:"title"`
	Body         string `json:"body"`
	Screen       string `json:"screen"`
	NewsID       string `json:"news_id"`
	ThumbnailURL string `json:"thumbnail_url"`
}

// SendNotification broadcasts n. Title, body and news ID are required; the
// target screen defaults to the news details page.
func (c *Client) SendNotification(ctx context.Context, n Notification) error {
	n.Title = strings.TrimSpace(n.Title)
	n.Body = strings.TrimSpace(n.Body)
	n.NewsID = strings.TrimSpace(n.NewsID)
	if n.Title == "" || n.Body == "" || n.NewsID == "" {
		return fmt.Errorf("%w: title, body, and news ID are required", ErrInvalid)
	}
	if strings.TrimSpace(n.Screen) == "" {
		n.Screen = defaultNotificationScreen
	}
	_, err := c.doJSON(ctx, http.MethodPost, "/api/v1/push-notifications/send", nil, n, true)
	return err
}
