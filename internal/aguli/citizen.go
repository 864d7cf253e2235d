package aguli

import (
	"context"
	"net/http"
)

// CitizenPost is a news item submitted by a viewer.
type CitizenPost struct {
	ID          string `json:"_id"`
	Name        string `json:"post_name"`
	URL         string `json:"post_url"`
	Content     string `json:"post_content"`
	Image       string `json:"post_image"`
	ProfileName string `json:"profile_name"`
	Status      string `json:"post_status"`
	CreatedAt   string `json:"created_at"`
	PhoneNumber string `json:"phone_number"`
	CitizenID   int    `json:"citizen_id"`
}

// ListCitizenPosts returns every citizen submission.
func (c *Client) ListCitizenPosts(ctx context.Context) ([]CitizenPost, error) {
	body, err := c.do(ctx, request{method: http.MethodGet, path: resourcePrefix + "/citizen/getall"})
	if err != nil {
		return nil, err
	}
	var posts []CitizenPost
	if err := decodeData(body, &posts); err != nil {
		return nil, err
	}
	return posts, nil
}

// DeleteCitizenPost removes a citizen submission.
func (c *Client) DeleteCitizenPost(ctx context.Context, id string) error {
	id, err := requireID(id)
	if err != nil {
		return err
	}
	_, err = c.do(ctx, request{method: http.MethodDelete, path: resourcePrefix + "/citizen/delete/" + id})
	return err
}
