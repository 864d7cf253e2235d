package aguli

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// ExplorePost is a published Explore entry.
type ExplorePost struct {
	ID           string   `json:"_id"`
	Title        string   `json:"explore_title"`
	Descriptions string   `json:"explore_descriptions"`
	Thumbs       []string `json:"explore_thumb"`
	Slug         string   `json:"explore_slug"`
	Status       string   `json:"explore_status"`
	Likes        string   `json:"explore_likes"`
	CreatedAt    string   `json:"createdat"`
}

// ListExplore returns every Explore post.
func (c *Client) ListExplore(ctx context.Context) ([]ExplorePost, error) {
	body, err := c.do(ctx, request{method: http.MethodGet, path: resourcePrefix + "/explore/getall"})
	if err != nil {
		return nil, err
	}
	var posts []ExplorePost
	if err := decodeData(body, &posts); err != nil {
		return nil, err
	}
	return posts, nil
}

// CreateExplore posts a multipart body built by the compose form.
func (c *Client) CreateExplore(ctx context.Context, contentType string, body io.Reader) error {
	if !strings.HasPrefix(contentType, "multipart/form-data") {
		return fmt.Errorf("%w: explore post must be multipart/form-data", ErrInvalid)
	}
	_, err := c.do(ctx, request{
		method:      http.MethodPost,
		path:        resourcePrefix + "/explore/add",
		contentType: contentType,
		body:        body,
	})
	return err
}

// DeleteExplore removes an Explore post.
func (c *Client) DeleteExplore(ctx context.Context, id string) error {
	id, err := requireID(id)
	if err != nil {
		return err
	}
	_, err = c.do(ctx, request{method: http.MethodDelete, path: resourcePrefix + "/explore/delete/" + id})
	return err
}

func requireID(id string) (string, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return "", fmt.Errorf("%w: id is required", ErrInvalid)
	}
	if strings.ContainsAny(id, "/?#") {
		return "", fmt.Errorf("%w: id %q", ErrInvalid, id)
	}
	return id, nil
}
