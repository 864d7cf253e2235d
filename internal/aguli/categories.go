package aguli

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

// Category is a news category shown in the apps.
type Category struct {
	ID       string `json:"_id"`
	Name     string `json:"cat_name"`
	Code     string `json:"cat_code"`
	Slug     string `json:"cat_slug"`
	Status   string `json:"cat_status"`
	Order    int    `json:"cat_order"`
	Updated  string `json:"update_date"`
	ThumbURL string `json:"cat_thumb,omitempty"`
}

// CategoryInput carries the editable category fields.
type CategoryInput struct {
	Name     string
	Status   string
	Order    int
	ThumbURL string
}

func (in CategoryInput) validate() error {
	if strings.TrimSpace(in.Name) == "" {
		return fmt.Errorf("%w: category name is required", ErrInvalid)
	}
	if strings.TrimSpace(in.ThumbURL) == "" {
		return fmt.Errorf("%w: category thumbnail link is required", ErrInvalid)
	}
	return nil
}

func (in CategoryInput) status() string {
	if s := strings.TrimSpace(in.Status); s != "" {
		return s
	}
	return "active"
}

func (c *Client) keyQuery() url.Values {
	if c.apiKey == "" {
		return nil
	}
	return url.Values{"key": {c.apiKey}}
}

// ListCategories returns all categories. The backend returns them either at
// the top level or nested under data.
func (c *Client) ListCategories(ctx context.Context) ([]Category, error) {
	body, err := c.do(ctx, request{
		method: http.MethodGet,
		path:   resourcePrefix + "/category/list",
		query:  c.keyQuery(),
	})
	if err != nil {
		return nil, err
	}
	var resp struct {
		Categories []Category `json:"categories"`
		Data       struct {
			Categories []Category `json:"categories"`
		} `json:"data"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("aguli: decode categories: %w", err)
	}
	if resp.Categories != nil {
		return resp.Categories, nil
	}
	if resp.Data.Categories != nil {
		return resp.Data.Categories, nil
	}
	return []Category{}, nil
}

// CreateCategory adds a category.
func (c *Client) CreateCategory(ctx context.Context, in CategoryInput) error {
	if err := in.validate(); err != nil {
		return err
	}
	payload := map[string]any{
		"cat_name":   strings.TrimSpace(in.Name),
		"cat_status": in.status(),
		"cat_order":  in.Order,
		"cat_thumb":  strings.TrimSpace(in.ThumbURL),
	}
	_, err := c.doJSON(ctx, http.MethodPost, resourcePrefix+"/category/add", c.keyQuery(), payload, false)
	return err
}

// UpdateCategory edits a category. The edit endpoint names the thumbnail
// field cat_thumbnail.
func (c *Client) UpdateCategory(ctx context.Context, id string, in CategoryInput) error {
	id, err := requireID(id)
	if err != nil {
		return err
	}
	if strings.TrimSpace(in.Name) == "" {
		return fmt.Errorf("%w: category name is required", ErrInvalid)
	}
	payload := map[string]any{
		"cat_name":      strings.TrimSpace(in.Name),
		"cat_status":    in.status(),
		"cat_order":     in.Order,
		"cat_thumbnail": strings.TrimSpace(in.ThumbURL),
	}
	_, err = c.doJSON(ctx, http.MethodPut, resourcePrefix+"/category/edit/"+id, nil, payload, false)
	return err
}

// DeleteCategory removes a category.
func (c *Client) DeleteCategory(ctx context.Context, id string) error {
	id, err := requireID(id)
	if err != nil {
		return err
	}
	_, err = c.do(ctx, request{method: http.MethodDelete, path: resourcePrefix + "/category/delete/" + id})
	return err
}
