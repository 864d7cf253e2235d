package aguli

import (
	"context"
	"net/http"
	"sort"
	"strconv"
	"strings"
)

// Ad is an advertisement slot shown in the apps.
type Ad struct {
	ID       string `json:"_id"`
	Name     string `json:"ads_name"`
	Type     string `json:"ads_type"`
	Screen   string `json:"ads_screen"`
	Link     string `json:"ads_link"`
	Status   string `json:"ads_status"`
	Image    string `json:"ads_image"`
	Sequence int    `json:"ads_sequence"`
}

// AdInput carries the editable ad fields. Image is optional on update.
type AdInput struct {
	Name     string
	Type     string
	Screen   string
	Link     string
	Status   string
	Sequence int
	Image    *Upload
}

// ListAds returns all ads ordered by sequence.
func (c *Client) ListAds(ctx context.Context) ([]Ad, error) {
	body, err := c.do(ctx, request{method: http.MethodGet, path: resourcePrefix + "/ads/getall"})
	if err != nil {
		return nil, err
	}
	var ads []Ad
	if err := decodeData(body, &ads); err != nil {
		return nil, err
	}
	sort.SliceStable(ads, func(i, j int) bool { return ads[i].Sequence < ads[j].Sequence })
	return ads, nil
}

// CreateAd adds an ad. Blank text fields are left out of the form.
func (c *Client) CreateAd(ctx context.Context, in AdInput) error {
	form := newMultipartForm()
	for _, f := range []struct{ name, value string }{
		{"ads_name", strings.TrimSpace(in.Name)},
		{"ads_type", in.Type},
		{"ads_screen", in.Screen},
		{"ads_link", strings.TrimSpace(in.Link)},
		{"ads_status", defaultStatus(in.Status)},
	} {
		if f.value != "" {
			form.field(f.name, f.value)
		}
	}
	form.field("ads_sequence", strconv.Itoa(in.Sequence))
	form.file("ads_image", in.Image)
	return c.sendForm(ctx, http.MethodPost, resourcePrefix+"/ads/add", form)
}

// UpdateAd edits current. Fields left blank (or a zero sequence) in changes
// keep the current ad's values; the image is replaced only when provided.
func (c *Client) UpdateAd(ctx context.Context, current Ad, changes AdInput) error {
	id, err := requireID(current.ID)
	if err != nil {
		return err
	}
	sequence := changes.Sequence
	if sequence == 0 {
		sequence = current.Sequence
	}
	form := newMultipartForm()
	form.field("ads_name", fallback(strings.TrimSpace(changes.Name), current.Name))
	form.field("ads_type", fallback(changes.Type, current.Type))
	form.field("ads_screen", fallback(changes.Screen, current.Screen))
	form.field("ads_link", fallback(strings.TrimSpace(changes.Link), current.Link))
	form.field("ads_status", fallback(changes.Status, current.Status))
	form.field("ads_sequence", strconv.Itoa(sequence))
	form.file("ads_image", changes.Image)
	return c.sendForm(ctx, http.MethodPut, resourcePrefix+"/ads/update/"+id, form)
}

// DeleteAd removes an ad.
func (c *Client) DeleteAd(ctx context.Context, id string) error {
	id, err := requireID(id)
	if err != nil {
		return err
	}
	_, err = c.do(ctx, request{method: http.MethodDelete, path: resourcePrefix + "/ads/delete/" + id})
	return err
}

func (c *Client) sendForm(ctx context.Context, method, path string, form *multipartForm) error {
	contentType, body, err := form.finish()
	if err != nil {
		return err
	}
	_, err = c.do(ctx, request{method: method, path: path, contentType: contentType, body: body})
	return err
}

func fallback(value, current string) string {
	if value != "" {
		return value
	}
	return current
}

func defaultStatus(status string) string {
	return fallback(strings.TrimSpace(status), "active")
}
