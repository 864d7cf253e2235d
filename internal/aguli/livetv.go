package aguli

import (
	"context"
	"fmt"
	"net/http"
	"strings"
)

// Channel is a live-TV stream.
type Channel struct {
	ID   string `json:"_id"`
	Name string `json:"live_tv_name"`
	Link string `json:"live_tv_link"`
}

// ChannelInput carries the editable channel fields.
type ChannelInput struct {
	Name string `json:"live_tv_name"`
	Link string `json:"live_tv_link"`
}

func (in ChannelInput) normalise() (ChannelInput, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Link = strings.TrimSpace(in.Link)
	if in.Name == "" || in.Link == "" {
		return in, fmt.Errorf("%w: channel name and link are required", ErrInvalid)
	}
	return in, nil
}

// ListChannels returns the live-TV channels. The endpoint also returns recent
// news alongside them, which is ignored.
func (c *Client) ListChannels(ctx context.Context) ([]Channel, error) {
	body, err := c.do(ctx, request{method: http.MethodGet, path: resourcePrefix + "/livetv/getall"})
	if err != nil {
		return nil, err
	}
	var data struct {
		Channels []Channel `json:"liveTVChannels"`
	}
	if err := decodeData(body, &data); err != nil {
		return nil, err
	}
	if data.Channels == nil {
		return []Channel{}, nil
	}
	return data.Channels, nil
}

// CreateChannel adds a channel.
func (c *Client) CreateChannel(ctx context.Context, in ChannelInput) error {
	in, err := in.normalise()
	if err != nil {
		return err
	}
	_, err = c.doJSON(ctx, http.MethodPost, resourcePrefix+"/livetv/add", nil, in, false)
	return err
}

// UpdateChannel edits a channel.
func (c *Client) UpdateChannel(ctx context.Context, id string, in ChannelInput) error {
	id, err := requireID(id)
	if err != nil {
		return err
	}
	if in, err = in.normalise(); err != nil {
		return err
	}
	_, err = c.doJSON(ctx, http.MethodPut, resourcePrefix+"/livetv/update/"+id, nil, in, false)
	return err
}

// DeleteChannel removes a channel.
func (c *Client) DeleteChannel(ctx context.Context, id string) error {
	id, err := requireID(id)
	if err != nil {
		return err
	}
	_, err = c.do(ctx, request{method: http.MethodDelete, path: resourcePrefix + "/livetv/delete/" + id})
	return err
}
