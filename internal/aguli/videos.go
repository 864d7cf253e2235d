package aguli

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

// Video is an entry of the video gallery. The backend spells the title key
// video_tittle.
type Video struct {
	ID          string `json:"_id"`
	Title       string `json:"video_tittle"`
	Description string `json:"video_description"`
	Category    string `json:"video_cat"`
	Status      string `json:"video_status"`
	URL         string `json:"video_url"`
	Thumb       string `json:"video_thumb"`
	Key         string `json:"video_key"`
	Date        string `json:"video_date"`
	Views       string `json:"video_views"`
	Likes       string `json:"video_likes"`
	Comments    string `json:"video_comments"`
	CreatedAt   string `json:"createdat"`
}

// VideoInput describes a video upload. Either Video or VideoURL supplies the
// media, and either Thumbnail or ThumbnailURL the poster image; an uploaded
// file clears the matching URL.
type VideoInput struct {
	Title        string
	Description  string
	Category     string
	Status       string
	VideoURL     string
	ThumbnailURL string
	Video        *Upload
	Thumbnail    *Upload
}

func (in VideoInput) form() (*multipartForm, error) {
	if strings.TrimSpace(in.Title) == "" || strings.TrimSpace(in.Description) == "" {
		return nil, fmt.Errorf("%w: video title and description are required", ErrInvalid)
	}
	videoURL, thumbURL := in.VideoURL, in.ThumbnailURL
	if in.Video != nil {
		videoURL = ""
	}
	if in.Thumbnail != nil {
		thumbURL = ""
	}
	form := newMultipartForm()
	form.file("video", in.Video)
	form.file("thumbnail", in.Thumbnail)
	form.field("video_tittle", strings.TrimSpace(in.Title))
	form.field("video_description", strings.TrimSpace(in.Description))
	form.field("video_cat", in.Category)
	form.field("video_status", defaultStatus(in.Status))
	form.field("video_url", strings.TrimSpace(videoURL))
	form.field("thumbnail_url", strings.TrimSpace(thumbURL))
	return form, nil
}

// ListVideos returns the video gallery. This endpoint answers
// {message, videos} rather than the usual envelope.
func (c *Client) ListVideos(ctx context.Context) ([]Video, error) {
	body, err := c.do(ctx, request{method: http.MethodGet, path: resourcePrefix + "/video/getallvideos"})
	if err != nil {
		return nil, err
	}
	var resp struct {
		Videos []Video `json:"videos"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("aguli: decode videos: %w", err)
	}
	if resp.Videos == nil {
		return []Video{}, nil
	}
	return resp.Videos, nil
}

// GetVideo fetches a single video.
func (c *Client) GetVideo(ctx context.Context, id string) (Video, error) {
	id, err := requireID(id)
	if err != nil {
		return Video{}, err
	}
	body, err := c.do(ctx, request{method: http.MethodGet, path: resourcePrefix + "/video/getvideo/" + id})
	if err != nil {
		return Video{}, err
	}
	var video Video
	if err := decodeData(body, &video); err != nil {
		return Video{}, err
	}
	return video, nil
}

// CreateVideo uploads a new video.
func (c *Client) CreateVideo(ctx context.Context, in VideoInput) error {
	form, err := in.form()
	if err != nil {
		return err
	}
	return c.sendForm(ctx, http.MethodPost, resourcePrefix+"/video/add", form)
}

// UpdateVideo replaces a video's fields and, optionally, its media.
func (c *Client) UpdateVideo(ctx context.Context, id string, in VideoInput) error {
	id, err := requireID(id)
	if err != nil {
		return err
	}
	form, err := in.form()
	if err != nil {
		return err
	}
	return c.sendForm(ctx, http.MethodPut, resourcePrefix+"/video/update/"+id, form)
}

// DeleteVideo removes a video.
func (c *Client) DeleteVideo(ctx context.Context, id string) error {
	id, err := requireID(id)
	if err != nil {
		return err
	}
	_, err = c.do(ctx, request{method: http.MethodDelete, path: resourcePrefix + "/video/delete/" + id})
	return err
}
