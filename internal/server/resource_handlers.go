package server

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/aguli-tv/aguli-admin/internal/aguli"
)

const (
	maxAdImageBytes = 10 << 20
	maxVideoBytes   = 512 << 20
	formMemory      = 32 << 20
)

// Categories

type categoryRequest struct {
	Name     string `json:"cat_name"`
	Status   string `json:"cat_status"`
	Order    int    `json:"cat_order"`
	ThumbURL string `json:"cat_thumb"`
}

func (c categoryRequest) input() aguli.CategoryInput {
	return aguli.CategoryInput{Name: c.Name, Status: c.Status, Order: c.Order, ThumbURL: c.ThumbURL}
}

func (s *Server) handleCategoryList(w http.ResponseWriter, r *http.Request) {
	cats, err := s.backend.ListCategories(r.Context())
	if err != nil {
		s.writeBackendError(w, r, "category", err)
		return
	}
	writeData(w, http.StatusOK, cats)
}

func (s *Server) handleCategoryCreate(w http.ResponseWriter, r *http.Request) {
	var req categoryRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := s.backend.CreateCategory(r.Context(), req.input()); err != nil {
		s.writeBackendError(w, r, "category", err)
		return
	}
	writeMessage(w, http.StatusCreated, "category created")
}

func (s *Server) handleCategoryUpdate(w http.ResponseWriter, r *http.Request) {
	var req categoryRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := s.backend.UpdateCategory(r.Context(), r.PathValue("id"), req.input()); err != nil {
		s.writeBackendError(w, r, "category", err)
		return
	}
	writeMessage(w, http.StatusOK, "category updated")
}

func (s *Server) handleCategoryDelete(w http.ResponseWriter, r *http.Request) {
	if err := s.backend.DeleteCategory(r.Context(), r.PathValue("id")); err != nil {
		s.writeBackendError(w, r, "category", err)
		return
	}
	writeMessage(w, http.StatusOK, "category deleted")
}

// Ads

func (s *Server) adInput(w http.ResponseWriter, r *http.Request) (aguli.AdInput, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, maxAdImageBytes+formMemory)
	if err := r.ParseMultipartForm(formMemory); err != nil {
		writeError(w, uploadStatus(err), "invalid ad form: "+err.Error())
		return aguli.AdInput{}, false
	}
	in := aguli.AdInput{
		Name:   r.FormValue("ads_name"),
		Type:   r.FormValue("ads_type"),
		Screen: r.FormValue("ads_screen"),
		Link:   r.FormValue("ads_link"),
		Status: r.FormValue("ads_status"),
	}
	if raw := strings.TrimSpace(r.FormValue("ads_sequence")); raw != "" {
		seq, err := strconv.Atoi(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "ads_sequence must be a number")
			return aguli.AdInput{}, false
		}
		in.Sequence = seq
	}
	image, err := readUpload(r, "ads_image", maxAdImageBytes)
	if err != nil {
		writeError(w, uploadStatus(err), err.Error())
		return aguli.AdInput{}, false
	}
	in.Image = image
	return in, true
}

func (s *Server) handleAdList(w http.ResponseWriter, r *http.Request) {
	ads, err := s.backend.ListAds(r.Context())
	if err != nil {
		s.writeBackendError(w, r, "ads", err)
		return
	}
	writeData(w, http.StatusOK, ads)
}

func (s *Server) handleAdCreate(w http.ResponseWriter, r *http.Request) {
	in, ok := s.adInput(w, r)
	if !ok {
		return
	}
	defer r.MultipartForm.RemoveAll()
	if err := s.backend.CreateAd(r.Context(), in); err != nil {
		s.writeBackendError(w, r, "ads", err)
		return
	}
	writeMessage(w, http.StatusCreated, "ad created")
}

// handleAdUpdate loads the current ad first so fields left blank in the form
// keep their values.
func (s *Server) handleAdUpdate(w http.ResponseWriter, r *http.Request) {
	in, ok := s.adInput(w, r)
	if !ok {
		return
	}
	defer r.MultipartForm.RemoveAll()

	id := r.PathValue("id")
	ads, err := s.backend.ListAds(r.Context())
	if err != nil {
		s.writeBackendError(w, r, "ads", err)
		return
	}
	var current *aguli.Ad
	for i := range ads {
		if ads[i].ID == id {
			current = &ads[i]
			break
		}
	}
	if current == nil {
		writeError(w, http.StatusNotFound, "ad not found")
		return
	}
	if err := s.backend.UpdateAd(r.Context(), *current, in); err != nil {
		s.writeBackendError(w, r, "ads", err)
		return
	}
	writeMessage(w, http.StatusOK, "ad updated")
}

func (s *Server) handleAdDelete(w http.ResponseWriter, r *http.Request) {
	if err := s.backend.DeleteAd(r.Context(), r.PathValue("id")); err != nil {
		s.writeBackendError(w, r, "ads", err)
		return
	}
	writeMessage(w, http.StatusOK, "ad deleted")
}

// Citizen news

func (s *Server) handleCitizenList(w http.ResponseWriter, r *http.Request) {
	posts, err := s.backend.ListCitizenPosts(r.Context())
	if err != nil {
		s.writeBackendError(w, r, "citizen", err)
		return
	}
	writeData(w, http.StatusOK, posts)
}

func (s *Server) handleCitizenDelete(w http.ResponseWriter, r *http.Request) {
	if err := s.backend.DeleteCitizenPost(r.Context(), r.PathValue("id")); err != nil {
		s.writeBackendError(w, r, "citizen", err)
		return
	}
	writeMessage(w, http.StatusOK, "citizen post deleted")
}

// Live TV

func (s *Server) handleChannelList(w http.ResponseWriter, r *http.Request) {
	channels, err := s.backend.ListChannels(r.Context())
	if err != nil {
		s.writeBackendError(w, r, "livetv", err)
		return
	}
	writeData(w, http.StatusOK, channels)
}

func (s *Server) handleChannelCreate(w http.ResponseWriter, r *http.Request) {
	var in aguli.ChannelInput
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := s.backend.CreateChannel(r.Context(), in); err != nil {
		s.writeBackendError(w, r, "livetv", err)
		return
	}
	writeMessage(w, http.StatusCreated, "channel created")
}

func (s *Server) handleChannelUpdate(w http.ResponseWriter, r *http.Request) {
	var in aguli.ChannelInput
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := s.backend.UpdateChannel(r.Context(), r.PathValue("id"), in); err != nil {
		s.writeBackendError(w, r, "livetv", err)
		return
	}
	writeMessage(w, http.StatusOK, "channel updated")
}

func (s *Server) handleChannelDelete(w http.ResponseWriter, r *http.Request) {
	if err := s.backend.DeleteChannel(r.Context(), r.PathValue("id")); err != nil {
		s.writeBackendError(w, r, "livetv", err)
		return
	}
	writeMessage(w, http.StatusOK, "channel deleted")
}

// Videos

func (s *Server) videoInput(w http.ResponseWriter, r *http.Request) (aguli.VideoInput, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, maxVideoBytes+maxAdImageBytes+formMemory)
	if err := r.ParseMultipartForm(formMemory); err != nil {
		writeError(w, uploadStatus(err), "invalid video form: "+err.Error())
		return aguli.VideoInput{}, false
	}
	in := aguli.VideoInput{
		Title:        r.FormValue("video_tittle"),
		Description:  r.FormValue("video_description"),
		Category:     r.FormValue("video_cat"),
		Status:       r.FormValue("video_status"),
		VideoURL:     r.FormValue("video_url"),
		ThumbnailURL: r.FormValue("thumbnail_url"),
	}
	var err error
	if in.Video, err = readUpload(r, "video", maxVideoBytes); err != nil {
		writeError(w, uploadStatus(err), err.Error())
		return aguli.VideoInput{}, false
	}
	if in.Thumbnail, err = readUpload(r, "thumbnail", maxAdImageBytes); err != nil {
		writeError(w, uploadStatus(err), err.Error())
		return aguli.VideoInput{}, false
	}
	return in, true
}

func (s *Server) handleVideoList(w http.ResponseWriter, r *http.Request) {
	videos, err := s.backend.ListVideos(r.Context())
	if err != nil {
		s.writeBackendError(w, r, "video", err)
		return
	}
	writeData(w, http.StatusOK, videos)
}

func (s *Server) handleVideoGet(w http.ResponseWriter, r *http.Request) {
	video, err := s.backend.GetVideo(r.Context(), r.PathValue("id"))
	if err != nil {
		s.writeBackendError(w, r, "video", err)
		return
	}
	writeData(w, http.StatusOK, video)
}

func (s *Server) handleVideoCreate(w http.ResponseWriter, r *http.Request) {
	in, ok := s.videoInput(w, r)
	if !ok {
		return
	}
	defer r.MultipartForm.RemoveAll()
	if err := s.backend.CreateVideo(r.Context(), in); err != nil {
		s.writeBackendError(w, r, "video", err)
		return
	}
	writeMessage(w, http.StatusCreated, "video created")
}

func (s *Server) handleVideoUpdate(w http.ResponseWriter, r *http.Request) {
	in, ok := s.videoInput(w, r)
	if !ok {
		return
	}
	defer r.MultipartForm.RemoveAll()
	if err := s.backend.UpdateVideo(r.Context(), r.PathValue("id"), in); err != nil {
		s.writeBackendError(w, r, "video", err)
		return
	}
	writeMessage(w, http.StatusOK, "video updated")
}

func (s *Server) handleVideoDelete(w http.ResponseWriter, r *http.Request) {
	if err := s.backend.DeleteVideo(r.Context(), r.PathValue("id")); err != nil {
		s.writeBackendError(w, r, "video", err)
		return
	}
	writeMessage(w, http.StatusOK, "video deleted")
}

// Push notifications

func (s *Server) handleNotificationSend(w http.ResponseWriter, r *http.Request) {
	var n aguli.Notification
	if err := decodeJSON(w, r, &n); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := s.backend.SendNotification(r.Context(), n); err != nil {
		s.writeBackendError(w, r, "notification", err)
		return
	}
	writeMessage(w, http.StatusOK, "notification sent")
}
