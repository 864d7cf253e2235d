package server

import (
	"errors"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/aguli-tv/aguli-admin/internal/explore"
)

const (
	// dropFormField is the multipart field the drop zone posts files under.
	dropFormField = "files"
	// dropMemory is the part of a drop kept in memory; the rest spools to disk.
	dropMemory = 32 << 20
	// dropOverhead allows for multipart headers around the image bytes.
	dropOverhead = 1 << 20
)

type rejectedFile struct {
	Name   string `json:"name"`
	Reason string `json:"reason"`
}

type dropResult struct {
	Accepted int            `json:"accepted"`
	Dropped  int            `json:"dropped"`
	Rejected []rejectedFile `json:"rejected,omitempty"`
	Session  explore.View   `json:"session"`
}

type eventResult struct {
	Changed bool         `json:"changed"`
	Session explore.View `json:"session"`
}

type updateRequest struct {
	Title       *string         `json:"explore_title"`
	Description *string         `json:"explore_descriptions"`
	Status      *explore.Status `json:"explore_status"`
}

func (s *Server) session(w http.ResponseWriter, r *http.Request) (*explore.Session, bool) {
	sess, err := s.sessions.get(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return nil, false
	}
	return sess, true
}

func (s *Server) handleComposeOpen(w http.ResponseWriter, r *http.Request) {
	sess := s.sessions.open()
	s.logger.FromContext(r.Context()).WithCategory("compose").WithField("session", sess.ID()).Info("compose session opened")
	writeData(w, http.StatusCreated, sess.Snapshot())
}

func (s *Server) handleComposeGet(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	writeData(w, http.StatusOK, sess.Snapshot())
}

func (s *Server) handleComposeUpdate(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	var req updateRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := sess.Update(req.Title, req.Description, req.Status); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeData(w, http.StatusOK, sess.Snapshot())
}

func (s *Server) handleComposeDiscard(w http.ResponseWriter, r *http.Request) {
	if !s.sessions.close(r.PathValue("id")) {
		writeError(w, http.StatusNotFound, ErrSessionNotFound.Error())
		return
	}
	writeMessage(w, http.StatusOK, "compose session discarded")
}

// handleComposeImages is the drop zone. Each file is sniffed and size
// checked; the images that pass are offered to the session in the order
// posted, and whatever exceeds the form's capacity is dropped.
func (s *Server) handleComposeImages(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, 2*explore.MaxImages*s.maxImageBytes+dropOverhead)
	if err := r.ParseMultipartForm(dropMemory); err != nil {
		writeError(w, uploadStatus(err), "invalid image upload: "+err.Error())
		return
	}
	defer r.MultipartForm.RemoveAll()

	headers := r.MultipartForm.File[dropFormField]
	if len(headers) == 0 {
		writeError(w, http.StatusBadRequest, "no files in "+dropFormField)
		return
	}

	var (
		files    []explore.File
		rejected []rejectedFile
	)
	for _, header := range headers {
		name := filepath.Base(header.Filename)
		f, err := header.Open()
		if err != nil {
			rejected = append(rejected, rejectedFile{Name: name, Reason: err.Error()})
			continue
		}
		data, err := readLimited(f, header, s.maxImageBytes)
		f.Close()
		if err != nil {
			rejected = append(rejected, rejectedFile{Name: name, Reason: err.Error()})
			continue
		}
		contentType := http.DetectContentType(data)
		if !strings.HasPrefix(contentType, "image/") {
			rejected = append(rejected, rejectedFile{Name: name, Reason: "not an image (" + contentType + ")"})
			continue
		}
		files = append(files, explore.File{Name: name, ContentType: contentType, Data: data})
	}

	out, err := sess.Dispatch(explore.Event{Type: explore.EventDrop, Files: files})
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.metrics.ObserveDrop(len(files), len(out.Admitted))
	s.metrics.ObserveEvent(string(explore.EventDrop), out.Changed)

	writeData(w, http.StatusOK, dropResult{
		Accepted: len(out.Admitted),
		Dropped:  len(files) - len(out.Admitted),
		Rejected: rejected,
		Session:  sess.Snapshot(),
	})
}

func (s *Server) handleComposeEvent(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	var ev explore.Event
	if err := decodeJSON(w, r, &ev); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if ev.Type == explore.EventDrop {
		writeError(w, http.StatusBadRequest, "images are dropped through the images endpoint")
		return
	}
	out, err := sess.Dispatch(ev)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.metrics.ObserveEvent(string(ev.Type), out.Changed)
	writeData(w, http.StatusOK, eventResult{Changed: out.Changed, Session: sess.Snapshot()})
}

func (s *Server) handleComposeSubmit(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	start := time.Now()
	err := sess.Submit(r.Context(), s.backend)
	switch {
	case err == nil:
		s.metrics.ObserveSubmit("ok", time.Since(start))
		writeJSON(w, http.StatusOK, response{
			Success: true,
			Message: "explore post created",
			Data:    sess.Snapshot(),
		})
	case errors.Is(err, explore.ErrSubmitInFlight):
		s.metrics.ObserveSubmit("in_flight", 0)
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, explore.ErrInvalidStatus):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		s.metrics.ObserveSubmit("failed", time.Since(start))
		s.writeBackendError(w, r, "explore", err)
	}
}
