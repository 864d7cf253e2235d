package explore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/aguli-tv/aguli-admin/logging"
)

// ErrSubmitInFlight is returned when Submit is called while an earlier
// submission of the same session has not finished.
var ErrSubmitInFlight = errors.New("explore: submission already in progress")

// ErrUnknownEvent is returned by Dispatch for an unrecognised event type.
var ErrUnknownEvent = errors.New("explore: unknown event type")

// Submitter delivers an encoded post to the backend.
type Submitter interface {
	CreateExplore(ctx context.Context, contentType string, body io.Reader) error
}

// EventType names an input event of the compose form.
type EventType string

const (
	EventDrop      EventType = "drop"
	EventDragStart EventType = "drag_start"
	EventHover     EventType = "hover"
	EventDragEnd   EventType = "drag_end"
	EventRemove    EventType = "remove"
)

// Event is one input delivered to a Session. Index is used by drag_start,
// hover and remove; Files by drop.
type Event struct {
	Type  EventType `json:"type"`
	Index int       `json:"index"`
	Files []File    `json:"-"`
}

// Outcome reports what a dispatched event did.
type Outcome struct {
	Changed  bool
	Admitted []PendingImage
}

// Session is one compose form: its text fields, its ImageSet and the drag
// gesture in progress. Events are applied one at a time.
type Session struct {
	id     string
	logger *logging.Logger

	mu         sync.Mutex
	post       Post
	images     *ImageSet
	drag       *DragController
	submitting bool
	updatedAt  time.Time
}

// NewSession opens an empty compose form.
func NewSession(logger *logging.Logger) *Session {
	images := NewImageSet()
	return &Session{
		id:        uuid.NewString(),
		logger:    logger,
		post:      Post{Status: StatusActive},
		images:    images,
		drag:      NewDragController(images),
		updatedAt: time.Now(),
	}
}

// ID returns the session identifier.
func (s *Session) ID() string {
	return s.id
}

// Dispatch applies a single input event.
func (s *Session) Dispatch(ev Event) (Outcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.updatedAt = time.Now()

	switch ev.Type {
	case EventDrop:
		admitted := s.images.Accept(ev.Files)
		if dropped := len(ev.Files) - len(admitted); dropped > 0 {
			s.logger.Debug("compose", "drop exceeded image capacity", map[string]any{
				"session": s.id, "offered": len(ev.Files), "admitted": len(admitted),
			})
		}
		return Outcome{Changed: len(admitted) > 0, Admitted: admitted}, nil
	case EventDragStart:
		return Outcome{Changed: s.drag.StartDrag(ev.Index)}, nil
	case EventHover:
		return Outcome{Changed: s.drag.Hover(ev.Index)}, nil
	case EventDragEnd:
		_, active := s.drag.State()
		s.drag.EndDrag()
		return Outcome{Changed: active}, nil
	case EventRemove:
		removed, ok := s.images.RemoveAt(ev.Index)
		if ok {
			s.drag.Forget(removed.ID)
		}
		return Outcome{Changed: ok}, nil
	default:
		return Outcome{}, fmt.Errorf("%w: %q", ErrUnknownEvent, ev.Type)
	}
}

// Update replaces the text fields. Nil pointers leave a field unchanged.
func (s *Session) Update(title, description *string, status *Status) error {
	var parsed Status
	if status != nil {
		var err error
		if parsed, err = ParseStatus(string(*status)); err != nil {
			return err
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.updatedAt = time.Now()
	if title != nil {
		s.post.Title = *title
	}
	if description != nil {
		s.post.Description = *description
	}
	if status != nil {
		s.post.Status = parsed
	}
	return nil
}

// Submit encodes the current fields and images and hands them to sub. The
// images are cleared only when the backend accepts the post; on failure the
// arranged selection is kept so the user can try again. Events may still be
// dispatched while the request is in flight.
func (s *Session) Submit(ctx context.Context, sub Submitter) error {
	s.mu.Lock()
	if s.submitting {
		s.mu.Unlock()
		return ErrSubmitInFlight
	}
	payload, err := Build(s.post, s.images.Images())
	if err != nil {
		s.mu.Unlock()
		return err
	}
	count := s.images.Len()
	s.submitting = true
	s.mu.Unlock()

	start := time.Now()
	err = sub.CreateExplore(ctx, payload.ContentType, payload.Reader())

	s.mu.Lock()
	defer s.mu.Unlock()
	s.submitting = false
	s.updatedAt = time.Now()

	log := s.logger.FromContext(ctx).WithCategory("compose").WithFields(map[string]any{
		"session":     s.id,
		"images":      count,
		"duration_ms": time.Since(start).Milliseconds(),
	})
	if err != nil {
		log.Error("explore post submission failed", err)
		return fmt.Errorf("submit explore post: %w", err)
	}
	log.Info("explore post submitted")
	s.resetLocked()
	return nil
}

// Discard clears the form, as when the user navigates away.
func (s *Session) Discard() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.resetLocked()
}

func (s *Session) resetLocked() {
	s.drag.EndDrag()
	s.images.Reset()
	s.post = Post{Status: StatusActive}
}

// Images returns the staged images in display order.
func (s *Session) Images() []PendingImage {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.images.Images()
}

// UpdatedAt returns the time of the last event.
func (s *Session) UpdatedAt() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.updatedAt
}

// ImageView describes a staged image without its bytes.
type ImageView struct {
	ID          string `json:"id"`
	Index       int    `json:"index"`
	Name        string `json:"name"`
	ContentType string `json:"content_type"`
	Size        int    `json:"size"`
}

// View is a read-only snapshot of a Session.
type View struct {
	ID         string      `json:"id"`
	Post       Post        `json:"post"`
	Images     []ImageView `json:"images"`
	Dragging   *DragState  `json:"dragging,omitempty"`
	Submitting bool        `json:"submitting"`
	MaxImages  int         `json:"max_images"`
}

// Snapshot returns the current state of the form.
func (s *Session) Snapshot() View {
	s.mu.Lock()
	defer s.mu.Unlock()

	view := View{
		ID:         s.id,
		Post:       s.post,
		Images:     make([]ImageView, 0, s.images.Len()),
		Submitting: s.submitting,
		MaxImages:  MaxImages,
	}
	for i, img := range s.images.items {
		view.Images = append(view.Images, ImageView{
			ID:          img.ID,
			Index:       i,
			Name:        img.Name,
			ContentType: img.ContentType,
			Size:        len(img.Data),
		})
	}
	if state, ok := s.drag.State(); ok {
		view.Dragging = &state
	}
	return view
}
