// Package explore implements the Explore post compose flow: a capped,
// reorderable selection of images plus the multipart payload that carries the
// finished post to the Aguli backend.
package explore

import "github.com/google/uuid"

// MaxImages is the number of images an Explore post can carry.
const MaxImages = 5

// File is an image chosen in the drop zone.
type File struct {
	Name        string
	ContentType string
	Data        []byte
}

// PendingImage is a File staged in an ImageSet. ID is assigned at intake and
// stays with the image however the set is reordered; the image's display
// index is its current position and is never stored.
type PendingImage struct {
	ID string
	File
}

// ImageSet is the ordered, capacity-bounded list of images staged for upload.
// It is not safe for concurrent use; Session serialises access.
type ImageSet struct {
	items []PendingImage
	newID func() string
}

// NewImageSet returns an empty set.
func NewImageSet() *ImageSet {
	return &ImageSet{newID: uuid.NewString}
}

// Len returns the number of staged images.
func (s *ImageSet) Len() int {
	return len(s.items)
}

// Images returns a copy of the staged images in display order.
func (s *ImageSet) Images() []PendingImage {
	out := make([]PendingImage, len(s.items))
	copy(out, s.items)
	return out
}

// IDs returns the image IDs in display order.
func (s *ImageSet) IDs() []string {
	ids := make([]string, len(s.items))
	for i, item := range s.items {
		ids[i] = item.ID
	}
	return ids
}

// IndexOf returns the current position of the image with the given ID, or -1.
func (s *ImageSet) IndexOf(id string) int {
	for i, item := range s.items {
		if item.ID == id {
			return i
		}
	}
	return -1
}

// Accept appends files to the end of the set and truncates the result to
// MaxImages. Files beyond the remaining capacity are dropped in the order
// given, without error. It returns the images that were admitted.
func (s *ImageSet) Accept(files []File) []PendingImage {
	room := MaxImages - len(s.items)
	if len(files) == 0 || room <= 0 {
		return nil
	}
	if len(files) > room {
		files = files[:room]
	}
	admitted := make([]PendingImage, 0, len(files))
	for _, f := range files {
		img := PendingImage{ID: s.newID(), File: f}
		s.items = append(s.items, img)
		admitted = append(admitted, img)
	}
	return admitted
}

// RemoveAt deletes the image at index. Later images shift down by one.
// An out-of-range index leaves the set unchanged.
func (s *ImageSet) RemoveAt(index int) (PendingImage, bool) {
	if index < 0 || index >= len(s.items) {
		return PendingImage{}, false
	}
	removed := s.items[index]
	s.items = append(s.items[:index], s.items[index+1:]...)
	return removed, true
}

// Move takes the image at from out of the list and reinserts it at to. Every
// image between the two positions shifts by one slot. It reports whether the
// order changed; equal or out-of-range indices are no-ops.
func (s *ImageSet) Move(from, to int) bool {
	n := len(s.items)
	if from == to || from < 0 || from >= n || to < 0 || to >= n {
		return false
	}
	moved := s.items[from]
	if from < to {
		copy(s.items[from:to], s.items[from+1:to+1])
	} else {
		copy(s.items[to+1:from+1], s.items[to:from])
	}
	s.items[to] = moved
	return true
}

// Reset empties the set.
func (s *ImageSet) Reset() {
	s.items = nil
}
