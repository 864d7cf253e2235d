package aguli

import (
	"context"
	"errors"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/aguli-tv/aguli-admin/logging"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	client, err := New(Options{
		BaseURL: srv.URL,
		APIKey:  "k-123",
		Token:   "tok",
		Logger:  logging.New("test", logging.ERROR, io.Discard),
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return client
}

func TestNewValidatesBaseURL(t *testing.T) {
	cases := []struct {
		name    string
		base    string
		wantErr bool
	}{
		{name: "empty", base: "  ", wantErr: true},
		{name: "scheme", base: "ftp://example.com", wantErr: true},
		{name: "http", base: "http://example.com/", wantErr: false},
		{name: "https with path", base: "https://example.com/backend", wantErr: false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := New(Options{BaseURL: tc.base})
			if (err != nil) != tc.wantErr {
				t.Fatalf("New(%q) err = %v, wantErr %v", tc.base, err, tc.wantErr)
			}
		})
	}
}

func TestEndpointJoinsBasePath(t *testing.T) {
	client, err := New(Options{BaseURL: "https://example.com/backend/"})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	got := client.endpoint(resourcePrefix+"/explore/getall", nil)
	want := "https://example.com/backend/api/v1/aguli_tv/explore/getall"
	if got != want {
		t.Fatalf("endpoint = %q, want %q", got, want)
	}
}

func TestListExploreDecodesEnvelope(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet || r.URL.Path != "/api/v1/aguli_tv/explore/getall" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"success":true,"data":[{"_id":"p1","explore_title":"Sunset","explore_thumb":["a.jpg","b.jpg"],"explore_status":"active"}]}`)
	})

	posts, err := client.ListExplore(context.Background())
	if err != nil {
		t.Fatalf("ListExplore: %v", err)
	}
	if len(posts) != 1 || posts[0].ID != "p1" || posts[0].Title != "Sunset" {
		t.Fatalf("unexpected posts: %+v", posts)
	}
	if len(posts[0].Thumbs) != 2 || posts[0].Thumbs[1] != "b.jpg" {
		t.Fatalf("unexpected thumbs: %v", posts[0].Thumbs)
	}
}

func TestCreateExploreSendsMultipartInOrder(t *testing.T) {
	var names []string
	var files []string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/aguli_tv/explore/add" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		mediaType, params, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
		if err != nil || mediaType != "multipart/form-data" {
			t.Errorf("content type = %q", r.Header.Get("Content-Type"))
			return
		}
		mr := multipart.NewReader(r.Body, params["boundary"])
		for {
			part, err := mr.NextPart()
			if err != nil {
				break
			}
			names = append(names, part.FormName())
			if part.FileName() != "" {
				files = append(files, part.FileName())
			}
		}
		_, _ = io.WriteString(w, `{"success":true,"message":"created"}`)
	})

	form := newMultipartForm()
	form.field("explore_title", "Hills")
	form.file("explore_thumb", &Upload{Name: "one.png", ContentType: "image/png", Data: []byte("1")})
	form.file("explore_thumb", &Upload{Name: "two.png", ContentType: "image/png", Data: []byte("2")})
	contentType, body, err := form.finish()
	if err != nil {
		t.Fatalf("finish: %v", err)
	}
	if err := client.CreateExplore(context.Background(), contentType, body); err != nil {
		t.Fatalf("CreateExplore: %v", err)
	}
	if strings.Join(names, ",") != "explore_title,explore_thumb,explore_thumb" {
		t.Fatalf("part order = %v", names)
	}
	if strings.Join(files, ",") != "one.png,two.png" {
		t.Fatalf("file order = %v", files)
	}
}

func TestCreateExploreRejectsNonMultipart(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Errorf("request should not be sent")
	})
	err := client.CreateExplore(context.Background(), "application/json", strings.NewReader("{}"))
	if err == nil {
		t.Fatal("expected error for non-multipart body")
	}
}

func TestSuccessFalseIsAnError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"success":false,"message":"title already exists"}`)
	})

	err := client.DeleteExplore(context.Background(), "p1")
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *APIError, got %v", err)
	}
	if apiErr.StatusCode != http.StatusOK || apiErr.Message != "title already exists" {
		t.Fatalf("unexpected APIError: %+v", apiErr)
	}
}

func TestErrorStatusUsesJSONMessage(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_, _ = io.WriteString(w, `{"success":false,"message":"explore not found"}`)
	})

	err := client.DeleteExplore(context.Background(), "missing")
	if !IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
	if !strings.Contains(err.Error(), "explore not found") {
		t.Fatalf("error %q should carry the backend message", err)
	}
}

func TestErrorMessage(t *testing.T) {
	cases := []struct {
		name        string
		contentType string
		body        string
		want        string
	}{
		{name: "empty", body: "   ", want: ""},
		{name: "json", contentType: "application/json", body: `{"message":" bad input "}`, want: "bad input"},
		{
			name:        "html title",
			contentType: "text/html; charset=utf-8",
			body:        "<html><head><title>502 Bad   Gateway</title></head><body><h1>nginx</h1></body></html>",
			want:        "502 Bad Gateway",
		},
		{
			name:        "html heading",
			contentType: "text/html",
			body:        "<html><body><h1>Service\nUnavailable</h1><p>try later</p></body></html>",
			want:        "Service Unavailable",
		},
		{
			name: "sniffed html",
			body: "<!DOCTYPE html><html><body><p>maintenance window</p></body></html>",
			want: "maintenance window",
		},
		{name: "plain", contentType: "text/plain", body: "upstream\tclosed", want: "upstream closed"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := errorMessage(tc.contentType, []byte(tc.body)); got != tc.want {
				t.Fatalf("errorMessage = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestErrorMessageClipsLongText(t *testing.T) {
	got := errorMessage("text/plain", []byte(strings.Repeat("x", maxErrorTextRunes+50)))
	if len([]rune(got)) != maxErrorTextRunes+1 || !strings.HasSuffix(got, "…") {
		t.Fatalf("unexpected clipped message length %d", len([]rune(got)))
	}
}

func TestRequestIDIsForwarded(t *testing.T) {
	var got string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Get("X-Request-ID")
		_, _ = io.WriteString(w, `{"success":true,"data":[]}`)
	})
	ctx := logging.ContextWithRequestID(context.Background(), "req-42")
	if _, err := client.ListExplore(ctx); err != nil {
		t.Fatalf("ListExplore: %v", err)
	}
	if got != "req-42" {
		t.Fatalf("X-Request-ID = %q", got)
	}
}

func TestRequireID(t *testing.T) {
	for _, id := range []string{"", "  ", "a/b", "a?b", "a#b"} {
		if _, err := requireID(id); !errors.Is(err, ErrInvalid) {
			t.Fatalf("requireID(%q) err = %v, want ErrInvalid", id, err)
		}
	}
	got, err := requireID(" 64f0c1 ")
	if err != nil || got != "64f0c1" {
		t.Fatalf("requireID trimmed = %q, %v", got, err)
	}
}
