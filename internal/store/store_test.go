// store_test.go provides the shared fake API and fixtures for the store
// tests. No network is involved.
package store

import (
	"context"
	"sync"
	"testing"
	"time"

	"revista/internal/api"
	"revista/internal/content"
	"revista/internal/models"
)

// fakeRemote records write calls and answers with canned responses.
type fakeRemote struct {
	mu      sync.Mutex
	calls   []string
	payload content.Raw
	respond content.Raw
	err     error
}

func (f *fakeRemote) record(call string, payload content.Raw) (content.Raw, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call)
	f.payload = payload
	if f.err != nil {
		return nil, f.err
	}
	return f.respond, nil
}

func (f *fakeRemote) CreateArticle(_ context.Context, p content.Raw) (content.Raw, error) {
	return f.record("CreateArticle", p)
}

func (f *fakeRemote) UpdateArticle(_ context.Context, id string, p content.Raw) (content.Raw, error) {
	return f.record("UpdateArticle:"+id, p)
}

func (f *fakeRemote) DeleteArticle(_ context.Context, id string) error {
	_, err := f.record("DeleteArticle:"+id, nil)
	return err
}

func (f *fakeRemote) CreateMagazine(_ context.Context, p content.Raw) (content.Raw, error) {
	return f.record("CreateMagazine", p)
}

func (f *fakeRemote) UpdateMagazine(_ context.Context, id string, p content.Raw) (content.Raw, error) {
	return f.record("UpdateMagazine:"+id, p)
}

func (f *fakeRemote) DeleteMagazine(_ context.Context, id string) error {
	_, err := f.record("DeleteMagazine:"+id, nil)
	return err
}

// Ensure the real client satisfies the store's Remote.
var _ Remote = (*api.Client)(nil)

func day(d int) time.Time {
	return time.Date(2026, 3, d, 10, 0, 0, 0, time.UTC)
}

func post(id string, d int) models.Post {
	return models.Post{
		ID:          id,
		Slug:        id,
		Title:       "Post " + id,
		Category:    "Cine",
		PublishedAt: day(d),
		Type:        models.PostTypePublication,
	}
}

func activity(id string, d int, scheduled *time.Time) models.Post {
	p := post(id, d)
	p.Type = models.PostTypeActivity
	p.IsActivity = true
	p.ScheduledAt = scheduled
	p.Location = "Foro"
	return p
}

func magazine(id string, d int) models.Magazine {
	return models.Magazine{
		ID:        id,
		Title:     "Edición " + id,
		CreatedAt: day(d),
		HasViewer: true,
		ViewerURL: "https://viewer.test/" + id,
	}
}

func ids(posts []models.Post) []string {
	out := make([]string, len(posts))
	for i, p := range posts {
		out[i] = p.ID
	}
	return out
}

func magazineIDs(mags []models.Magazine) []string {
	out := make([]string, len(mags))
	for i, m := range mags {
		out[i] = m.ID
	}
	return out
}

func assertIDs(t *testing.T, got, want []string) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("ids = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("ids = %v, want %v", got, want)
		}
	}
}
