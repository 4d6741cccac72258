package ledger

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"reflect"
	"sync"
	"testing"

	"github.com/sirupsen/logrus"

	"github.com/hnrq/veloren-translate/storage"
)

type fakeStore struct {
	mu      sync.Mutex
	objects map[string][]byte
	getErr  error
	putErr  error
}

func newFakeStore() *fakeStore {
	return &fakeStore{objects: make(map[string][]byte)}
}

func (f *fakeStore) Download(_ context.Context, bucket, key string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return nil, f.getErr
	}
	data, ok := f.objects[bucket+"/"+key]
	if !ok {
		return nil, fmt.Errorf("%w: %s/%s", storage.ErrNotFound, bucket, key)
	}
	return data, nil
}

func (f *fakeStore) Upload(_ context.Context, bucket, key string, data []byte, _ string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.putErr != nil {
		return f.putErr
	}
	f.objects[bucket+"/"+key] = data
	return nil
}

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func TestLoadFirstRun(t *testing.T) {
	l := New(newFakeStore(), "raw", testLogger())

	set := l.Load(context.Background())

	if set.Len() != 0 {
		t.Errorf("Len = %d, want 0", set.Len())
	}
}

func TestLoadReadFailure(t *testing.T) {
	store := newFakeStore()
	store.getErr = errors.New("connection reset")
	l := New(store, "raw", testLogger())

	set := l.Load(context.Background())

	if set.Len() != 0 {
		t.Errorf("Len = %d, want 0", set.Len())
	}
}

func TestLoadCorruptPayload(t *testing.T) {
	store := newFakeStore()
	store.objects["raw/"+Key] = []byte(`{"not":"an array"}`)
	l := New(store, "raw", testLogger())

	set := l.Load(context.Background())

	if set.Len() != 0 {
		t.Errorf("Len = %d, want 0", set.Len())
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	store := newFakeStore()
	l := New(store, "raw", testLogger())

	set := NewProcessedSet("http://example.com/a", "http://example.com/b")
	if err := l.Save(context.Background(), set); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded := l.Load(context.Background())
	want := []string{"http://example.com/a", "http://example.com/b"}
	if got := loaded.Links(); !reflect.DeepEqual(got, want) {
		t.Errorf("Links = %v, want %v", got, want)
	}
}

func TestSaveGrowsMonotonically(t *testing.T) {
	store := newFakeStore()
	l := New(store, "raw", testLogger())
	ctx := context.Background()

	if err := l.Save(ctx, NewProcessedSet("http://example.com/a")); err != nil {
		t.Fatalf("Save: %v", err)
	}

	set := l.Load(ctx)
	set.Add("http://example.com/b")
	if err := l.Save(ctx, set); err != nil {
		t.Fatalf("Save: %v", err)
	}

	var links []string
	if err := json.Unmarshal(store.objects["raw/"+Key], &links); err != nil {
		t.Fatalf("persisted payload is not a JSON array: %v", err)
	}
	want := []string{"http://example.com/a", "http://example.com/b"}
	if !reflect.DeepEqual(links, want) {
		t.Errorf("persisted = %v, want %v", links, want)
	}
}

func TestSaveFailure(t *testing.T) {
	store := newFakeStore()
	store.putErr = errors.New("no space left")
	l := New(store, "raw", testLogger())

	if err := l.Save(context.Background(), NewProcessedSet("x")); err == nil {
		t.Fatal("Save succeeded, want error")
	}
}

func TestProcessedSet(t *testing.T) {
	set := NewProcessedSet("a", "b", "a")

	if set.Len() != 2 {
		t.Fatalf("Len = %d, want 2", set.Len())
	}
	if set.Add("b") {
		t.Error("Add(existing) = true, want false")
	}
	if !set.Add("c") {
		t.Error("Add(new) = false, want true")
	}
	if !set.Contains("a") || set.Contains("z") {
		t.Error("Contains gave wrong membership")
	}

	missing := set.Missing([]string{"a", "d", "d", "c", "e"})
	if want := []string{"d", "e"}; !reflect.DeepEqual(missing, want) {
		t.Errorf("Missing = %v, want %v", missing, want)
	}

	// Links returns a copy, not the internal slice.
	links := set.Links()
	links[0] = "mutated"
	if set.Links()[0] != "a" {
		t.Error("Links exposed internal state")
	}
}
