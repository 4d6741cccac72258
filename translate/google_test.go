package translate

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"google.golang.org/api/option"
	translatev3 "google.golang.org/api/translate/v3"

	"github.com/hnrq/veloren-translate/pipeline"
)

const testOperation = "projects/demo/locations/us-central1/operations/op-1"

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	ts := httptest.NewServer(handler)
	t.Cleanup(ts.Close)

	svc, err := translatev3.NewService(context.Background(),
		option.WithEndpoint(ts.URL), option.WithoutAuthentication())
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return &Client{
		svc:          svc,
		parent:       "projects/demo/locations/us-central1",
		pollInterval: 5 * time.Millisecond,
		log:          testLogger(),
	}
}

func testJob() pipeline.TranslationJob {
	return pipeline.TranslationJob{
		SourceBucket:    "raw",
		SourceKey:       "raw-html/TestPost1-1704067200000.html",
		OutputBucket:    "translated",
		OutputPrefix:    "1704067200000/",
		SourceLanguage:  "en",
		TargetLanguages: []string{"es", "pt-BR"},
	}
}

func TestTranslateSubmitsAndPolls(t *testing.T) {
	var (
		got   translatev3.BatchTranslateTextRequest
		polls atomic.Int32
	)
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.HasSuffix(r.URL.Path, ":batchTranslateText"):
			if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
				t.Errorf("decode request: %v", err)
			}
			json.NewEncoder(w).Encode(&translatev3.Operation{Name: testOperation})
		case r.URL.Path == "/v3/"+testOperation:
			done := polls.Add(1) >= 2
			json.NewEncoder(w).Encode(&translatev3.Operation{Name: testOperation, Done: done})
		default:
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
			http.NotFound(w, r)
		}
	}))

	if err := c.Translate(context.Background(), testJob()); err != nil {
		t.Fatalf("Translate: %v", err)
	}

	if got.SourceLanguageCode != "en" {
		t.Errorf("SourceLanguageCode = %q", got.SourceLanguageCode)
	}
	if want := []string{"es", "pt-BR"}; !reflect.DeepEqual(got.TargetLanguageCodes, want) {
		t.Errorf("TargetLanguageCodes = %v, want %v", got.TargetLanguageCodes, want)
	}
	if len(got.InputConfigs) != 1 {
		t.Fatalf("InputConfigs = %+v", got.InputConfigs)
	}
	if uri := got.InputConfigs[0].GcsSource.InputUri; uri != "gs://raw/raw-html/TestPost1-1704067200000.html" {
		t.Errorf("InputUri = %q", uri)
	}
	if mime := got.InputConfigs[0].MimeType; mime != "text/html" {
		t.Errorf("MimeType = %q", mime)
	}
	if prefix := got.OutputConfig.GcsDestination.OutputUriPrefix; prefix != "gs://translated/1704067200000/" {
		t.Errorf("OutputUriPrefix = %q", prefix)
	}
	if n := polls.Load(); n != 2 {
		t.Errorf("operation polled %d times, want 2", n)
	}
}

func TestTranslateOperationFails(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(&translatev3.Operation{
			Name:  testOperation,
			Done:  true,
			Error: &translatev3.Status{Code: 8, Message: "quota exceeded"},
		})
	}))

	err := c.Translate(context.Background(), testJob())
	if err == nil {
		t.Fatal("Translate succeeded, want error")
	}
	if !strings.Contains(err.Error(), "quota exceeded") {
		t.Errorf("error does not carry the operation message: %v", err)
	}
}

func TestTranslateSubmitRejected(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]any{
			"error": map[string]any{"code": 400, "message": "invalid parent"},
		})
	}))

	if err := c.Translate(context.Background(), testJob()); err == nil {
		t.Fatal("Translate succeeded, want error")
	}
}
