package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/graphpad/pkg/document"
	"github.com/matzehuels/graphpad/pkg/observability"
)

func newTestServer(t *testing.T) (*httptest.Server, *document.Document) {
	t.Helper()
	logger := log.New(io.Discard)
	doc := document.New(document.Options{HitSlack: 2, Logger: logger})
	srv := httptest.NewServer(New(doc, Options{Logger: logger}).Handler())
	t.Cleanup(srv.Close)
	return srv, doc
}

func do(t *testing.T, srv *httptest.Server, method, path, body string) (*http.Response, []byte) {
	t.Helper()
	var header http.Header
	if body != "" {
		header = http.Header{"Content-Type": {"application/json"}}
	}
	return doHeader(t, srv, method, path, body, header)
}

func doHeader(t *testing.T, srv *httptest.Server, method, path, body string, header http.Header) (*http.Response, []byte) {
	t.Helper()
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, srv.URL+path, rd)
	if err != nil {
		t.Fatal(err)
	}
	for k, v := range header {
		req.Header[k] = v
	}
	resp, err := srv.Client().Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatal(err)
	}
	return resp, data
}

func decodeJSON[T any](t *testing.T, data []byte) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		t.Fatalf("decode %s: %v", data, err)
	}
	return v
}

const clickAt40 = `[{"kind":"press","x":40,"y":40},{"kind":"release","x":40,"y":40}]`
const clickAt200 = `[{"kind":"press","x":200,"y":40},{"kind":"release","x":200,"y":40}]`

func TestHealth(t *testing.T) {
	srv, _ := newTestServer(t)
	resp, data := do(t, srv, http.MethodGet, "/healthz", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	body := decodeJSON[map[string]any](t, data)
	if body["status"] != "ok" {
		t.Errorf("body = %s", data)
	}
}

func TestEventsCreateNodesAndEdges(t *testing.T) {
	srv, doc := newTestServer(t)

	resp, data := do(t, srv, http.MethodPost, "/events", clickAt40)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d: %s", resp.StatusCode, data)
	}
	got := decodeJSON[eventsResponse](t, data)
	if len(got.Results) != 2 || got.Results[1].Action != "node-created" || got.Results[1].Node != 1 {
		t.Fatalf("results = %+v", got.Results)
	}
	if got.Status.Nodes != 1 || !got.Status.Dirty {
		t.Errorf("status = %+v", got.Status)
	}

	do(t, srv, http.MethodPost, "/events", clickAt200)

	drag := `[{"kind":"press","x":40,"y":40},{"kind":"move","x":120,"y":40},{"kind":"release","x":200,"y":40}]`
	_, data = do(t, srv, http.MethodPost, "/events", drag)
	got = decodeJSON[eventsResponse](t, data)
	last := got.Results[2]
	if last.Action != "edge-created" || last.Edge == nil || last.Edge.From != 1 || last.Edge.To != 2 {
		t.Fatalf("drag result = %+v", last)
	}
	if doc.Graph().EdgeCount() != 1 {
		t.Errorf("edges = %d, want 1", doc.Graph().EdgeCount())
	}
}

func TestEventsSingleObject(t *testing.T) {
	srv, _ := newTestServer(t)
	_, data := do(t, srv, http.MethodPost, "/events", `{"kind":"press","x":5,"y":5}`)
	got := decodeJSON[eventsResponse](t, data)
	if len(got.Results) != 1 || got.Results[0].State != "pressed-on-empty" {
		t.Errorf("results = %+v", got.Results)
	}
}

func TestEventsRejectsBadInput(t *testing.T) {
	srv, doc := newTestServer(t)
	tests := []struct {
		name string
		body string
	}{
		{"empty", ""},
		{"not json", "press"},
		{"unknown kind", `{"kind":"hover","x":1,"y":1}`},
		{"bad kind in batch", `[{"kind":"press","x":1,"y":1},{"kind":"wiggle"}]`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, data := do(t, srv, http.MethodPost, "/events", tt.body)
			if resp.StatusCode != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400", resp.StatusCode)
			}
			if body := decodeJSON[errorBody](t, data); body.Code != "INVALID_INPUT" {
				t.Errorf("code = %q", body.Code)
			}
		})
	}
	if doc.Controller().State().String() != "idle" {
		t.Error("rejected batch must not reach the controller")
	}
}

func TestPen(t *testing.T) {
	srv, doc := newTestServer(t)

	resp, data := do(t, srv, http.MethodPut, "/pen", `{"color":"red"}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d: %s", resp.StatusCode, data)
	}
	if st := decodeJSON[document.Status](t, data); st.Pen != "red" {
		t.Errorf("pen = %q", st.Pen)
	}

	resp, data = do(t, srv, http.MethodPut, "/pen", `{"color":"mauve"}`)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if body := decodeJSON[errorBody](t, data); body.Code != "INVALID_COLOR" {
		t.Errorf("code = %q", body.Code)
	}
	if doc.PenColor().Name() != "red" {
		t.Error("rejected color must not change the pen")
	}
}

func TestNewRequiresForceWhenDirty(t *testing.T) {
	srv, doc := newTestServer(t)
	do(t, srv, http.MethodPost, "/events", clickAt40)

	resp, data := do(t, srv, http.MethodPost, "/document/new", "")
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("status = %d, want 409", resp.StatusCode)
	}
	if body := decodeJSON[errorBody](t, data); body.Code != "UNSAVED_CHANGES" {
		t.Errorf("code = %q", body.Code)
	}
	if doc.Graph().NodeCount() != 1 {
		t.Fatal("refused reset must keep the graph")
	}

	resp, data = do(t, srv, http.MethodPost, "/document/new?force=true", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d: %s", resp.StatusCode, data)
	}
	if st := decodeJSON[document.Status](t, data); st.Nodes != 0 || st.Dirty {
		t.Errorf("status = %+v", st)
	}
}

func TestSaveAndOpen(t *testing.T) {
	srv, _ := newTestServer(t)
	path := filepath.Join(t.TempDir(), "a.graph")

	do(t, srv, http.MethodPost, "/events", clickAt40)

	resp, data := do(t, srv, http.MethodPost, "/document/save", "")
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("save without target: status = %d: %s", resp.StatusCode, data)
	}

	resp, data = do(t, srv, http.MethodPost, "/document/save", `{"path":"`+path+`"}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("save as: status = %d: %s", resp.StatusCode, data)
	}
	st := decodeJSON[document.Status](t, data)
	if st.Dirty || st.Path != path || !st.CanSave {
		t.Errorf("status after save = %+v", st)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatal(err)
	}

	do(t, srv, http.MethodPost, "/events", clickAt200)
	resp, _ = do(t, srv, http.MethodPost, "/document/save", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("quick save: status = %d", resp.StatusCode)
	}

	do(t, srv, http.MethodPost, "/document/new", "")
	resp, data = do(t, srv, http.MethodPost, "/document/open", `{"path":"`+path+`"}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("open: status = %d: %s", resp.StatusCode, data)
	}
	got := decodeJSON[graphResponse](t, data)
	if len(got.Graph.Nodes) != 2 || got.Status.Path != path {
		t.Errorf("opened = %+v", got)
	}

	resp, data = do(t, srv, http.MethodPost, "/document/open", `{"path":"`+filepath.Join(t.TempDir(), "missing.graph")+`"}`)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("open missing: status = %d: %s", resp.StatusCode, data)
	}
}

func TestDeleteNode(t *testing.T) {
	srv, doc := newTestServer(t)
	do(t, srv, http.MethodPost, "/events", clickAt40)

	tests := []struct {
		name string
		path string
		want int
	}{
		{"bad id", "/nodes/abc", http.StatusBadRequest},
		{"unknown", "/nodes/99", http.StatusNotFound},
		{"existing", "/nodes/1", http.StatusOK},
		{"already deleted", "/nodes/1", http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, data := do(t, srv, http.MethodDelete, tt.path, "")
			if resp.StatusCode != tt.want {
				t.Errorf("status = %d, want %d: %s", resp.StatusCode, tt.want, data)
			}
		})
	}
	if doc.Graph().NodeCount() != 0 {
		t.Error("node should be gone")
	}
}

func TestRender(t *testing.T) {
	srv, _ := newTestServer(t)
	do(t, srv, http.MethodPost, "/events", clickAt40)

	resp, data := do(t, srv, http.MethodGet, "/render.dot", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if !strings.Contains(resp.Header.Get("Content-Type"), "graphviz") || !strings.HasPrefix(string(data), "graph G") {
		t.Errorf("dot = %s (%s)", data, resp.Header.Get("Content-Type"))
	}

	resp, data = do(t, srv, http.MethodGet, "/render.png?scale=2&labels=false", "")
	if resp.StatusCode != http.StatusOK || !bytes.HasPrefix(data, []byte("\x89PNG")) {
		t.Errorf("png: status = %d", resp.StatusCode)
	}

	resp, _ = do(t, srv, http.MethodGet, "/render.bmp", "")
	if resp.StatusCode != http.StatusNotImplemented {
		t.Errorf("bmp: status = %d, want 501", resp.StatusCode)
	}

	resp, _ = do(t, srv, http.MethodGet, "/render.png?scale=big", "")
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("bad scale: status = %d, want 400", resp.StatusCode)
	}
}

func TestRenderRejectsUnsafeOptions(t *testing.T) {
	srv, _ := newTestServer(t)
	do(t, srv, http.MethodPost, "/events", clickAt40)

	tests := []struct {
		name  string
		query string
	}{
		{"nan scale", "scale=NaN"},
		{"inf scale", "scale=Inf"},
		{"huge scale", "scale=1e6"},
		{"nan padding", "padding=NaN"},
		{"huge padding", "padding=1e9"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, data := do(t, srv, http.MethodGet, "/render.png?"+tt.query, "")
			if resp.StatusCode != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400", resp.StatusCode)
			}
			if body := decodeJSON[errorBody](t, data); body.Code != "INVALID_INPUT" {
				t.Errorf("code = %q", body.Code)
			}
		})
	}
}

func TestRenderRejectsOversizedImage(t *testing.T) {
	srv, _ := newTestServer(t)
	do(t, srv, http.MethodPost, "/events", clickAt40)
	do(t, srv, http.MethodPost, "/events",
		`[{"kind":"press","x":90000,"y":90000},{"kind":"release","x":90000,"y":90000}]`)

	resp, _ := do(t, srv, http.MethodGet, "/render.png", "")
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}
}

func TestMutationsRejectForeignRequests(t *testing.T) {
	dir := t.TempDir()
	victim := filepath.Join(dir, "package.json")
	if err := os.WriteFile(victim, []byte(`{"name":"x"}`), 0o644); err != nil {
		t.Fatal(err)
	}
	body := `{"path":"` + filepath.ToSlash(victim) + `"}`

	tests := []struct {
		name   string
		header http.Header
		want   int
	}{
		{"plain text", http.Header{"Content-Type": {"text/plain"}}, http.StatusUnsupportedMediaType},
		{"form", http.Header{"Content-Type": {"application/x-www-form-urlencoded"}}, http.StatusUnsupportedMediaType},
		{"foreign origin", http.Header{
			"Content-Type": {"application/json"},
			"Origin":       {"https://evil.example"},
		}, http.StatusForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv, _ := newTestServer(t)
			resp, _ := doHeader(t, srv, http.MethodPost, "/document/save", body, tt.header)
			if resp.StatusCode != tt.want {
				t.Errorf("status = %d, want %d", resp.StatusCode, tt.want)
			}
		})
	}

	data, err := os.ReadFile(victim)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != `{"name":"x"}` {
		t.Errorf("file overwritten: %s", data)
	}
}

func TestMutationsAllowSameOrigin(t *testing.T) {
	srv, doc := newTestServer(t)
	header := http.Header{
		"Content-Type": {"application/json; charset=utf-8"},
		"Origin":       {srv.URL},
	}
	resp, _ := doHeader(t, srv, http.MethodPost, "/events", clickAt40, header)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	if doc.Graph().NodeCount() != 1 {
		t.Errorf("NodeCount = %d, want 1", doc.Graph().NodeCount())
	}
}

type recordingHTTPHooks struct {
	observability.NoopHTTPHooks
	mu       sync.Mutex
	statuses []int
}

func (h *recordingHTTPHooks) OnResponse(_ context.Context, _, _ string, status int, _ time.Duration) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.statuses = append(h.statuses, status)
}

func TestHTTPHooks(t *testing.T) {
	hooks := &recordingHTTPHooks{}
	observability.SetHTTPHooks(hooks)
	t.Cleanup(observability.Reset)

	srv, _ := newTestServer(t)
	do(t, srv, http.MethodGet, "/graph", "")
	do(t, srv, http.MethodDelete, "/nodes/7", "")

	hooks.mu.Lock()
	defer hooks.mu.Unlock()
	if len(hooks.statuses) != 2 || hooks.statuses[0] != 200 || hooks.statuses[1] != 404 {
		t.Errorf("statuses = %v", hooks.statuses)
	}
}

func TestListenAndServeStopsOnCancel(t *testing.T) {
	doc := document.New(document.Options{Logger: log.New(io.Discard)})
	s := New(doc, Options{Logger: log.New(io.Discard)})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.ListenAndServe(ctx, "127.0.0.1:0") }()

	time.Sleep(50 * time.Millisecond)
	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("ListenAndServe() = %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}
