package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/graphpad/pkg/buildinfo"
	"github.com/matzehuels/graphpad/pkg/document"
	"github.com/matzehuels/graphpad/pkg/editor"
	errs "github.com/matzehuels/graphpad/pkg/errors"
	"github.com/matzehuels/graphpad/pkg/graph"
	"github.com/matzehuels/graphpad/pkg/render"
	"github.com/matzehuels/graphpad/pkg/render/raster"
)

type graphResponse struct {
	Status document.Status `json:"status"`
	Graph  graph.Snapshot  `json:"graph"`
}

type eventsResponse struct {
	Results []resultResponse `json:"results"`
	Status  document.Status  `json:"status"`
}

type penRequest struct {
	Color string `json:"color"`
}

type pathRequest struct {
	Path string `json:"path"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, struct {
		Status string         `json:"status"`
		Build  buildinfo.Info `json:"build"`
	}{"ok", buildinfo.Get()})
}

func (s *Server) handleGraph(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	resp := graphResponse{Status: s.doc.Status(), Graph: s.doc.Snapshot()}
	s.mu.Unlock()
	s.respondJSON(w, http.StatusOK, resp)
}

// handleEvents accepts a single event object or an array of events. Events
// are applied in order under one lock.
func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		s.respondError(w, errs.Wrap(errs.ErrCodeInvalidInput, err, "read request body"))
		return
	}
	reqs, err := parseEvents(body)
	if err != nil {
		s.respondError(w, err)
		return
	}
	events := make([]editor.Event, len(reqs))
	for i, req := range reqs {
		if events[i], err = req.event(); err != nil {
			s.respondError(w, err)
			return
		}
	}

	s.mu.Lock()
	resp := eventsResponse{Results: make([]resultResponse, 0, len(events))}
	for _, ev := range events {
		resp.Results = append(resp.Results, toResult(s.doc.HandleEvent(r.Context(), ev)))
	}
	resp.Status = s.doc.Status()
	s.mu.Unlock()

	s.respondJSON(w, http.StatusOK, resp)
}

func parseEvents(body []byte) ([]eventRequest, error) {
	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		return nil, errs.New(errs.ErrCodeInvalidInput, "request body is empty")
	}
	var reqs []eventRequest
	var err error
	if body[0] == '[' {
		err = json.Unmarshal(body, &reqs)
	} else {
		var one eventRequest
		err = json.Unmarshal(body, &one)
		reqs = []eventRequest{one}
	}
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeInvalidInput, err, "malformed events")
	}
	return reqs, nil
}

func (s *Server) handlePen(w http.ResponseWriter, r *http.Request) {
	var req penRequest
	if err := decode(r, &req); err != nil {
		s.respondError(w, err)
		return
	}
	s.mu.Lock()
	err := s.doc.SetPenColorName(req.Color)
	st := s.doc.Status()
	s.mu.Unlock()
	if err != nil {
		s.respondError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, st)
}

func (s *Server) handleNew(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkDiscard(r); err != nil {
		s.respondError(w, err)
		return
	}
	s.doc.Reset(r.Context())
	s.respondJSON(w, http.StatusOK, s.doc.Status())
}

func (s *Server) handleOpen(w http.ResponseWriter, r *http.Request) {
	var req pathRequest
	if err := decode(r, &req); err != nil {
		s.respondError(w, err)
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkDiscard(r); err != nil {
		s.respondError(w, err)
		return
	}
	if err := s.doc.Open(r.Context(), req.Path); err != nil {
		s.respondError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, graphResponse{Status: s.doc.Status(), Graph: s.doc.Snapshot()})
}

// handleSave writes to the current target, or to "path" when the body
// names one.
func (s *Server) handleSave(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		s.respondError(w, errs.Wrap(errs.ErrCodeInvalidInput, err, "read request body"))
		return
	}
	var req pathRequest
	if len(bytes.TrimSpace(body)) > 0 {
		if err := json.Unmarshal(body, &req); err != nil {
			s.respondError(w, errs.Wrap(errs.ErrCodeInvalidInput, err, "malformed request body"))
			return
		}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if req.Path != "" {
		err = s.doc.SaveAs(r.Context(), req.Path)
	} else {
		err = s.doc.Save(r.Context())
	}
	if err != nil {
		s.respondError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, s.doc.Status())
}

func (s *Server) handleDeleteNode(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil || id <= 0 {
		s.respondError(w, errs.New(errs.ErrCodeInvalidInput, "bad node id %q", chi.URLParam(r, "id")))
		return
	}
	s.mu.Lock()
	res, err := s.doc.DeleteNode(r.Context(), graph.NodeID(id))
	s.mu.Unlock()
	if err != nil {
		s.respondError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, toResult(res))
}

// handleRender exports the current graph. Query parameters: labels (bool,
// default true), scale and padding (PNG only).
func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	f, err := render.ParseFormat(chi.URLParam(r, "format"))
	if err != nil {
		s.respondError(w, errs.Wrap(errs.ErrCodeUnsupported, err, "render"))
		return
	}
	opts, err := renderOptions(r)
	if err != nil {
		s.respondError(w, err)
		return
	}

	s.mu.Lock()
	g, err := graph.FromSnapshot(s.doc.Snapshot())
	s.mu.Unlock()
	if err != nil {
		s.respondError(w, errs.Wrap(errs.ErrCodeInternal, err, "copy graph"))
		return
	}

	out, err := render.Render(r.Context(), g, f, opts)
	if errors.Is(err, raster.ErrTooLarge) {
		s.respondError(w, errs.Wrap(errs.ErrCodeInvalidInput, err, "render %s", f))
		return
	}
	if err != nil {
		s.respondError(w, errs.Wrap(errs.ErrCodeInternal, err, "render %s", f))
		return
	}
	w.Header().Set("Content-Type", render.ContentType(f))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(out); err != nil {
		s.logger.Debug("write render", "error", err)
	}
}

func renderOptions(r *http.Request) (render.Options, error) {
	q := r.URL.Query()
	opts := render.DefaultOptions()
	if v := q.Get("labels"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return opts, errs.New(errs.ErrCodeInvalidInput, "bad labels value %q", v)
		}
		opts.Labels = b
	}
	for name, dst := range map[string]*float64{"scale": &opts.Scale, "padding": &opts.Padding} {
		v := q.Get(name)
		if v == "" {
			continue
		}
		f, err := strconv.ParseFloat(v, 64)
		if err != nil || f < 0 {
			return opts, errs.New(errs.ErrCodeInvalidInput, "bad %s value %q", name, v)
		}
		*dst = f
	}
	if err := opts.Validate(); err != nil {
		return opts, errs.Wrap(errs.ErrCodeInvalidInput, err, "render options")
	}
	return opts, nil
}

// checkDiscard refuses to drop unsaved changes unless forced.
// The caller holds s.mu.
func (s *Server) checkDiscard(r *http.Request) error {
	if !s.doc.Dirty() || s.opts.AllowOverwrite {
		return nil
	}
	if force, _ := strconv.ParseBool(r.URL.Query().Get("force")); force {
		return nil
	}
	return errs.New(errs.ErrCodeUnsaved, "document has unsaved changes (retry with ?force=true)")
}
