package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/matzehuels/graphpad/pkg/editor"
	errs "github.com/matzehuels/graphpad/pkg/errors"
	"github.com/matzehuels/graphpad/pkg/graph"
)

type errorBody struct {
	Error string    `json:"error"`
	Code  errs.Code `json:"code,omitempty"`
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("encode response", "error", err)
	}
}

func (s *Server) respondError(w http.ResponseWriter, err error) {
	status := errs.HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "error", err)
	}
	s.respondJSON(w, status, errorBody{Error: errs.UserMessage(err), Code: errs.GetCode(err)})
}

// decode reads a JSON body into v, rejecting unknown fields.
func decode(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return errs.New(errs.ErrCodeInvalidInput, "request body is empty")
		}
		return errs.Wrap(errs.ErrCodeInvalidInput, err, "malformed request body")
	}
	return nil
}

// eventRequest is the wire form of one pointer event.
type eventRequest struct {
	Kind string  `json:"kind"`
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
}

func (e eventRequest) event() (editor.Event, error) {
	k, err := editor.ParseEventKind(e.Kind)
	if err != nil {
		return editor.Event{}, errs.Wrap(errs.ErrCodeInvalidInput, err, "bad event")
	}
	return editor.Event{Kind: k, Pos: graph.Point{X: e.X, Y: e.Y}}, nil
}

type edgeResponse struct {
	From  graph.NodeID `json:"from"`
	To    graph.NodeID `json:"to"`
	Color graph.Color  `json:"color"`
}

// resultResponse is the wire form of [editor.Result].
type resultResponse struct {
	Action  string        `json:"action"`
	Node    graph.NodeID  `json:"node,omitempty"`
	Edge    *edgeResponse `json:"edge,omitempty"`
	State   string        `json:"state"`
	Mutated bool          `json:"mutated"`
}

func toResult(res editor.Result) resultResponse {
	out := resultResponse{
		Action:  res.Action.String(),
		Node:    res.Node,
		State:   res.State.String(),
		Mutated: res.Mutated,
	}
	if res.Action == editor.ActionEdgeCreated || res.Action == editor.ActionEdgeRejected {
		out.Edge = &edgeResponse{From: res.Edge.From, To: res.Edge.To, Color: res.Edge.Color}
	}
	return out
}
