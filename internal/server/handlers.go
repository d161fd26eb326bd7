package server

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/arcforge/pkg/buildinfo"
	"github.com/matzehuels/arcforge/pkg/dataset"
	"github.com/matzehuels/arcforge/pkg/errors"
	"github.com/matzehuels/arcforge/pkg/pipeline"
)

// contentTypes maps artifact formats to response content types.
var contentTypes = map[string]string{
	pipeline.FormatJSON: "application/json",
	pipeline.FormatSVG:  "image/svg+xml",
	pipeline.FormatDOT:  "text/vnd.graphviz; charset=utf-8",
	pipeline.FormatPNG:  "image/png",
}

// =============================================================================
// Response Types
// =============================================================================

type errorBody struct {
	Code        string   `json:"code"`
	Message     string   `json:"message"`
	Suggestions []string `json:"suggestions,omitempty"`
}

type errorResponse struct {
	Error errorBody `json:"error"`
}

type itemsResponse struct {
	Items []dataset.Item `json:"items"`
	Count int            `json:"count"`
}

type itemResponse struct {
	Item   dataset.Item `json:"item"`
	UsedIn []string     `json:"used_in"`
}

// =============================================================================
// Handlers
// =============================================================================

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status": "ok",
		"items":  s.catalog.Len(),
		"build":  buildinfo.Current(),
	})
}

func (s *Server) handleListItems(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	items := s.catalog.Find(dataset.Filter{Kind: q.Get("kind"), Query: q.Get("q")})
	if items == nil {
		items = []dataset.Item{}
	}
	writeJSON(w, http.StatusOK, itemsResponse{Items: items, Count: len(items)})
}

func (s *Server) handleGetItem(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	it, ok := s.catalog.Get(id)
	if !ok {
		s.writeError(w, r, errors.Wrap(errors.ErrCodeNotFound, &errors.UnknownItemError{
			ID:          id,
			Suggestions: s.catalog.Suggest(id, dataset.DefaultSuggestions),
		}, "no item %q", id))
		return
	}

	usedIn := []string{}
	for _, c := range s.catalog.Consumers(id) {
		usedIn = append(usedIn, c.Item.ID)
	}
	writeJSON(w, http.StatusOK, itemResponse{Item: it, UsedIn: usedIn})
}

// handleTree renders the graph around {id}. A format extension on the id
// selects the artifact; the bare id returns the scene JSON.
func (s *Server) handleTree(w http.ResponseWriter, r *http.Request) {
	focal, format := splitFormat(chi.URLParam(r, "id"))
	q := r.URL.Query()

	result, err := s.runner.Execute(r.Context(), pipeline.Options{
		Focal:      focal,
		Selected:   q.Get("selected"),
		Formats:    []string{format},
		EdgeLabels: queryBool(q.Get("labels")),
		ShowGaps:   queryBool(q.Get("gaps")),
		Logger:     s.logger,
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", contentTypes[format])
	w.Header().Set("ETag", `"`+result.SceneHash+`"`)
	if result.CacheInfo.RenderHit {
		w.Header().Set("X-Cache", "hit")
	} else {
		w.Header().Set("X-Cache", "miss")
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(result.Artifacts[format])
}

// =============================================================================
// Helpers
// =============================================================================

// splitFormat separates a trailing ".svg"-style extension from id.
// Unrecognized extensions stay part of the id.
func splitFormat(id string) (focal, format string) {
	if i := strings.LastIndexByte(id, '.'); i > 0 {
		if ext := id[i+1:]; pipeline.ValidateFormat(ext) == nil {
			return id[:i], ext
		}
	}
	return id, pipeline.FormatJSON
}

func queryBool(v string) bool {
	switch strings.ToLower(v) {
	case "1", "true", "yes", "on":
		return true
	}
	return false
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := errors.HTTPStatus(err)
	body := errorBody{Code: string(errors.GetCode(err)), Message: errors.UserMessage(err)}
	if body.Code == "" {
		body.Code = string(errors.ErrCodeInternal)
	}
	var unknown *errors.UnknownItemError
	if errors.As(err, &unknown) {
		body.Message = unknown.Error()
		body.Suggestions = unknown.Suggestions
	}
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "path", r.URL.Path, "error", err)
		if status == http.StatusInternalServerError {
			body.Message = "internal error"
		}
	}
	writeJSON(w, status, errorResponse{Error: body})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
