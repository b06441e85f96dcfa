package mockbackend

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/jainpranitx-spec/DevBrain/internal/remote"
)

func do(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode %q: %v", w.Body.String(), err)
	}
	return out
}

func seedProject(t *testing.T, h http.Handler) string {
	t.Helper()
	w := do(t, h, http.MethodPost, "/api/projects/", map[string]string{"name": "P"})
	if w.Code != http.StatusCreated {
		t.Fatalf("create project status = %d, body %s", w.Code, w.Body)
	}
	return decode[remote.ProjectJSON](t, w).ID
}

func TestHealth(t *testing.T) {
	h := New(nil).Handler()
	for _, method := range []string{http.MethodHead, http.MethodGet} {
		if w := do(t, h, method, "/admin/", nil); w.Code != http.StatusOK {
			t.Errorf("%s /admin/ status = %d, want 200", method, w.Code)
		}
	}
}

func TestCreateNode_Validation(t *testing.T) {
	h := New(nil).Handler()
	pid := seedProject(t, h)

	tests := []struct {
		name string
		body map[string]any
		code int
		msg  string
	}{
		{"unknown project", map[string]any{"project": "nope", "label": "A"}, http.StatusNotFound, ""},
		{"empty label", map[string]any{"project": pid, "label": "  "}, http.StatusBadRequest, "label is required"},
		{"invalid status", map[string]any{"project": pid, "label": "A", "status": "done"}, http.StatusBadRequest, "Invalid status"},
		{"unknown parent", map[string]any{"project": pid, "label": "A", "parent_id": "ghost"}, http.StatusBadRequest, "parent ghost not found"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(t, h, http.MethodPost, "/api/nodes/", tt.body)
			if w.Code != tt.code {
				t.Fatalf("status = %d, want %d (body %s)", w.Code, tt.code, w.Body)
			}
			if tt.msg != "" {
				got := decode[map[string]string](t, w)["error"]
				if got != tt.msg {
					t.Errorf("error = %q, want %q", got, tt.msg)
				}
			}
		})
	}
}

func TestUpdateNode_Patch(t *testing.T) {
	h := New(nil).Handler()
	pid := seedProject(t, h)
	a := decode[remote.NodeJSON](t, do(t, h, http.MethodPost, "/api/nodes/", map[string]any{"project": pid, "label": "A"}))
	b := decode[remote.NodeJSON](t, do(t, h, http.MethodPost, "/api/nodes/", map[string]any{"project": pid, "label": "B", "owner": "You"}))

	w := do(t, h, http.MethodPatch, "/api/nodes/"+b.ID.String()+"/", map[string]any{
		"parentId":   a.ID.String(),
		"position":   map[string]float64{"x": 3, "y": 4},
		"position_y": 9,
		"owner":      nil,
	})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body)
	}
	got := decode[remote.NodeJSON](t, w)
	if got.ParentID == nil || *got.ParentID != a.ID {
		t.Errorf("ParentID = %v, want %v", got.ParentID, a.ID)
	}
	if got.Position.X != 3 {
		t.Errorf("Position.X = %v, want 3", got.Position.X)
	}
	if got.Owner != nil {
		t.Errorf("Owner = %q, want nil", *got.Owner)
	}

	if w := do(t, h, http.MethodPatch, "/api/nodes/"+b.ID.String()+"/", map[string]any{"parent_id": b.ID.String()}); w.Code != http.StatusBadRequest {
		t.Errorf("self parent status = %d, want 400", w.Code)
	}
	if w := do(t, h, http.MethodPatch, "/api/nodes/"+b.ID.String()+"/", map[string]any{"parent_id": nil}); w.Code != http.StatusOK {
		t.Errorf("detach status = %d, want 200", w.Code)
	} else if decode[remote.NodeJSON](t, w).ParentID != nil {
		t.Error("parent_id null should detach")
	}
	if w := do(t, h, http.MethodPatch, "/api/nodes/missing/", map[string]any{"label": "x"}); w.Code != http.StatusNotFound {
		t.Errorf("missing node status = %d, want 404", w.Code)
	}
}

func TestChat_Validation(t *testing.T) {
	h := New(nil).Handler()
	pid := seedProject(t, h)
	n := decode[remote.NodeJSON](t, do(t, h, http.MethodPost, "/api/nodes/", map[string]any{"project": pid, "label": "A"}))

	if w := do(t, h, http.MethodPost, "/api/chat/node/missing/", map[string]string{"message": "hi"}); w.Code != http.StatusNotFound {
		t.Errorf("unknown node status = %d, want 404", w.Code)
	}
	w := do(t, h, http.MethodPost, "/api/chat/node/"+n.ID.String()+"/", map[string]string{"message": ""})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("empty message status = %d, want 400", w.Code)
	}
	if got := decode[map[string]string](t, w)["error"]; got != "Message required" {
		t.Errorf("error = %q, want Message required", got)
	}
}

func TestSearch_RequiresQueryAndProject(t *testing.T) {
	h := New(nil).Handler()
	for _, path := range []string{"/api/knowledge/search/", "/api/knowledge/search/?q=x", "/api/knowledge/search/?project=p"} {
		w := do(t, h, http.MethodGet, path, nil)
		if w.Code != http.StatusBadRequest {
			t.Errorf("GET %s status = %d, want 400", path, w.Code)
		}
	}
}

func TestDeleteProject_Cascades(t *testing.T) {
	s := New(nil)
	h := s.Handler()
	keep := seedProject(t, h)
	drop := seedProject(t, h)
	do(t, h, http.MethodPost, "/api/nodes/", map[string]any{"project": keep, "label": "K"})
	do(t, h, http.MethodPost, "/api/nodes/", map[string]any{"project": drop, "label": "D"})

	if w := do(t, h, http.MethodDelete, "/api/projects/"+drop+"/", nil); w.Code != http.StatusNoContent {
		t.Fatalf("delete status = %d, want 204", w.Code)
	}
	if w := do(t, h, http.MethodGet, "/api/projects/"+drop+"/", nil); w.Code != http.StatusNotFound {
		t.Errorf("get deleted project status = %d, want 404", w.Code)
	}
	nodes := decode[[]remote.NodeJSON](t, do(t, h, http.MethodGet, "/api/nodes/", nil))
	if len(nodes) != 1 || nodes[0].Label != "K" {
		t.Errorf("nodes = %+v, want only K", nodes)
	}
}

func TestExtractText(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"notes.md", "body"},
		{"notes.TXT", "body"},
		{"roadmap.pdf", "[PDF content extraction is not supported]"},
		{"roadmap.docx", "[DOCX content extraction is not supported]"},
		{"image.png", "[Unsupported file type]"},
	}
	for _, tt := range tests {
		if got := extractText(tt.name, []byte("body")); got != tt.want {
			t.Errorf("extractText(%q) = %q, want %q", tt.name, got, tt.want)
		}
	}
}

func TestPreview(t *testing.T) {
	long := bytes.Repeat([]byte("é"), previewRunes+10)
	if got := []rune(preview(string(long))); len(got) != previewRunes {
		t.Errorf("preview length = %d runes, want %d", len(got), previewRunes)
	}
	if got := preview("short"); got != "short" {
		t.Errorf("preview = %q, want short", got)
	}
}
