package handler

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
)

// recordingBackend captures every call the gateway makes, in order.
type recordingBackend struct {
	mu    sync.Mutex
	calls []backendCall
	// failAt makes the n-th answer submission fail (0-based, -1 disables).
	failAt int
}

type backendCall struct {
	method string
	path   string
	body   map[string]any
}

func newRecordingBackend() *recordingBackend {
	return &recordingBackend{failAt: -1}
}

func (b *recordingBackend) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()

	var body map[string]any
	if raw, err := io.ReadAll(r.Body); err == nil && len(raw) > 0 {
		_ = json.Unmarshal(raw, &body)
	}
	b.calls = append(b.calls, backendCall{method: r.Method, path: r.URL.Path, body: body})

	if strings.HasSuffix(r.URL.Path, "/answer") {
		answerIndex := 0
		for _, c := range b.calls[:len(b.calls)-1] {
			if strings.HasSuffix(c.path, "/answer") {
				answerIndex++
			}
		}
		if answerIndex == b.failAt {
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte(`{"error":"question already answered"}`))
			return
		}
	}

	w.Header().Set("Content-Type", "application/json")
	if strings.HasSuffix(r.URL.Path, "/end") {
		w.Write([]byte(`{"score_total":null,"status":"ended"}`))
		return
	}
	w.Write([]byte(`{"message":"ok"}`))
}

func (b *recordingBackend) recorded() []backendCall {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]backendCall(nil), b.calls...)
}

func submitInterview(t *testing.T, h *Handler, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/submit-interview", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	newRouter(h).ServeHTTP(w, req)
	return w
}

func TestSubmitInterviewSequentialOrder(t *testing.T) {
	backend := newRecordingBackend()
	h := newTestHandler(t, backend)

	w := submitInterview(t, h, `{
		"student_session_id": 9,
		"answers": [
			{"question_id": 1, "answer": "a"},
			{"question_id": 2, "answer": "b"}
		]
	}`)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}

	calls := backend.recorded()
	if len(calls) != 3 {
		t.Fatalf("expected 3 backend calls, got %d: %+v", len(calls), calls)
	}
	for i, want := range []float64{1, 2} {
		if calls[i].path != "/api/student-sessions/9/answer" {
			t.Errorf("call %d path = %q", i, calls[i].path)
		}
		if calls[i].body["question_id"] != want {
			t.Errorf("call %d question_id = %v, want %v", i, calls[i].body["question_id"], want)
		}
	}
	if calls[2].path != "/api/student-sessions/9/end" || calls[2].method != http.MethodPost {
		t.Errorf("final call = %s %s, want POST /end", calls[2].method, calls[2].path)
	}

	var resp map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp["queued"] != false || resp["completed"] != true {
		t.Errorf("legacy flow flags wrong: %v", resp)
	}
	if resp["log_file"] != "9" || resp["student_session_id"] != "9" {
		t.Errorf("id echoes wrong: %v", resp)
	}
	if resp["status"] != "ended" {
		t.Error("end-session response not merged into envelope")
	}
}

func TestSubmitInterviewShortCircuitsOnFailure(t *testing.T) {
	backend := newRecordingBackend()
	backend.failAt = 0
	h := newTestHandler(t, backend)

	w := submitInterview(t, h, `{
		"student_session_id": 9,
		"answers": [
			{"question_id": 1, "answer": "a"},
			{"question_id": 2, "answer": "b"}
		]
	}`)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}

	calls := backend.recorded()
	if len(calls) != 1 {
		t.Fatalf("expected exactly 1 backend call, got %d: %+v", len(calls), calls)
	}

	var resp map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	msg, _ := resp["error"].(string)
	if !strings.HasPrefix(msg, "Failed to submit answer:") {
		t.Errorf("error = %q", msg)
	}
}

func TestSubmitInterviewLegacyAnswerKeys(t *testing.T) {
	backend := newRecordingBackend()
	h := newTestHandler(t, backend)

	w := submitInterview(t, h, `{
		"student_session_id": "9",
		"answers": [{"id": 4, "response": "legacy shape"}]
	}`)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	calls := backend.recorded()
	if calls[0].body["question_id"] != float64(4) {
		t.Errorf("question_id = %v, want 4", calls[0].body["question_id"])
	}
	if calls[0].body["answer"] != "legacy shape" {
		t.Errorf("answer = %v", calls[0].body["answer"])
	}
}

func TestSubmitInterviewNoAnswersStillEnds(t *testing.T) {
	backend := newRecordingBackend()
	h := newTestHandler(t, backend)

	w := submitInterview(t, h, `{"student_session_id": 9}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	calls := backend.recorded()
	if len(calls) != 1 || !strings.HasSuffix(calls[0].path, "/end") {
		t.Errorf("expected a single end call, got %+v", calls)
	}
}

func TestSubmitInterviewMissingID(t *testing.T) {
	backend := newRecordingBackend()
	h := newTestHandler(t, backend)

	w := submitInterview(t, h, `{"answers": []}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
	if !strings.Contains(w.Body.String(), "student_session_id is required") {
		t.Errorf("body = %s", w.Body.String())
	}
	if len(backend.recorded()) != 0 {
		t.Error("validation failure must not reach the backend")
	}
}
