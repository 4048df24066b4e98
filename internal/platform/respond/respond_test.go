package respond

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"dog-breed-social/internal/platform/validate"
	"dog-breed-social/internal/ports/backend"
)

func TestFromBackend_StatusAndMessage(t *testing.T) {
	cases := []struct {
		name       string
		err        error
		wantStatus int
		wantMsg    string
	}{
		{"conflict surfaces message", backend.Conflict("email already registered"), http.StatusBadRequest, "email already registered"},
		{"unauthorized", backend.Unauthorized("invalid session"), http.StatusUnauthorized, "invalid session"},
		{"not found", backend.NotFound("breed not found"), http.StatusNotFound, "breed not found"},
		{"unavailable hides message", backend.Wrap(backend.KindUnavailable, "upstream said: pg down", errors.New("dial")), http.StatusInternalServerError, "request failed"},
		{"foreign error hides text", errors.New("sql: connection reset"), http.StatusInternalServerError, "request failed"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			FromBackend(rec, tc.err, "request failed")

			if rec.Code != tc.wantStatus {
				t.Fatalf("status = %d, want %d", rec.Code, tc.wantStatus)
			}
			var body ErrorBody
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
				t.Fatalf("invalid json: %v", err)
			}
			if body.Message != tc.wantMsg {
				t.Fatalf("message = %q, want %q", body.Message, tc.wantMsg)
			}
		})
	}
}

func TestData_Envelope(t *testing.T) {
	rec := httptest.NewRecorder()
	Data(rec, http.StatusCreated, "created", map[string]string{"id": "p-1"})

	if rec.Code != http.StatusCreated || rec.Header().Get("Content-Type") != "application/json" {
		t.Fatalf("unexpected status/header: %d %q", rec.Code, rec.Header().Get("Content-Type"))
	}
	var env struct {
		Message string            `json:"message"`
		Data    map[string]string `json:"data"`
	}
	_ = json.Unmarshal(rec.Body.Bytes(), &env)
	if env.Message != "created" || env.Data["id"] != "p-1" {
		t.Fatalf("unexpected envelope: %#v", env)
	}
}

func TestFail_ValidationIsBadRequest(t *testing.T) {
	rec := httptest.NewRecorder()
	Fail(rec, fmt.Errorf("register: %w", validate.New("please provide a valid email address")), "request failed")

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	var body ErrorBody
	_ = json.Unmarshal(rec.Body.Bytes(), &body)
	if body.Message != "please provide a valid email address" {
		t.Fatalf("message = %q", body.Message)
	}
}
