package httpx

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/gamja-farmer/saju-frame/internal/platform/requestctx"
)

func TestWriteErrorEnvelope(t *testing.T) {
	ctx := context.WithValue(context.Background(), middleware.RequestIDKey, "req-1")
	ctx = requestctx.WithTrace(ctx, requestctx.TraceInfo{TraceID: "trace-1"})

	rec := httptest.NewRecorder()
	WriteError(ctx, rec, NotFound("unknown type\nslug").WithDetails(map[string]any{
		"field":  "type",
		"status": 999,
	}))

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "application/json") {
		t.Fatalf("unexpected content type %q", ct)
	}

	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["error"] != "not_found" {
		t.Errorf("unexpected code %v", body["error"])
	}
	if body["message"] != "unknown type slug" {
		t.Errorf("expected newline to be stripped, got %q", body["message"])
	}
	if body["status"] != float64(http.StatusNotFound) {
		t.Errorf("details must not override status, got %v", body["status"])
	}
	if body["request_id"] != "req-1" || body["trace_id"] != "trace-1" {
		t.Errorf("missing correlation ids: %v", body)
	}
	if body["field"] != "type" {
		t.Errorf("expected detail field, got %v", body["field"])
	}
}

func TestNewErrorDefaultsTo500(t *testing.T) {
	if got := NewError("x", "y", 0).Status; got != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", got)
	}
}

func TestDecodeJSON(t *testing.T) {
	type payload struct {
		Year int `json:"year"`
	}
	cases := []struct {
		name    string
		body    string
		wantErr bool
	}{
		{name: "valid", body: `{"year":1990}`},
		{name: "empty", body: ``, wantErr: true},
		{name: "unknown field", body: `{"year":1990,"zodiac":"horse"}`, wantErr: true},
		{name: "trailing object", body: `{"year":1990}{"year":1991}`, wantErr: true},
		{name: "malformed", body: `{"year":`, wantErr: true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tc.body))
			var dst payload
			err := DecodeJSON(req, &dst)
			if tc.wantErr && err == nil {
				t.Fatalf("expected error")
			}
			if !tc.wantErr && (err != nil || dst.Year != 1990) {
				t.Fatalf("unexpected result %+v err=%v", dst, err)
			}
		})
	}
}
