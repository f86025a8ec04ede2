package response

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestOKEnvelope(t *testing.T) {
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)

	OK(c, "ok", gin.H{"value": 1})

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200 got %d", rec.Code)
	}

	var body Response
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal body: %v", err)
	}
	if !body.Success {
		t.Fatal("expected success true")
	}
	if body.StatusCode != http.StatusOK {
		t.Fatalf("expected status_code 200 got %d", body.StatusCode)
	}
	if body.Message != "ok" {
		t.Fatalf("unexpected message %q", body.Message)
	}
	if body.Data == nil {
		t.Fatal("expected data in envelope")
	}
}

func TestCreatedEnvelope(t *testing.T) {
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)

	Created(c, "created", nil)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected status 201 got %d", rec.Code)
	}
}

func TestFailEnvelopes(t *testing.T) {
	cases := []struct {
		name string
		fn   func(*gin.Context, string)
		code int
	}{
		{"bad request", BadRequest, http.StatusBadRequest},
		{"unauthorized", Unauthorized, http.StatusUnauthorized},
		{"forbidden", Forbidden, http.StatusForbidden},
		{"not found", NotFound, http.StatusNotFound},
		{"conflict", Conflict, http.StatusConflict},
		{"internal", InternalError, http.StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(rec)

			tc.fn(c, "boom")

			if rec.Code != tc.code {
				t.Fatalf("expected status %d got %d", tc.code, rec.Code)
			}

			var body Response
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
				t.Fatalf("unmarshal body: %v", err)
			}
			if body.Success {
				t.Fatal("expected success false")
			}
			if body.StatusCode != tc.code {
				t.Fatalf("expected status_code %d got %d", tc.code, body.StatusCode)
			}
			if body.Message != "boom" {
				t.Fatalf("unexpected message %q", body.Message)
			}
		})
	}
}
