package handler

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/tasklist/tasklist-api/internal/api/middleware"
	"github.com/tasklist/tasklist-api/internal/core/domain"
)

type request struct {
	method   string
	target   string
	body     string
	bodyRaw  io.Reader
	ctype    string
	id       string
	identity *domain.Identity
}

func newContext(r request) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	e.Validator = NewValidator()

	var body io.Reader = bytes.NewBufferString(r.body)
	if r.bodyRaw != nil {
		body = r.bodyRaw
	}
	req := httptest.NewRequest(r.method, r.target, body)
	ctype := r.ctype
	if ctype == "" {
		ctype = echo.MIMEApplicationJSON
	}
	req.Header.Set(echo.HeaderContentType, ctype)

	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if r.id != "" {
		c.SetParamNames("id")
		c.SetParamValues(r.id)
	}
	if r.identity != nil {
		c.Set(middleware.IdentityKey, r.identity)
	}
	return c, rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(rec.Body.Bytes(), &v); err != nil {
		t.Fatalf("invalid json %q: %v", rec.Body.String(), err)
	}
	return v
}

func httpStatus(t *testing.T, err error) int {
	t.Helper()
	he, ok := err.(*echo.HTTPError)
	if !ok {
		t.Fatalf("expected *echo.HTTPError, got %T (%v)", err, err)
	}
	return he.Code
}
