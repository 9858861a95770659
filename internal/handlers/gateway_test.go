package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/aws/aws-lambda-go/events"
)

func TestGatewayForwardsRequest(t *testing.T) {
	var got events.APIGatewayProxyRequest
	gw := &Gateway{Handler: func(_ context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
		got = req
		return events.APIGatewayProxyResponse{
			StatusCode: 200,
			Headers:    map[string]string{"Content-Type": "application/json"},
			Body:       `{"message": "ok"}`,
		}, nil
	}}

	r := httptest.NewRequest(http.MethodPost, "/movies/api/movie?x=1", strings.NewReader(`{"id": "a"}`))
	r.RemoteAddr = "198.51.100.4:51234"
	r.Header.Set("User-Agent", "test-agent")
	w := httptest.NewRecorder()

	gw.ServeHTTP(w, r)

	if w.Code != 200 {
		t.Errorf("got status %d, want 200", w.Code)
	}
	if w.Body.String() != `{"message": "ok"}` {
		t.Errorf("got body %s", w.Body.String())
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("got Content-Type %q", ct)
	}

	if got.Body != `{"id": "a"}` || got.IsBase64Encoded {
		t.Errorf("got body %q (base64 %v)", got.Body, got.IsBase64Encoded)
	}
	if got.HTTPMethod != http.MethodPost || got.Path != "/movies/api/movie" {
		t.Errorf("got %s %s", got.HTTPMethod, got.Path)
	}
	if got.QueryStringParameters["x"] != "1" {
		t.Errorf("got query %v", got.QueryStringParameters)
	}
	id := got.RequestContext.Identity
	if id.SourceIP != "198.51.100.4" || id.UserAgent != "test-agent" {
		t.Errorf("got identity %+v", id)
	}
	if got.RequestContext.RequestID == "" {
		t.Errorf("got empty request id")
	}
}

func TestGatewayBinaryBody(t *testing.T) {
	var got events.APIGatewayProxyRequest
	gw := &Gateway{Handler: func(_ context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
		got = req
		return events.APIGatewayProxyResponse{StatusCode: 200}, nil
	}}

	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader("\xff\xfe"))
	gw.ServeHTTP(httptest.NewRecorder(), r)

	if !got.IsBase64Encoded || got.Body != "//4=" {
		t.Errorf("got body %q (base64 %v), want //4= base64 encoded", got.Body, got.IsBase64Encoded)
	}
}

func TestGatewayHandlerError(t *testing.T) {
	gw := &Gateway{Handler: func(context.Context, events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
		return events.APIGatewayProxyResponse{}, errors.New("boom")
	}}

	w := httptest.NewRecorder()
	gw.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/", nil))

	if w.Code != http.StatusBadGateway {
		t.Errorf("got status %d, want 502", w.Code)
	}
	if w.Body.String() != `{"message": "Internal server error"}` {
		t.Errorf("got body %s", w.Body.String())
	}
}

func TestGatewayWithMovieHandler(t *testing.T) {
	h := newHarness(nil)
	gw := &Gateway{Handler: h.handler.Handle}

	w := httptest.NewRecorder()
	gw.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/movies/api/movie", strings.NewReader(`{"year": 1999, "title": "The Matrix", "id": "abc-123"}`)))

	if w.Code != 200 || w.Body.String() != `{"message": "Successfully inserted data!"}` {
		t.Errorf("got %d %s", w.Code, w.Body.String())
	}
	if len(h.ddb.inputs) != 1 {
		t.Errorf("got %d PutItem calls, want 1", len(h.ddb.inputs))
	}

	w = httptest.NewRecorder()
	gw.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/movies/api/movie", strings.NewReader(`{"year": 1999}`)))
	if w.Code != http.StatusBadGateway {
		t.Errorf("got status %d for a missing field, want 502", w.Code)
	}
}
