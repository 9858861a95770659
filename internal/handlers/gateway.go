package handlers

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"log"
	"net"
	"net/http"
	"unicode/utf8"

	"github.com/aws/aws-lambda-go/events"
	"github.com/google/uuid"
)

// ProxyFunc is a Lambda handler for API Gateway proxy events.
type ProxyFunc func(context.Context, events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error)

// Gateway serves a ProxyFunc over HTTP the way an API Gateway proxy
// integration invokes it. A handler error becomes a 502, as it would behind
// API Gateway.
type Gateway struct {
	Handler ProxyFunc
}

func (g *Gateway) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	req, err := proxyRequest(r)
	if err != nil {
		httpError(w, http.StatusBadRequest, "read body: %s", err)
		return
	}

	resp, err := g.Handler(r.Context(), req)
	if err != nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadGateway)
		io.WriteString(w, `{"message": "Internal server error"}`)
		return
	}

	body := []byte(resp.Body)
	if resp.IsBase64Encoded {
		if body, err = base64.StdEncoding.DecodeString(resp.Body); err != nil {
			httpError(w, http.StatusBadGateway, "decode response body: %s", err)
			return
		}
	}

	for k, vs := range resp.MultiValueHeaders {
		for _, v := range vs {
			w.Header().Add(k, v)
		}
	}
	for k, v := range resp.Headers {
		w.Header().Set(k, v)
	}

	status := resp.StatusCode
	if status == 0 {
		status = http.StatusOK
	}
	w.WriteHeader(status)
	if _, err := w.Write(body); err != nil {
		log.Printf("error writing response for %s: %s", req.RequestContext.RequestID, err)
	}
}

func proxyRequest(r *http.Request) (events.APIGatewayProxyRequest, error) {
	data, err := io.ReadAll(r.Body)
	if err != nil {
		return events.APIGatewayProxyRequest{}, err
	}

	req := events.APIGatewayProxyRequest{
		Path:                            r.URL.Path,
		HTTPMethod:                      r.Method,
		Headers:                         map[string]string{},
		MultiValueHeaders:               map[string][]string(r.Header.Clone()),
		QueryStringParameters:           map[string]string{},
		MultiValueQueryStringParameters: map[string][]string(r.URL.Query()),
		RequestContext: events.APIGatewayProxyRequestContext{
			RequestID:  uuid.NewString(),
			HTTPMethod: r.Method,
			Path:       r.URL.Path,
			Identity: events.APIGatewayRequestIdentity{
				SourceIP:  sourceIP(r.RemoteAddr),
				UserAgent: r.UserAgent(),
			},
		},
	}
	for k := range r.Header {
		req.Headers[k] = r.Header.Get(k)
	}
	for k, vs := range req.MultiValueQueryStringParameters {
		req.QueryStringParameters[k] = vs[0]
	}

	if utf8.Valid(data) {
		req.Body = string(data)
	} else {
		req.Body = base64.StdEncoding.EncodeToString(data)
		req.IsBase64Encoded = true
	}

	return req, nil
}

func sourceIP(remoteAddr string) string {
	host, _, err := net.SplitHostPort(remoteAddr)
	if err != nil {
		return remoteAddr
	}
	return host
}

func httpError(w http.ResponseWriter, code int, format string, a ...any) {
	str := fmt.Sprintf(format, a...)
	http.Error(w, str, code)
	log.Printf("returning error: %s", str)
}
