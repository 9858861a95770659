package handlers

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	stdlog "log"
	"log/slog"
	"net/http"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambdacontext"
	"github.com/dannyrandall/movies-function/internal/logging"
	"github.com/dannyrandall/movies-function/internal/movies"
	"github.com/dannyrandall/movies-function/internal/otel"
	otelotel "go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const successBody = `{"message": "Successfully inserted data!"}`

var movieIDKey = attribute.Key("movie.id")

// Movie handles API Gateway proxy events by writing one movie to Table.
type Movie struct {
	Table *movies.Table
	Log   *slog.Logger

	// Tracer starts a span per invocation. Defaults to the global tracer.
	Tracer trace.Tracer

	// Flush, if set, runs after every Invoke.
	Flush func(context.Context) error
}

// Identity is the caller identity reported by the gateway. A nil field was
// absent from the event.
type Identity struct {
	SourceIP  *string `json:"sourceIp"`
	UserAgent *string `json:"userAgent"`
}

// Invoke implements lambda.Handler. The identity is read from the raw event
// so an empty sourceIp or userAgent is logged as "" and an absent one as null.
func (m *Movie) Invoke(ctx context.Context, payload []byte) ([]byte, error) {
	if m.Flush != nil {
		defer func() {
			if err := m.Flush(ctx); err != nil {
				stdlog.Printf("error flushing spans: %s", err)
			}
		}()
	}

	var req events.APIGatewayProxyRequest
	if err := json.Unmarshal(payload, &req); err != nil {
		return nil, fmt.Errorf("decode event: %w", err)
	}

	var raw struct {
		RequestContext struct {
			Identity Identity `json:"identity"`
		} `json:"requestContext"`
	}
	if err := json.Unmarshal(payload, &raw); err != nil {
		return nil, fmt.Errorf("decode event identity: %w", err)
	}

	resp, err := m.handle(ctx, req, raw.RequestContext.Identity)
	if err != nil {
		return nil, err
	}
	return json.Marshal(resp)
}

// Handle logs the access, inserts the movie and returns a 200 response. Any
// failure is logged once and returned to the runtime unchanged. Empty
// identity fields are treated as absent.
func (m *Movie) Handle(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	identity := req.RequestContext.Identity
	return m.handle(ctx, req, Identity{
		SourceIP:  nonEmpty(identity.SourceIP),
		UserAgent: nonEmpty(identity.UserAgent),
	})
}

func (m *Movie) handle(ctx context.Context, req events.APIGatewayProxyRequest, identity Identity) (events.APIGatewayProxyResponse, error) {
	ctx, span := m.tracer().Start(otel.LambdaParent(ctx), "InsertMovie", trace.WithSpanKind(trace.SpanKindServer))
	defer span.End()

	log := logging.ForRequest(m.Log, requestID(ctx, req), otel.XRayTraceID(span))
	log.TableAccess(ctx, m.Table.Name, identity.SourceIP, identity.UserAgent)

	if err := m.insert(ctx, log, req); err != nil {
		log.Error(ctx, movies.ErrorKind(err), err)
		span.SetStatus(codes.Error, err.Error())
		return events.APIGatewayProxyResponse{}, err
	}

	return events.APIGatewayProxyResponse{
		StatusCode: http.StatusOK,
		Headers: map[string]string{
			"Content-Type": "application/json",
		},
		Body: successBody,
	}, nil
}

func (m *Movie) insert(ctx context.Context, log *logging.Request, req events.APIGatewayProxyRequest) error {
	body := []byte(req.Body)
	if req.IsBase64Encoded && req.Body != "" {
		decoded, err := base64.StdEncoding.DecodeString(req.Body)
		if err != nil {
			return fmt.Errorf("%w: decode base64 body: %w", movies.ErrMalformedBody, err)
		}
		body = decoded
	}

	movie, err := m.Table.Insert(ctx, log, body)
	if err != nil {
		return err
	}

	trace.SpanFromContext(ctx).AddEvent("inserted", trace.WithAttributes(movieIDKey.String(movie.ID)))
	return nil
}

func (m *Movie) tracer() trace.Tracer {
	if m.Tracer != nil {
		return m.Tracer
	}
	return otelotel.Tracer("github.com/dannyrandall/movies-function/internal/handlers")
}

func nonEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// requestID prefers the Lambda invocation id and falls back to the
// gateway's id when there is no Lambda context.
func requestID(ctx context.Context, req events.APIGatewayProxyRequest) string {
	if lc, ok := lambdacontext.FromContext(ctx); ok && lc.AwsRequestID != "" {
		return lc.AwsRequestID
	}
	return req.RequestContext.RequestID
}
