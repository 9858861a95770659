package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/dannyrandall/movies-function/internal/copilot"
	"github.com/dannyrandall/movies-function/internal/handlers"
	"github.com/dannyrandall/movies-function/internal/logging"
	"github.com/dannyrandall/movies-function/internal/movies"
	"github.com/dannyrandall/movies-function/internal/otel"
	"go.opentelemetry.io/contrib/instrumentation/github.com/aws/aws-sdk-go-v2/otelaws"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// movies-local serves the insert function over plain HTTP, standing in for
// API Gateway during development.
func main() {
	moviesTable, ok := os.LookupEnv("TABLE_NAME")
	if !ok || moviesTable == "" {
		log.Fatalf("TABLE_NAME is not set")
	}
	log.Printf("Using %q as the movies table", moviesTable)

	port, ok := os.LookupEnv("PORT")
	if !ok {
		port = "8080"
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()

	if otel.Enabled() {
		tp, err := otel.SetupTracer(ctx, copilot.ServiceName("movies-local"))
		if err != nil {
			log.Fatalf("unable to setup otel tracer: %s", err)
		}
		defer tp.Shutdown(context.Background())
	}

	cfg, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		log.Fatalf("unable to load aws config: %s", err)
	}

	otelaws.AppendMiddlewares(&cfg.APIOptions)

	h := &handlers.Movie{
		Table: &movies.Table{
			Dynamo: dynamodb.NewFromConfig(cfg),
			Name:   moviesTable,
		},
		Log: logging.New(os.Stdout),
	}

	mux := http.NewServeMux()

	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(200)
	})

	mux.Handle("/movies/api/movie", otelhttp.NewHandler(&handlers.Gateway{Handler: h.Handle}, "movie"))

	log.Printf("Starting server on :%s", port)
	if err := http.ListenAndServe(":"+port, mux); err != nil {
		log.Fatalf("error serving: %s", err)
	}
}
