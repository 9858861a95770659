package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/aws/aws-lambda-go/lambdacontext"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/dannyrandall/movies-function/internal/handlers"
	"github.com/dannyrandall/movies-function/internal/logging"
	"github.com/dannyrandall/movies-function/internal/movies"
	"github.com/dannyrandall/movies-function/internal/otel"
	"go.opentelemetry.io/contrib/instrumentation/github.com/aws/aws-sdk-go-v2/otelaws"
)

func main() {
	// Get DynamoDB table name
	moviesTable, ok := os.LookupEnv("TABLE_NAME")
	if !ok || moviesTable == "" {
		log.Fatalf("TABLE_NAME is not set")
	}
	log.Printf("Using %q as the DynamoDB movies table", moviesTable)

	// Timeout for setup functions
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()

	var flush func(context.Context) error
	var opts []lambda.Option
	if otel.Enabled() {
		tp, err := otel.SetupTracer(ctx, svcName())
		if err != nil {
			log.Fatalf("unable to setup otel tracer: %s", err)
		}
		flush = tp.ForceFlush
		opts = append(opts, lambda.WithEnableSIGTERM(func() {
			if err := tp.Shutdown(context.Background()); err != nil {
				log.Printf("error shutting down tracer: %s", err)
			}
		}))
	}

	// Load AWS SDK config
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
		Log:   logging.New(os.Stdout),
		Flush: flush,
	}

	lambda.StartWithOptions(h, opts...)
}

func svcName() string {
	if lambdacontext.FunctionName == "" {
		return "movies"
	}
	return lambdacontext.FunctionName
}
