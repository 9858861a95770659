package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/dannyrandall/movies-function/internal/copilot"
	"github.com/dannyrandall/movies-function/internal/logging"
	"github.com/dannyrandall/movies-function/internal/moviequeue"
	"github.com/dannyrandall/movies-function/internal/movies"
	"github.com/dannyrandall/movies-function/internal/otel"
	"go.opentelemetry.io/contrib/detectors/aws/ecs"
	"go.opentelemetry.io/contrib/instrumentation/github.com/aws/aws-sdk-go-v2/otelaws"
	otelotel "go.opentelemetry.io/otel"
)

func main() {
	moviesTable, ok := os.LookupEnv("TABLE_NAME")
	if !ok || moviesTable == "" {
		log.Fatalf("TABLE_NAME is not set")
	}

	queueURL := copilot.QueueURI()
	if queueURL == "" {
		log.Fatalf("COPILOT_QUEUE_URI is not set")
	}

	svcName := copilot.ServiceName("movies-processor")
	if otel.Enabled() {
		tp, err := otel.SetupTracer(context.Background(), svcName, ecs.NewResourceDetector())
		if err != nil {
			log.Fatalf("unable to setup otel tracer: %s", err)
		}
		defer tp.Shutdown(context.Background())
	}

	cfg, err := config.LoadDefaultConfig(context.Background())
	if err != nil {
		log.Fatalf("unable to load aws config: %s", err)
	}

	otelaws.AppendMiddlewares(&cfg.APIOptions)

	q := &moviequeue.Queue{
		SQS: sqs.NewFromConfig(cfg),
		Table: &movies.Table{
			Dynamo: dynamodb.NewFromConfig(cfg),
			Name:   moviesTable,
		},
		Log:       logging.New(os.Stdout),
		Tracer:    otelotel.Tracer(""),
		QueueName: fmt.Sprintf("%s-%s-createMovie", copilot.App(), copilot.Environment()),
		QueueURL:  queueURL,
	}

	log.Printf("Waiting for events from %s", q.QueueURL)

	if err := q.ReceiveAndProcess(context.Background()); err != nil {
		log.Fatalf("unable to receive and process: %s", err)
	}
}
