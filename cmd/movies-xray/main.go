package main

import (
	"context"
	"log"
	"os"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-xray-sdk-go/instrumentation/awsv2"
	"github.com/dannyrandall/movies-function/internal/handlers"
	"github.com/dannyrandall/movies-function/internal/logging"
	"github.com/dannyrandall/movies-function/internal/movies"
)

func main() {
	moviesTable, ok := os.LookupEnv("TABLE_NAME")
	if !ok || moviesTable == "" {
		log.Fatalf("TABLE_NAME is not set")
	}
	log.Printf("Using %q as the movies table", moviesTable)

	cfg, err := config.LoadDefaultConfig(context.Background())
	if err != nil {
		log.Fatalf("unable to load aws config: %s", err)
	}

	// Records a subsegment for every DynamoDB call under the function's
	// X-Ray segment.
	awsv2.AWSV2Instrumentor(&cfg.APIOptions)

	h := &handlers.Movie{
		Table: &movies.Table{
			Dynamo: dynamodb.NewFromConfig(cfg),
			Name:   moviesTable,
		},
		Log: logging.New(os.Stdout),
	}

	lambda.Start(h)
}
