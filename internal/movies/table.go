package movies

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/dannyrandall/movies-function/internal/logging"
)

// PutItemAPI is the part of *dynamodb.Client a Table needs.
type PutItemAPI interface {
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
}

// Table writes movies to one DynamoDB table. It holds no state beyond the
// client and name, so a single Table is shared by every invocation.
type Table struct {
	Dynamo PutItemAPI
	Name   string
}

func (t *Table) Put(ctx context.Context, movie Movie) error {
	av, err := attributevalue.MarshalMap(movie)
	if err != nil {
		return fmt.Errorf("marshal movie: %w", err)
	}

	_, err = t.Dynamo.PutItem(ctx, &dynamodb.PutItemInput{
		Item:      av,
		TableName: aws.String(t.Name),
	})
	if err != nil {
		return &WriteError{Table: t.Name, Err: err}
	}

	return nil
}

// Insert writes the movie described by body, or the default movie when body
// is empty, and returns what was written. The item_insert or
// default_item_insert record is logged before the write is attempted.
func (t *Table) Insert(ctx context.Context, log *logging.Request, body []byte) (Movie, error) {
	if len(body) == 0 {
		log.DefaultItemInsert(ctx)
		movie := Default()
		return movie, t.Put(ctx, movie)
	}

	payload, err := DecodeBody(body)
	if err != nil {
		return Movie{}, err
	}

	log.ItemInsert(ctx, payload.RawID())

	movie, err := payload.Movie()
	if err != nil {
		return Movie{}, err
	}

	return movie, t.Put(ctx, movie)
}
