// Package moviequeue inserts movies published to an SQS queue.
package moviequeue

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/aws/aws-sdk-go-v2/service/sqs/types"
	"github.com/dannyrandall/movies-function/internal/logging"
	"github.com/dannyrandall/movies-function/internal/movies"
	"github.com/dannyrandall/movies-function/internal/otel"
	"go.opentelemetry.io/otel/codes"
	semconv "go.opentelemetry.io/otel/semconv/v1.4.0"
	"go.opentelemetry.io/otel/trace"
)

type SQSAPI interface {
	ReceiveMessage(ctx context.Context, params *sqs.ReceiveMessageInput, optFns ...func(*sqs.Options)) (*sqs.ReceiveMessageOutput, error)
	DeleteMessage(ctx context.Context, params *sqs.DeleteMessageInput, optFns ...func(*sqs.Options)) (*sqs.DeleteMessageOutput, error)
}

// Queue reads movie documents from an SQS queue one message at a time and
// writes them to Table. A message is deleted only after its movie is
// written; failed messages stay on the queue for redelivery.
type Queue struct {
	SQS    SQSAPI
	Table  *movies.Table
	Log    *slog.Logger
	Tracer trace.Tracer

	QueueName string
	QueueURL  string

	// RetryDelay is the pause after a failed receive. Defaults to 5s.
	RetryDelay time.Duration
}

const defaultRetryDelay = 5 * time.Second

func (q *Queue) ReceiveAndProcess(ctx context.Context) error {
	delay := q.RetryDelay
	if delay <= 0 {
		delay = defaultRetryDelay
	}

	for {
		err := q.ReceiveOnce(ctx)
		if err == nil {
			continue
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		log.Printf("error: %s", err)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
	}
}

// ReceiveOnce long-polls the queue once and processes what it got. Errors
// processing a single message are logged, not returned.
func (q *Queue) ReceiveOnce(ctx context.Context) error {
	ctx, span := q.Tracer.Start(ctx, "recvAndProcess",
		trace.WithSpanKind(trace.SpanKindServer),
		trace.WithAttributes(semconv.MessagingSystemKey.String("AmazonSQS")),
		trace.WithAttributes(semconv.MessagingDestinationKey.String(q.QueueName)),
		trace.WithAttributes(semconv.MessagingDestinationKindQueue))
	defer span.End()

	msgs, err := q.receiveMessages(ctx)
	if err != nil {
		return spanErrorf(span, "receive messages: %w", err)
	}

	for _, msg := range msgs {
		if err := q.processMessage(ctx, msg); err != nil {
			log.Printf("unable to process message %q: %s", aws.ToString(msg.MessageId), err)
		}
	}

	return nil
}

func spanErrorf(span trace.Span, format string, a ...any) error {
	err := fmt.Errorf(format, a...)
	span.SetStatus(codes.Error, err.Error())
	return err
}

func (q *Queue) receiveMessages(ctx context.Context) ([]types.Message, error) {
	res, err := q.SQS.ReceiveMessage(ctx, &sqs.ReceiveMessageInput{
		QueueUrl:            aws.String(q.QueueURL),
		MaxNumberOfMessages: 1,
		WaitTimeSeconds:     20,
	})
	if err != nil {
		return nil, err
	}

	return res.Messages, nil
}

// processMessage logs the same records as an API invocation, with the
// message id as the request id.
func (q *Queue) processMessage(ctx context.Context, msg types.Message) error {
	ctx, span := q.Tracer.Start(ctx, "processMessage", trace.WithAttributes(semconv.MessagingMessageIDKey.String(aws.ToString(msg.MessageId))))
	defer span.End()

	log := logging.ForRequest(q.Log, aws.ToString(msg.MessageId), otel.XRayTraceID(span))
	log.TableAccess(ctx, q.Table.Name, nil, nil)

	if _, err := q.Table.Insert(ctx, log, []byte(aws.ToString(msg.Body))); err != nil {
		log.Error(ctx, movies.ErrorKind(err), err)
		return spanErrorf(span, "insert movie: %w", err)
	}

	if err := q.deleteMessage(ctx, msg.ReceiptHandle); err != nil {
		return spanErrorf(span, "delete message: %w", err)
	}

	return nil
}

func (q *Queue) deleteMessage(ctx context.Context, receiptHandle *string) error {
	_, err := q.SQS.DeleteMessage(ctx, &sqs.DeleteMessageInput{
		QueueUrl:      aws.String(q.QueueURL),
		ReceiptHandle: receiptHandle,
	})

	return err
}
