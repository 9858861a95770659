package movies

import (
	"fmt"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/google/uuid"
)

// Default record written when a request carries no body.
const (
	DefaultYear  Year = "2012"
	DefaultTitle      = "The Amazing Spider-Man 2"
)

type Movie struct {
	ID    string `json:"id" dynamodbav:"id"`
	Title string `json:"title" dynamodbav:"title"`
	Year  Year   `json:"year" dynamodbav:"year"`
}

// Year is the string form of a release year. It is stored as a DynamoDB
// number attribute; the value is not checked to be numeric before the write.
type Year string

func (y Year) MarshalDynamoDBAttributeValue() (types.AttributeValue, error) {
	return &types.AttributeValueMemberN{Value: string(y)}, nil
}

func (y *Year) UnmarshalDynamoDBAttributeValue(av types.AttributeValue) error {
	switch v := av.(type) {
	case *types.AttributeValueMemberN:
		*y = Year(v.Value)
	case *types.AttributeValueMemberS:
		*y = Year(v.Value)
	case *types.AttributeValueMemberNULL:
		*y = ""
	default:
		return fmt.Errorf("unsupported attribute type %T for year", av)
	}
	return nil
}

// NewID returns a random (version 4) UUID.
func NewID() string {
	return uuid.NewString()
}

// Default returns the movie written for an empty body, with a fresh id.
func Default() Movie {
	return Movie{
		ID:    NewID(),
		Title: DefaultTitle,
		Year:  DefaultYear,
	}
}
