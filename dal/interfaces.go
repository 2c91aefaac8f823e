package dal

import (
	"context"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
)

// PutRequest is one item of a transactional write
type PutRequest struct {
	TableName string
	Item      interface{}
}

// DatabaseClientInterface defines the contract for database operations
type DatabaseClientInterface interface {
	PutItem(ctx context.Context, tableName string, item interface{}) error
	// TransactPutItems writes every request or none of them
	TransactPutItems(ctx context.Context, requests []PutRequest) error

	// ScanTable reads every page of a table into results
	ScanTable(ctx context.Context, tableName string, results interface{}) error

	// Table management operations
	CreateTable(ctx context.Context, input *dynamodb.CreateTableInput) error
	DescribeTable(ctx context.Context, tableName string) (*dynamodb.DescribeTableOutput, error)
	WaitForTable(ctx context.Context, tableName string, maxWait time.Duration) error
}

// dynamoAPI is the subset of the SDK client the DAL calls
type dynamoAPI interface {
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	TransactWriteItems(ctx context.Context, params *dynamodb.TransactWriteItemsInput, optFns ...func(*dynamodb.Options)) (*dynamodb.TransactWriteItemsOutput, error)
	Scan(ctx context.Context, params *dynamodb.ScanInput, optFns ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error)
	CreateTable(ctx context.Context, params *dynamodb.CreateTableInput, optFns ...func(*dynamodb.Options)) (*dynamodb.CreateTableOutput, error)
	DescribeTable(ctx context.Context, params *dynamodb.DescribeTableInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DescribeTableOutput, error)
}
