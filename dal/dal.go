package dal

import (
	"context"
	"fmt"
	"time"

	"timeboss-backend/models"
	"timeboss-backend/utils/logger"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// MaxTransactItems is the DynamoDB limit on items in one TransactWriteItems call
const MaxTransactItems = 100

type DynamoDBClient struct {
	client dynamoAPI
	config *models.Config
	logger logger.Logger
}

// NewDynamoDBClient creates a new DynamoDB client
func NewDynamoDBClient(cfg *models.Config, log logger.Logger) (*DynamoDBClient, error) {
	awsCfg, err := config.LoadDefaultConfig(context.TODO(),
		config.WithRegion(cfg.AWSRegion),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	// Use static credentials if provided
	if cfg.AWSAccessKeyID != "" && cfg.AWSSecretAccessKey != "" {
		awsCfg.Credentials = aws.NewCredentialsCache(credentials.NewStaticCredentialsProvider(
			cfg.AWSAccessKeyID,
			cfg.AWSSecretAccessKey,
			"",
		))
	}

	client := dynamodb.NewFromConfig(awsCfg, func(o *dynamodb.Options) {
		// Override endpoint for local DynamoDB
		if cfg.DynamoDBEndpoint != "" {
			o.BaseEndpoint = aws.String(cfg.DynamoDBEndpoint)
		}
	})

	log.Info("DynamoDB client initialized successfully")
	return newClient(client, cfg, log), nil
}

func newClient(api dynamoAPI, cfg *models.Config, log logger.Logger) *DynamoDBClient {
	return &DynamoDBClient{client: api, config: cfg, logger: log}
}

// PutItem stores an item in DynamoDB
func (db *DynamoDBClient) PutItem(ctx context.Context, tableName string, item interface{}) error {
	av, err := attributevalue.MarshalMap(item)
	if err != nil {
		return fmt.Errorf("failed to marshal item: %w", err)
	}

	_, err = db.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(tableName),
		Item:      av,
	})
	return err
}

// TransactPutItems writes all requests in one transaction. More than
// MaxTransactItems requests are rejected rather than split, so callers
// never observe a half-applied write.
func (db *DynamoDBClient) TransactPutItems(ctx context.Context, requests []PutRequest) error {
	if len(requests) == 0 {
		return nil
	}
	if len(requests) > MaxTransactItems {
		return fmt.Errorf("transaction of %d items exceeds limit of %d", len(requests), MaxTransactItems)
	}

	items := make([]types.TransactWriteItem, 0, len(requests))
	for _, r := range requests {
		av, err := attributevalue.MarshalMap(r.Item)
		if err != nil {
			return fmt.Errorf("failed to marshal item for %s: %w", r.TableName, err)
		}
		items = append(items, types.TransactWriteItem{
			Put: &types.Put{TableName: aws.String(r.TableName), Item: av},
		})
	}

	_, err := db.client.TransactWriteItems(ctx, &dynamodb.TransactWriteItemsInput{TransactItems: items})
	if err != nil {
		db.logger.Errorf("Transactional write of %d items failed: %v", len(items), err)
	}
	return err
}

// ScanTable scans the entire table, following pagination
func (db *DynamoDBClient) ScanTable(ctx context.Context, tableName string, results interface{}) error {
	var all []map[string]types.AttributeValue
	input := &dynamodb.ScanInput{TableName: aws.String(tableName)}

	for {
		output, err := db.client.Scan(ctx, input)
		if err != nil {
			return err
		}
		all = append(all, output.Items...)
		if len(output.LastEvaluatedKey) == 0 {
			break
		}
		input.ExclusiveStartKey = output.LastEvaluatedKey
	}

	return attributevalue.UnmarshalListOfMaps(all, results)
}

// CreateTable creates a table
func (db *DynamoDBClient) CreateTable(ctx context.Context, input *dynamodb.CreateTableInput) error {
	_, err := db.client.CreateTable(ctx, input)
	return err
}

// DescribeTable describes a table
func (db *DynamoDBClient) DescribeTable(ctx context.Context, tableName string) (*dynamodb.DescribeTableOutput, error) {
	return db.client.DescribeTable(ctx, &dynamodb.DescribeTableInput{
		TableName: aws.String(tableName),
	})
}

// WaitForTable blocks until tableName is ACTIVE or maxWait passes
func (db *DynamoDBClient) WaitForTable(ctx context.Context, tableName string, maxWait time.Duration) error {
	waiter := dynamodb.NewTableExistsWaiter(db.client, func(o *dynamodb.TableExistsWaiterOptions) {
		o.MinDelay = time.Second
		o.MaxDelay = 5 * time.Second
	})
	db.logger.Debugf("Waiting for table %s to become active", tableName)
	return waiter.Wait(ctx, &dynamodb.DescribeTableInput{TableName: aws.String(tableName)}, maxWait)
}
