package infrastructure

import (
	"context"
	"errors"
	"testing"
	"time"

	"timeboss-backend/utils/logger"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/aws/smithy-go"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockTableManager struct {
	mock.Mock
}

func (m *MockTableManager) CreateTable(ctx context.Context, input *dynamodb.CreateTableInput) error {
	args := m.Called(ctx, aws.ToString(input.TableName))
	return args.Error(0)
}

func (m *MockTableManager) DescribeTable(ctx context.Context, tableName string) (*dynamodb.DescribeTableOutput, error) {
	args := m.Called(ctx, tableName)
	out, _ := args.Get(0).(*dynamodb.DescribeTableOutput)
	return out, args.Error(1)
}

func (m *MockTableManager) WaitForTable(ctx context.Context, tableName string, maxWait time.Duration) error {
	args := m.Called(ctx, tableName)
	return args.Error(0)
}

func activeTable(name string) *dynamodb.DescribeTableOutput {
	return &dynamodb.DescribeTableOutput{Table: &types.TableDescription{
		TableName:   aws.String(name),
		TableStatus: types.TableStatusActive,
	}}
}

func TestGetTables(t *testing.T) {
	input, err := GetTables("dev_jobs")
	require.NoError(t, err)

	assert.Equal(t, "dev_jobs", aws.ToString(input.TableName))
	require.Len(t, input.KeySchema, 1)
	assert.Equal(t, "id", aws.ToString(input.KeySchema[0].AttributeName))
	assert.Equal(t, types.KeyTypeHash, input.KeySchema[0].KeyType)
	assert.Equal(t, types.ScalarAttributeTypeN, input.AttributeDefinitions[0].AttributeType)
	require.Len(t, input.GlobalSecondaryIndexes, 1)
	assert.Equal(t, "date-index", aws.ToString(input.GlobalSecondaryIndexes[0].IndexName))
	assert.Equal(t, int64(5), aws.ToInt64(input.ProvisionedThroughput.ReadCapacityUnits))

	for _, name := range []string{"crews", "prod_clients", "dev_users"} {
		_, err := GetTables(name)
		assert.NoError(t, err, name)
	}

	_, err = GetTables("dev_invoices")
	assert.ErrorContains(t, err, "table schema not found")
}

func TestTableName(t *testing.T) {
	assert.Equal(t, "dev_crews", TableName("dev", "crews"))
	assert.Equal(t, "crews", TableName("", "crews"))
	assert.Equal(t, "crews", extractBaseTableName("dev_crews"))
}

func TestEnsureTables(t *testing.T) {
	base, hook := test.NewNullLogger()
	log := logger.New(base)
	ctx := context.Background()
	notFound := &smithy.GenericAPIError{Code: "ResourceNotFoundException", Message: "missing"}

	t.Run("creates only missing tables", func(t *testing.T) {
		db := new(MockTableManager)
		db.On("DescribeTable", ctx, "dev_crews").Return(activeTable("dev_crews"), nil)
		db.On("DescribeTable", ctx, "dev_jobs").Return(nil, notFound)
		db.On("CreateTable", ctx, "dev_jobs").Return(nil)
		db.On("WaitForTable", ctx, "dev_jobs").Return(nil)

		err := EnsureTables(ctx, db, "dev", []string{"crews", "jobs"}, log)

		require.NoError(t, err)
		db.AssertExpectations(t)
		db.AssertNotCalled(t, "CreateTable", ctx, "dev_crews")
		db.AssertNotCalled(t, "WaitForTable", ctx, "dev_crews")
		assert.Equal(t, "Table dev_jobs is active", hook.LastEntry().Message)
	})

	t.Run("waits for a table still being created", func(t *testing.T) {
		creating := activeTable("dev_clients")
		creating.Table.TableStatus = types.TableStatusCreating
		db := new(MockTableManager)
		db.On("DescribeTable", ctx, "dev_clients").Return(creating, nil)
		db.On("WaitForTable", ctx, "dev_clients").Return(nil)

		require.NoError(t, EnsureTables(ctx, db, "dev", []string{"clients"}, log))
		db.AssertExpectations(t)
		db.AssertNotCalled(t, "CreateTable", mock.Anything, mock.Anything)
	})

	t.Run("table never becomes active", func(t *testing.T) {
		db := new(MockTableManager)
		db.On("DescribeTable", ctx, "dev_jobs").Return(nil, notFound)
		db.On("CreateTable", ctx, "dev_jobs").Return(nil)
		db.On("WaitForTable", ctx, "dev_jobs").Return(errors.New("exceeded max wait time"))

		err := EnsureTables(ctx, db, "dev", []string{"jobs"}, log)
		assert.ErrorContains(t, err, "wait for table dev_jobs")
	})

	t.Run("table created concurrently", func(t *testing.T) {
		db := new(MockTableManager)
		db.On("DescribeTable", ctx, "dev_users").Return(nil, notFound)
		db.On("CreateTable", ctx, "dev_users").Return(&smithy.GenericAPIError{Code: "ResourceInUseException"})
		db.On("WaitForTable", ctx, "dev_users").Return(nil)

		assert.NoError(t, EnsureTables(ctx, db, "dev", []string{"users"}, log))
	})

	t.Run("describe failure", func(t *testing.T) {
		db := new(MockTableManager)
		db.On("DescribeTable", ctx, "dev_users").Return(nil, errors.New("access denied"))

		err := EnsureTables(ctx, db, "dev", []string{"users"}, log)
		assert.ErrorContains(t, err, "access denied")
		db.AssertNotCalled(t, "CreateTable", mock.Anything, mock.Anything)
	})
}
