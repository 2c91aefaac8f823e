package utils

import (
	"encoding/json"
	"os"
	"strings"
	"testing"
	"time"

	"timeboss-backend/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"golang.org/x/crypto/bcrypt"
)

// UtilsTestSuite defines a test suite for utils functions
type UtilsTestSuite struct {
	suite.Suite
	originalEnv map[string]string
}

// SetupTest runs before each test
func (suite *UtilsTestSuite) SetupTest() {
	suite.originalEnv = make(map[string]string)
	envVars := []string{
		"APP_NAME", "APP_VERSION", "APP_ENV", "APP_HOST", "APP_PORT",
		"JWT_SECRET", "JWT_EXPIRES_IN",
		"STORE_DRIVER", "STORE_DATA_DIR",
		"AWS_REGION", "AWS_ACCESS_KEY_ID", "AWS_SECRET_ACCESS_KEY",
		"DYNAMODB_ENDPOINT", "DYNAMODB_TABLE_PREFIX",
		"POSTGRES_DSN", "REDIS_URL",
		"NOTIFY_QUEUE_SIZE", "NOTIFY_WORKERS",
		"PLANNER_API_KEY", "PLANNER_MODEL",
		"BILLING_RATE_PER_HOUR",
		"LOG_LEVEL", "LOG_FORMAT",
		"CORS_ORIGINS", "RATE_LIMIT_REQUESTS", "RATE_LIMIT_WINDOW",
		"BASEPATH",
	}

	for _, envVar := range envVars {
		suite.originalEnv[envVar] = os.Getenv(envVar)
		os.Unsetenv(envVar)
	}
}

// TearDownTest runs after each test
func (suite *UtilsTestSuite) TearDownTest() {
	for envVar, value := range suite.originalEnv {
		if value != "" {
			os.Setenv(envVar, value)
		} else {
			os.Unsetenv(envVar)
		}
	}
}

func (suite *UtilsTestSuite) TestGetConfig() {
	config, err := GetConfig()
	require.NoError(suite.T(), err)
	require.NotNil(suite.T(), config)

	assert.Equal(suite.T(), "TimeBoss Backend", config.AppName)
	assert.Equal(suite.T(), "1.0.0", config.AppVersion)
	assert.Equal(suite.T(), "development", config.AppEnv)
	assert.Equal(suite.T(), "0.0.0.0", config.AppHost)
	assert.Equal(suite.T(), "4000", config.AppPort)
	assert.Equal(suite.T(), "memory", config.StoreDriver)
	assert.Equal(suite.T(), 100.0, config.BillingRatePerHour)
	assert.Equal(suite.T(), 100, config.RateLimitRequests)
	assert.Equal(suite.T(), 15*time.Minute, config.RateLimitWindow)
	assert.Equal(suite.T(), "gpt-4o", config.PlannerModel)
	assert.Equal(suite.T(), "/api/v1", config.BasePath)
	assert.Equal(suite.T(), []string{"crews", "jobs", "clients", "users"}, config.Tables)
}

func (suite *UtilsTestSuite) TestGetConfigWithEnvironmentVariables() {
	os.Setenv("APP_NAME", "Test App")
	os.Setenv("APP_ENV", "production")
	os.Setenv("JWT_SECRET", "production-secret")
	os.Setenv("STORE_DRIVER", "file")
	os.Setenv("BILLING_RATE_PER_HOUR", "85.5")
	os.Setenv("NOTIFY_WORKERS", "4")

	config, err := GetConfig()
	require.NoError(suite.T(), err)

	assert.Equal(suite.T(), "Test App", config.AppName)
	assert.Equal(suite.T(), "production", config.AppEnv)
	assert.Equal(suite.T(), "production-secret", config.JWTSecret)
	assert.Equal(suite.T(), "file", config.StoreDriver)
	assert.Equal(suite.T(), 85.5, config.BillingRatePerHour)
	assert.Equal(suite.T(), 4, config.NotifyWorkers)
}

func (suite *UtilsTestSuite) TestGetConfigDurations() {
	os.Setenv("JWT_EXPIRES_IN", "2h")
	os.Setenv("RATE_LIMIT_WINDOW", "1m")

	config, err := GetConfig()
	require.NoError(suite.T(), err)

	assert.Equal(suite.T(), 2*time.Hour, config.JWTExpiresIn)
	assert.Equal(suite.T(), time.Minute, config.RateLimitWindow)
}

func (suite *UtilsTestSuite) TestProductionRequiresSecret() {
	os.Setenv("APP_ENV", "production")

	config, err := GetConfig()
	assert.Error(suite.T(), err)
	assert.Nil(suite.T(), config)
	assert.Contains(suite.T(), err.Error(), "JWT_SECRET must be set")
}

func (suite *UtilsTestSuite) TestValidate() {
	base := func() *models.Config {
		return &models.Config{
			JWTSecret:          "s",
			StoreDriver:        "memory",
			BillingRatePerHour: 100,
			RateLimitRequests:  100,
			RateLimitWindow:    time.Minute,
			NotifyQueueSize:    1,
			NotifyWorkers:      1,
		}
	}

	assert.NoError(suite.T(), validate(base()))

	c := base()
	c.StoreDriver = "mongo"
	assert.ErrorContains(suite.T(), validate(c), "unknown store driver")

	c = base()
	c.StoreDriver = "postgres"
	assert.ErrorContains(suite.T(), validate(c), "POSTGRES_DSN")

	c = base()
	c.BillingRatePerHour = 0
	assert.Error(suite.T(), validate(c))

	c = base()
	c.RateLimitWindow = 0
	assert.Error(suite.T(), validate(c))
}

func (suite *UtilsTestSuite) TestRedactedConfig() {
	c := &models.Config{JWTSecret: "top", PlannerAPIKey: "sk-1", AppName: "x"}

	r := RedactedConfig(c)

	assert.Equal(suite.T(), "***", r.JWTSecret)
	assert.Equal(suite.T(), "***", r.PlannerAPIKey)
	assert.Equal(suite.T(), "", r.PostgresDSN)
	assert.Equal(suite.T(), "x", r.AppName)
	assert.Equal(suite.T(), "top", c.JWTSecret)
}

func (suite *UtilsTestSuite) TestPrintPrettyJSON() {
	data := map[string]interface{}{"jobId": 1, "crewId": 2}

	out := PrintPrettyJSON(data)

	var decoded map[string]interface{}
	require.NoError(suite.T(), json.Unmarshal([]byte(out), &decoded))
	assert.Equal(suite.T(), float64(2), decoded["crewId"])
	assert.True(suite.T(), strings.Contains(out, "\n    "))

	assert.Equal(suite.T(), "", PrintPrettyJSON(make(chan int)))
}

func (suite *UtilsTestSuite) TestGenerateUUID() {
	a := GenerateUUID()
	b := GenerateUUID()

	_, err := uuid.Parse(a)
	assert.NoError(suite.T(), err)
	assert.NotEqual(suite.T(), a, b)
}

func (suite *UtilsTestSuite) TestHashAndCheckPassword() {
	hash, err := HashPassword("s3cret!")
	require.NoError(suite.T(), err)

	assert.NotEqual(suite.T(), "s3cret!", hash)
	assert.NoError(suite.T(), bcrypt.CompareHashAndPassword([]byte(hash), []byte("s3cret!")))
	assert.True(suite.T(), CheckPassword(hash, "s3cret!"))
	assert.False(suite.T(), CheckPassword(hash, "wrong"))
	assert.False(suite.T(), CheckPassword("not-a-hash", "s3cret!"))
}

func (suite *UtilsTestSuite) TestToday() {
	now := time.Date(2025, 6, 2, 23, 30, 0, 0, time.UTC)
	assert.Equal(suite.T(), "2025-06-02", Today(now))
}

func TestUtilsTestSuite(t *testing.T) {
	suite.Run(t, new(UtilsTestSuite))
}
