package testutil

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"carrental/pkg/client"
)

const (
	DefaultMongoURI           = "mongodb://localhost:27017"
	DefaultDatabaseName       = "carrental"
	ConnectionTimeout         = 10 * time.Second
	DefaultHealthCheckTimeout = 30 * time.Second
)

type TestEnv struct {
	MongoURI      string
	DatabaseName  string
	ServerURL     string
	AdminEmail    string
	AdminPassword string
}

// NewTestEnv reads the target deployment from TEST_* variables. The admin
// credentials must match the server's ADMIN_EMAIL and ADMIN_PASSWORD.
func NewTestEnv() *TestEnv {
	serverPort := getEnv("TEST_SERVER_PORT", "8080")
	return &TestEnv{
		MongoURI:      getEnv("TEST_MONGO_URI", DefaultMongoURI),
		DatabaseName:  getEnv("TEST_DB_NAME", DefaultDatabaseName),
		ServerURL:     getEnv("TEST_SERVER_URL", fmt.Sprintf("http://localhost:%s", serverPort)),
		AdminEmail:    getEnv("TEST_ADMIN_EMAIL", "admin@example.com"),
		AdminPassword: getEnv("TEST_ADMIN_PASSWORD", "admin-password"),
	}
}

func (e *TestEnv) Setup(t *testing.T) (*MongoHelper, *client.RentalClient) {
	t.Helper()

	mongo := NewMongoHelper(t, e.MongoURI, e.DatabaseName)
	mongo.CleanCollections(t, RentalCollections...)

	rental := client.NewRentalClient(e.ServerURL)
	if err := rental.HTTP().WaitForHealthy(context.Background(), DefaultHealthCheckTimeout); err != nil {
		t.Fatalf("server not ready: %v", err)
	}
	return mongo, rental
}

func (e *TestEnv) Cleanup(t *testing.T, mongo *MongoHelper) {
	t.Helper()

	if mongo != nil {
		mongo.CleanCollections(t, RentalCollections...)
		mongo.Close(t)
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
