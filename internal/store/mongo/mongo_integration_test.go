package mongo

import (
	"context"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/i474232898/weather-tagger/internal/store/storetest"
	"github.com/i474232898/weather-tagger/internal/weather"
)

func makeMongoStore(t *testing.T) weather.Store {
	t.Helper()
	uri := os.Getenv("WEATHER_TEST_MONGO_URI")
	if uri == "" {
		t.Skip("WEATHER_TEST_MONGO_URI not set; skipping mongo store integration test")
	}
	ctx := context.Background()
	s, err := New(ctx, uri, "weather_test_"+uuid.New().String()[:8])
	if err != nil {
		t.Fatalf("mongo connect: %v", err)
	}
	t.Cleanup(func() {
		_ = s.coll.Database().Drop(context.Background())
		_ = s.Close()
	})
	return s
}

func TestMongoStore_Compliance(t *testing.T) {
	storetest.Run(t, makeMongoStore)
}

func TestFilterDoc(t *testing.T) {
	assert.Empty(t, filterDoc(weather.Filter{}))

	got := filterDoc(weather.Filter{Tag: "Cold", Cities: []string{"Berlin", "Munich"}})
	assert.Equal(t, "Cold", got["tags"])
	assert.Equal(t, bson.M{"$in": []string{"Berlin", "Munich"}}, got["city"])
}
