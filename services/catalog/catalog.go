package catalog

import (
	"context"
	"encoding/json"
	"time"

	"andino/database"
	"andino/models"
	"andino/utils"

	"github.com/go-redis/redis/v8"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Catalog entries change rarely; a short cache keeps wizard reloads cheap.
const cacheTTL = 10 * time.Minute

// MongoCatalog serves offerings from MongoDB through a redis read-through
// cache.
type MongoCatalog struct {
	coll   *mongo.Collection
	cache  *redis.Client
	logger *zap.Logger
}

// NewMongoCatalog returns a catalog service backed by MongoDB and Redis.
func NewMongoCatalog() Service {
	db := database.MongoClient.Database("andino")
	return &MongoCatalog{
		coll:   db.Collection("services"),
		cache:  utils.GetCatalogCacheClient(),
		logger: utils.GetLogger(),
	}
}

func cacheKey(serviceRef string) string {
	return "service:" + serviceRef
}

// GetService fetches an offering, preferring the cache.
func (c *MongoCatalog) GetService(ctx context.Context, serviceRef string) (*models.ServiceOffering, error) {
	if cached, err := c.cache.Get(ctx, cacheKey(serviceRef)).Result(); err == nil {
		var svc models.ServiceOffering
		if err := json.Unmarshal([]byte(cached), &svc); err == nil {
			return &svc, nil
		}
		// Corrupt entry; fall through to the database.
		c.cache.Del(ctx, cacheKey(serviceRef))
	}

	var svc models.ServiceOffering
	err := c.coll.FindOne(ctx, bson.M{"id": serviceRef}).Decode(&svc)
	if err == mongo.ErrNoDocuments {
		return nil, ErrServiceNotFound
	}
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(svc); err == nil {
		if err := c.cache.Set(ctx, cacheKey(serviceRef), data, cacheTTL).Err(); err != nil {
			c.logger.Warn("failed to cache service", zap.String("serviceRef", serviceRef), zap.Error(err))
		}
	}
	return &svc, nil
}
