package api

import (
	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Structured logging
)

// invalidate drops cache keys after a mutation; failures only cost freshness
func invalidate(c *gin.Context, deps Deps, keys ...string) {
	if err := deps.Cache.Delete(c.Request.Context(), keys...); err != nil {
		logrus.WithFields(logrus.Fields{
			"keys":  keys,
			"error": err.Error(),
		}).Warn("Cache invalidation failed")
	}
}

// invalidateCatalog drops every cached catalog page
func invalidateCatalog(c *gin.Context, deps Deps) {
	if err := deps.Cache.DeletePrefix(c.Request.Context(), catalogKeyPrefix); err != nil {
		logrus.WithFields(logrus.Fields{
			"prefix": catalogKeyPrefix,
			"error":  err.Error(),
		}).Warn("Cache invalidation failed")
	}
}

// cacheStore writes a response to the cache, logging failures
func cacheStore(c *gin.Context, deps Deps, key string, value any) {
	if err := deps.Cache.Set(c.Request.Context(), key, value); err != nil {
		logrus.WithFields(logrus.Fields{
			"key":   key,
			"error": err.Error(),
		}).Warn("Cache write failed")
	}
}
