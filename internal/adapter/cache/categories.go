// internal/adapter/cache/categories.go

package cache

import (
	"context"
	"sort"
	"strings"

	"github.com/redis/go-redis/v9"

	"geonews/internal/domain/news"
	"geonews/internal/logger"
)

const categoriesKey = "categories:all"

// CategoryCache keeps the known article categories in a Redis set, warmed
// from the article store at startup. It backs the query-analysis prompt,
// which enumerates the categories the analyzer may pick from.
type CategoryCache struct {
	client   *redis.Client
	articles news.ArticleStore
}

// NewCategoryCache creates a category cache over the given Redis client
func NewCategoryCache(client *redis.Client, articles news.ArticleStore) *CategoryCache {
	return &CategoryCache{client: client, articles: articles}
}

// Warm loads all categories from the article store into the Redis set.
func (c *CategoryCache) Warm(ctx context.Context) error {
	categories, err := c.articles.AllCategories(ctx)
	if err != nil {
		return err
	}
	if len(categories) == 0 {
		logger.L().Info("category_cache_empty_store")
		return nil
	}

	if err := c.client.SAdd(ctx, categoriesKey, toMembers(categories)...).Err(); err != nil {
		return err
	}
	logger.L().Info("category_cache_warmed", "count", len(categories))
	return nil
}

// All returns the known categories, falling back to the article store when
// the cached set is empty or Redis is unavailable.
func (c *CategoryCache) All(ctx context.Context) ([]string, error) {
	cached, err := c.client.SMembers(ctx, categoriesKey).Result()
	if err != nil {
		logger.L().Error("category_cache_read_error", "err", err)
		return c.articles.AllCategories(ctx)
	}
	if len(cached) > 0 {
		return cached, nil
	}

	fromStore, err := c.articles.AllCategories(ctx)
	if err != nil {
		return nil, err
	}
	if len(fromStore) > 0 {
		if err := c.client.SAdd(ctx, categoriesKey, toMembers(fromStore)...).Err(); err != nil {
			logger.L().Error("category_cache_write_error", "err", err)
		}
	}
	return fromStore, nil
}

// Merge adds new categories to the set, normalized to trimmed lowercase.
func (c *CategoryCache) Merge(ctx context.Context, categories []string) {
	var normalized []interface{}
	for _, cat := range categories {
		cat = strings.ToLower(strings.TrimSpace(cat))
		if cat == "" {
			continue
		}
		normalized = append(normalized, cat)
	}
	if len(normalized) == 0 {
		return
	}

	if err := c.client.SAdd(ctx, categoriesKey, normalized...).Err(); err != nil {
		logger.L().Error("category_cache_merge_error", "err", err)
	}
}

// CommaSeparated renders the known categories sorted and comma-joined, the
// form the analysis prompt template expects.
func (c *CategoryCache) CommaSeparated(ctx context.Context) string {
	categories, err := c.All(ctx)
	if err != nil {
		logger.L().Error("category_cache_list_error", "err", err)
		return ""
	}
	sort.Strings(categories)
	return strings.Join(categories, ", ")
}

func toMembers(categories []string) []interface{} {
	members := make([]interface{}, len(categories))
	for i, cat := range categories {
		members[i] = cat
	}
	return members
}
