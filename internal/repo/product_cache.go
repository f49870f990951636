package repo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/rogerio-castellano/inventory-api/internal/models"
)

const (
	productCacheKeyPrefix = "product"
	productListCacheKey   = productCacheKeyPrefix + ":all"

	// Generation counters outlive the values they guard by this much.
	generationGrace = time.Minute
)

// errStaleFill aborts a cache fill that raced with a write.
var errStaleFill = errors.New("cache generation changed")

// CachedProductRepository serves reads from Redis and falls through to the
// wrapped repository on a miss. Writes go to the wrapped repository first and
// then bump the generation of and evict the affected keys. A fill only lands
// if the key's generation is unchanged since before the underlying read.
// Redis failures never fail a request.
type CachedProductRepository struct {
	next   ProductRepository
	rdb    *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

var _ ProductRepository = (*CachedProductRepository)(nil)

// NewCachedProductRepository wraps next with a Redis read cache whose entries live for ttl.
func NewCachedProductRepository(next ProductRepository, rdb *redis.Client, ttl time.Duration, logger *slog.Logger) *CachedProductRepository {
	return &CachedProductRepository{
		next:   next,
		rdb:    rdb,
		ttl:    ttl,
		logger: logger.With(slog.String("component", "product_cache")),
	}
}

func (r *CachedProductRepository) Create(ctx context.Context, product models.Product) (models.Product, error) {
	created, err := r.next.Create(ctx, product)
	if err != nil {
		return models.Product{}, err
	}
	r.invalidate(ctx, productListCacheKey)
	return created, nil
}

func (r *CachedProductRepository) GetAll(ctx context.Context) ([]models.Product, error) {
	var products []models.Product
	if r.load(ctx, productListCacheKey, &products) {
		return products, nil
	}

	gen, ok := r.generation(ctx, productListCacheKey)
	products, err := r.next.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	if ok {
		r.fill(ctx, productListCacheKey, gen, products)
	}
	return products, nil
}

func (r *CachedProductRepository) GetByID(ctx context.Context, id int) (models.Product, bool, error) {
	key := productKey(id)

	var product models.Product
	if r.load(ctx, key, &product) {
		return product, true, nil
	}

	gen, ok := r.generation(ctx, key)
	product, found, err := r.next.GetByID(ctx, id)
	if err != nil || !found {
		return product, found, err
	}
	if ok {
		r.fill(ctx, key, gen, product)
	}
	return product, true, nil
}

func (r *CachedProductRepository) Update(ctx context.Context, product models.Product) (models.Product, error) {
	updated, err := r.next.Update(ctx, product)
	if err != nil {
		return models.Product{}, err
	}
	r.invalidate(ctx, productListCacheKey, productKey(product.ID))
	return updated, nil
}

func (r *CachedProductRepository) Delete(ctx context.Context, id int) error {
	if err := r.next.Delete(ctx, id); err != nil {
		return err
	}
	r.invalidate(ctx, productListCacheKey, productKey(id))
	return nil
}

// load reports whether key was found and decoded into dst.
func (r *CachedProductRepository) load(ctx context.Context, key string, dst any) bool {
	data, err := r.rdb.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false
	}
	if err != nil {
		r.logger.WarnContext(ctx, "cache get failed", slog.String("key", key), slog.Any("error", err))
		return false
	}
	if err := json.Unmarshal(data, dst); err != nil {
		r.logger.WarnContext(ctx, "cache entry corrupt", slog.String("key", key), slog.Any("error", err))
		r.evict(ctx, key)
		return false
	}
	return true
}

// generation returns the current write generation of key. ok is false when
// Redis could not be asked, in which case the caller must not fill.
func (r *CachedProductRepository) generation(ctx context.Context, key string) (gen string, ok bool) {
	gen, err := r.rdb.Get(ctx, generationKey(key)).Result()
	if errors.Is(err, redis.Nil) {
		return "", true
	}
	if err != nil {
		r.logger.WarnContext(ctx, "cache generation get failed", slog.String("key", key), slog.Any("error", err))
		return "", false
	}
	return gen, true
}

// fill stores v under key unless a write moved the key past gen.
func (r *CachedProductRepository) fill(ctx context.Context, key, gen string, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		r.logger.WarnContext(ctx, "cache encode failed", slog.String("key", key), slog.Any("error", err))
		return
	}

	genKey := generationKey(key)
	err = r.rdb.Watch(ctx, func(tx *redis.Tx) error {
		cur, err := tx.Get(ctx, genKey).Result()
		if err != nil && !errors.Is(err, redis.Nil) {
			return err
		}
		if cur != gen {
			return errStaleFill
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, data, r.ttl)
			return nil
		})
		return err
	}, genKey)

	switch {
	case err == nil:
	case errors.Is(err, errStaleFill), errors.Is(err, redis.TxFailedErr):
		r.logger.DebugContext(ctx, "cache fill skipped after concurrent write", slog.String("key", key))
	default:
		r.logger.WarnContext(ctx, "cache set failed", slog.String("key", key), slog.Any("error", err))
	}
}

// invalidate bumps the generation of keys and drops their cached values.
func (r *CachedProductRepository) invalidate(ctx context.Context, keys ...string) {
	_, err := r.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		for _, key := range keys {
			pipe.Incr(ctx, generationKey(key))
			pipe.Expire(ctx, generationKey(key), r.ttl+generationGrace)
		}
		pipe.Del(ctx, keys...)
		return nil
	})
	if err != nil {
		r.logger.WarnContext(ctx, "cache invalidate failed", slog.Any("keys", keys), slog.Any("error", err))
	}
}

func (r *CachedProductRepository) evict(ctx context.Context, keys ...string) {
	if err := r.rdb.Del(ctx, keys...).Err(); err != nil {
		r.logger.WarnContext(ctx, "cache delete failed", slog.Any("keys", keys), slog.Any("error", err))
	}
}

func generationKey(key string) string {
	return key + ":gen"
}

func productKey(id int) string {
	return fmt.Sprintf("%s:%s", productCacheKeyPrefix, strconv.Itoa(id))
}
