package redis

import (
	"context"

	"github.com/redis/go-redis/v9"

	"github.com/wyfcoding/retailordering/internal/catalog/domain"
)

const demandKey = "catalog:demand"

type demandRedisRepository struct {
	client redis.UniversalClient
}

// NewDemandRedisRepository 创建基于 Redis 有序集合的在途需求仓储
func NewDemandRedisRepository(client redis.UniversalClient) domain.DemandRepository {
	return &demandRedisRepository{client: client}
}

func (r *demandRedisRepository) Incr(ctx context.Context, productID string, delta int64) error {
	return r.client.ZIncrBy(ctx, demandKey, float64(delta), productID).Err()
}

func (r *demandRedisRepository) Top(ctx context.Context, n int64) ([]domain.ProductDemand, error) {
	members, err := r.client.ZRevRangeWithScores(ctx, demandKey, 0, n-1).Result()
	if err != nil {
		return nil, err
	}

	demands := make([]domain.ProductDemand, 0, len(members))
	for _, m := range members {
		productID, ok := m.Member.(string)
		if !ok {
			continue
		}
		demands = append(demands, domain.ProductDemand{
			ProductID: productID,
			InCart:    int64(m.Score),
		})
	}
	return demands, nil
}
