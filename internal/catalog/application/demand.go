package application

import (
	"context"

	"github.com/wyfcoding/retailordering/internal/catalog/domain"
)

// DemandService 在途需求投影服务
type DemandService struct {
	repo domain.DemandRepository
}

// NewDemandService 创建在途需求投影服务实例
func NewDemandService(repo domain.DemandRepository) *DemandService {
	return &DemandService{repo: repo}
}

// Record 记录一次需求变化
func (s *DemandService) Record(ctx context.Context, productID string, delta int64) error {
	if productID == "" || delta == 0 {
		return nil
	}
	return s.repo.Incr(ctx, productID, delta)
}

// Top 返回在途需求最高的前 n 个商品
func (s *DemandService) Top(ctx context.Context, n int64) ([]domain.ProductDemand, error) {
	if n <= 0 {
		n = 10
	}
	return s.repo.Top(ctx, n)
}
