package domain

import "context"

// Repository 持仓持久化端口
// 账本本身是权威数据源，仓储仅做直写备份与启动恢复
type Repository interface {
	// Save 新增或覆盖一笔持仓
	Save(ctx context.Context, position *Position) error
	// DeleteAll 清空全部持仓
	DeleteAll(ctx context.Context) error
	// FindAll 按入账顺序加载全部持仓
	FindAll(ctx context.Context) ([]*Position, error)
}
