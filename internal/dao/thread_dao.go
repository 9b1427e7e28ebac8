package dao

import (
	"context"
	"time"

	"github.com/qwertyllionman/Alijahon/internal/model"
	"gorm.io/gorm"
)

type ThreadDao struct {
	db *gorm.DB
}

func NewThreadDao(db *gorm.DB) *ThreadDao {
	return &ThreadDao{
		db: db,
	}
}

// CreateThread 创建推广链接
func (d *ThreadDao) CreateThread(ctx context.Context, thread *model.Thread) error {
	return d.db.WithContext(ctx).Create(thread).Error
}

// GetThreadByID 根据ID获取链接（带商品）
func (d *ThreadDao) GetThreadByID(ctx context.Context, threadID int64) (*model.Thread, error) {
	var thread model.Thread
	err := d.db.WithContext(ctx).
		Preload("Product").
		Preload("Product.Category").
		Where("id = ?", threadID).
		First(&thread).Error
	if err != nil {
		return nil, err
	}
	return &thread, nil
}

// ListThreadsByOwner 代理自己的链接列表
func (d *ThreadDao) ListThreadsByOwner(ctx context.Context, ownerID int64) ([]*model.Thread, error) {
	var threads []*model.Thread
	err := d.db.WithContext(ctx).
		Preload("Product").
		Where("owner_id = ?", ownerID).
		Order("created_at DESC").
		Find(&threads).Error
	return threads, err
}

// IncrementVisit 访问计数+1，表达式更新保证 N 次调用正好 +N
func (d *ThreadDao) IncrementVisit(ctx context.Context, threadID int64) error {
	return d.db.WithContext(ctx).Model(&model.Thread{}).
		Where("id = ?", threadID).
		Update("visit_count", gorm.Expr("visit_count + 1")).Error
}

// ThreadStat 单条链接在时间窗口内的订单状态分布。
// visit_count 是链接的累计值，不随窗口过滤
type ThreadStat struct {
	ThreadID        int64  `json:"thread_id"`
	Name            string `json:"name"`
	ProductTitle    string `json:"product_title"`
	VisitCount      int64  `json:"visit_count"`
	NewCount        int64  `json:"new_count"`
	ReadyCount      int64  `json:"ready_count"`
	DeliveringCount int64  `json:"delivering_count"`
	DeliveredCount  int64  `json:"delivered_count"`
	NotCallCount    int64  `json:"not_call_count"`
	CanceledCount   int64  `json:"canceled_count"`
	ArchivedCount   int64  `json:"archived_count"`
}

// StatsByOwner 按 orders.updated_at 的 [from, to) 窗口统计 owner 每条链接的七种状态订单数。
// 窗口条件放在 CASE 里而不是 WHERE，零订单的链接也要出现在结果里
func (d *ThreadDao) StatsByOwner(ctx context.Context, ownerID int64, from, to time.Time) ([]*ThreadStat, error) {
	var stats []*ThreadStat
	err := d.db.WithContext(ctx).Raw(`
SELECT t.id AS thread_id,
       t.name,
       p.title AS product_title,
       t.visit_count,
       COALESCE(SUM(CASE WHEN o.status = 'new' AND o.updated_at >= ? AND o.updated_at < ? THEN 1 ELSE 0 END), 0)               AS new_count,
       COALESCE(SUM(CASE WHEN o.status = 'ready_to_delivery' AND o.updated_at >= ? AND o.updated_at < ? THEN 1 ELSE 0 END), 0) AS ready_count,
       COALESCE(SUM(CASE WHEN o.status = 'delivering' AND o.updated_at >= ? AND o.updated_at < ? THEN 1 ELSE 0 END), 0)        AS delivering_count,
       COALESCE(SUM(CASE WHEN o.status = 'delivered' AND o.updated_at >= ? AND o.updated_at < ? THEN 1 ELSE 0 END), 0)         AS delivered_count,
       COALESCE(SUM(CASE WHEN o.status = 'not_call' AND o.updated_at >= ? AND o.updated_at < ? THEN 1 ELSE 0 END), 0)          AS not_call_count,
       COALESCE(SUM(CASE WHEN o.status = 'canceled' AND o.updated_at >= ? AND o.updated_at < ? THEN 1 ELSE 0 END), 0)          AS canceled_count,
       COALESCE(SUM(CASE WHEN o.status = 'archived' AND o.updated_at >= ? AND o.updated_at < ? THEN 1 ELSE 0 END), 0)          AS archived_count
FROM threads t
JOIN products p ON p.id = t.product_id
LEFT JOIN orders o ON o.thread_id = t.id
WHERE t.owner_id = ?
GROUP BY t.id, t.name, p.title, t.visit_count
ORDER BY t.id`,
		from, to, from, to, from, to, from, to, from, to, from, to, from, to,
		ownerID,
	).Scan(&stats).Error
	return stats, err
}

// CompetitionRow 竞赛排行榜行：按已送达订单数排名的代理
type CompetitionRow struct {
	OwnerID    int64  `json:"owner_id"`
	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name"`
	OrderCount int64  `json:"order_count"`
}

// CompetitionBoard 窗口内各代理通过自己链接成交（delivered）的订单数，至少一单才上榜
func (d *ThreadDao) CompetitionBoard(ctx context.Context, from, to time.Time) ([]*CompetitionRow, error) {
	var rows []*CompetitionRow
	err := d.db.WithContext(ctx).Raw(`
SELECT u.id AS owner_id,
       u.first_name,
       u.last_name,
       COUNT(o.id) AS order_count
FROM users u
JOIN threads t ON t.owner_id = u.id
JOIN orders o ON o.thread_id = t.id
WHERE o.status = 'delivered' AND o.updated_at >= ? AND o.updated_at < ?
GROUP BY u.id, u.first_name, u.last_name
HAVING COUNT(o.id) >= 1
ORDER BY order_count DESC`,
		from, to,
	).Scan(&rows).Error
	return rows, err
}
