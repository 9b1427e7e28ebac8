package service

import (
	"context"
	"errors"
	"time"

	"github.com/qwertyllionman/Alijahon/internal/dao"
	"github.com/qwertyllionman/Alijahon/internal/model"
)

// 统计时间窗口
const (
	PeriodToday   = "today"
	PeriodLastDay = "last_day"
	PeriodWeekly  = "weekly"
	PeriodMonthly = "monthly"
	PeriodAll     = "all"
)

var ErrUnknownPeriod = errors.New("未知的统计周期")

// allTimeEpoch "全部" 窗口的起点
var allTimeEpoch = time.Date(2000, 1, 1, 0, 0, 0, 0, time.Local)

type StatisticsService struct {
	threadDao   *dao.ThreadDao
	settingsDao *dao.SettingsDao
	now         func() time.Time
}

func NewStatisticsService(threadDao *dao.ThreadDao, settingsDao *dao.SettingsDao) *StatisticsService {
	return &StatisticsService{
		threadDao:   threadDao,
		settingsDao: settingsDao,
		now:         time.Now,
	}
}

// PeriodWindow 把周期名换算成 [from, to) 半开区间，
// 右边界取次日零点，天边界不受时间戳精度影响。
// 边界按当前时刻截断到天粒度一次性算出，
// 七个状态计数和总计行共享同一个窗口
func (s *StatisticsService) PeriodWindow(period string) (time.Time, time.Time, error) {
	now := s.now()
	todayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	nextDayStart := todayStart.AddDate(0, 0, 1)

	switch period {
	case PeriodToday:
		return todayStart, nextDayStart, nil
	case PeriodLastDay:
		return todayStart.AddDate(0, 0, -1), todayStart, nil
	case PeriodWeekly:
		// 含今天在内滚动7天
		return todayStart.AddDate(0, 0, -6), nextDayStart, nil
	case PeriodMonthly:
		// 含今天在内滚动30天
		return todayStart.AddDate(0, 0, -29), nextDayStart, nil
	case PeriodAll:
		return allTimeEpoch, nextDayStart, nil
	default:
		return time.Time{}, time.Time{}, ErrUnknownPeriod
	}
}

// Statistics 统计结果：每条链接一行 + 总计行
type Statistics struct {
	Period    string            `json:"period"`
	PerThread []*dao.ThreadStat `json:"per_thread"`
	Totals    dao.ThreadStat    `json:"totals"`
}

// GetStatistics 代理的推广统计：窗口内每条链接按状态分布的订单数，
// visit_count 是链接累计值不随窗口过滤，最后叠加所有链接的总计行
func (s *StatisticsService) GetStatistics(ctx context.Context, ownerID int64, period string) (*Statistics, error) {
	from, to, err := s.PeriodWindow(period)
	if err != nil {
		return nil, err
	}

	rows, err := s.threadDao.StatsByOwner(ctx, ownerID, from, to)
	if err != nil {
		return nil, err
	}

	totals := dao.ThreadStat{Name: "total"}
	for _, row := range rows {
		totals.VisitCount += row.VisitCount
		totals.NewCount += row.NewCount
		totals.ReadyCount += row.ReadyCount
		totals.DeliveringCount += row.DeliveringCount
		totals.DeliveredCount += row.DeliveredCount
		totals.NotCallCount += row.NotCallCount
		totals.CanceledCount += row.CanceledCount
		totals.ArchivedCount += row.ArchivedCount
	}

	return &Statistics{
		Period:    period,
		PerThread: rows,
		Totals:    totals,
	}, nil
}

// Competition 推广竞赛排行榜：按站点配置的竞赛时间窗口统计，
// 没配窗口就统计全期
func (s *StatisticsService) Competition(ctx context.Context) ([]*dao.CompetitionRow, *model.SiteSettings, error) {
	settings, err := s.settingsDao.GetSettings(ctx)
	if err != nil {
		return nil, nil, err
	}

	from := allTimeEpoch
	to := s.now()
	if settings.CompetitionStart != nil {
		from = *settings.CompetitionStart
	}
	if settings.CompetitionFinish != nil {
		to = *settings.CompetitionFinish
	}

	rows, err := s.threadDao.CompetitionBoard(ctx, from, to)
	if err != nil {
		return nil, nil, err
	}
	return rows, settings, nil
}
