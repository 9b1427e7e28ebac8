package dao

import (
	"context"
	"errors"

	"github.com/qwertyllionman/Alijahon/internal/model"
	"gorm.io/gorm"
)

type SettingsDao struct {
	db *gorm.DB
}

func NewSettingsDao(db *gorm.DB) *SettingsDao {
	return &SettingsDao{
		db: db,
	}
}

// GetSettings 获取站点配置单例行。缺行是部署故障而不是用户错误，
// 返回 ErrSiteSettingsMissing 由上层单独映射
func (d *SettingsDao) GetSettings(ctx context.Context) (*model.SiteSettings, error) {
	var settings model.SiteSettings
	err := d.db.WithContext(ctx).First(&settings).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSiteSettingsMissing
		}
		return nil, err
	}
	return &settings, nil
}

// SaveSettings 写入站点配置
func (d *SettingsDao) SaveSettings(ctx context.Context, settings *model.SiteSettings) error {
	return d.db.WithContext(ctx).Save(settings).Error
}
