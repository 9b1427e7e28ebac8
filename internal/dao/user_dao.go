package dao

import (
	"context"

	"github.com/qwertyllionman/Alijahon/internal/model"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type UserDao struct {
	db *gorm.DB
}

func NewUserDao(db *gorm.DB) *UserDao {
	return &UserDao{
		db: db,
	}
}

// CreateUser 创建用户
func (d *UserDao) CreateUser(ctx context.Context, user *model.User) error {
	return d.db.WithContext(ctx).Create(user).Error
}

// GetUserByID 根据ID获取用户
func (d *UserDao) GetUserByID(ctx context.Context, userID int64) (*model.User, error) {
	var user model.User
	err := d.db.WithContext(ctx).Where("id = ?", userID).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetUserByPhone 根据手机号获取用户
func (d *UserDao) GetUserByPhone(ctx context.Context, phone string) (*model.User, error) {
	var user model.User
	err := d.db.WithContext(ctx).Where("phone_number = ?", phone).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdateUser 更新用户基本资料字段
func (d *UserDao) UpdateUser(ctx context.Context, userID int64, updates map[string]interface{}) error {
	return d.db.WithContext(ctx).Model(&model.User{}).
		Where("id = ?", userID).
		Updates(updates).Error
}

// UpdateUserPassword 更新密码哈希
func (d *UserDao) UpdateUserPassword(ctx context.Context, userID int64, passwordHash string) error {
	return d.db.WithContext(ctx).Model(&model.User{}).
		Where("id = ?", userID).
		Update("password_hash", passwordHash).Error
}

// DebitBalance 原子扣减余额：余额不足时一行都不更新，返回 ErrInsufficientBalance。
// 不做读-改-写，并发提交不会把余额扣成负数
func (d *UserDao) DebitBalance(ctx context.Context, userID int64, amount decimal.Decimal) error {
	result := d.db.WithContext(ctx).Model(&model.User{}).
		Where("id = ? AND balance >= ?", userID, amount).
		Update("balance", gorm.Expr("balance - ?", amount))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrInsufficientBalance
	}
	return nil
}

// CreditBalance 原子增加余额（付款单取消时的补偿入账）
func (d *UserDao) CreditBalance(ctx context.Context, userID int64, amount decimal.Decimal) error {
	return d.db.WithContext(ctx).Model(&model.User{}).
		Where("id = ?", userID).
		Update("balance", gorm.Expr("balance + ?", amount)).Error
}

// ToggleWishList 收藏切换：已收藏则删除，未收藏则创建，返回当前是否收藏
func (d *UserDao) ToggleWishList(ctx context.Context, userID, productID int64) (bool, error) {
	var count int64
	if err := d.db.WithContext(ctx).Model(&model.WishList{}).
		Where("user_id = ? AND product_id = ?", userID, productID).
		Count(&count).Error; err != nil {
		return false, err
	}
	if count > 0 {
		err := d.db.WithContext(ctx).
			Where("user_id = ? AND product_id = ?", userID, productID).
			Delete(&model.WishList{}).Error
		return false, err
	}
	err := d.db.WithContext(ctx).Create(&model.WishList{UserID: userID, ProductID: productID}).Error
	return true, err
}

// ListWishList 用户收藏的商品
func (d *UserDao) ListWishList(ctx context.Context, userID int64) ([]*model.Product, error) {
	var products []*model.Product
	err := d.db.WithContext(ctx).
		Joins("JOIN wishlists ON wishlists.product_id = products.id").
		Where("wishlists.user_id = ?", userID).
		Find(&products).Error
	return products, err
}
