package service

import (
	"context"

	"github.com/qwertyllionman/Alijahon/internal/dao"
	"github.com/qwertyllionman/Alijahon/internal/model"
)

type UserService struct {
	userDao *dao.UserDao
}

func NewUserService(userDao *dao.UserDao) *UserService {
	return &UserService{
		userDao: userDao,
	}
}

// GetProfile 获取用户资料
func (s *UserService) GetProfile(ctx context.Context, userID int64) (*model.User, error) {
	return s.userDao.GetUserByID(ctx, userID)
}

// ProfileUpdateInput 资料更新入参，nil/空值字段不更新
type ProfileUpdateInput struct {
	FirstName  *string
	LastName   *string
	DistrictID *int64
	Address    *string
	TelegramID *string
	About      *string
}

// UpdateProfile 更新资料，只写提交了的字段
func (s *UserService) UpdateProfile(ctx context.Context, userID int64, in ProfileUpdateInput) (*model.User, error) {
	updates := map[string]interface{}{}
	if in.FirstName != nil {
		updates["first_name"] = *in.FirstName
	}
	if in.LastName != nil {
		updates["last_name"] = *in.LastName
	}
	if in.DistrictID != nil {
		updates["district_id"] = *in.DistrictID
	}
	if in.Address != nil {
		updates["address"] = *in.Address
	}
	if in.TelegramID != nil {
		updates["telegram_id"] = *in.TelegramID
	}
	if in.About != nil {
		updates["about"] = *in.About
	}

	if len(updates) > 0 {
		if err := s.userDao.UpdateUser(ctx, userID, updates); err != nil {
			return nil, err
		}
	}
	return s.userDao.GetUserByID(ctx, userID)
}

// ToggleWishList 收藏/取消收藏，返回切换后是否已收藏
func (s *UserService) ToggleWishList(ctx context.Context, userID, productID int64) (bool, error) {
	return s.userDao.ToggleWishList(ctx, userID, productID)
}

// ListWishList 收藏的商品
func (s *UserService) ListWishList(ctx context.Context, userID int64) ([]*model.Product, error) {
	return s.userDao.ListWishList(ctx, userID)
}
