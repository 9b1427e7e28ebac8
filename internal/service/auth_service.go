package service

import (
	"context"
	"errors"

	"github.com/qwertyllionman/Alijahon/internal/dao"
	"github.com/qwertyllionman/Alijahon/internal/model"
	"github.com/qwertyllionman/Alijahon/pkg/e"
	"github.com/qwertyllionman/Alijahon/pkg/utils"
	"gorm.io/gorm"
)

var ErrWrongPassword = errors.New("密码错误")

type AuthService struct {
	userDao *dao.UserDao
	jwtUtil *utils.JWTUtil
}

func NewAuthService(userDao *dao.UserDao, jwtSecret string, jwtExpireHours int) *AuthService {
	return &AuthService{
		userDao: userDao,
		jwtUtil: utils.NewJWTUtil(jwtSecret, jwtExpireHours),
	}
}

// Login 手机号+密码登录。手机号没见过就当场注册（原站的登录即注册语义），
// 见过则校验密码。返回签好角色的 token
func (s *AuthService) Login(ctx context.Context, phoneNumber, password string) (*model.User, string, error) {
	fieldErrs := e.FieldErrors{}
	phone := utils.NormalizePhone(phoneNumber)
	if phone == "" {
		fieldErrs.Add("phone_number", "手机号不能为空")
	}
	if password == "" {
		fieldErrs.Add("password", "密码不能为空")
	}
	if fieldErrs.Has() {
		return nil, "", fieldErrs
	}

	user, err := s.userDao.GetUserByPhone(ctx, phone)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", err
		}
		// 新手机号：注册成普通用户
		hash, herr := utils.HashPassword(password)
		if herr != nil {
			return nil, "", herr
		}
		user = &model.User{
			PhoneNumber:  phone,
			PasswordHash: hash,
			Role:         model.RoleUser,
		}
		if cerr := s.userDao.CreateUser(ctx, user); cerr != nil {
			return nil, "", cerr
		}
	} else if !utils.CheckPassword(password, user.PasswordHash) {
		return nil, "", ErrWrongPassword
	}

	token, err := s.jwtUtil.GenerateToken(user.ID, user.PhoneNumber, user.Role)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// ChangePassword 修改密码：旧密码错误、两次输入不一致、长度不足
// 都一起收集返回
func (s *AuthService) ChangePassword(ctx context.Context, userID int64, oldPassword, newPassword, confirmPassword string) error {
	user, err := s.userDao.GetUserByID(ctx, userID)
	if err != nil {
		return err
	}

	fieldErrs := e.FieldErrors{}
	if !utils.CheckPassword(oldPassword, user.PasswordHash) {
		fieldErrs.Add("old_password", "旧密码错误")
	}
	if len(newPassword) < 8 {
		fieldErrs.Add("new_password", "新密码长度至少8位")
	}
	if newPassword != confirmPassword {
		fieldErrs.Add("confirm_password", "两次输入的密码不一致")
	}
	if fieldErrs.Has() {
		return fieldErrs
	}

	newHash, err := utils.HashPassword(newPassword)
	if err != nil {
		return err
	}
	return s.userDao.UpdateUserPassword(ctx, userID, newHash)
}
