package utils

import (
	"regexp"

	"golang.org/x/crypto/bcrypt"
)

// HashPassword 使用bcrypt加密密码
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// CheckPassword 校验明文密码与哈希是否匹配
func CheckPassword(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

var nonDigitRe = regexp.MustCompile(`\D`)

// NormalizePhone 去掉手机号中的所有非数字字符
func NormalizePhone(phone string) string {
	return nonDigitRe.ReplaceAllString(phone, "")
}
