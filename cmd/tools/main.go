package main

import (
	"context"
	"fmt"

	"github.com/qwertyllionman/Alijahon/internal/dao"
	"github.com/qwertyllionman/Alijahon/internal/dao/mysql"
	"github.com/qwertyllionman/Alijahon/internal/model"
	"github.com/qwertyllionman/Alijahon/pkg/app"
	"github.com/qwertyllionman/Alijahon/pkg/logger"
	"github.com/qwertyllionman/Alijahon/pkg/utils"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// 开发/压测环境种子数据：管理员、操作员、地区、分类、商品、站点配置。
// 幂等：按唯一键存在即跳过
func main() {
	cfg := app.BootstrapApp()

	db, err := mysql.InitDB(&cfg.Database.Mysql)
	if err != nil {
		logger.Fatal("连接Mysql数据库失败", "err", err)
	}
	if err := mysql.AutoMigrate(db); err != nil {
		logger.Fatal("建表失败", "err", err)
	}

	ctx := context.Background()
	userDao := dao.NewUserDao(db)
	productDao := dao.NewProductDao(db)
	settingsDao := dao.NewSettingsDao(db)

	// 站点配置
	if _, err := settingsDao.GetSettings(ctx); err != nil {
		if err := settingsDao.SaveSettings(ctx, &model.SiteSettings{
			DeliveryPrice: decimal.NewFromInt(3000),
		}); err != nil {
			logger.Fatal("写入站点配置失败", "err", err)
		}
		fmt.Println("site settings seeded")
	}

	// 地区/区县
	seedDistricts(db)

	// 用户：管理员 + 操作员 + 普通用户
	seedUser(ctx, userDao, "998900000001", "admin123admin", model.RoleAdmin, "Admin")
	seedUser(ctx, userDao, "998900000002", "operator123", model.RoleOperator, "Operator")
	seedUser(ctx, userDao, "998900000003", "user123user", model.RoleUser, "Customer")

	// 分类与商品
	seedCatalog(ctx, db, productDao)

	fmt.Println("✅ seed 完成")
}

func seedUser(ctx context.Context, userDao *dao.UserDao, phone, password, role, firstName string) {
	if _, err := userDao.GetUserByPhone(ctx, phone); err == nil {
		return
	}
	hash, err := utils.HashPassword(password)
	if err != nil {
		logger.Fatal("密码哈希失败", "err", err)
	}
	if err := userDao.CreateUser(ctx, &model.User{
		PhoneNumber:  phone,
		PasswordHash: hash,
		Role:         role,
		FirstName:    firstName,
	}); err != nil {
		logger.Fatal("创建用户失败", "phone", phone, "err", err)
	}
	fmt.Printf("user seeded: %s (%s)\n", phone, role)
}

func seedDistricts(db *gorm.DB) {
	var count int64
	db.Model(&model.Region{}).Count(&count)
	if count > 0 {
		return
	}
	regions := map[string][]string{
		"Toshkent":  {"Chilonzor", "Yunusobod", "Mirobod"},
		"Samarqand": {"Urgut", "Kattaqo'rg'on"},
	}
	for regionName, districts := range regions {
		region := &model.Region{Name: regionName}
		if err := db.Create(region).Error; err != nil {
			logger.Fatal("创建地区失败", "err", err)
		}
		for _, d := range districts {
			if err := db.Create(&model.District{Name: d, RegionID: region.ID}).Error; err != nil {
				logger.Fatal("创建区县失败", "err", err)
			}
		}
	}
	fmt.Println("regions seeded")
}

func seedCatalog(ctx context.Context, db *gorm.DB, productDao *dao.ProductDao) {
	var count int64
	db.Model(&model.Category{}).Count(&count)
	if count > 0 {
		return
	}

	category := &model.Category{Name: "Maishiy texnika", Slug: utils.Slugify("Maishiy texnika")}
	if err := db.Create(category).Error; err != nil {
		logger.Fatal("创建分类失败", "err", err)
	}

	products := []struct {
		title       string
		price       int64
		sellerPrice int64
		quantity    int
	}{
		{"Blender Premium", 250000, 40000, 500},
		{"Sharsharali krujka", 50000, 5000, 1000},
		{"Mini dazmol", 120000, 20000, 300},
	}
	for _, p := range products {
		if err := productDao.CreateProduct(ctx, &model.Product{
			Title:       p.title,
			CategoryID:  category.ID,
			Price:       decimal.NewFromInt(p.price),
			SellerPrice: decimal.NewFromInt(p.sellerPrice),
			Quantity:    p.quantity,
		}); err != nil {
			logger.Fatal("创建商品失败", "title", p.title, "err", err)
		}
	}
	fmt.Println("catalog seeded")
}
