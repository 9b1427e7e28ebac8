package v1

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/qwertyllionman/Alijahon/internal/dao"
	"github.com/qwertyllionman/Alijahon/internal/dao/mysql"
	"github.com/qwertyllionman/Alijahon/internal/model"
	"github.com/qwertyllionman/Alijahon/internal/service"
	"github.com/qwertyllionman/Alijahon/pkg/e"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newHandlerTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, mysql.AutoMigrate(db))
	return db
}

func seedHandlerUser(t *testing.T, db *gorm.DB, phone, role string) *model.User {
	t.Helper()
	user := &model.User{PhoneNumber: phone, PasswordHash: "x", Role: role}
	require.NoError(t, db.Create(user).Error)
	return user
}

// newOrderRouter 用固定身份的桩中间件代替 JWT，authed/staff 共用一个分组
func newOrderRouter(db *gorm.DB, userID int64, role string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	orderSvc := service.NewOrderService(
		dao.NewOrderDao(db),
		dao.NewProductDao(db),
		dao.NewThreadDao(db),
		dao.NewSettingsDao(db),
		nil,
		nil,
		nil,
	)
	userSvc := service.NewUserService(dao.NewUserDao(db))
	h := NewOrderHandler(orderSvc, userSvc)

	r := gin.New()
	g := r.Group("/", func(c *gin.Context) {
		c.Set("user_id", userID)
		c.Set("role", role)
	})
	h.RegisterRoutes(g, g)
	return r
}

func doGet(r *gin.Engine, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	r.ServeHTTP(w, req)
	return w
}

func TestGetOrderOwnership(t *testing.T) {
	db := newHandlerTestDB(t)
	owner := seedHandlerUser(t, db, "998900000011", model.RoleUser)
	stranger := seedHandlerUser(t, db, "998900000012", model.RoleUser)
	order := &model.Order{
		CustomerID:  &owner.ID,
		Fullname:    "customer",
		PhoneNumber: owner.PhoneNumber,
		Quantity:    1,
		Total:       decimal.NewFromInt(50000),
		Status:      model.OrderStatusNew,
	}
	require.NoError(t, db.Create(order).Error)

	w := doGet(newOrderRouter(db, owner.ID, model.RoleUser), fmt.Sprintf("/orders/%d", order.ID))
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Code  int `json:"code"`
		Order struct {
			ID int64 `json:"id"`
		} `json:"order"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Equal(t, e.SUCCESS, resp.Code)
	require.Equal(t, order.ID, resp.Order.ID)

	// 别人的订单看不到
	w = doGet(newOrderRouter(db, stranger.ID, model.RoleUser), fmt.Sprintf("/orders/%d", order.ID))
	require.Equal(t, http.StatusForbidden, w.Code)
}

func TestGetOrderNullCustomer(t *testing.T) {
	db := newHandlerTestDB(t)
	viewer := seedHandlerUser(t, db, "998900000021", model.RoleUser)
	admin := seedHandlerUser(t, db, "998900000022", model.RoleAdmin)
	// 客户注销后 customer_id 置空，订单保留
	order := &model.Order{
		Fullname:    "deleted customer",
		PhoneNumber: "998901112233",
		Quantity:    1,
		Total:       decimal.NewFromInt(50000),
		Status:      model.OrderStatusArchived,
	}
	require.NoError(t, db.Create(order).Error)

	// 普通用户拿不到无主订单，且不能崩
	w := doGet(newOrderRouter(db, viewer.ID, model.RoleUser), fmt.Sprintf("/orders/%d", order.ID))
	require.Equal(t, http.StatusForbidden, w.Code)

	// 员工角色不受归属限制
	w = doGet(newOrderRouter(db, admin.ID, model.RoleAdmin), fmt.Sprintf("/orders/%d", order.ID))
	require.Equal(t, http.StatusOK, w.Code)
}

func TestListOrdersHeldFlag(t *testing.T) {
	db := newHandlerTestDB(t)
	op1 := seedHandlerUser(t, db, "998900000031", model.RoleOperator)
	op2 := seedHandlerUser(t, db, "998900000032", model.RoleOperator)

	until := time.Now().Add(10 * time.Minute)
	held := &model.Order{
		Fullname:    "held order",
		PhoneNumber: "998901112233",
		Quantity:    1,
		Total:       decimal.NewFromInt(50000),
		Status:      model.OrderStatusNew,
		HeldBy:      &op2.ID,
		HeldUntil:   &until,
	}
	free := &model.Order{
		Fullname:    "free order",
		PhoneNumber: "998901112244",
		Quantity:    1,
		Total:       decimal.NewFromInt(50000),
		Status:      model.OrderStatusNew,
	}
	require.NoError(t, db.Create(held).Error)
	require.NoError(t, db.Create(free).Error)

	w := doGet(newOrderRouter(db, op1.ID, model.RoleOperator), "/orders")
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Code   int `json:"code"`
		Orders []struct {
			ID   int64 `json:"id"`
			Held bool  `json:"held"`
		} `json:"orders"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Equal(t, e.SUCCESS, resp.Code)
	require.Len(t, resp.Orders, 2)

	// 他人持有的订单带 held 标记，未持有的不带
	byID := map[int64]bool{}
	for _, o := range resp.Orders {
		byID[o.ID] = o.Held
	}
	require.True(t, byID[held.ID])
	require.False(t, byID[free.ID])
}
