package api

import (
	"encoding/json"
	"errors"
	"net/http/httptest"
	"testing"
	"time"

	"butce/config"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sumRows(total float64) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"COALESCE(SUM(amount), 0)"}).AddRow(total)
}

func countRows(n int64) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"count(*)"}).AddRow(n)
}

func statRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"category_id", "category_name", "total_amount", "transaction_count"})
}

func newReportRouter(path string, cfg *config.Config, handler func(h *ReportHandler) gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(setUserIDMiddleware(1))
	router.GET(path, handler(NewReportHandler(cfg)))
	return router
}

func TestReportHandler_Summary(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	cfg := &config.Config{Server: config.ServerConfig{Mode: "debug"}}
	config.GlobalConfig = cfg
	defer func() { config.GlobalConfig = nil }()

	// 收入、支出各自独立求和，交易笔数统计两种类型
	mock.ExpectQuery("SELECT COALESCE\\(SUM\\(amount\\), 0\\) FROM `transactions`").
		WillReturnRows(sumRows(8000))
	mock.ExpectQuery("SELECT COALESCE\\(SUM\\(amount\\), 0\\) FROM `transactions`").
		WillReturnRows(sumRows(3000))
	mock.ExpectQuery("SELECT count\\(\\*\\) FROM `transactions`").
		WillReturnRows(countRows(12))

	router := newReportRouter("/reports/summary", cfg, func(h *ReportHandler) gin.HandlerFunc { return h.Summary })

	req := httptest.NewRequest("GET", "/reports/summary?month=2025-01", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, 200, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data := resp["data"].(map[string]interface{})
	assert.Equal(t, float64(8000), data["total_income"])
	assert.Equal(t, float64(3000), data["total_expense"])
	assert.Equal(t, float64(5000), data["net_amount"])
	assert.Equal(t, float64(12), data["transaction_count"])
	assert.Equal(t, "2025-01", data["month"])
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestReportHandler_Summary_DefaultsToCurrentMonth(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	cfg := &config.Config{Server: config.ServerConfig{Mode: "debug"}}
	config.GlobalConfig = cfg
	defer func() { config.GlobalConfig = nil }()

	mock.ExpectQuery("SELECT COALESCE\\(SUM\\(amount\\), 0\\) FROM `transactions`").
		WillReturnRows(sumRows(0))
	mock.ExpectQuery("SELECT COALESCE\\(SUM\\(amount\\), 0\\) FROM `transactions`").
		WillReturnRows(sumRows(0))
	mock.ExpectQuery("SELECT count\\(\\*\\) FROM `transactions`").
		WillReturnRows(countRows(0))

	router := newReportRouter("/reports/summary", cfg, func(h *ReportHandler) gin.HandlerFunc { return h.Summary })

	req := httptest.NewRequest("GET", "/reports/summary", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, 200, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data := resp["data"].(map[string]interface{})
	assert.Equal(t, time.Now().Format("2006-01"), data["month"])
	assert.Equal(t, float64(0), data["net_amount"])
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestReportHandler_Summary_InvalidMonth(t *testing.T) {
	_, cleanup := setupMockDB(t)
	defer cleanup()

	cfg := &config.Config{Server: config.ServerConfig{Mode: "debug"}}
	config.GlobalConfig = cfg
	defer func() { config.GlobalConfig = nil }()

	router := newReportRouter("/reports/summary", cfg, func(h *ReportHandler) gin.HandlerFunc { return h.Summary })

	req := httptest.NewRequest("GET", "/reports/summary?month=2025-13-01", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, 400, w.Code)
	assert.Contains(t, w.Body.String(), "月份格式错误")
}

func TestReportHandler_Summary_StoreError(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	cfg := &config.Config{Server: config.ServerConfig{Mode: "debug"}}
	config.GlobalConfig = cfg
	defer func() { config.GlobalConfig = nil }()

	// 存储层故障不是客户端的错，应返回 500 而非 400
	mock.ExpectQuery("SELECT COALESCE\\(SUM\\(amount\\), 0\\) FROM `transactions`").
		WillReturnError(errors.New("connection refused"))

	router := newReportRouter("/reports/summary", cfg, func(h *ReportHandler) gin.HandlerFunc { return h.Summary })

	req := httptest.NewRequest("GET", "/reports/summary?month=2025-01", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, 500, w.Code)
	assert.NotContains(t, w.Body.String(), "月份格式错误")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestReportHandler_Categories_StoreError(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	cfg := &config.Config{Server: config.ServerConfig{Mode: "debug"}}
	config.GlobalConfig = cfg
	defer func() { config.GlobalConfig = nil }()

	mock.ExpectQuery("SELECT .* FROM `transactions`").
		WillReturnError(errors.New("connection refused"))

	router := newReportRouter("/reports/categories", cfg, func(h *ReportHandler) gin.HandlerFunc { return h.Categories })

	req := httptest.NewRequest("GET", "/reports/categories", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, 500, w.Code)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestReportHandler_Categories_Percentages(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	cfg := &config.Config{Server: config.ServerConfig{Mode: "debug"}}
	config.GlobalConfig = cfg
	defer func() { config.GlobalConfig = nil }()

	// 收入按金额降序：Maaş 5000 + Bonus 2500
	mock.ExpectQuery("SELECT transactions.category_id, categories.name AS category_name").
		WillReturnRows(statRows().
			AddRow(1, "Maaş", 5000.0, 1).
			AddRow(2, "Bonus", 2500.0, 1))
	// 支出为空
	mock.ExpectQuery("SELECT transactions.category_id, categories.name AS category_name").
		WillReturnRows(statRows())

	router := newReportRouter("/reports/categories", cfg, func(h *ReportHandler) gin.HandlerFunc { return h.Categories })

	req := httptest.NewRequest("GET", "/reports/categories?month=2025-01", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, 200, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data := resp["data"].(map[string]interface{})

	income := data["income"].(map[string]interface{})
	assert.Equal(t, float64(7500), income["total"])
	assert.Equal(t, float64(2), income["transaction_count"])
	cats := income["categories"].([]interface{})
	require.Len(t, cats, 2)
	assert.Equal(t, 66.67, cats[0].(map[string]interface{})["percentage"])
	assert.Equal(t, 33.33, cats[1].(map[string]interface{})["percentage"])

	// 支出总额为 0 时占比不产生 NaN
	expense := data["expense"].(map[string]interface{})
	assert.Equal(t, float64(0), expense["total"])

	assert.Equal(t, float64(7500), data["net"])
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestReportHandler_Balance(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	cfg := &config.Config{Server: config.ServerConfig{Mode: "debug"}}
	config.GlobalConfig = cfg
	defer func() { config.GlobalConfig = nil }()

	// 三个窗口（当月、当年、全部时间）各查一次收入与支出
	totals := []float64{1000, 500, 8000, 3000, 20000, 7000}
	for _, v := range totals {
		mock.ExpectQuery("SELECT COALESCE\\(SUM\\(amount\\), 0\\) FROM `transactions`").
			WillReturnRows(sumRows(v))
	}

	router := newReportRouter("/reports/balance", cfg, func(h *ReportHandler) gin.HandlerFunc { return h.Balance })

	req := httptest.NewRequest("GET", "/reports/balance", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, 200, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data := resp["data"].(map[string]interface{})
	assert.Equal(t, float64(500), data["monthly_net"])
	assert.Equal(t, float64(5000), data["yearly_net"])
	assert.Equal(t, float64(13000), data["all_time_net"])
	// 当前余额即全部时间净额
	assert.Equal(t, float64(13000), data["current_balance"])
	assert.Equal(t, time.Now().Format("2006-01"), data["current_month"])
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestReportHandler_SendTestEmail_Disabled(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	cfg := &config.Config{Server: config.ServerConfig{Mode: "debug"}}
	config.GlobalConfig = cfg
	defer func() { config.GlobalConfig = nil }()

	mock.ExpectQuery("SELECT .* FROM `users`").
		WithArgs(1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "email", "password", "created_at", "updated_at", "deleted_at"}).
			AddRow(1, "Ali", "ali@example.com", "hash", time.Now(), time.Now(), nil))

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(setUserIDMiddleware(1))
	router.POST("/email/test", NewReportHandler(cfg).SendTestEmail)

	req := httptest.NewRequest("POST", "/email/test", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, 400, w.Code)
	assert.Contains(t, w.Body.String(), "邮件服务未启用")
	require.NoError(t, mock.ExpectationsWereMet())
}
