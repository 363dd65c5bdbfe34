package service

import (
	"fmt"
	"math"
	"time"

	"butce/database"
	"butce/models"
)

// ReportService 报表服务
// 纯读侧计算，分组与求和下推到数据库执行
type ReportService struct{}

// NewReportService 创建报表服务
func NewReportService() *ReportService {
	return &ReportService{}
}

// SummaryReport 月度收支汇总
type SummaryReport struct {
	TotalIncome      float64 `json:"total_income"`
	TotalExpense     float64 `json:"total_expense"`
	NetAmount        float64 `json:"net_amount"`
	TransactionCount int64   `json:"transaction_count"`
	Month            string  `json:"month"` // 2006-01
}

// CategoryStat 单个类别的统计项
type CategoryStat struct {
	CategoryID       uint    `json:"category_id"`
	CategoryName     string  `json:"category_name"`
	TotalAmount      float64 `json:"total_amount"`
	TransactionCount int64   `json:"transaction_count"`
	Percentage       float64 `json:"percentage"` // 占同类型总额的百分比，保留两位小数
}

// CategoryGroup 同一收支类型下的类别统计
type CategoryGroup struct {
	Categories       []CategoryStat `json:"categories"`
	Total            float64        `json:"total"`
	TransactionCount int64          `json:"transaction_count"`
}

// CategoryReport 类别维度报表
type CategoryReport struct {
	Income     CategoryGroup `json:"income"`
	Expense    CategoryGroup `json:"expense"`
	Net        float64       `json:"net"`
	Month      string        `json:"month,omitempty"` // 为空表示全部时间
	ReportDate time.Time     `json:"report_date"`
}

// BalanceReport 余额报表：当月、当年、全部时间三个窗口各自独立统计
// current_balance 定义为全部时间的净额，不是逐笔结转的账本余额
type BalanceReport struct {
	CurrentBalance float64   `json:"current_balance"`
	MonthlyIncome  float64   `json:"monthly_income"`
	MonthlyExpense float64   `json:"monthly_expense"`
	MonthlyNet     float64   `json:"monthly_net"`
	YearlyIncome   float64   `json:"yearly_income"`
	YearlyExpense  float64   `json:"yearly_expense"`
	YearlyNet      float64   `json:"yearly_net"`
	AllTimeIncome  float64   `json:"all_time_income"`
	AllTimeExpense float64   `json:"all_time_expense"`
	AllTimeNet     float64   `json:"all_time_net"`
	ReportDate     time.Time `json:"report_date"`
	CurrentMonth   string    `json:"current_month"`
	CurrentYear    int       `json:"current_year"`
}

// Summary 指定月份的收支汇总
// 收入与支出分别独立求和，transaction_count 统计窗口内两种类型的全部交易
func (s *ReportService) Summary(userID uint, month string) (*SummaryReport, error) {
	start, end, err := monthRange(month)
	if err != nil {
		return nil, err
	}

	totalIncome, err := s.sumAmount(userID, models.TypeIncome, &start, &end)
	if err != nil {
		return nil, err
	}
	totalExpense, err := s.sumAmount(userID, models.TypeExpense, &start, &end)
	if err != nil {
		return nil, err
	}

	var count int64
	if err := database.DB.Model(&models.Transaction{}).
		Where("user_id = ? AND transaction_date >= ? AND transaction_date <= ?", userID, start, end).
		Count(&count).Error; err != nil {
		return nil, err
	}

	return &SummaryReport{
		TotalIncome:      totalIncome,
		TotalExpense:     totalExpense,
		NetAmount:        totalIncome - totalExpense,
		TransactionCount: count,
		Month:            month,
	}, nil
}

// Categories 类别维度报表，month 为空时统计全部时间
func (s *ReportService) Categories(userID uint, month string) (*CategoryReport, error) {
	var start, end *time.Time
	if month != "" {
		s0, e0, err := monthRange(month)
		if err != nil {
			return nil, err
		}
		start, end = &s0, &e0
	}

	income, err := s.groupByCategory(userID, models.TypeIncome, start, end)
	if err != nil {
		return nil, err
	}
	expense, err := s.groupByCategory(userID, models.TypeExpense, start, end)
	if err != nil {
		return nil, err
	}

	return &CategoryReport{
		Income:     income,
		Expense:    expense,
		Net:        income.Total - expense.Total,
		Month:      month,
		ReportDate: time.Now(),
	}, nil
}

// Balance 三个固定窗口（当月、当年、全部时间）的收支与净额
func (s *ReportService) Balance(userID uint) (*BalanceReport, error) {
	now := time.Now()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.Local)
	monthEnd := monthStart.AddDate(0, 1, 0).Add(-time.Millisecond)
	yearStart := time.Date(now.Year(), 1, 1, 0, 0, 0, 0, time.Local)
	yearEnd := time.Date(now.Year()+1, 1, 1, 0, 0, 0, 0, time.Local).Add(-time.Millisecond)

	windows := []struct {
		start, end *time.Time
	}{
		{&monthStart, &monthEnd},
		{&yearStart, &yearEnd},
		{nil, nil},
	}

	sums := make([][2]float64, len(windows)) // [income, expense]
	for i, w := range windows {
		income, err := s.sumAmount(userID, models.TypeIncome, w.start, w.end)
		if err != nil {
			return nil, err
		}
		expense, err := s.sumAmount(userID, models.TypeExpense, w.start, w.end)
		if err != nil {
			return nil, err
		}
		sums[i] = [2]float64{income, expense}
	}

	return &BalanceReport{
		CurrentBalance: sums[2][0] - sums[2][1],
		MonthlyIncome:  sums[0][0],
		MonthlyExpense: sums[0][1],
		MonthlyNet:     sums[0][0] - sums[0][1],
		YearlyIncome:   sums[1][0],
		YearlyExpense:  sums[1][1],
		YearlyNet:      sums[1][0] - sums[1][1],
		AllTimeIncome:  sums[2][0],
		AllTimeExpense: sums[2][1],
		AllTimeNet:     sums[2][0] - sums[2][1],
		ReportDate:     now,
		CurrentMonth:   now.Format("2006-01"),
		CurrentYear:    now.Year(),
	}, nil
}

// sumAmount 按类型求和，start/end 为 nil 时不限时间
func (s *ReportService) sumAmount(userID uint, typ string, start, end *time.Time) (float64, error) {
	query := database.DB.Model(&models.Transaction{}).
		Where("user_id = ? AND type = ?", userID, typ)
	if start != nil && end != nil {
		query = query.Where("transaction_date >= ? AND transaction_date <= ?", *start, *end)
	}
	var total float64
	if err := query.Select("COALESCE(SUM(amount), 0)").Scan(&total).Error; err != nil {
		return 0, err
	}
	return total, nil
}

// groupByCategory 按类别分组统计并计算占比，按金额降序
func (s *ReportService) groupByCategory(userID uint, typ string, start, end *time.Time) (CategoryGroup, error) {
	query := database.DB.Model(&models.Transaction{}).
		Select("transactions.category_id, categories.name AS category_name, SUM(transactions.amount) AS total_amount, COUNT(*) AS transaction_count").
		Joins("JOIN categories ON categories.id = transactions.category_id").
		Where("transactions.user_id = ? AND transactions.type = ?", userID, typ)
	if start != nil && end != nil {
		query = query.Where("transactions.transaction_date >= ? AND transactions.transaction_date <= ?", *start, *end)
	}

	var stats []CategoryStat
	if err := query.Group("transactions.category_id, categories.name").
		Order("total_amount DESC").Scan(&stats).Error; err != nil {
		return CategoryGroup{}, err
	}

	group := CategoryGroup{Categories: stats}
	for _, st := range stats {
		group.Total += st.TotalAmount
		group.TransactionCount += st.TransactionCount
	}
	for i := range group.Categories {
		// 总额为 0 时占比为 0，不产生 NaN
		if group.Total > 0 {
			group.Categories[i].Percentage = roundPercent(group.Categories[i].TotalAmount / group.Total * 100)
		}
	}
	return group, nil
}

// roundPercent 四舍五入保留两位小数
func roundPercent(v float64) float64 {
	return math.Round(v*100) / 100
}

// monthRange 解析 2006-01 形式的月份，返回 [月初 00:00:00, 月末 23:59:59.999]
func monthRange(month string) (time.Time, time.Time, error) {
	start, err := time.ParseInLocation("2006-01", month, time.Local)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: %v", ErrInvalidMonth, err)
	}
	end := start.AddDate(0, 1, 0).Add(-time.Millisecond)
	return start, end, nil
}
