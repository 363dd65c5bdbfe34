package service

import (
	"fmt"

	"butce/config"

	"gopkg.in/gomail.v2"
)

// EmailService 邮件服务
type EmailService struct {
	cfg *config.EmailConfig
}

// NewEmailService 创建邮件服务
func NewEmailService(cfg *config.EmailConfig) *EmailService {
	return &EmailService{cfg: cfg}
}

// SendMonthlySummaryEmail 发送月度收支汇总邮件
func (s *EmailService) SendMonthlySummaryEmail(toEmail, name string, report *SummaryReport) error {
	if !s.cfg.Enabled {
		return fmt.Errorf("邮件服务未启用，请配置 EMAIL_ENABLED=true")
	}

	subject := fmt.Sprintf("【个人财务系统】%s 月度收支汇总", report.Month)
	body := s.generateSummaryEmailBody(name, report)

	return s.sendEmail(toEmail, subject, body)
}

// generateSummaryEmailBody 生成汇总邮件内容
func (s *EmailService) generateSummaryEmailBody(name string, report *SummaryReport) string {
	netColor := "#059669"
	if report.NetAmount < 0 {
		netColor = "#dc2626"
	}
	return fmt.Sprintf(`
<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <style>
        body { font-family: Arial, sans-serif; background: #f5f5f5; margin: 0; padding: 20px; }
        .container { max-width: 600px; margin: 0 auto; background: #fff; border-radius: 12px; overflow: hidden; box-shadow: 0 4px 20px rgba(0,0,0,0.1); }
        .header { background: linear-gradient(135deg, #2563eb, #1d4ed8); color: white; padding: 30px; text-align: center; }
        .header h1 { margin: 0; font-size: 24px; }
        .content { padding: 40px 30px; }
        .content p { color: #333; line-height: 1.8; margin: 0 0 20px; }
        .stats { width: 100%%; border-collapse: collapse; margin: 20px 0; }
        .stats td { padding: 12px 16px; border-bottom: 1px solid #e5e7eb; color: #333; }
        .stats td.value { text-align: right; font-weight: 600; }
        .footer { background: #f8f9fa; padding: 20px 30px; text-align: center; color: #6c757d; font-size: 12px; }
    </style>
</head>
<body>
    <div class="container">
        <div class="header">
            <h1>💰 个人财务系统</h1>
        </div>
        <div class="content">
            <p>尊敬的 <strong>%s</strong>，您好！</p>
            <p>以下是您 <strong>%s</strong> 的收支汇总：</p>
            <table class="stats">
                <tr><td>总收入</td><td class="value" style="color:#059669;">%.2f</td></tr>
                <tr><td>总支出</td><td class="value" style="color:#dc2626;">%.2f</td></tr>
                <tr><td>净额</td><td class="value" style="color:%s;">%.2f</td></tr>
                <tr><td>交易笔数</td><td class="value">%d</td></tr>
            </table>
        </div>
        <div class="footer">
            <p>此邮件由系统自动发送，请勿回复</p>
            <p>© 个人财务系统 - 您的个人财务管理助手</p>
        </div>
    </div>
</body>
</html>
`, name, report.Month, report.TotalIncome, report.TotalExpense, netColor, report.NetAmount, report.TransactionCount)
}

// sendEmail 发送邮件
func (s *EmailService) sendEmail(to, subject, body string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", m.FormatAddress(s.cfg.Username, s.cfg.From))
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", body)

	d := gomail.NewDialer(s.cfg.Host, s.cfg.Port, s.cfg.Username, s.cfg.Password)

	if err := d.DialAndSend(m); err != nil {
		return fmt.Errorf("发送邮件失败: %w", err)
	}

	return nil
}

// SendTestEmail 发送测试邮件
func (s *EmailService) SendTestEmail(toEmail string) error {
	if !s.cfg.Enabled {
		return fmt.Errorf("邮件服务未启用")
	}

	subject := "【个人财务系统】邮件配置测试"
	body := `
<!DOCTYPE html>
<html>
<head><meta charset="UTF-8"></head>
<body style="font-family: Arial, sans-serif; padding: 20px;">
    <h2>✅ 邮件配置成功</h2>
    <p>如果您收到这封邮件，说明邮件服务配置正确。</p>
    <p style="color: #666;">—— 个人财务系统</p>
</body>
</html>
`
	return s.sendEmail(toEmail, subject, body)
}
