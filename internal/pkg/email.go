package pkg

import (
	"fmt"
	"time"

	"gopkg.in/gomail.v2"
)

// SMTPConfig 发信配置，来自环境变量（NOVA_SMTP_*）
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string // 授权码/密码
	From     string // 显示的发件人，可与 Username 相同
}

// SendEmail 同步发送一封 HTML 邮件
func SendEmail(cfg SMTPConfig, to, subject, htmlBody string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", cfg.From)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", htmlBody)

	d := gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password)
	if err := d.DialAndSend(m); err != nil {
		return fmt.Errorf("send email to %s: %w", to, err)
	}
	return nil
}

// EmailCodeHTML 验证码邮件正文
func EmailCodeHTML(subject, code string, ttl time.Duration) string {
	return fmt.Sprintf(
		`<p>您好，</p><p>您正在进行 <b>%s</b> 操作，验证码为：<b style="font-size:18px;">%s</b>。</p><p>有效期 %d 分钟，请勿泄露给他人。</p>`,
		subject, code, int(ttl.Minutes()))
}
