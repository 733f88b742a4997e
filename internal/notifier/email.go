package notifier

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"

	"careers-portal/internal/model"
)

// EmailConfig 邮件配置。
type EmailConfig struct {
	Host     string   `yaml:"host" json:"host"`
	Port     int      `yaml:"port" json:"port"`
	Username string   `yaml:"username" json:"username"`
	Password string   `yaml:"password" json:"password"`
	From     string   `yaml:"from" json:"from"`
	To       []string `yaml:"to" json:"to"`
	Subject  string   `yaml:"subject" json:"subject"`
}

// EmailMessage 表示一封邮件。
type EmailMessage struct {
	From    string
	To      []string
	Subject string
	Body    string
}

// EmailSender 抽象发送接口，便于测试替换。
type EmailSender interface {
	Send(ctx context.Context, msg EmailMessage) error
}

// SMTPClient 封装 SMTP 发送。
type SMTPClient struct {
	addr string
	auth smtp.Auth
}

func NewSMTPClient(cfg EmailConfig) *SMTPClient {
	addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)
	var auth smtp.Auth
	if cfg.Username != "" && cfg.Password != "" {
		auth = smtp.PlainAuth("", cfg.Username, cfg.Password, cfg.Host)
	}
	return &SMTPClient{addr: addr, auth: auth}
}

func (c *SMTPClient) Send(ctx context.Context, msg EmailMessage) error {
	data := buildEmailData(msg)
	return smtp.SendMail(c.addr, c.auth, msg.From, msg.To, []byte(data))
}

// EmailNotifier 在申请最终提交后给招聘方发送邮件。
type EmailNotifier struct {
	cfg    EmailConfig
	sender EmailSender
}

// NewEmailNotifier 创建 EmailNotifier。
func NewEmailNotifier(cfg EmailConfig, sender EmailSender) *EmailNotifier {
	if sender == nil {
		sender = NewSMTPClient(cfg)
	}
	if cfg.Subject == "" {
		cfg.Subject = "New job application received"
	}
	return &EmailNotifier{cfg: cfg, sender: sender}
}

// Notify 发送提交通知邮件。
func (n EmailNotifier) Notify(ctx context.Context, app model.Application, job *model.JobPost) error {
	msg := EmailMessage{
		From:    n.cfg.From,
		To:      n.cfg.To,
		Subject: n.cfg.Subject,
		Body:    buildBody(app, job),
	}
	return n.sender.Send(ctx, msg)
}

func buildBody(app model.Application, job *model.JobPost) string {
	var b strings.Builder
	b.WriteString("A new application has been submitted.\n")
	b.WriteString(fmt.Sprintf("Reference: %s\n", app.Reference))
	b.WriteString(fmt.Sprintf("Candidate: %s\n", app.CandidateID))
	if job != nil {
		b.WriteString(fmt.Sprintf("Post: %s (%s)\n", job.Title, job.Category))
	} else {
		b.WriteString(fmt.Sprintf("Job ID: %d\n", app.JobID))
	}
	b.WriteString(fmt.Sprintf("Submitted at: %s\n", app.SubmittedAt.Format("2006-01-02 15:04:05")))
	return b.String()
}

func buildEmailData(msg EmailMessage) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("From: %s\r\n", msg.From))
	b.WriteString(fmt.Sprintf("To: %s\r\n", strings.Join(msg.To, ",")))
	b.WriteString(fmt.Sprintf("Subject: %s\r\n", msg.Subject))
	b.WriteString("MIME-Version: 1.0\r\nContent-Type: text/plain; charset=utf-8\r\n\r\n")
	b.WriteString(msg.Body)
	return b.String()
}
