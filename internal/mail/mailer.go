package mail

import (
	"fmt"
	"net/smtp"
	"strings"
)

// Message 描述一封待发送的纯文本邮件。
type Message struct {
	To      string
	Subject string
	Body    string
}

// Mailer 抽象出站邮件能力，便于在测试中替换传输实现。
// 调用方自行决定失败策略；本包不做重试。
type Mailer interface {
	Send(msg Message) error
}

// SMTPMailer 通过 SMTP 同步发送邮件。
type SMTPMailer struct {
	addr string
	from string
}

// NewSMTPMailer 构造 SMTPMailer，addr 形如 host:port。
func NewSMTPMailer(addr, from string) *SMTPMailer {
	return &SMTPMailer{addr: addr, from: from}
}

// Send 实现 Mailer。发送是同步且不可取消的，慢速服务器会阻塞调用方。
func (m *SMTPMailer) Send(msg Message) error {
	to := strings.TrimSpace(msg.To)
	if to == "" {
		return fmt.Errorf("mail: recipient is required")
	}

	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", m.from)
	fmt.Fprintf(&b, "To: %s\r\n", to)
	fmt.Fprintf(&b, "Subject: %s\r\n", msg.Subject)
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=UTF-8\r\n")
	b.WriteString("\r\n")
	b.WriteString(msg.Body)

	if err := smtp.SendMail(m.addr, nil, m.from, []string{to}, []byte(b.String())); err != nil {
		return fmt.Errorf("mail: send to %s: %w", to, err)
	}
	return nil
}
