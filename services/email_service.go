package services

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/gomail.v2"
)

// Mailer delivers the completion receipt to the client.
type Mailer interface {
	SendReceipt(to, clientName, fileName string, pdf []byte) error
}

// SMTPMailer sends receipt emails with the PDF attached.
type SMTPMailer struct {
	dialer *gomail.Dialer
}

func NewSMTPMailer(dialer *gomail.Dialer) *SMTPMailer {
	return &SMTPMailer{dialer: dialer}
}

func (m *SMTPMailer) SendReceipt(to, clientName, fileName string, pdf []byte) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", msg.FormatAddress(os.Getenv("SMTP_USER"), "Special Services Area"))
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", "Installation Service Receipt")
	msg.SetBody("text/html", fmt.Sprintf(`
		<p>Dear %s,</p>
		<br>
		<p>Attached is your receipt with the details of the completed installation.</p>
		<p>Thank you for your preference.</p>
		<br>
		<p>Regards,<br>Special Services Area</p>
	`, clientName))
	msg.Attach(fileName, gomail.SetCopyFunc(func(w io.Writer) error {
		_, err := w.Write(pdf)
		return err
	}))

	return m.dialer.DialAndSend(msg)
}
