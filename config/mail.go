package config

import (
	"log"
	"os"
	"strconv"

	"gopkg.in/gomail.v2"
)

// NewMailDialer builds the SMTP dialer used for receipt delivery.
func NewMailDialer() *gomail.Dialer {
	port := 587
	if env := os.Getenv("SMTP_PORT"); env != "" {
		if p, err := strconv.Atoi(env); err == nil {
			port = p
		}
	}

	d := gomail.NewDialer(
		os.Getenv("SMTP_HOST"),
		port,
		os.Getenv("SMTP_USER"),
		os.Getenv("SMTP_PASS"),
	)

	if closer, err := d.Dial(); err != nil {
		log.Printf("Mail server not reachable: %v", err)
	} else {
		closer.Close()
		log.Println("Mail server ready")
	}

	return d
}
