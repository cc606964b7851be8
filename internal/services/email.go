package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
	"tikkit/internal/config"
	"tikkit/internal/logger"

	"go.uber.org/zap"
)

const resendEndpoint = "https://api.resend.com/emails"

// EmailService отправляет письма через HTTP API Resend.
type EmailService struct {
	apiKey string
	from   string
	client *http.Client
}

func NewEmailService(cfg *config.Config) *EmailService {
	return &EmailService{
		apiKey: cfg.ResendAPIKey,
		from:   cfg.ResendFrom,
		// Ограниченный таймаут: зависший Resend не должен держать воркер
		client: &http.Client{Timeout: 5 * time.Second},
	}
}

type resendRequest struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	HTML    string   `json:"html"`
}

func (s *EmailService) Send(ctx context.Context, to []string, subject, html string) error {
	body, err := json.Marshal(resendRequest{
		From:    s.from,
		To:      to,
		Subject: subject,
		HTML:    html,
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, resendEndpoint, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+s.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("resend ответил %d", resp.StatusCode)
	}
	return nil
}

// SendPasswordReset ставит письмо со ссылкой на сброс в очередь.
// Запрос пользователя не ждёт доставку: отправка — best-effort.
func (s *EmailService) SendPasswordReset(ctx context.Context, to, resetLink string) error {
	html := fmt.Sprintf(
		"<p>Reset your Tikkit password (expires in 1 hour):</p><p><a href='%s'>%s</a></p><p>If you didn't request this, ignore this email.</p>",
		resetLink, resetLink,
	)

	job := EmailJob{
		To:      []string{to},
		Subject: "Reset your Tikkit password",
		Body:    html,
	}

	// Переполненная очередь не должна подвешивать HTTP-запрос: письмо теряем, факт логируем
	select {
	case EmailQueue <- job:
	default:
		logger.WithCtx(ctx).Warn("Очередь писем переполнена, письмо сброса не отправлено")
	}
	return nil
}

type EmailJob struct {
	To      []string
	Subject string
	Body    string
}

var EmailQueue = make(chan EmailJob, 100) // глобальная очередь на 100 писем

func StartEmailWorker(emailService *EmailService) {
	go func() {
		for job := range EmailQueue {
			if err := emailService.Send(context.Background(), job.To, job.Subject, job.Body); err != nil {
				logger.Log.Error("Не удалось отправить письмо", zap.Error(err))
			}
		}
	}()
}
