package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
	"tikkit/internal/models"
	"tikkit/internal/repository"
	"tikkit/internal/utils"
)

type mockResetRepo struct {
	usersByEmail map[string]int
	tokens       map[string]*models.PasswordResetToken
	passwords    map[int]string
}

func newMockResetRepo() *mockResetRepo {
	return &mockResetRepo{
		usersByEmail: make(map[string]int),
		tokens:       make(map[string]*models.PasswordResetToken),
		passwords:    make(map[int]string),
	}
}

func (m *mockResetRepo) Create(_ context.Context, token string, userID int, expiresAt time.Time) error {
	m.tokens[token] = &models.PasswordResetToken{Token: token, UserID: userID, ExpiresAt: expiresAt}
	return nil
}

func (m *mockResetRepo) GetByToken(_ context.Context, token string) (*models.PasswordResetToken, error) {
	t, ok := m.tokens[token]
	if !ok {
		return nil, errors.New("not found")
	}
	return t, nil
}

func (m *mockResetRepo) ConsumeAndSetPassword(_ context.Context, token string, userID int, passwordHash string) error {
	t, ok := m.tokens[token]
	if !ok || t.Used || time.Now().After(t.ExpiresAt) {
		return repository.ErrResetTokenSpent
	}
	t.Used = true
	m.passwords[userID] = passwordHash
	return nil
}

func (m *mockResetRepo) FindUserIDByEmail(_ context.Context, email string) (int, error) {
	id, ok := m.usersByEmail[email]
	if !ok {
		return 0, repository.ErrUserNotFound
	}
	return id, nil
}

type mockEmailSender struct {
	sentTo    []string
	lastLink  string
	sendCalls int
}

func (m *mockEmailSender) SendPasswordReset(_ context.Context, to, resetLink string) error {
	m.sentTo = append(m.sentTo, to)
	m.lastLink = resetLink
	m.sendCalls++
	return nil
}

func TestRequestReset_KnownEmail(t *testing.T) {
	repo := newMockResetRepo()
	repo.usersByEmail["known@x.com"] = 7
	sender := &mockEmailSender{}
	svc := NewPasswordService(repo, sender, "https://tikkit.fly.dev", time.Hour)

	if err := svc.RequestReset(context.Background(), "known@x.com"); err != nil {
		t.Fatalf("RequestReset должен возвращать nil: %v", err)
	}

	if len(repo.tokens) != 1 {
		t.Fatalf("ожидался один сохранённый токен, есть %d", len(repo.tokens))
	}
	for token := range repo.tokens {
		// 32 байта в base64url — 43 символа, не меньше 256 бит энтропии
		if len(token) < 43 {
			t.Fatalf("слишком короткий токен: %q", token)
		}
		if !strings.Contains(sender.lastLink, token) {
			t.Fatalf("в ссылке нет токена: %q", sender.lastLink)
		}
	}
}

func TestRequestReset_UnknownEmail_SameOutcome(t *testing.T) {
	repo := newMockResetRepo()
	sender := &mockEmailSender{}
	svc := NewPasswordService(repo, sender, "https://tikkit.fly.dev", time.Hour)

	// Неизвестный email: тот же nil, но ни записи, ни письма
	if err := svc.RequestReset(context.Background(), "ghost@x.com"); err != nil {
		t.Fatalf("RequestReset должен возвращать nil и для чужого email: %v", err)
	}
	if len(repo.tokens) != 0 {
		t.Fatal("токен не должен создаваться для неизвестного email")
	}
	if sender.sendCalls != 0 {
		t.Fatal("письмо не должно отправляться для неизвестного email")
	}
}

func TestResetPassword_WeakPassword(t *testing.T) {
	svc := NewPasswordService(newMockResetRepo(), &mockEmailSender{}, "https://x", time.Hour)

	if err := svc.ResetPassword(context.Background(), "любой", "short"); !errors.Is(err, ErrWeakPassword) {
		t.Fatalf("ожидался ErrWeakPassword, получено: %v", err)
	}
}

func TestResetPassword_WeakPassword_MultibyteRunes(t *testing.T) {
	repo := newMockResetRepo()
	repo.tokens["tok"] = &models.PasswordResetToken{Token: "tok", UserID: 5, ExpiresAt: time.Now().Add(time.Hour)}
	svc := NewPasswordService(repo, &mockEmailSender{}, "https://x", time.Hour)

	// 7 символов, но 13 байт из-за кириллицы; пароль всё равно короткий
	if err := svc.ResetPassword(context.Background(), "tok", "пароль7"); !errors.Is(err, ErrWeakPassword) {
		t.Fatalf("ожидался ErrWeakPassword для 7 символов, получено: %v", err)
	}

	// 8 символов кириллицей — уже достаточно
	if err := svc.ResetPassword(context.Background(), "tok", "пароль78"); err != nil {
		t.Fatalf("8-символьный пароль должен проходить: %v", err)
	}
}

func TestResetPassword_UnknownToken(t *testing.T) {
	svc := NewPasswordService(newMockResetRepo(), &mockEmailSender{}, "https://x", time.Hour)

	if err := svc.ResetPassword(context.Background(), "нет-такого", "pw123456"); !errors.Is(err, ErrResetTokenInvalid) {
		t.Fatalf("ожидался ErrResetTokenInvalid, получено: %v", err)
	}
}

func TestResetPassword_Expired(t *testing.T) {
	repo := newMockResetRepo()
	repo.tokens["tok"] = &models.PasswordResetToken{Token: "tok", UserID: 1, ExpiresAt: time.Now().Add(-time.Minute)}
	svc := NewPasswordService(repo, &mockEmailSender{}, "https://x", time.Hour)

	// Срок истёк к моменту гашения — токен невалиден
	if err := svc.ResetPassword(context.Background(), "tok", "pw123456"); !errors.Is(err, ErrResetTokenInvalid) {
		t.Fatalf("ожидался ErrResetTokenInvalid, получено: %v", err)
	}
}

func TestResetPassword_SingleUse(t *testing.T) {
	repo := newMockResetRepo()
	repo.tokens["tok"] = &models.PasswordResetToken{Token: "tok", UserID: 3, ExpiresAt: time.Now().Add(time.Hour)}
	svc := NewPasswordService(repo, &mockEmailSender{}, "https://x", time.Hour)

	if err := svc.ResetPassword(context.Background(), "tok", "pw123456"); err != nil {
		t.Fatalf("первое гашение должно пройти: %v", err)
	}

	hash, ok := repo.passwords[3]
	if !ok || !utils.CheckPasswordHash("pw123456", hash) {
		t.Fatal("новый пароль не сохранён или сохранён неверно")
	}

	if err := svc.ResetPassword(context.Background(), "tok", "pw654321"); !errors.Is(err, ErrResetTokenInvalid) {
		t.Fatalf("повторное гашение должно давать ErrResetTokenInvalid, получено: %v", err)
	}
}
