package service

import (
	"context"
	"errors"
	"mime/multipart"
	"strings"

	"go.uber.org/zap"

	"github.com/tazhibayda/account-service/internal/domain"
	"github.com/tazhibayda/account-service/internal/log"
	"github.com/tazhibayda/account-service/internal/repo"
	"github.com/tazhibayda/account-service/internal/security"
)

// AccountStore is the durable side of the lifecycle. *repo.Store implements
// it; tests swap in an in-memory version.
type AccountStore interface {
	FindAccountByEmail(ctx context.Context, email string) (*domain.Account, error)
	CreateAccount(ctx context.Context, a *domain.Account) error
	ConsumeVerificationCode(ctx context.Context, code string) (*domain.Account, error)
}

// MediaUploader stores a profile image and returns its public URL.
// Best-effort: a failure here never fails registration.
type MediaUploader interface {
	Upload(ctx context.Context, fh *multipart.FileHeader) (string, error)
}

// Mailer delivers the verification link. Best-effort as well.
type Mailer interface {
	SendVerification(ctx context.Context, to, link string) error
}

type CredentialHasher interface {
	Hash(pw string) (string, error)
	Verify(pw, hash string) bool
}

// Accounts drives the register → verify → login lifecycle.
type Accounts struct {
	store    AccountStore
	hasher   CredentialHasher
	uploader MediaUploader
	mailer   Mailer
	baseURL  string
}

func NewAccounts(store AccountStore, hasher CredentialHasher, uploader MediaUploader, mailer Mailer, baseURL string) *Accounts {
	return &Accounts{
		store:    store,
		hasher:   hasher,
		uploader: uploader,
		mailer:   mailer,
		baseURL:  strings.TrimRight(baseURL, "/"),
	}
}

type RegisterInput struct {
	Name     string
	Email    string
	Password string
	Image    *multipart.FileHeader
}

// NormalizeEmail is applied before every lookup and insert, so the unique
// index sees one spelling per address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register creates an unverified account and mails its verification link.
// Image upload and mail delivery are attempt-and-log: their failure leaves
// the account intact and the response successful.
func (s *Accounts) Register(ctx context.Context, in RegisterInput) (*domain.Account, error) {
	name := strings.TrimSpace(in.Name)
	email := NormalizeEmail(in.Email)
	switch {
	case name == "":
		return nil, validationf("name is required")
	case email == "":
		return nil, validationf("email is required")
	case !strings.Contains(email, "@"):
		return nil, validationf("invalid email")
	case in.Password == "":
		return nil, validationf("password is required")
	case len(in.Password) < 6:
		return nil, validationf("password must be at least 6 characters")
	}

	if existing, err := s.store.FindAccountByEmail(ctx, email); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, ErrEmailTaken
	}

	imageURL := ""
	if in.Image != nil && s.uploader != nil {
		url, err := s.uploader.Upload(ctx, in.Image)
		if err != nil {
			log.WithDD(ctx, log.L()).Warn("profile image upload failed, continuing without image",
				zap.String("email", email), zap.Error(err))
		} else {
			imageURL = url
		}
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, err
	}
	code, err := security.NewVerificationCode()
	if err != nil {
		return nil, err
	}

	a := &domain.Account{
		Email:            email,
		Name:             name,
		PasswordHash:     hash,
		ProfileImageURL:  imageURL,
		Verified:         false,
		VerificationCode: code,
	}
	if err := s.store.CreateAccount(ctx, a); err != nil {
		// гонка двух регистраций: тот же конфликт, что и pre-check
		if errors.Is(err, repo.ErrEmailExists) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}

	link := s.baseURL + "/api/verify/" + code
	if err := s.mailer.SendVerification(ctx, email, link); err != nil {
		// no resend path exists; the account still stands, so log loudly
		log.WithDD(ctx, log.L()).Error("verification mail failed",
			zap.String("email", email), zap.Error(err))
	}

	return a, nil
}

// VerifyEmail consumes a verification code exactly once.
func (s *Accounts) VerifyEmail(ctx context.Context, code string) (*domain.Account, error) {
	if code == "" {
		return nil, ErrCodeNotFound
	}
	a, err := s.store.ConsumeVerificationCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if a == nil {
		return nil, ErrCodeNotFound
	}
	return a, nil
}

// Login checks credentials for a verified account. Unknown email and wrong
// password produce the same error, so a caller can't probe who is registered.
func (s *Accounts) Login(ctx context.Context, email, password string) (*domain.Account, error) {
	a, err := s.store.FindAccountByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		return nil, err
	}
	if a == nil {
		return nil, ErrInvalidCredentials
	}
	if !a.Verified {
		return nil, ErrNotVerified
	}
	if !s.hasher.Verify(password, a.PasswordHash) {
		return nil, ErrInvalidCredentials
	}
	return a, nil
}
