package service

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	netmail "net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/counselbook/reserve/internal/apperr"
	"github.com/counselbook/reserve/internal/mail"
	"github.com/counselbook/reserve/internal/metrics"
	"github.com/counselbook/reserve/internal/model"
	"github.com/counselbook/reserve/internal/timeslot"
)

const tokenSecretBytes = 32 // 256 bits of entropy in the raw secret

// LinkTokenService issues and verifies the single-use reservation links.
type LinkTokenService struct {
	tokens       TokenStore
	users        UserStore
	mailer       mail.Mailer
	baseURL      string
	defaultHours int
	logger       *zap.Logger
}

func NewLinkTokenService(
	tokens TokenStore,
	users UserStore,
	mailer mail.Mailer,
	baseURL string,
	defaultHours int,
	logger *zap.Logger,
) *LinkTokenService {
	if defaultHours <= 0 {
		defaultHours = 24
	}
	return &LinkTokenService{
		tokens:       tokens,
		users:        users,
		mailer:       mailer,
		baseURL:      strings.TrimRight(baseURL, "/"),
		defaultHours: defaultHours,
		logger:       logger,
	}
}

type IssuedLink struct {
	Link      string `json:"link"`
	ExpiresAt string `json:"expiresAt"`
}

// Issue mints a reservation link for the target counselor. Counselors may
// only issue links for themselves; admins for anyone.
func (s *LinkTokenService) Issue(ctx context.Context, ident model.Identity, counselorID *uuid.UUID, ttlHours *int) (*IssuedLink, error) {
	targetID := ident.UserID
	if counselorID != nil {
		targetID = *counselorID
	}

	if !ident.IsAdmin() && targetID != ident.UserID {
		return nil, apperr.Forbidden("counselors may only create links for themselves")
	}

	counselor, err := s.users.GetByID(ctx, targetID)
	if err != nil {
		return nil, err
	}
	if counselor == nil {
		return nil, apperr.NotFound("counselor not found")
	}
	if _, err := netmail.ParseAddress(counselor.Email); err != nil {
		return nil, apperr.Invalid("counselor has no valid email address for link delivery")
	}

	hours := s.defaultHours
	if ttlHours != nil {
		hours = *ttlHours
	}
	if hours < 1 {
		return nil, apperr.Invalid("expiresInHours must be at least 1")
	}

	rawToken, err := generateSecret()
	if err != nil {
		return nil, fmt.Errorf("generate token secret: %w", err)
	}

	token := &model.EmailLinkToken{
		CounselorID: targetID,
		TokenHash:   HashToken(rawToken),
		ExpiresAt:   time.Now().Add(time.Duration(hours) * time.Hour),
	}

	if err := s.tokens.Create(ctx, token); err != nil {
		return nil, err
	}

	link := fmt.Sprintf("%s/public/reserve?token=%s", s.baseURL, rawToken)

	metrics.IncLinkIssued()
	s.logger.Info("reservation link issued",
		zap.String("token_id", token.ID.String()),
		zap.String("counselor_id", targetID.String()),
		zap.Time("expires_at", token.ExpiresAt))

	// Delivery is decoupled from issuance: the caller gets the link either way.
	go func(to, link string, expiresAt time.Time) {
		sendCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := s.mailer.SendReservationLink(sendCtx, to, link, expiresAt); err != nil {
			s.logger.Warn("reservation link mail failed", zap.Error(err))
		}
	}(counselor.Email, link, token.ExpiresAt)

	return &IssuedLink{
		Link:      link,
		ExpiresAt: timeslot.FormatLocal(token.ExpiresAt),
	}, nil
}

// Verify checks a raw token without consuming it, so the public page can be
// loaded more than once before the final booking. Failures are deliberately
// indistinguishable to the caller.
func (s *LinkTokenService) Verify(ctx context.Context, rawToken string) (*model.EmailLinkToken, error) {
	trimmed := strings.TrimSpace(rawToken)
	if trimmed == "" {
		return nil, apperr.Invalid("token query parameter is required")
	}

	token, err := s.tokens.GetByHash(ctx, HashToken(trimmed))
	if err != nil {
		return nil, err
	}
	if token == nil {
		return nil, apperr.Unauthorized("invalid or expired link")
	}
	if token.IsExpired(time.Now()) {
		return nil, apperr.Unauthorized("link has expired")
	}
	if token.IsUsed() {
		return nil, apperr.Unauthorized("link has already been used")
	}

	return token, nil
}

// HashToken derives the stored lookup key from a raw secret.
func HashToken(rawToken string) string {
	sum := sha256.Sum256([]byte(rawToken))
	return hex.EncodeToString(sum[:])
}

func generateSecret() (string, error) {
	buf := make([]byte, tokenSecretBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
