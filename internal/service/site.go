package service

import (
	"StoreText/internal/model"
	"StoreText/internal/repo"
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// TokenIssuer - значение iss в токенах сайтов.
const TokenIssuer = "storetext-relay"

var (
	ErrInvalidSiteName  = errors.New("invalid site name")
	ErrSiteTaken        = errors.New("site name is already taken")
	ErrSiteNotFound     = errors.New("site not found")
	ErrVersionConflict  = errors.New("version conflict")
	ErrEnvelopeTooLarge = errors.New("envelope too large")
	ErrEmptyEnvelope    = errors.New("envelope must not be empty")
	ErrInvalidToken     = errors.New("invalid site token")
)

var siteNameRe = regexp.MustCompile(`^[A-Za-z0-9._-]{1,64}$`)

// ValidSiteName проверяет имя сайта.
func ValidSiteName(name string) bool {
	return siteNameRe.MatchString(name)
}

// SiteService - логика relay: занятие имени, запись и чтение конвертов.
type SiteService struct {
	repo        repo.SiteRepository
	secret      string
	maxEnvelope int
	logger      *zap.SugaredLogger
	now         func() time.Time
}

// NewSiteService создаёт сервис. maxEnvelope - лимит конверта в байтах (0 - без лимита).
func NewSiteService(r repo.SiteRepository, secret string, maxEnvelope int, logger *zap.SugaredLogger) *SiteService {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &SiteService{repo: r, secret: secret, maxEnvelope: maxEnvelope, logger: logger, now: time.Now}
}

// MaxEnvelope возвращает лимит размера конверта в байтах.
func (s *SiteService) MaxEnvelope() int { return s.maxEnvelope }

// Claim занимает имя сайта и выдаёт токен на запись.
func (s *SiteService) Claim(ctx context.Context, name string) (string, error) {
	if !ValidSiteName(name) {
		return "", ErrInvalidSiteName
	}
	created, err := s.repo.CreateIfAbsent(ctx, name)
	if err != nil {
		return "", fmt.Errorf("create site: %w", err)
	}
	if !created {
		return "", ErrSiteTaken
	}
	s.logger.Infow("site claimed", "site", name)
	return s.IssueToken(name)
}

// Put записывает конверт при совпадении версии и возвращает новую версию.
func (s *SiteService) Put(ctx context.Context, name, envelope string, version int64) (int64, error) {
	if !ValidSiteName(name) {
		return 0, ErrInvalidSiteName
	}
	if envelope == "" {
		return 0, ErrEmptyEnvelope
	}
	if s.maxEnvelope > 0 && len(envelope) > s.maxEnvelope {
		return 0, ErrEnvelopeTooLarge
	}
	ver, err := s.repo.UpdateWithVersion(ctx, name, version, envelope)
	if err == nil {
		s.logger.Debugw("site updated", "site", name, "version", ver)
		return ver, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, fmt.Errorf("update site: %w", err)
	}
	// различаем «нет сайта» и «устаревшая версия»
	if _, gerr := s.repo.GetByName(ctx, name); gerr != nil {
		if errors.Is(gerr, gorm.ErrRecordNotFound) {
			return 0, ErrSiteNotFound
		}
		return 0, gerr
	}
	return 0, ErrVersionConflict
}

// Get возвращает сайт. Занятый, но ни разу не записанный сайт считается отсутствующим.
func (s *SiteService) Get(ctx context.Context, name string) (*model.Site, error) {
	if !ValidSiteName(name) {
		return nil, ErrInvalidSiteName
	}
	site, err := s.repo.GetByName(ctx, name)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSiteNotFound
		}
		return nil, err
	}
	if site.Envelope == "" {
		return nil, ErrSiteNotFound
	}
	return site, nil
}

// IssueToken подписывает HS256 токен с subject = имя сайта. Токен бессрочный:
// он подтверждает владение именем, а не сессию.
func (s *SiteService) IssueToken(name string) (string, error) {
	return IssueSiteToken(name, s.secret, s.now())
}

// IssueSiteToken подписывает токен сайта секретом secret.
func IssueSiteToken(site, secret string, now time.Time) (string, error) {
	if site == "" || secret == "" {
		return "", errors.New("invalid params for site token")
	}
	claims := &jwt.RegisteredClaims{
		Issuer:   TokenIssuer,
		Subject:  site,
		IssuedAt: jwt.NewNumericDate(now),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("sign site token: %w", err)
	}
	return signed, nil
}

// ParseSiteToken проверяет подпись и issuer и возвращает имя сайта.
func ParseSiteToken(token, secret string) (string, error) {
	parsed, err := jwt.ParseWithClaims(token, &jwt.RegisteredClaims{}, func(*jwt.Token) (any, error) {
		return []byte(secret), nil
	}, jwt.WithIssuer(TokenIssuer), jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	sub, err := parsed.Claims.GetSubject()
	if err != nil || sub == "" {
		return "", ErrInvalidToken
	}
	return sub, nil
}
