package auth

import (
	"errors"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/wanderon/auth-service/pkg/domain"
)

// DefaultTokenTTL is the fixed session token lifespan.
const DefaultTokenTTL = 7 * 24 * time.Hour

// DefaultCookieName carries the session token on web clients.
const DefaultCookieName = "authToken"

// TokenConfig holds token service configuration. Loaded once at startup
// and immutable afterwards.
type TokenConfig struct {
	Secret   []byte
	TTL      time.Duration
	Issuer   string
	Audience string

	CookieName     string
	CookieSecure   bool
	CookieSameSite http.SameSite
	CookieDomain   string
}

// TokenService issues and verifies signed, time-limited session tokens.
// Tokens are stateless: expiry is fixed at issuance and there is no
// server-side revocation store. Protected routes mitigate this by
// re-fetching the user on every request.
type TokenService struct {
	config TokenConfig
	now    func() time.Time
}

// NewTokenService creates a token service. A zero TTL falls back to the
// 7-day default.
func NewTokenService(config TokenConfig) *TokenService {
	if config.TTL == 0 {
		config.TTL = DefaultTokenTTL
	}
	if config.CookieName == "" {
		config.CookieName = DefaultCookieName
	}
	if config.CookieSameSite == 0 {
		config.CookieSameSite = http.SameSiteStrictMode
	}
	return &TokenService{config: config, now: time.Now}
}

// TTL returns the configured token lifespan.
func (s *TokenService) TTL() time.Duration {
	return s.config.TTL
}

// CookieName returns the name of the session cookie.
func (s *TokenService) CookieName() string {
	return s.config.CookieName
}

// sessionClaims are the claims encoded into a session token.
type sessionClaims struct {
	jwt.RegisteredClaims
}

// Issue creates a signed token for the user with expiry fixed at
// issuance time plus the configured TTL.
func (s *TokenService) Issue(userID uuid.UUID) (string, error) {
	now := s.now()
	claims := sessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.config.TTL)),
			Issuer:    s.config.Issuer,
			Audience:  jwt.ClaimStrings{s.config.Audience},
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.config.Secret)
}

// Verify parses and validates a token, returning the subject user ID.
// Expired tokens fail with domain.ErrTokenExpired; anything else wrong
// with the token (shape, signature, claims) fails with
// domain.ErrTokenInvalid.
func (s *TokenService) Verify(tokenString string) (uuid.UUID, error) {
	token, err := jwt.ParseWithClaims(tokenString, &sessionClaims{}, func(token *jwt.Token) (any, error) {
		return s.config.Secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return uuid.Nil, domain.ErrTokenExpired
		}
		return uuid.Nil, domain.ErrTokenInvalid
	}

	claims, ok := token.Claims.(*sessionClaims)
	if !ok || !token.Valid {
		return uuid.Nil, domain.ErrTokenInvalid
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return uuid.Nil, domain.ErrTokenInvalid
	}
	return userID, nil
}

// Cookie binds a token to an HTTP-only cookie whose lifetime mirrors the
// token TTL.
func (s *TokenService) Cookie(token string) *http.Cookie {
	return &http.Cookie{
		Name:     s.config.CookieName,
		Value:    token,
		Path:     "/",
		Domain:   s.config.CookieDomain,
		MaxAge:   int(s.config.TTL.Seconds()),
		HttpOnly: true,
		Secure:   s.config.CookieSecure,
		SameSite: s.config.CookieSameSite,
	}
}

// ClearCookie expires the session cookie immediately.
func (s *TokenService) ClearCookie() *http.Cookie {
	return &http.Cookie{
		Name:     s.config.CookieName,
		Value:    "",
		Path:     "/",
		Domain:   s.config.CookieDomain,
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   s.config.CookieSecure,
		SameSite: s.config.CookieSameSite,
	}
}
