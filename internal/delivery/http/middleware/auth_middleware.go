package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/abdlelah2024/abdlelah2024-shefaa-clinic-app/internal/domain/entity"
	"github.com/abdlelah2024/abdlelah2024-shefaa-clinic-app/pkg/jwt"
	"github.com/abdlelah2024/abdlelah2024-shefaa-clinic-app/pkg/response"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type contextKey string

const SessionKey contextKey = "session"

// accessTokenQueryParam carries the token for websocket upgrades, where browsers cannot set headers.
const accessTokenQueryParam = "access_token"

type TokenValidator interface {
	ValidateTokenOfType(tokenString string, tokenType jwt.TokenType) (*jwt.Claims, error)
}

type SessionLoader interface {
	Load(ctx context.Context, userID uuid.UUID, tokenID string) (*entity.Session, error)
}

type AuthMiddleware struct {
	tokens   TokenValidator
	sessions SessionLoader
	log      *logrus.Logger
}

func NewAuthMiddleware(tokens TokenValidator, sessions SessionLoader, log *logrus.Logger) *AuthMiddleware {
	return &AuthMiddleware{
		tokens:   tokens,
		sessions: sessions,
		log:      log,
	}
}

func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tokenString, ok := bearerToken(r)
		if !ok {
			response.Unauthorized(w, "Authorization header is required")
			return
		}

		claims, err := m.tokens.ValidateTokenOfType(tokenString, jwt.AccessToken)
		if err != nil {
			response.Unauthorized(w, "Invalid or expired token")
			return
		}

		// The stored session is the source of truth for permissions.
		session, err := m.sessions.Load(r.Context(), claims.UserID, claims.TokenID)
		if err != nil {
			m.log.Warnf("Failed to load session: %+v", err)
			response.InternalServerError(w, "Failed to validate token")
			return
		}
		if session == nil {
			response.Unauthorized(w, "Token has been revoked")
			return
		}

		next.ServeHTTP(w, r.WithContext(WithSession(r.Context(), session)))
	})
}

func bearerToken(r *http.Request) (string, bool) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		token := r.URL.Query().Get(accessTokenQueryParam)
		return token, token != "" && isWebsocketUpgrade(r)
	}

	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}

func WithSession(ctx context.Context, session *entity.Session) context.Context {
	return context.WithValue(ctx, SessionKey, session)
}

// GetSessionFromContext extracts the session set by Authenticate
func GetSessionFromContext(ctx context.Context) (*entity.Session, bool) {
	session, ok := ctx.Value(SessionKey).(*entity.Session)
	return session, ok && session != nil
}
