package httpapi

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"

	"kingjoe/internal/bootstrap/logging"
)

const requestIDHeader = "X-Request-ID"

type AuthConfig struct {
	// Secret is the HS256 key shared with the token issuer.
	Secret string
	// UserClaim names the claim holding the numeric user id.
	UserClaim string
}

type ctxUserKey struct{}

func withUserID(ctx context.Context, userID uint64) context.Context {
	return context.WithValue(ctx, ctxUserKey{}, userID)
}

// UserIDFromContext returns the authenticated user id, 0 when absent.
func UserIDFromContext(ctx context.Context) uint64 {
	if ctx == nil {
		return 0
	}
	id, _ := ctx.Value(ctxUserKey{}).(uint64)
	return id
}

// requestContext attaches the logger and a request id to every request.
func requestContext(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requestID := strings.TrimSpace(r.Header.Get(requestIDHeader))
			if requestID == "" {
				requestID = uuid.NewString()
			}
			w.Header().Set(requestIDHeader, requestID)

			ctx := logging.WithLogger(r.Context(), logger)
			ctx = logging.WithAttrs(ctx, slog.String("component", "httpapi"))
			ctx = logging.WithRequestID(ctx, requestID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		started := time.Now()

		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		logging.Info(
			r.Context(),
			"http request",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.Int("status", status),
			slog.Int("bytes", ww.BytesWritten()),
			slog.Duration("elapsed", time.Since(started)),
			slog.String("remote", r.RemoteAddr),
		)
	})
}

var (
	errMissingToken = errors.New("authentication credentials were not provided")
	errInvalidToken = errors.New("given token not valid")
)

func bearerAuth(cfg AuthConfig) func(http.Handler) http.Handler {
	claim := strings.TrimSpace(cfg.UserClaim)
	if claim == "" {
		claim = "user_id"
	}
	secret := []byte(cfg.Secret)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw, ok := bearerToken(r.Header.Get("Authorization"))
			if !ok {
				writeDetail(w, http.StatusUnauthorized, errMissingToken.Error())
				return
			}

			userID, err := verifyToken(raw, secret, claim)
			if err != nil {
				logging.Warn(r.Context(), "bearer token rejected", slog.String("reason", err.Error()))
				writeDetail(w, http.StatusUnauthorized, errInvalidToken.Error())
				return
			}

			ctx := withUserID(r.Context(), userID)
			ctx = logging.WithAttrs(ctx, slog.Uint64("user_id", userID))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func bearerToken(header string) (string, bool) {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

func verifyToken(raw string, secret []byte, claim string) (uint64, error) {
	if len(secret) == 0 {
		return 0, errors.New("token secret is not configured")
	}

	claims := jwt.MapClaims{}
	if _, err := jwt.ParseWithClaims(raw, claims, func(*jwt.Token) (any, error) {
		return secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})); err != nil {
		return 0, err
	}

	return userIDClaim(claims[claim])
}

func userIDClaim(value any) (uint64, error) {
	switch v := value.(type) {
	case float64:
		if v <= 0 || v != math.Trunc(v) || v > 1<<53 {
			return 0, fmt.Errorf("user claim %v is not a positive integer", v)
		}
		return uint64(v), nil
	case string:
		id, err := strconv.ParseUint(strings.TrimSpace(v), 10, 64)
		if err != nil || id == 0 {
			return 0, fmt.Errorf("user claim %q is not a positive integer", v)
		}
		return id, nil
	case nil:
		return 0, errors.New("user claim is missing")
	default:
		return 0, fmt.Errorf("user claim has unsupported type %T", value)
	}
}
