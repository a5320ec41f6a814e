// Package auth resolves the calling address for OTC gRPC requests, either
// from a verified HS256 bearer token or from a plain sender header.
package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	apperrors "github.com/nseguias/otc/internal/platform/errors"
	"github.com/nseguias/otc/internal/platform/requestctx"
	grpcmeta "github.com/nseguias/otc/internal/services/otc/api/grpc/metadata"
	"google.golang.org/grpc"
)

// Verifier checks caller tokens. A Verifier without a key trusts the
// sender header instead.
type Verifier struct {
	key    []byte
	issuer string
	now    func() time.Time
}

// NewVerifier returns a verifier for tokens signed with key. An empty key
// disables token verification.
func NewVerifier(key []byte, issuer string) *Verifier {
	return &Verifier{key: key, issuer: strings.TrimSpace(issuer), now: time.Now}
}

// Enabled reports whether tokens are required.
func (v *Verifier) Enabled() bool {
	return v != nil && len(v.key) > 0
}

// Verify validates token and returns its subject.
func (v *Verifier) Verify(token string) (string, error) {
	if !v.Enabled() {
		return "", errors.New("token verifier is not configured")
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return "", apperrors.New(apperrors.CodeUnauthenticated, "bearer token is required")
	}

	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(v.now),
	}
	if v.issuer != "" {
		opts = append(opts, jwt.WithIssuer(v.issuer))
	}
	var claims jwt.RegisteredClaims
	_, err := jwt.ParseWithClaims(token, &claims, func(*jwt.Token) (any, error) {
		return v.key, nil
	}, opts...)
	if err != nil {
		return "", mapJWTError(err)
	}
	subject := strings.TrimSpace(claims.Subject)
	if subject == "" {
		return "", apperrors.New(apperrors.CodeUnauthenticated, "token subject is required")
	}
	return subject, nil
}

// Sign issues an HS256 token for subject valid for ttl.
func Sign(key []byte, issuer, subject string, ttl time.Duration, now time.Time) (string, error) {
	if len(key) == 0 {
		return "", errors.New("signing key is required")
	}
	if strings.TrimSpace(subject) == "" {
		return "", errors.New("subject is required")
	}
	if ttl <= 0 {
		return "", errors.New("ttl must be positive")
	}
	claims := jwt.RegisteredClaims{
		Subject:   subject,
		Issuer:    strings.TrimSpace(issuer),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(key)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

func mapJWTError(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return apperrors.New(apperrors.CodeUnauthenticated, "token is expired")
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return apperrors.New(apperrors.CodeUnauthenticated, "token signature is invalid")
	case errors.Is(err, jwt.ErrTokenInvalidIssuer):
		return apperrors.New(apperrors.CodeUnauthenticated, "token issuer mismatch")
	case errors.Is(err, jwt.ErrTokenUnverifiable):
		return apperrors.New(apperrors.CodeUnauthenticated, "token alg is invalid")
	default:
		return apperrors.New(apperrors.CodeUnauthenticated, "token is invalid")
	}
}

// senderFromContext resolves the raw caller address for an inbound call.
// An empty result with a nil error means the call is anonymous.
func (v *Verifier) senderFromContext(ctx context.Context) (string, error) {
	if !v.Enabled() {
		return grpcmeta.IncomingValue(ctx, grpcmeta.SenderHeader), nil
	}
	header := grpcmeta.IncomingValue(ctx, grpcmeta.AuthorizationHeader)
	if header == "" {
		return "", nil
	}
	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok {
		return "", apperrors.New(apperrors.CodeUnauthenticated, "authorization must be a bearer token")
	}
	return v.Verify(token)
}

// UnaryServerInterceptor stores the resolved sender in the request context.
// Anonymous calls pass through; execute handlers reject them later.
func UnaryServerInterceptor(v *Verifier) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		sender, err := v.senderFromContext(ctx)
		if err != nil {
			return nil, apperrors.HandleError(err, grpcmeta.LocaleFromContext(ctx))
		}
		if sender != "" {
			ctx = requestctx.WithSender(ctx, sender)
		}
		return handler(ctx, req)
	}
}
