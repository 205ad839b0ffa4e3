package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	uierrors "github.com/dalemusser/converge/internal/app/features/errors"
	"github.com/gorilla/securecookie"
	"go.uber.org/zap"
)

/*─────────────────────────────────────────────────────────────────────────────*
| Caller tokens                                                               |
*─────────────────────────────────────────────────────────────────────────────*/

// TokenName is the securecookie name bound into every signature, so a value
// signed for another purpose with the same key does not decode as a token.
const TokenName = "converge-caller"

// MinKeyLength is the shortest accepted token key.
const MinKeyLength = 32

// ErrShortKey is returned by NewCodec for keys under MinKeyLength bytes.
var ErrShortKey = errors.New("token key is too short")

// Codec signs and verifies caller identity tokens. Tokens are HMAC signed,
// not encrypted: the identity inside is readable by the holder.
type Codec struct {
	sc *securecookie.SecureCookie
}

// NewCodec builds a Codec from hashKey. maxAge bounds token lifetime;
// zero means tokens never expire.
func NewCodec(hashKey []byte, maxAge time.Duration) (*Codec, error) {
	if len(hashKey) < MinKeyLength {
		return nil, fmt.Errorf("%w: %d bytes, need %d", ErrShortKey, len(hashKey), MinKeyLength)
	}
	sc := securecookie.New(hashKey, nil)
	sc.MaxAge(int(maxAge / time.Second))
	sc.SetSerializer(securecookie.JSONEncoder{})
	return &Codec{sc: sc}, nil
}

// Encode issues a token for identity.
func (c *Codec) Encode(identity string) (string, error) {
	return c.sc.Encode(TokenName, identity)
}

// Decode verifies token and returns the identity it carries.
func (c *Codec) Decode(token string) (string, error) {
	var identity string
	if err := c.sc.Decode(TokenName, token, &identity); err != nil {
		return "", err
	}
	return identity, nil
}

/*─────────────────────────────────────────────────────────────────────────────*
| Current-caller helper                                                       |
*─────────────────────────────────────────────────────────────────────────────*/

type ctxKey string

const callerKey ctxKey = "caller"

// Caller returns the identity attached by LoadCaller. Anonymous requests
// yield "".
func Caller(r *http.Request) string {
	return CallerFromContext(r.Context())
}

// CallerFromContext is Caller for code that only holds a context.
func CallerFromContext(ctx context.Context) string {
	id, _ := ctx.Value(callerKey).(string)
	return id
}

// WithCaller returns a copy of r carrying identity. Handler tests use it to
// skip token signing.
func WithCaller(r *http.Request, identity string) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), callerKey, identity))
}

// LoadCaller injects the identity from an "Authorization: Bearer" token into
// the request context. Requests with no token, or a token that fails to
// verify, continue as anonymous; the registry rejects their mutations.
func LoadCaller(codec *Codec, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			if token == "" || codec == nil {
				next.ServeHTTP(w, r)
				return
			}

			identity, err := codec.Decode(token)
			if err != nil {
				if scErr, ok := err.(securecookie.Error); ok && scErr.IsDecode() {
					logger.Debug("caller token rejected", zap.Error(err))
				} else {
					logger.Warn("caller token decode failed", zap.Error(err))
				}
				next.ServeHTTP(w, r)
				return
			}
			next.ServeHTTP(w, WithCaller(r, identity))
		})
	}
}

// RequireCaller rejects anonymous requests with 401.
func RequireCaller(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if Caller(r) == "" {
			w.Header().Set("WWW-Authenticate", `Bearer realm="converge"`)
			uierrors.WriteError(w, r, http.StatusUnauthorized, "UNAUTHENTICATED", "A caller token is required.")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func bearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	const prefix = "bearer "
	if len(h) < len(prefix) || !strings.EqualFold(h[:len(prefix)], prefix) {
		return ""
	}
	return strings.TrimSpace(h[len(prefix):])
}
