package web

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// tokenClaims is the signed part of an API token.
type tokenClaims struct {
	Exp int64  `json:"exp"`
	Sub string `json:"sub"`
	N   string `json:"n,omitempty"`
}

func secretKeyPath(dir string) string {
	return filepath.Join(filepath.Clean(strings.TrimSpace(dir)), "web", "secret.key")
}

// LoadOrInitSecret returns the workspace's token signing key, creating it on
// first use.
func LoadOrInitSecret(dir string) ([]byte, error) {
	path := secretKeyPath(dir)
	if b, err := os.ReadFile(path); err == nil && len(strings.TrimSpace(string(b))) > 0 {
		return []byte(strings.TrimSpace(string(b))), nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, err
	}
	raw := make([]byte, 32)
	if _, err := rand.Read(raw); err != nil {
		return nil, err
	}
	enc := base64.RawURLEncoding.EncodeToString(raw)
	if err := os.WriteFile(path, []byte(enc+"\n"), 0o600); err != nil {
		return nil, err
	}
	return []byte(enc), nil
}

// NewToken mints a bearer token for sub, valid for ttl.
func NewToken(secret []byte, sub string, ttl time.Duration) (string, error) {
	sub = strings.TrimSpace(sub)
	if sub == "" {
		return "", errors.New("token: missing subject")
	}
	if ttl <= 0 {
		return "", errors.New("token: ttl must be positive")
	}
	n := make([]byte, 16)
	if _, err := rand.Read(n); err != nil {
		return "", err
	}
	return signToken(secret, tokenClaims{
		Sub: sub,
		N:   base64.RawURLEncoding.EncodeToString(n),
		Exp: time.Now().Add(ttl).Unix(),
	})
}

func signToken(secret []byte, c tokenClaims) (string, error) {
	b, err := json.Marshal(c)
	if err != nil {
		return "", err
	}
	p := base64.RawURLEncoding.EncodeToString(b)
	return p + "." + sign(secret, p), nil
}

func sign(secret []byte, payload string) string {
	mac := hmac.New(sha256.New, secret)
	_, _ = mac.Write([]byte(payload))
	return base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
}

func verifyToken(secret []byte, token string) (tokenClaims, error) {
	p, sig, ok := strings.Cut(strings.TrimSpace(token), ".")
	if !ok || p == "" || sig == "" {
		return tokenClaims{}, errors.New("invalid token format")
	}
	if !hmac.Equal([]byte(sign(secret, p)), []byte(sig)) {
		return tokenClaims{}, errors.New("invalid token signature")
	}
	raw, err := base64.RawURLEncoding.DecodeString(p)
	if err != nil {
		return tokenClaims{}, errors.New("invalid token payload")
	}
	var c tokenClaims
	if err := json.Unmarshal(raw, &c); err != nil {
		return tokenClaims{}, errors.New("invalid token payload")
	}
	switch {
	case c.Exp == 0:
		return tokenClaims{}, errors.New("token missing exp")
	case time.Now().Unix() > c.Exp:
		return tokenClaims{}, errors.New("token expired")
	case strings.TrimSpace(c.Sub) == "":
		return tokenClaims{}, errors.New("token missing sub")
	}
	return c, nil
}

// requireToken rejects requests without a valid bearer token. It is a no-op
// when the server has no secret.
func (s *Server) requireToken(next http.HandlerFunc) http.Handler {
	if len(s.cfg.Secret) == 0 {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := r.Header.Get("Authorization")
		tok, ok := strings.CutPrefix(h, "Bearer ")
		if !ok {
			writeError(w, http.StatusUnauthorized, errors.New("missing bearer token"))
			return
		}
		c, err := verifyToken(s.cfg.Secret, tok)
		if err != nil {
			writeError(w, http.StatusUnauthorized, err)
			return
		}
		s.cfg.Logger.Debug().Str("sub", c.Sub).Str("path", r.URL.Path).Msg("authorized")
		next(w, r)
	})
}
