package cine

import (
	"net/http"
	"strings"

	"github.com/tauraamui/cinefilter/pkg/cine/auth"
	"github.com/tauraamui/cinefilter/pkg/log"
	"github.com/tauraamui/xerror"
)

// guard only lets viewers holding a token for the stream through, once a
// secret has been configured.
func (s *Server) guard(title string, next http.Handler) http.Handler {
	secret := s.config.Secret
	if len(secret) == 0 {
		return next
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		granted, err := auth.ValidateToken(secret, viewerToken(r))
		if err != nil {
			log.Warn("Refused stream viewer [%s] for [%s]: %v", r.RemoteAddr, title, err)
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		if !auth.Grants(granted, title) {
			log.Warn("Refused stream viewer [%s] for [%s]: token is for [%s]", r.RemoteAddr, title, granted)
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func viewerToken(r *http.Request) string {
	if token := r.URL.Query().Get("token"); len(token) > 0 {
		return token
	}
	return strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
}

// ViewerToken issues a token letting its holder watch stream, or every
// stream when stream is auth.AllStreams.
func (s *Server) ViewerToken(stream string) (string, error) {
	if len(s.config.Secret) == 0 {
		return "", xerror.New("viewers need no token, no secret has been configured")
	}
	return auth.GenToken(s.config.Secret, stream)
}
