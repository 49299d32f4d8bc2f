package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/CreativeDragon1/Earn2Die/internal/repositories"
	"github.com/CreativeDragon1/Earn2Die/internal/security"
	"github.com/CreativeDragon1/Earn2Die/pkg/errors"
)

// Identity is the resolved caller attached to the request context.
type Identity struct {
	PlayerID    uint
	Username    string
	Role        string
	ExternalUID string
}

type contextKey struct{}

var identityKey contextKey

type Authenticator struct {
	playerRepo *repositories.PlayerRepository
	jwtSecret  string
}

func NewAuthenticator(playerRepo *repositories.PlayerRepository, jwtSecret string) *Authenticator {
	return &Authenticator{
		playerRepo: playerRepo,
		jwtSecret:  jwtSecret,
	}
}

// Authenticate validates the bearer token and loads the matching player
// record, placing the resolved identity on the request context.
func (a *Authenticator) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, ok := a.verifyBearer(w, r)
		if !ok {
			return
		}

		player, err := a.playerRepo.GetPlayerByExternalUID(claims.Subject)
		if err != nil {
			if errors.Code(err) == errors.ErrCodeNotFound {
				writeAuthError(w, "player profile not found, complete registration first")
				return
			}
			writeAuthError(w, "authentication failed")
			return
		}

		identity := &Identity{
			PlayerID:    player.ID,
			Username:    player.Username,
			Role:        player.Role,
			ExternalUID: claims.Subject,
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), identityKey, identity)))
	})
}

// AuthenticateToken validates the bearer token without requiring a player
// record. Used by the profile-sync endpoint where the record may not exist
// yet; the verified subject and email are placed on the context.
func (a *Authenticator) AuthenticateToken(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, ok := a.verifyBearer(w, r)
		if !ok {
			return
		}
		identity := &Identity{ExternalUID: claims.Subject, Username: claims.Email}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), identityKey, identity)))
	})
}

func (a *Authenticator) verifyBearer(w http.ResponseWriter, r *http.Request) (*security.IdentityClaims, bool) {
	header := r.Header.Get("Authorization")
	if header == "" || !strings.HasPrefix(header, "Bearer ") {
		writeAuthError(w, "authentication required")
		return nil, false
	}

	claims, err := security.ValidateIdentityToken(strings.TrimPrefix(header, "Bearer "), a.jwtSecret)
	if err != nil {
		writeAuthError(w, "invalid or expired token")
		return nil, false
	}
	return claims, true
}

// IdentityFrom extracts the resolved caller identity from a request context.
func IdentityFrom(ctx context.Context) (*Identity, bool) {
	identity, ok := ctx.Value(identityKey).(*Identity)
	return identity, ok
}

func writeAuthError(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
