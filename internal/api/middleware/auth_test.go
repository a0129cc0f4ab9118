package middleware

import (
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/ElBibos90/codelearning-sub001/internal/common/security"
	"github.com/ElBibos90/codelearning-sub001/internal/domain/model"
	"github.com/ElBibos90/codelearning-sub001/internal/platform/config"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/jwtauth/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	config.Load()
	security.InitJWT()
	os.Exit(m.Run())
}

func newAuthTestRouter() http.Handler {
	r := chi.NewRouter()
	r.Use(jwtauth.Verifier(security.TokenAuth))
	r.Use(Authenticator)
	r.Get("/whoami", func(w http.ResponseWriter, r *http.Request) {
		userID, _ := GetUserIDFromContext(r.Context())
		w.Write([]byte(userID))
	})
	r.Group(func(r chi.Router) {
		r.Use(AdminOnly)
		r.Get("/admin", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNoContent)
		})
	})
	return r
}

func doRequest(t *testing.T, handler http.Handler, path, token string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestAuthenticatorRejectsMissingToken(t *testing.T) {
	rec := doRequest(t, newAuthTestRouter(), "/whoami", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthenticatorRejectsGarbageToken(t *testing.T) {
	rec := doRequest(t, newAuthTestRouter(), "/whoami", "not.a.jwt")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthenticatorPassesClaimsThrough(t *testing.T) {
	token, err := security.GenerateToken("user-123", model.RoleLearner)
	require.NoError(t, err)

	rec := doRequest(t, newAuthTestRouter(), "/whoami", token)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "user-123", rec.Body.String())
}

func TestAdminOnly(t *testing.T) {
	router := newAuthTestRouter()

	learnerToken, err := security.GenerateToken("user-123", model.RoleLearner)
	require.NoError(t, err)
	rec := doRequest(t, router, "/admin", learnerToken)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	adminToken, err := security.GenerateToken("admin-1", model.RoleAdmin)
	require.NoError(t, err)
	rec = doRequest(t, router, "/admin", adminToken)
	assert.Equal(t, http.StatusNoContent, rec.Code)
}
