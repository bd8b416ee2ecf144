package http_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apphttp "github.com/jhoicas/ferreteria-stock/internal/interfaces/http"
	pkgjwt "github.com/jhoicas/ferreteria-stock/pkg/jwt"
)

const (
	testJWTSecret = "test-secret-key-for-unit-tests"
	testUserID    = "00000000-0000-0000-0000-000000000001"
	testCompanyID = "00000000-0000-0000-0000-000000000002"
	testIssuer    = "ferreteria-stock-test"
)

// bearer genera un header Authorization con el rol indicado.
func bearer(t *testing.T, role string) string {
	t.Helper()
	tok, err := pkgjwt.Generate(testJWTSecret, testIssuer, pkgjwt.Identity{UserID: testUserID, CompanyID: testCompanyID, Role: role}, time.Hour)
	require.NoError(t, err)
	return "Bearer " + tok
}

func foreignIssuer(t *testing.T) string {
	t.Helper()
	tok, err := pkgjwt.Generate(testJWTSecret, "otra-app", pkgjwt.Identity{UserID: testUserID, Role: "admin"}, time.Hour)
	require.NoError(t, err)
	return "Bearer " + tok
}

func TestRequireRole(t *testing.T) {
	cases := []struct {
		name     string
		allowed  []string
		header   string
		wantCode int
		wantBody string
	}{
		{name: "admin en ruta admin", allowed: []string{apphttp.RoleAdmin}, header: bearer(t, "admin"), wantCode: http.StatusOK},
		{name: "bodeguero en ruta multi-rol", allowed: []string{apphttp.RoleAdmin, apphttp.RoleBodeguero}, header: bearer(t, "bodeguero"), wantCode: http.StatusOK},
		{name: "vendedor en ruta admin", allowed: []string{apphttp.RoleAdmin}, header: bearer(t, "vendedor"), wantCode: http.StatusForbidden, wantBody: "FORBIDDEN"},
		{name: "token sin rol", allowed: []string{apphttp.RoleAdmin}, header: bearer(t, ""), wantCode: http.StatusUnauthorized, wantBody: "MISSING_ROLE"},
		{name: "sin header", allowed: []string{apphttp.RoleAdmin}, wantCode: http.StatusUnauthorized, wantBody: "MISSING_TOKEN"},
		{name: "token malformado", allowed: []string{apphttp.RoleAdmin}, header: "Bearer token.invalido.aqui", wantCode: http.StatusUnauthorized, wantBody: "INVALID_TOKEN"},
		{name: "emisor ajeno", allowed: []string{apphttp.RoleAdmin}, header: foreignIssuer(t), wantCode: http.StatusUnauthorized, wantBody: "INVALID_TOKEN"},
		{name: "esquema distinto a bearer", allowed: []string{apphttp.RoleAdmin}, header: "Basic abc", wantCode: http.StatusUnauthorized, wantBody: "INVALID_TOKEN"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			app := fiber.New()
			app.Get("/protected",
				apphttp.AuthMiddleware(testJWTSecret, testIssuer),
				apphttp.RequireRole(tc.allowed...),
				func(c *fiber.Ctx) error { return c.JSON(fiber.Map{"role": apphttp.GetRole(c)}) },
			)
			req := httptest.NewRequest(http.MethodGet, "/protected", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			resp, err := app.Test(req, -1)
			require.NoError(t, err)
			defer resp.Body.Close()

			assert.Equal(t, tc.wantCode, resp.StatusCode)
			if tc.wantBody != "" {
				body, _ := io.ReadAll(resp.Body)
				assert.Contains(t, string(body), tc.wantBody)
			}
		})
	}
}

func TestAuthMiddleware_CargaClaimsEnLocals(t *testing.T) {
	app := fiber.New()
	app.Get("/me", apphttp.AuthMiddleware(testJWTSecret, testIssuer), func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"user_id":    apphttp.GetUserID(c),
			"company_id": apphttp.GetCompanyID(c),
			"role":       apphttp.GetRole(c),
		})
	})

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", bearer(t, "vendedor"))
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, testUserID, body["user_id"])
	assert.Equal(t, testCompanyID, body["company_id"])
	assert.Equal(t, "vendedor", body["role"])
}
