package jwt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	secret = "s3cret-de-pruebas"
	issuer = "ferreteria-stock"
)

var vendedor = Identity{UserID: "u-1", CompanyID: "c-1", Role: "vendedor"}

func TestGenerateParse(t *testing.T) {
	tok, err := Generate(secret, issuer, vendedor, 5*time.Minute)
	require.NoError(t, err)

	got, err := Parse(secret, issuer, tok)
	require.NoError(t, err)
	assert.Equal(t, vendedor, got)

	got, err = Parse(secret, "", tok)
	require.NoError(t, err, "sin issuer configurado no se valida el emisor")
	assert.Equal(t, "vendedor", got.Role)
}

func TestParse_Rechaza(t *testing.T) {
	expired, err := Generate(secret, issuer, vendedor, -time.Minute)
	require.NoError(t, err)
	valid, err := Generate(secret, issuer, vendedor, 5*time.Minute)
	require.NoError(t, err)

	_, err = Parse(secret, issuer, expired)
	assert.Error(t, err, "expirado")
	_, err = Parse("otro-secret", issuer, valid)
	assert.Error(t, err, "firma incorrecta")
	_, err = Parse(secret, "otro-emisor", valid)
	assert.Error(t, err, "emisor distinto")
	_, err = Parse("", issuer, valid)
	assert.ErrorIs(t, err, errEmptySecret)

	_, err = Generate("", issuer, vendedor, time.Minute)
	assert.ErrorIs(t, err, errEmptySecret)
}
