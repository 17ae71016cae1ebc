package jwt_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgjwt "github.com/jhoicas/pos-backoffice/pkg/jwt"
)

const (
	testSecret = "test-secret-key-for-unit-tests"
	testIssuer = "pos-backoffice-test"
)

func testIdentity() pkgjwt.Identity {
	return pkgjwt.Identity{
		SessionID:  "ses-1",
		UserID:     "usr-1",
		BusinessID: "biz-1",
		Role:       "manager",
	}
}

func TestJWT_GenerateAndParse(t *testing.T) {
	tok, err := pkgjwt.Generate(testSecret, testIdentity(), testIssuer, 60)
	require.NoError(t, err)
	require.NotEmpty(t, tok)

	id, err := pkgjwt.Parse(testSecret, tok)
	require.NoError(t, err)
	assert.Equal(t, testIdentity(), id)
}

func TestJWT_SuperAdminSinNegocio(t *testing.T) {
	in := pkgjwt.Identity{SessionID: "ses-2", UserID: "admin", Role: "admin", SuperAdmin: true}
	tok, err := pkgjwt.Generate(testSecret, in, testIssuer, 60)
	require.NoError(t, err)

	id, err := pkgjwt.Parse(testSecret, tok)
	require.NoError(t, err)
	assert.True(t, id.SuperAdmin)
	assert.Empty(t, id.BusinessID)
}

func TestJWT_TokenExpirado_RetornaError(t *testing.T) {
	tok, err := pkgjwt.Generate(testSecret, testIdentity(), testIssuer, -1)
	require.NoError(t, err)

	_, err = pkgjwt.Parse(testSecret, tok)
	assert.Error(t, err, "token expirado debe retornar error")
}

func TestJWT_SecretIncorrecto_RetornaError(t *testing.T) {
	tok, err := pkgjwt.Generate(testSecret, testIdentity(), testIssuer, 60)
	require.NoError(t, err)

	_, err = pkgjwt.Parse("otro-secret-completamente-distinto", tok)
	assert.Error(t, err)
}

func TestJWT_SinSessionID_RetornaError(t *testing.T) {
	in := testIdentity()
	in.SessionID = ""
	_, err := pkgjwt.Generate(testSecret, in, testIssuer, 60)
	assert.Error(t, err)
}
