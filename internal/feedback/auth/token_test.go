package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avaliafacil/feedback/internal/feedback/models"
)

const testSecret = "token-test-secret"

func TestGenerateAndValidateToken(t *testing.T) {
	companyID := uuid.New()
	user := &models.User{
		ID:        uuid.New(),
		Name:      "Gestora",
		Role:      models.RoleGestor,
		CompanyID: &companyID,
	}

	token, err := GenerateToken(user, testSecret)
	require.NoError(t, err)

	claims, err := ValidateToken(token, testSecret)
	require.NoError(t, err)
	assert.Equal(t, user.ID.String(), claims.UserID)
	assert.Equal(t, models.RoleGestor, claims.Role)
	assert.Equal(t, companyID.String(), claims.CompanyID)
	assert.WithinDuration(t, time.Now().Add(TokenTTL), claims.ExpiresAt.Time, time.Minute)
}

func TestGenerateTokenWithoutCompany(t *testing.T) {
	admin := &models.User{
		ID:   uuid.New(),
		Role: models.RoleSaasAdmin,
	}

	token, err := GenerateToken(admin, testSecret)
	require.NoError(t, err)

	claims, err := ValidateToken(token, testSecret)
	require.NoError(t, err)
	assert.Empty(t, claims.CompanyID, "the platform admin carries no company claim")
}

func TestValidateTokenWrongSecret(t *testing.T) {
	user := &models.User{ID: uuid.New(), Role: models.RoleGestor}

	token, err := GenerateToken(user, testSecret)
	require.NoError(t, err)

	_, err = ValidateToken(token, "another-secret")
	assert.Error(t, err)
}

func TestValidateTokenGarbage(t *testing.T) {
	_, err := ValidateToken("not.a.token", testSecret)
	assert.Error(t, err)
}

func TestValidateTokenExpired(t *testing.T) {
	claims := Claims{
		UserID: uuid.NewString(),
		Role:   models.RoleGestor,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(time.Now().Add(-2 * TokenTTL)),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-TokenTTL)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)

	_, err = ValidateToken(token, testSecret)
	assert.Error(t, err)
}

func TestValidateTokenRejectsUnexpectedAlgorithm(t *testing.T) {
	// alg=none with an empty signature must never validate.
	token, err := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{
		UserID: uuid.NewString(),
		Role:   models.RoleSaasAdmin,
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = ValidateToken(token, testSecret)
	assert.Error(t, err)
}
