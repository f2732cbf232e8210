package jwt_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Metalica-api/pkg/jwt"
)

func TestGenerateAndParse(t *testing.T) {
	token, exp, err := jwt.Generate("s3cret", "admin", "operador", "metalica-api", 5)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(5*time.Minute), exp, 5*time.Second)

	user, role, err := jwt.Parse("s3cret", token)
	require.NoError(t, err)
	assert.Equal(t, "admin", user)
	assert.Equal(t, "operador", role)
}

func TestParse_Rejects(t *testing.T) {
	token, _, err := jwt.Generate("s3cret", "admin", "admin", "metalica-api", 5)
	require.NoError(t, err)

	_, _, err = jwt.Parse("otro", token)
	assert.Error(t, err, "firma incorrecta")

	expired, _, err := jwt.Generate("s3cret", "admin", "admin", "metalica-api", -1)
	require.NoError(t, err)
	_, _, err = jwt.Parse("s3cret", expired)
	assert.Error(t, err, "token expirado")

	_, _, err = jwt.Generate("", "admin", "admin", "metalica-api", 5)
	assert.Error(t, err)
}
