package services_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"woolshop/internal/repos"
	"woolshop/internal/services"
)

func TestAuthLoginAndSession(t *testing.T) {
	db := memdb(t)
	hash, err := bcrypt.GenerateFromPassword([]byte("S3cret-pass"), bcrypt.MinCost)
	require.NoError(t, err)
	_, err = db.Exec(`
	  INSERT INTO users(id, email, name, password_hash, role)
	  VALUES(?,?,?,?,?)
	`, uuid.NewString(), "admin@woolshop.test", "Admin", string(hash), "ADMIN")
	require.NoError(t, err)

	svc := services.NewAuthService(repos.NewUserRepo(db))
	sid := uuid.NewString()

	_, err = svc.Login(sid, "admin@woolshop.test", "wrong-password")
	require.ErrorIs(t, err, services.ErrBadCreds)

	_, err = svc.Login(sid, "nobody@woolshop.test", "S3cret-pass")
	require.ErrorIs(t, err, services.ErrBadCreds)

	u, err := svc.Login(sid, "admin@woolshop.test", "S3cret-pass")
	require.NoError(t, err)
	assert.Equal(t, "ADMIN", u.Role)

	// The sid is now a server-side credential.
	cur, err := svc.CurrentUser(sid)
	require.NoError(t, err)
	assert.Equal(t, u.ID, cur.ID)

	require.NoError(t, svc.Logout(sid))
	_, err = svc.CurrentUser(sid)
	require.Error(t, err)
}
