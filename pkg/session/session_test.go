package session

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/rvno/roadline/pkg/errors"
)

// StoreSuite checks the Store contract against one backend.
type StoreSuite struct {
	suite.Suite
	open  func(t *testing.T) Store
	ctx   context.Context
	store Store
}

func (s *StoreSuite) SetupTest() {
	s.ctx = context.Background()
	s.store = s.open(s.T())
}

func (s *StoreSuite) TearDownTest() {
	_ = s.store.Close()
}

func (s *StoreSuite) TestMissingIsNil() {
	sess, err := s.store.Get(s.ctx, "nobody")
	require.NoError(s.T(), err)
	require.Nil(s.T(), sess)
}

func (s *StoreSuite) TestRoundTrip() {
	sess, err := New("alex", RoleEditor, time.Hour)
	require.NoError(s.T(), err)
	require.NoError(s.T(), s.store.Set(s.ctx, sess))

	got, err := s.store.Get(s.ctx, sess.ID)
	require.NoError(s.T(), err)
	require.NotNil(s.T(), got)
	assert.Equal(s.T(), "alex", got.Name)
	assert.Equal(s.T(), RoleEditor, got.Role)
	assert.True(s.T(), got.CanEdit())
}

func (s *StoreSuite) TestDelete() {
	sess, err := New("alex", RoleEditor, time.Hour)
	require.NoError(s.T(), err)
	require.NoError(s.T(), s.store.Set(s.ctx, sess))
	require.NoError(s.T(), s.store.Delete(s.ctx, sess.ID))
	require.NoError(s.T(), s.store.Delete(s.ctx, sess.ID))

	got, err := s.store.Get(s.ctx, sess.ID)
	require.NoError(s.T(), err)
	require.Nil(s.T(), got)
}

func (s *StoreSuite) TestExpiredIsNil() {
	sess := &Session{ID: "stale", Role: RoleEditor, ExpiresAt: time.Now().Add(-time.Minute)}
	require.NoError(s.T(), s.store.Set(s.ctx, sess))

	got, err := s.store.Get(s.ctx, "stale")
	require.NoError(s.T(), err)
	require.Nil(s.T(), got)
	require.NoError(s.T(), s.store.Cleanup(s.ctx))
}

func TestMemoryStore(t *testing.T) {
	suite.Run(t, &StoreSuite{open: func(t *testing.T) Store {
		return NewMemoryStore()
	}})
}

func TestFileStore(t *testing.T) {
	suite.Run(t, &StoreSuite{open: func(t *testing.T) Store {
		s, err := NewFileStore(t.TempDir())
		require.NoError(t, err)
		return s
	}})
}

func TestLogin(t *testing.T) {
	sess, err := Login("s3cret", "s3cret", "alex", 0)
	require.NoError(t, err)
	assert.Equal(t, RoleEditor, sess.Role)
	assert.WithinDuration(t, time.Now().Add(DefaultTTL), sess.ExpiresAt, time.Minute)

	_, err = Login("guess", "s3cret", "alex", time.Hour)
	assert.True(t, errors.Is(err, errors.ErrCodeUnauthorized))

	_, err = Login("", "", "alex", time.Hour)
	assert.True(t, errors.Is(err, errors.ErrCodeUnauthorized), "empty admin token disables login")
}

func TestRequire(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	editor, err := New("alex", RoleEditor, time.Hour)
	require.NoError(t, err)
	viewer, err := New("sam", RoleViewer, time.Hour)
	require.NoError(t, err)
	require.NoError(t, store.Set(ctx, editor))
	require.NoError(t, store.Set(ctx, viewer))

	got, err := Require(ctx, store, editor.ID)
	require.NoError(t, err)
	assert.Equal(t, editor.ID, got.ID)

	tests := []struct {
		id   string
		code errors.Code
	}{
		{"", errors.ErrCodeUnauthorized},
		{"missing", errors.ErrCodeSessionNotFound},
		{viewer.ID, errors.ErrCodeForbidden},
	}
	for _, tt := range tests {
		_, err := Require(ctx, store, tt.id)
		assert.Truef(t, errors.Is(err, tt.code), "Require(%q) = %v, want %s", tt.id, err, tt.code)
	}
}

func TestLiveAuthorizerFollowsRevocation(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	sess, err := New("alex", RoleEditor, time.Hour)
	require.NoError(t, err)
	require.NoError(t, store.Set(ctx, sess))

	auth := Live(ctx, store, sess.ID)
	assert.True(t, auth.CanEdit())

	require.NoError(t, store.Delete(ctx, sess.ID))
	assert.False(t, auth.CanEdit())
}

func TestCLIStore(t *testing.T) {
	ctx := context.Background()
	cli, err := NewCLIStore(t.TempDir())
	require.NoError(t, err)

	got, err := cli.GetSession(ctx)
	require.NoError(t, err)
	assert.Nil(t, got)
	assert.False(t, cli.Authorizer(ctx).CanEdit())

	sess, err := Login("tok", "tok", "alex", time.Hour)
	require.NoError(t, err)
	require.NoError(t, cli.SaveSession(ctx, sess))
	assert.True(t, cli.Authorizer(ctx).CanEdit())
	assert.FileExists(t, cli.Path())

	require.NoError(t, cli.DeleteSession(ctx))
	assert.False(t, cli.Authorizer(ctx).CanEdit())
}

func TestOpenUnknownBackend(t *testing.T) {
	_, err := Open(context.Background(), Config{Backend: "etcd"})
	assert.True(t, errors.Is(err, errors.ErrCodeUnsupported))
}
