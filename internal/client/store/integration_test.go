package store_test

import (
	"context"
	"encoding/pem"
	"errors"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/atinyakov/UserKeeper/internal/client/store"
	"github.com/atinyakov/UserKeeper/internal/db"
	"github.com/atinyakov/UserKeeper/internal/models"
	"github.com/atinyakov/UserKeeper/internal/repository"
	handler "github.com/atinyakov/UserKeeper/internal/server/handler/http"
	"github.com/atinyakov/UserKeeper/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newBackend(t *testing.T, tls bool) *httptest.Server {
	t.Helper()
	gdb, err := db.InitSQLite(filepath.Join(t.TempDir(), "records.db"), &repository.RecordRow{})
	require.NoError(t, err)

	svc := service.NewRecordService(repository.NewGormRecordRepository(gdb))
	router := handler.NewRouter(&handler.RecordHandler{RecordService: svc}, "secret", zap.NewNop())

	var srv *httptest.Server
	if tls {
		srv = httptest.NewTLSServer(router)
	} else {
		srv = httptest.NewServer(router)
	}
	t.Cleanup(srv.Close)
	return srv
}

func TestHTTPStore_AgainstServer(t *testing.T) {
	srv := newBackend(t, false)
	client, err := store.NewHTTPClient("", 5*time.Second)
	require.NoError(t, err)
	s := store.New(client, srv.URL, "secret")
	ctx := context.Background()

	id, err := s.Create(ctx, models.Fields{Name: "Ann", Email: "ann@example.com", Age: "31"})
	require.NoError(t, err)

	list, err := s.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []models.Record{{ID: id, Name: "Ann", Email: "ann@example.com", Age: "31"}}, list)

	require.NoError(t, s.Update(ctx, id, models.Fields{Name: "Anne", Email: "anne@example.com", Age: "32"}))
	list, err = s.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Anne", list[0].Name)

	require.NoError(t, s.Delete(ctx, id))
	assert.ErrorIs(t, s.Delete(ctx, id), models.ErrNotFound)
	assert.ErrorIs(t, s.Update(ctx, id, models.Fields{Name: "a", Email: "b", Age: "c"}), models.ErrNotFound)

	_, err = s.Create(ctx, models.Fields{Name: "no email"})
	assert.ErrorIs(t, err, models.ErrValidation)

	list, err = s.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestHTTPStore_WrongKey(t *testing.T) {
	srv := newBackend(t, false)
	s := store.New(srv.Client(), srv.URL, "guess")

	_, err := s.List(context.Background())
	var connErr *store.ConnectionError
	require.True(t, errors.As(err, &connErr), "got %v", err)
}

func TestHTTPStore_TLSWithCA(t *testing.T) {
	srv := newBackend(t, true)

	caFile := filepath.Join(t.TempDir(), "ca.crt")
	certPEM := pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: srv.Certificate().Raw})
	require.NoError(t, os.WriteFile(caFile, certPEM, 0600))

	client, err := store.NewHTTPClient(caFile, 5*time.Second)
	require.NoError(t, err)

	list, err := store.New(client, srv.URL, "secret").List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestNewHTTPClient_BadCA(t *testing.T) {
	_, err := store.NewHTTPClient(filepath.Join(t.TempDir(), "missing.crt"), time.Second)
	assert.Error(t, err)

	bad := filepath.Join(t.TempDir(), "bad.crt")
	require.NoError(t, os.WriteFile(bad, []byte("not pem"), 0600))
	_, err = store.NewHTTPClient(bad, time.Second)
	assert.Error(t, err)
}
