package services

import (
	"context"
	"crypto/ed25519"
	"crypto/rand"
	"crypto/x509"
	"encoding/pem"
	"testing"

	"github.com/dmitrijs2005/securematch/internal/client/client"
	"github.com/dmitrijs2005/securematch/internal/client/models"
	"github.com/dmitrijs2005/securematch/internal/cryptox"
	"github.com/stretchr/testify/require"
)

// fakeClient implements client.Client and records what it was asked.
type fakeClient struct {
	InternalRet *client.SearchResponse
	InternalErr error
	ExternalRet *client.SearchResponse
	ExternalErr error
	MetricsRet  *models.Dashboard
	MetricsErr  error
	CreateRet   *client.CreatedAuditor
	CreateErr   error
	DeleteErr   error

	// onExternal runs inside SearchExternal before it returns.
	onExternal func()

	InternalCalls []models.TrapdoorPayload
	ExternalCalls []models.SignedQueryPayload
	RequestIDs    []string
	CreateNames   []string
	DeleteIDs     []string
	MetricsCalls  int
}

var _ client.Client = (*fakeClient)(nil)

func (f *fakeClient) Close() error { return nil }

func (f *fakeClient) SearchInternal(ctx context.Context, p models.TrapdoorPayload) (*client.SearchResponse, error) {
	f.InternalCalls = append(f.InternalCalls, p)
	f.RequestIDs = append(f.RequestIDs, requestID(ctx))
	return f.InternalRet, f.InternalErr
}

func (f *fakeClient) SearchExternal(ctx context.Context, p models.SignedQueryPayload) (*client.SearchResponse, error) {
	f.ExternalCalls = append(f.ExternalCalls, p)
	f.RequestIDs = append(f.RequestIDs, requestID(ctx))
	if f.onExternal != nil {
		hook := f.onExternal
		f.onExternal = nil
		hook()
	}
	return f.ExternalRet, f.ExternalErr
}

func (f *fakeClient) Metrics(ctx context.Context) (*models.Dashboard, error) {
	f.MetricsCalls++
	return f.MetricsRet, f.MetricsErr
}

func (f *fakeClient) CreateAuditor(ctx context.Context, name string) (*client.CreatedAuditor, error) {
	f.CreateNames = append(f.CreateNames, name)
	return f.CreateRet, f.CreateErr
}

func (f *fakeClient) DeleteAuditor(ctx context.Context, id string) error {
	f.DeleteIDs = append(f.DeleteIDs, id)
	return f.DeleteErr
}

func requestID(ctx context.Context) string { return client.RequestIDFrom(ctx) }

func intPtr(v int) *int { return &v }

func keywordHash(raw string) string {
	return cryptox.DigestKeyword(cryptox.NormalizeKeyword(raw))
}

func edSession(t *testing.T, auditorID string) (*models.AuditorSession, ed25519.PublicKey) {
	t.Helper()
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)
	der, err := x509.MarshalPKCS8PrivateKey(priv)
	require.NoError(t, err)
	material := pem.EncodeToMemory(&pem.Block{Type: "PRIVATE KEY", Bytes: der})

	s, err := models.NewAuditorSession(models.AuditorRecord{ID: auditorID, Name: "KPMG", ActiveKeyVersion: 1}, material)
	require.NoError(t, err)
	return s, pub
}
