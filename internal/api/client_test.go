package api

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cuivienor/clipdeck/internal/fakeapi"
	"github.com/cuivienor/clipdeck/internal/model"
)

func newTestClient(t *testing.T, opts ...fakeapi.Option) (*Client, *fakeapi.Server) {
	t.Helper()
	fake := fakeapi.New(opts...)
	ts := httptest.NewServer(fake)
	t.Cleanup(ts.Close)
	return NewClient(ts.URL, 5*time.Second), fake
}

func TestClient_CreateJob(t *testing.T) {
	client, fake := newTestClient(t, fakeapi.WithIDs("abc"))

	id, err := client.CreateJob(context.Background(), "http://x")
	require.NoError(t, err)
	assert.Equal(t, "abc", id)
	assert.Equal(t, "http://x", fake.URL("abc"))
}

func TestClient_CreateJob_ServiceError(t *testing.T) {
	client, _ := newTestClient(t, fakeapi.WithStrictURLs())

	_, err := client.CreateJob(context.Background(), "http://x")
	require.Error(t, err)

	var svc *ServiceError
	require.True(t, errors.As(err, &svc))
	assert.Equal(t, http.StatusBadRequest, svc.StatusCode)
	assert.Equal(t, "Please provide a valid YouTube URL.", svc.Message)
	assert.Equal(t, "Please provide a valid YouTube URL.", UserMessage(err))
}

func TestClient_Status(t *testing.T) {
	client, _ := newTestClient(t, fakeapi.WithIDs("abc"))
	ctx := context.Background()

	_, err := client.CreateJob(ctx, "http://x")
	require.NoError(t, err)

	snap, err := client.Status(ctx, "abc")
	require.NoError(t, err)
	assert.Equal(t, model.StatusDownloading, snap.Status)
	assert.Equal(t, 10, snap.Progress)
	assert.False(t, snap.HasTitle())
}

func TestClient_Status_NotFound(t *testing.T) {
	client, _ := newTestClient(t)

	_, err := client.Status(context.Background(), "missing")
	require.Error(t, err)
	assert.True(t, IsService(err))
	assert.False(t, IsTransport(err))
	assert.Equal(t, "Job not found.", UserMessage(err))
}

func TestClient_ServiceErrorWithoutMessage(t *testing.T) {
	client, fake := newTestClient(t, fakeapi.WithIDs("abc"))
	ctx := context.Background()
	_, err := client.CreateJob(ctx, "http://x")
	require.NoError(t, err)

	fake.FailStatus(&fakeapi.Failure{Code: http.StatusBadGateway})

	_, err = client.Status(ctx, "abc")
	require.Error(t, err)
	assert.True(t, IsService(err))
	assert.Equal(t, GenericServiceMessage, UserMessage(err))
}

func TestClient_TransportError(t *testing.T) {
	ts := httptest.NewServer(http.NotFoundHandler())
	url := ts.URL
	ts.Close()

	client := NewClient(url, time.Second)
	_, err := client.Status(context.Background(), "abc")
	require.Error(t, err)
	assert.True(t, IsTransport(err))
	assert.False(t, IsService(err))
	assert.Equal(t, GenericTransportMessage, UserMessage(err))
}

func TestClient_Continue(t *testing.T) {
	client, fake := newTestClient(t, fakeapi.WithIDs("abc"))
	ctx := context.Background()
	_, err := client.CreateJob(ctx, "http://x")
	require.NoError(t, err)

	err = client.Continue(ctx, "abc")
	require.Error(t, err, "continue before review should fail")
	assert.Equal(t, "Job is not in review stage.", UserMessage(err))

	for i := 0; i < 3; i++ {
		_, err := client.Status(ctx, "abc")
		require.NoError(t, err)
	}
	require.NoError(t, client.Continue(ctx, "abc"))
	assert.Equal(t, 2, fake.ContinueCalls("abc"))
}

func TestClient_Transcript(t *testing.T) {
	client, _ := newTestClient(t, fakeapi.WithIDs("abc"))
	ctx := context.Background()
	_, err := client.CreateJob(ctx, "http://x")
	require.NoError(t, err)

	tr, err := client.Transcript(ctx, "abc")
	require.NoError(t, err)
	assert.Equal(t, 3, tr.Total)
	require.Len(t, tr.Segments, 3)
	assert.Equal(t, 62.0, tr.Segments[1].Start)
}

func TestClient_Download(t *testing.T) {
	client, _ := newTestClient(t, fakeapi.WithIDs("abc"), fakeapi.WithFile("a.mp4", []byte("clip-bytes")))
	ctx := context.Background()
	_, err := client.CreateJob(ctx, "http://x")
	require.NoError(t, err)

	var buf bytes.Buffer
	n, err := client.Download(ctx, "abc", "a.mp4", &buf)
	require.NoError(t, err)
	assert.Equal(t, int64(10), n)
	assert.Equal(t, "clip-bytes", buf.String())

	_, err = client.Download(ctx, "abc", "nope.mp4", &buf)
	assert.True(t, IsService(err))
}

func TestClient_URLs(t *testing.T) {
	client := NewClient("http://localhost:5000", time.Second)

	assert.Equal(t, "/api/download/abc/a.mp4", DownloadPath("abc", "a.mp4"))
	assert.Equal(t, "http://localhost:5000/api/download/abc/a.mp4", client.DownloadURL("abc", "a.mp4"))
	assert.Equal(t, "http://localhost:5000/api/preview/abc", client.PreviewURL("abc"))
	assert.Equal(t, "/api/download/a%2Fb/my%20clip.mp4", DownloadPath("a/b", "my clip.mp4"))
}

func TestUserMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, ""},
		{"service with message", &ServiceError{Message: "busy"}, "busy"},
		{"service without message", &ServiceError{}, GenericServiceMessage},
		{"wrapped service", errorsJoin(&ServiceError{Message: "busy"}), "busy"},
		{"transport", &TransportError{Op: "x", Err: errors.New("refused")}, GenericTransportMessage},
		{"validation", &ValidationError{Field: "url", Message: "Please enter a URL."}, "Please enter a URL."},
		{"unknown", errors.New("weird"), GenericServiceMessage},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, UserMessage(tt.err))
		})
	}
}

func errorsJoin(err error) error {
	return errors.Join(errors.New("context"), err)
}
