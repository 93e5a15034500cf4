package kismet

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client, err := New(Config{URI: srv.URL, Username: "kismet", Password: "secret", Retries: 0})
	require.NoError(t, err)
	return client, srv
}

func TestNewRejectsBadURI(t *testing.T) {
	_, err := New(Config{URI: "localhost:2501"})
	assert.Error(t, err, "a bare host:port has no usable scheme")

	_, err = New(Config{URI: "ftp://localhost:2501"})
	assert.Error(t, err)
}

func TestDatasourcesDecodesServerFields(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/datasource/all_sources.json", r.URL.Path)
		user, pass, ok := r.BasicAuth()
		assert.True(t, ok)
		assert.Equal(t, "kismet", user)
		assert.Equal(t, "secret", pass)
		w.Write([]byte(`[
			{"kismet.datasource.name": "wlan0",
			 "kismet.datasource.uuid": "u-0",
			 "kismet.datasource.interface": "wlan0",
			 "kismet.datasource.channel": "6",
			 "kismet.datasource.hardware": "ath9k",
			 "kismet.datasource.num_packets": 123}
		]`))
	}))

	sources, err := client.Datasources(context.Background())
	require.NoError(t, err)
	require.Len(t, sources, 1)
	assert.Equal(t, "wlan0", sources[0].Name)
	assert.Equal(t, "u-0", sources[0].UUID)
	assert.Equal(t, "6", sources[0].Channel)
	assert.Equal(t, "ath9k", sources[0].Hardware)
	assert.Equal(t, int64(123), sources[0].Packets)
}

func TestCheckSessionUnauthorizedDoesNotRetry(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		http.Error(w, "Login required", http.StatusUnauthorized)
	}))
	defer srv.Close()

	client, err := New(Config{URI: srv.URL, Retries: 3})
	require.NoError(t, err)

	err = client.CheckSession(context.Background())
	require.Error(t, err)
	assert.Equal(t, 1, calls, "auth failures fail the same way every time")

	var se *StatusError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, http.StatusUnauthorized, se.Code)
}

func TestRequestRetriesServerErrors(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls < 3 {
			http.Error(w, "busy", http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	client, err := New(Config{URI: srv.URL, Retries: 2})
	require.NoError(t, err)

	_, err = client.Datasources(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestRequestGivesUpAfterRetries(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	client, err := New(Config{URI: srv.URL, Retries: 1})
	require.NoError(t, err)

	_, err = client.Datasources(context.Background())
	require.Error(t, err)
	assert.Equal(t, 2, calls)
	assert.Contains(t, err.Error(), "giving up after 2 attempts")
}

func TestAddSourceSendsCommandForm(t *testing.T) {
	var gotPath, gotJSON string
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		require.NoError(t, r.ParseForm())
		gotJSON = r.PostFormValue("json")
		w.Write([]byte("OK"))
	}))

	require.NoError(t, client.AddSource(context.Background(), "wlan1"))
	assert.Equal(t, "/datasource/add_source.cmd", gotPath)
	assert.JSONEq(t, `{"definition": "wlan1"}`, gotJSON)
}

func TestSetChannelSendsCommandForm(t *testing.T) {
	var gotPath, gotJSON string
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		require.NoError(t, r.ParseForm())
		gotJSON = r.PostFormValue("json")
		w.Write([]byte("OK"))
	}))

	require.NoError(t, client.SetChannel(context.Background(), "u-1", "6HT40"))
	assert.Equal(t, "/datasource/by-uuid/u-1/set_channel.cmd", gotPath)
	assert.JSONEq(t, `{"channel": "6HT40"}`, gotJSON)
}

func TestClientReplaysSessionCookie(t *testing.T) {
	var sawCookie bool
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, err := r.Cookie("KISMET"); err == nil {
			sawCookie = true
		}
		http.SetCookie(w, &http.Cookie{Name: "KISMET", Value: "session-token"})
		w.Write([]byte("OK"))
	}))

	ctx := context.Background()
	require.NoError(t, client.CheckSession(ctx))
	require.NoError(t, client.CheckSession(ctx))
	assert.True(t, sawCookie, "second request should carry the KISMET cookie")
}
