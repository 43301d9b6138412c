package httpclient

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dpotapov/browser/browser"
	"github.com/stretchr/testify/require"
)

func TestOpenFollowsLocationRedirect(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/a":
			w.Header().Set("Location", "/b")
			w.WriteHeader(http.StatusFound)
		case "/b":
			fmt.Fprint(w, "destination")
		}
	}))
	defer srv.Close()

	c := New()
	resp, err := c.Open(context.Background(), srv.URL+"/a", nil, nil)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.Status)
	require.Equal(t, "destination", string(resp.Body))
}

func TestOpenFollowsRefreshHeader(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/a":
			w.Header().Set("Refresh", "0; url=/b")
			fmt.Fprint(w, "loading")
		case "/b":
			fmt.Fprint(w, "destination")
		}
	}))
	defer srv.Close()

	c := New()
	resp, err := c.Open(context.Background(), srv.URL+"/a", nil, nil)
	require.NoError(t, err)
	require.Equal(t, "destination", string(resp.Body))
}

func TestOpenFollowsMetaRefresh(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/a":
			fmt.Fprint(w, `<html><head><meta http-equiv="refresh" content="0;url=/b"></head></html>`)
		case "/b":
			fmt.Fprint(w, "destination")
		}
	}))
	defer srv.Close()

	c := New()
	resp, err := c.Open(context.Background(), srv.URL+"/a", nil, nil)
	require.NoError(t, err)
	require.Equal(t, "destination", string(resp.Body))
}

func TestOpenMetaRefreshUsesLastMatchingTag(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/a":
			fmt.Fprint(w, `<html><head>`+
				`<meta http-equiv="refresh" content="0;url=/wrong">`+
				`<meta http-equiv="refresh" content="0;url=/b">`+
				`</head></html>`)
		case "/b":
			fmt.Fprint(w, "destination")
		case "/wrong":
			fmt.Fprint(w, "should not be reached")
		}
	}))
	defer srv.Close()

	c := New()
	resp, err := c.Open(context.Background(), srv.URL+"/a", nil, nil)
	require.NoError(t, err)
	require.Equal(t, "destination", string(resp.Body))
}

func TestOpenTooManyRedirectsReturnsSentinel(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Location", "/loop")
		w.WriteHeader(http.StatusFound)
	}))
	defer srv.Close()

	c := New(WithMaxRedirects(2))
	_, err := c.Open(context.Background(), srv.URL+"/loop", nil, nil)
	require.Error(t, err)
	require.True(t, errors.Is(err, browser.ErrTooManyRedirects))
}

func TestOpenSendsUserAgentHeader(t *testing.T) {
	var seen string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = r.Header.Get("User-Agent")
		fmt.Fprint(w, "ok")
	}))
	defer srv.Close()

	c := New(WithUserAgent("test-agent/1.0"))
	_, err := c.Open(context.Background(), srv.URL+"/", nil, nil)
	require.NoError(t, err)
	require.Equal(t, "test-agent/1.0", seen)
}

func TestOpenPostsBody(t *testing.T) {
	var gotMethod string
	var gotBody []byte
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		buf := make([]byte, 1024)
		n, _ := r.Body.Read(buf)
		gotBody = buf[:n]
		fmt.Fprint(w, "ok")
	}))
	defer srv.Close()

	c := New()
	_, err := c.Open(context.Background(), srv.URL+"/", map[string]string{"Content-Type": "application/x-www-form-urlencoded"}, []byte("x=1"))
	require.NoError(t, err)
	require.Equal(t, http.MethodPost, gotMethod)
	require.Equal(t, "x=1", string(gotBody))
}
