package browser

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"omnivox-backend/internal/components/telemetry"

	"github.com/stretchr/testify/require"
)

const fixture = `<html><body>
<h1 class="titre">Chimie <span>101</span></h1>
<table id="liste">
	<tr class="ligne"><td>un</td><td>Plan
de cours</td><td><a href="docs/plan.html">voir</a></td></tr>
	<tr class="ligne"><td>deux</td><td>Labo</td><td><a href="javascript:void(0)">voir</a></td></tr>
</table>
</body></html>`

func newTestServer(t *testing.T) *httptest.Server {
	mux := http.NewServeMux()
	mux.HandleFunc("/intr/home.html", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, fixture)
	})
	mux.HandleFunc("/intr/docs/plan.html", func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie("session")
		if err != nil {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		fmt.Fprintf(w, `<html><body><p id="session">%s</p></body></html>`, cookie.Value)
	})
	mux.HandleFunc("/login", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		http.SetCookie(w, &http.Cookie{Name: "session", Value: r.PostForm.Get("user"), Path: "/"})
		http.Redirect(w, r, "/intr/home.html", http.StatusFound)
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func newTestBrowser(t *testing.T, baseUrl string) *Browser {
	b, err := New(baseUrl, Options{}, telemetry.NewRecorder())
	require.NoError(t, err)
	return b
}

func TestFetchAndQuery(t *testing.T) {
	server := newTestServer(t)
	b := newTestBrowser(t, server.URL)
	ctx := context.Background()

	page, err := b.Get(ctx, "/intr/home.html")
	require.NoError(t, err)
	require.Equal(t, "/intr/home.html", page.URL().Path)

	heading, ok := page.FindOne("h1.titre")
	require.True(t, ok)
	require.Equal(t, "Chimie 101", heading.Text())
	require.Equal(t, "Chimie", heading.OwnText())

	rows := page.FindAll("#liste tr.ligne")
	require.Len(t, rows, 2)

	title, ok := rows[0].Cell(1)
	require.True(t, ok)
	require.Equal(t, "Plan de cours", title.Text())

	_, ok = rows[0].Cell(5)
	require.False(t, ok)

	_, ok = page.FindOne("#missing")
	require.False(t, ok)
	require.False(t, page.Has("#missing"))
	require.True(t, rows[1].Has("a"))
}

func TestPostKeepsCookiesAndFollowsRedirects(t *testing.T) {
	server := newTestServer(t)
	b := newTestBrowser(t, server.URL)
	ctx := context.Background()

	home, err := b.Post(ctx, "/login", url.Values{"user": {"1234567"}})
	require.NoError(t, err)
	require.Equal(t, "/intr/home.html", home.URL().Path)

	link, ok := home.FindOne("#liste tr.ligne a")
	require.True(t, ok)
	docs, err := link.Click(ctx)
	require.NoError(t, err)
	require.Equal(t, "/intr/docs/plan.html", docs.URL().Path)

	session, ok := docs.FindOne("#session")
	require.True(t, ok)
	require.Equal(t, "1234567", session.Text())

	refreshed, err := docs.Refresh(ctx)
	require.NoError(t, err)
	require.Equal(t, docs.URL().String(), refreshed.URL().String())
}

func TestClickFailures(t *testing.T) {
	server := newTestServer(t)
	b := newTestBrowser(t, server.URL)
	ctx := context.Background()

	home, err := b.Get(ctx, "/intr/home.html")
	require.NoError(t, err)

	rows := home.FindAll("#liste tr.ligne")
	link, ok := rows[1].FindOne("a")
	require.True(t, ok)
	_, err = link.Click(ctx)
	require.Error(t, err)

	heading, _ := home.FindOne("h1")
	_, err = heading.Click(ctx)
	require.Error(t, err)
}

func TestErrorStatus(t *testing.T) {
	server := newTestServer(t)
	b := newTestBrowser(t, server.URL)

	_, err := b.Get(context.Background(), "/intr/docs/plan.html")
	require.ErrorContains(t, err, "unexpected status 401")

	_, err = b.Get(context.Background(), "/nothing-here")
	require.Error(t, err)
}

func TestFetchTimeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-time.After(5 * time.Second):
		case <-r.Context().Done():
		}
	}))
	t.Cleanup(server.Close)

	b, err := New(server.URL, Options{Timeout: 100 * time.Millisecond}, telemetry.NewRecorder())
	require.NoError(t, err)

	_, err = b.Get(context.Background(), "/intr/slow.html")
	var netErr net.Error
	require.True(t, errors.As(err, &netErr), "%v", err)
	require.True(t, netErr.Timeout())
	require.ErrorContains(t, err, "GET "+server.URL+"/intr/slow.html")
}

func TestDetachedPage(t *testing.T) {
	page, err := NewPage(nil, "https://portal.example/intr/", `<a id="x" href="a.html">a</a>`)
	require.NoError(t, err)

	resolved, err := page.Resolve("UI/selector.ashx")
	require.NoError(t, err)
	require.Equal(t, "https://portal.example/intr/UI/selector.ashx", resolved.String())

	link, ok := page.FindOne("#x")
	require.True(t, ok)
	_, err = link.Click(context.Background())
	require.Error(t, err)

	_, err = page.Refresh(context.Background())
	require.Error(t, err)
}
