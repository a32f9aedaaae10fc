// Package portaltest serves fake Omnivox portals for tests.
package portaltest

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"
)

const (
	loginPath    = "/intr/Module/Identification/Login/Login.aspx"
	homePath     = "/intr/"
	selectorPath = "/intr/UI/WebParts/Intraflex_CalendrierScolaire/Webpart_Affichage_Selector.ashx"
	sessionName  = "omnivox_session"
)

// Site is the content of a fake portal. Pages are keyed by absolute path.
type Site struct {
	Username string
	Password string
	Token    string
	// Home is served at /intr/ until the calendar is switched to day view.
	Home string
	// DayViewHome is served at /intr/ after the switch, Home is kept when empty.
	DayViewHome string
	Pages       map[string]string
	// Delays holds pages back by path, the request is dropped if the client gives up first.
	Delays map[string]time.Duration
	// OmitToken serves a login page without its token field.
	OmitToken bool
}

// Server is a running fake portal.
type Server struct {
	*httptest.Server

	site Site

	mutex    sync.Mutex
	dayView  bool
	requests []string
}

func NewServer(t testing.TB, site Site) *Server {
	s := &Server{site: site}
	s.Server = httptest.NewServer(http.HandlerFunc(s.handle))
	t.Cleanup(s.Close)
	return s
}

// Requests lists every request received as "METHOD /path".
func (s *Server) Requests() []string {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return append([]string(nil), s.requests...)
}

func (s *Server) DayView() bool {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return s.dayView
}

func (s *Server) loginPage() string {
	token := fmt.Sprintf(`<input type="hidden" name="k" value="%s">`, s.site.Token)
	if s.site.OmitToken {
		token = ""
	}
	return fmt.Sprintf(`<html><body>
<form name="formLogin" method="post">
	<input type="text" name="NoDA">
	<input type="password" name="PasswordEtu">
	%s
</form>
</body></html>`, token)
}

func (s *Server) authenticated(r *http.Request) bool {
	cookie, err := r.Cookie(sessionName)
	return err == nil && cookie.Value == s.site.Token
}

func (s *Server) handle(w http.ResponseWriter, r *http.Request) {
	s.mutex.Lock()
	s.requests = append(s.requests, r.Method+" "+r.URL.Path)
	s.mutex.Unlock()

	w.Header().Set("content-type", "text/html; charset=utf-8")

	switch {
	case r.URL.Path == loginPath && r.Method == http.MethodGet:
		fmt.Fprint(w, s.loginPage())
		return
	case r.URL.Path == loginPath && r.Method == http.MethodPost:
		err := r.ParseForm()
		if err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		valid := r.PostForm.Get("NoDA") == s.site.Username &&
			r.PostForm.Get("PasswordEtu") == s.site.Password &&
			r.PostForm.Get("k") == s.site.Token &&
			r.PostForm.Get("TypeIdentification") == "Etudiant" &&
			r.PostForm.Get("TypeLogin") == "PostSolutionLogin"
		if !valid {
			fmt.Fprint(w, s.loginPage())
			return
		}
		http.SetCookie(w, &http.Cookie{Name: sessionName, Value: s.site.Token, Path: "/"})
		http.Redirect(w, r, homePath, http.StatusFound)
		return
	}

	if !s.authenticated(r) {
		http.Redirect(w, r, loginPath, http.StatusFound)
		return
	}

	switch {
	case r.URL.Path == selectorPath && r.Method == http.MethodPost:
		err := r.ParseForm()
		if err != nil || r.PostForm.Get("isModeVueParJour") != "true" || r.URL.Query().Get("t") == "" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		s.mutex.Lock()
		s.dayView = true
		s.mutex.Unlock()
		fmt.Fprint(w, "ok")
		return
	case r.URL.Path == homePath:
		home := s.site.Home
		if s.DayView() && s.site.DayViewHome != "" {
			home = s.site.DayViewHome
		}
		fmt.Fprint(w, home)
		return
	}

	page, ok := s.site.Pages[r.URL.Path]
	if !ok {
		http.NotFound(w, r)
		return
	}
	if delay, ok := s.site.Delays[r.URL.Path]; ok {
		select {
		case <-time.After(delay):
		case <-r.Context().Done():
			return
		}
	}
	fmt.Fprint(w, page)
}

func escape(s string) string {
	r := strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;", `"`, "&quot;")
	return r.Replace(s)
}
