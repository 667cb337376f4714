package session

import (
	"encoding/json"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"os"
	"sync"
	"time"
)

// Jar is a cookie jar that persists cookies to disk so the ambient session
// survives restarts. The remote API authenticates every call with a session
// cookie set at login; no token refresh protocol exists on the client.
type Jar struct {
	mu    sync.Mutex
	path  string
	inner *cookiejar.Jar
	saved map[string][]savedCookie // keyed by URL scheme://host
}

type savedCookie struct {
	Name    string    `json:"name"`
	Value   string    `json:"value"`
	Path    string    `json:"path,omitempty"`
	Expires time.Time `json:"expires,omitempty"`
}

// NewJar creates a jar backed by the given file, loading any cookies
// previously saved there. A missing or unreadable file yields an empty jar.
func NewJar(path string) (*Jar, error) {
	inner, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}
	j := &Jar{
		path:  path,
		inner: inner,
		saved: make(map[string][]savedCookie),
	}
	j.load()
	return j, nil
}

func (j *Jar) load() {
	data, err := os.ReadFile(j.path)
	if err != nil {
		return
	}
	if err := json.Unmarshal(data, &j.saved); err != nil {
		j.saved = make(map[string][]savedCookie)
		return
	}
	now := time.Now()
	for rawURL, cookies := range j.saved {
		u, err := url.Parse(rawURL)
		if err != nil {
			continue
		}
		var live []*http.Cookie
		for _, c := range cookies {
			if !c.Expires.IsZero() && c.Expires.Before(now) {
				continue
			}
			live = append(live, &http.Cookie{
				Name:    c.Name,
				Value:   c.Value,
				Path:    c.Path,
				Expires: c.Expires,
			})
		}
		if len(live) > 0 {
			j.inner.SetCookies(u, live)
		}
	}
}

// Cookies implements http.CookieJar.
func (j *Jar) Cookies(u *url.URL) []*http.Cookie {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.inner.Cookies(u)
}

// SetCookies implements http.CookieJar and persists the change to disk.
// Persistence failures are swallowed: the session still works in memory.
func (j *Jar) SetCookies(u *url.URL, cookies []*http.Cookie) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.inner.SetCookies(u, cookies)

	// The stdlib jar does not expose expiry on read-back, so persistence
	// tracks the cookies as they were set, merged by name.
	key := u.Scheme + "://" + u.Host
	byName := make(map[string]savedCookie)
	for _, c := range j.saved[key] {
		byName[c.Name] = c
	}
	for _, c := range cookies {
		if c.MaxAge < 0 || (!c.Expires.IsZero() && c.Expires.Before(time.Now())) {
			delete(byName, c.Name)
			continue
		}
		byName[c.Name] = savedCookie{Name: c.Name, Value: c.Value, Path: c.Path, Expires: c.Expires}
	}
	out := make([]savedCookie, 0, len(byName))
	for _, c := range byName {
		out = append(out, c)
	}
	if len(out) == 0 {
		delete(j.saved, key)
	} else {
		j.saved[key] = out
	}
	j.persist()
}

// Clear drops all cookies and removes the backing file. Used on logout.
func (j *Jar) Clear() {
	j.mu.Lock()
	defer j.mu.Unlock()
	inner, err := cookiejar.New(nil)
	if err == nil {
		j.inner = inner
	}
	j.saved = make(map[string][]savedCookie)
	_ = os.Remove(j.path)
}

func (j *Jar) persist() {
	data, err := json.MarshalIndent(j.saved, "", "  ")
	if err != nil {
		return
	}
	_ = os.WriteFile(j.path, data, 0600)
}
