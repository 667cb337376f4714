package session

import (
	"net/http"
	"net/url"
	"path/filepath"
	"testing"
	"time"
)

func TestJarPersistsAcrossRestarts(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cookies.json")
	u, _ := url.Parse("http://api.bookconnect.test")

	jar, err := NewJar(path)
	if err != nil {
		t.Fatal(err)
	}
	jar.SetCookies(u, []*http.Cookie{
		{Name: "token", Value: "abc123", Expires: time.Now().Add(time.Hour)},
	})

	// Simulate a restart with a fresh jar over the same file.
	reloaded, err := NewJar(path)
	if err != nil {
		t.Fatal(err)
	}
	cookies := reloaded.Cookies(u)
	if len(cookies) != 1 || cookies[0].Name != "token" || cookies[0].Value != "abc123" {
		t.Errorf("reloaded cookies = %v, want token=abc123", cookies)
	}
}

func TestJarDropsExpiredOnLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cookies.json")
	u, _ := url.Parse("http://api.bookconnect.test")

	jar, err := NewJar(path)
	if err != nil {
		t.Fatal(err)
	}
	jar.SetCookies(u, []*http.Cookie{
		{Name: "token", Value: "stale", Expires: time.Now().Add(-time.Hour)},
	})

	reloaded, err := NewJar(path)
	if err != nil {
		t.Fatal(err)
	}
	if cookies := reloaded.Cookies(u); len(cookies) != 0 {
		t.Errorf("expired cookie survived reload: %v", cookies)
	}
}

func TestJarClear(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cookies.json")
	u, _ := url.Parse("http://api.bookconnect.test")

	jar, err := NewJar(path)
	if err != nil {
		t.Fatal(err)
	}
	jar.SetCookies(u, []*http.Cookie{
		{Name: "token", Value: "abc", Expires: time.Now().Add(time.Hour)},
	})
	jar.Clear()

	if cookies := jar.Cookies(u); len(cookies) != 0 {
		t.Errorf("cookies after Clear() = %v, want none", cookies)
	}
	reloaded, _ := NewJar(path)
	if cookies := reloaded.Cookies(u); len(cookies) != 0 {
		t.Errorf("cookies reloaded after Clear() = %v, want none", cookies)
	}
}
