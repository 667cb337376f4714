package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/mayank-pillai-99/bookconnect/internal/domain"
)

func respond(t *testing.T, w http.ResponseWriter, message string, data any) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(map[string]any{"message": message, "data": data}); err != nil {
		t.Fatal(err)
	}
}

func TestLoginSendsCredentials(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/login" {
			t.Errorf("got %s %s, want POST /login", r.Method, r.URL.Path)
		}
		var body map[string]string
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatal(err)
		}
		if body["emailId"] != "ana@example.com" || body["password"] != "secret" {
			t.Errorf("body = %v", body)
		}
		respond(t, w, "login successful", domain.Profile{ID: "u1", FirstName: "Ana"})
	}))
	defer srv.Close()

	c, err := New(srv.URL, nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	p, err := c.Auth.Login(context.Background(), "ana@example.com", "secret")
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	if p.ID != "u1" || p.FirstName != "Ana" {
		t.Errorf("profile = %+v", p)
	}
}

func TestFeedPageQuery(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("page") != "3" || q.Get("limit") != "10" {
			t.Errorf("page/limit = %s/%s", q.Get("page"), q.Get("limit"))
		}
		if q.Get("search") != "tolstoy" || q.Get("sort") != "name" {
			t.Errorf("search/sort = %s/%s", q.Get("search"), q.Get("sort"))
		}
		if q.Has("genre") || q.Has("book") {
			t.Error("empty filter fields must be omitted from the query")
		}
		respond(t, w, "ok", []domain.Profile{{ID: "a"}, {ID: "b"}})
	}))
	defer srv.Close()

	c, _ := New(srv.URL, nil, nil)
	profiles, err := c.Feed.Page(context.Background(), domain.Criteria{
		Search: "tolstoy",
		Sort:   domain.SortName,
		Page:   3,
	}, 10)
	if err != nil {
		t.Fatalf("Page() error = %v", err)
	}
	if len(profiles) != 2 || profiles[0].ID != "a" {
		t.Errorf("profiles = %v", profiles)
	}
}

func TestErrorCarriesServerMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		respond(t, w, "invalid credentials", nil)
	}))
	defer srv.Close()

	c, _ := New(srv.URL, nil, nil)
	_, err := c.Auth.Login(context.Background(), "x", "y")
	apiErr, ok := err.(*Error)
	if !ok {
		t.Fatalf("error type = %T, want *Error", err)
	}
	if apiErr.StatusCode != http.StatusBadRequest || apiErr.Message != "invalid credentials" {
		t.Errorf("error = %+v", apiErr)
	}
}

func TestIsAuthError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "please login", http.StatusUnauthorized)
	}))
	defer srv.Close()

	c, _ := New(srv.URL, nil, nil)
	_, err := c.Profile.View(context.Background())
	if !IsAuthError(err) {
		t.Errorf("IsAuthError(%v) = false, want true", err)
	}
}

func TestProfileEditSendsChangedFields(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPatch || r.URL.Path != "/profile/edit" {
			t.Errorf("got %s %s, want PATCH /profile/edit", r.Method, r.URL.Path)
		}
		var body map[string]any
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatal(err)
		}
		if body["about"] != "rereading Dune" {
			t.Errorf("about = %v", body["about"])
		}
		if _, present := body["firstName"]; present {
			t.Error("unset fields must be omitted from the request body")
		}
		respond(t, w, "updated", domain.Profile{ID: "u1", About: "rereading Dune"})
	}))
	defer srv.Close()

	c, _ := New(srv.URL, nil, nil)
	p, err := c.Profile.Edit(context.Background(), EditParams{About: "rereading Dune"})
	if err != nil {
		t.Fatalf("Edit() error = %v", err)
	}
	if p.About != "rereading Dune" {
		t.Errorf("profile = %+v", p)
	}
}

func TestProfileDeletePath(t *testing.T) {
	var gotMethod, gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod, gotPath = r.Method, r.URL.Path
		respond(t, w, "deleted", nil)
	}))
	defer srv.Close()

	c, _ := New(srv.URL, nil, nil)
	if err := c.Profile.Delete(context.Background()); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if gotMethod != http.MethodDelete || gotPath != "/profile/delete" {
		t.Errorf("got %s %s, want DELETE /profile/delete", gotMethod, gotPath)
	}
}

func TestRequestVerdictPath(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		respond(t, w, "ok", nil)
	}))
	defer srv.Close()

	c, _ := New(srv.URL, nil, nil)
	if err := c.Requests.Send(context.Background(), VerdictInterested, "u42"); err != nil {
		t.Fatalf("Send() error = %v", err)
	}
	if gotPath != "/request/send/interested/u42" {
		t.Errorf("path = %q", gotPath)
	}

	if err := c.Requests.Send(context.Background(), Verdict("maybe"), "u42"); err == nil {
		t.Error("Send with unknown verdict should fail before any network call")
	}
}

func TestReviewDecisionPath(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		respond(t, w, "ok", nil)
	}))
	defer srv.Close()

	c, _ := New(srv.URL, nil, nil)
	if err := c.Requests.Review(context.Background(), DecisionAccepted, "req7"); err != nil {
		t.Fatalf("Review() error = %v", err)
	}
	if gotPath != "/request/review/accepted/req7" {
		t.Errorf("path = %q", gotPath)
	}
}

func TestChatHistoryFlattensSender(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/u9" {
			t.Errorf("path = %q, want /chat/u9", r.URL.Path)
		}
		respond(t, w, "ok", map[string]any{
			"messages": []map[string]any{
				{
					"senderId": map[string]string{"_id": "u9", "firstName": "Bo", "lastName": "Li"},
					"text":     "hello",
				},
			},
		})
	}))
	defer srv.Close()

	c, _ := New(srv.URL, nil, nil)
	msgs, err := c.Chat.History(context.Background(), "u9")
	if err != nil {
		t.Fatalf("History() error = %v", err)
	}
	if len(msgs) != 1 {
		t.Fatalf("len = %d, want 1", len(msgs))
	}
	if msgs[0].SenderID != "u9" || msgs[0].Text != "hello" || msgs[0].SenderName() != "Bo Li" {
		t.Errorf("message = %+v", msgs[0])
	}
}

func TestContextCancellationAborts(t *testing.T) {
	block := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-block
	}))
	defer srv.Close()
	defer close(block)

	c, _ := New(srv.URL, nil, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := c.Feed.Page(ctx, domain.Criteria{Page: 1}, 10); err == nil {
		t.Error("cancelled context should abort the fetch")
	}
}

func TestInvalidServerURL(t *testing.T) {
	if _, err := New("not a url", nil, nil); err == nil {
		t.Error("New with bad URL should fail")
	}
	if _, err := New("localhost:7777", nil, nil); err == nil {
		t.Error("New without scheme should fail")
	}
}
