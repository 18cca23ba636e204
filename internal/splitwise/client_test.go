package splitwise

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestNewClientRequiresAPIKey(t *testing.T) {
	if _, err := NewClient(""); err == nil {
		t.Fatal("NewClient(\"\") error = nil, want error naming api_key")
	} else if got := err.Error(); got != "missing api_key environment variable" {
		t.Errorf("error = %q, want it to name api_key", got)
	}

	if _, err := NewClient("key"); err != nil {
		t.Fatalf("NewClient(key) error = %v", err)
	}
}

func TestClientListExpenses(t *testing.T) {
	var gotAuth string
	var gotQuery map[string]string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotQuery = map[string]string{}
		for k := range r.URL.Query() {
			gotQuery[k] = r.URL.Query().Get(k)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"expenses":[
			{"id": 1, "cost": "10.0", "payment": false},
			{"id": 2, "cost": "3.5", "payment": true}
		]}`))
	}))
	defer srv.Close()

	client, err := NewClient("secret-key")
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}
	client.baseURL = srv.URL

	records, err := client.ListExpenses(context.Background(), ListOptions{
		Visible: true,
		GroupID: "g1",
		Limit:   100,
		Offset:  200,
	})
	if err != nil {
		t.Fatalf("ListExpenses() error = %v", err)
	}

	if gotAuth != "Bearer secret-key" {
		t.Errorf("Authorization = %q, want Bearer secret-key", gotAuth)
	}
	want := map[string]string{
		"visible":  "true",
		"limit":    "100",
		"offset":   "200",
		"group_id": "g1",
	}
	for k, v := range want {
		if gotQuery[k] != v {
			t.Errorf("query %s = %q, want %q", k, gotQuery[k], v)
		}
	}

	if len(records) != 2 {
		t.Fatalf("got %d records, want 2", len(records))
	}
	// UseNumber keeps numbers intact.
	if id, ok := records[0]["id"].(json.Number); !ok || id.String() != "1" {
		t.Errorf("id = %#v, want json.Number(1)", records[0]["id"])
	}
	if cost, ok := records[0]["cost"].(string); !ok || cost != "10.0" {
		t.Errorf("cost = %#v, want \"10.0\"", records[0]["cost"])
	}
}

func TestClientListExpensesOmitsEmptyGroup(t *testing.T) {
	var hasGroup bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hasGroup = r.URL.Query().Has("group_id")
		_, _ = w.Write([]byte(`{"expenses":[]}`))
	}))
	defer srv.Close()

	client, _ := NewClient("key")
	client.baseURL = srv.URL

	if _, err := client.ListExpenses(context.Background(), ListOptions{Visible: true, Limit: 100}); err != nil {
		t.Fatalf("ListExpenses() error = %v", err)
	}
	if hasGroup {
		t.Error("group_id must be omitted when not configured")
	}
}

func TestClientListExpensesErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "invalid api key", http.StatusUnauthorized)
	}))
	defer srv.Close()

	client, _ := NewClient("bad-key")
	client.baseURL = srv.URL

	if _, err := client.ListExpenses(context.Background(), ListOptions{Visible: true, Limit: 100}); err == nil {
		t.Fatal("ListExpenses() error = nil, want error for 401")
	}
}
