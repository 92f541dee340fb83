package source

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestIsGitHubURL(t *testing.T) {
	tests := []struct {
		target string
		want   bool
	}{
		{"https://github.com/acme/app", true},
		{"https://github.com/acme/app.git", true},
		{"https://github.com/acme/app/", true},
		{"github.com/acme/app", true},
		{"https://github.com/acme/app/pull/12", true},
		{"https://github.com/acme", false},
		{"https://gitlab.com/acme/app", false},
		{"./local/dir", false},
		{"/home/dev/project", false},
	}

	for _, tt := range tests {
		t.Run(tt.target, func(t *testing.T) {
			if got := IsGitHubURL(tt.target); got != tt.want {
				t.Errorf("IsGitHubURL(%q) = %v, want %v", tt.target, got, tt.want)
			}
		})
	}
}

func TestParseRepoURL(t *testing.T) {
	tests := []struct {
		target    string
		wantOwner string
		wantRepo  string
	}{
		{"https://github.com/acme/app", "acme", "app"},
		{"https://github.com/acme/app.git", "acme", "app"},
		{"https://github.com/acme/app/", "acme", "app"},
		{"github.com/Some-Org/some.repo", "Some-Org", "some.repo"},
	}

	for _, tt := range tests {
		t.Run(tt.target, func(t *testing.T) {
			owner, repo, err := parseRepoURL(tt.target)
			if err != nil {
				t.Fatalf("parseRepoURL: %v", err)
			}
			if owner != tt.wantOwner || repo != tt.wantRepo {
				t.Errorf("got %s/%s, want %s/%s", owner, repo, tt.wantOwner, tt.wantRepo)
			}
		})
	}

	if _, _, err := parseRepoURL("https://example.com/acme/app"); err == nil {
		t.Error("expected error for non-GitHub URL")
	}
}

func TestParsePullURL(t *testing.T) {
	owner, repo, number, err := parsePullURL("https://github.com/acme/app/pull/137")
	if err != nil {
		t.Fatalf("parsePullURL: %v", err)
	}
	if owner != "acme" || repo != "app" || number != 137 {
		t.Errorf("got %s/%s#%d", owner, repo, number)
	}

	if _, _, _, err := parsePullURL("https://github.com/acme/app"); err == nil {
		t.Error("expected error for repository URL")
	}
}

func TestGitHub_FetchRepository(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		switch r.URL.Path {
		case "/repos/acme/app":
			fmt.Fprint(w, `{"default_branch": "trunk"}`)
		case "/repos/acme/app/git/trees/trunk":
			fmt.Fprint(w, `{"tree": [
				{"path": "app.py", "type": "blob"},
				{"path": "docs/readme.md", "type": "blob"},
				{"path": "sub", "type": "tree"},
				{"path": "sub/util.py", "type": "blob"}
			]}`)
		case "/repos/acme/app/contents/app.py":
			fmt.Fprint(w, "print('a')\n")
		case "/repos/acme/app/contents/sub/util.py":
			fmt.Fprint(w, "print('u')\n")
		default:
			t.Errorf("unexpected request: %s", r.URL.Path)
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	p := NewGitHub(srv.URL, "tok-123")
	files, err := p.Fetch(context.Background(), "https://github.com/acme/app")
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if len(files) != 2 {
		t.Fatalf("got %d files, want 2: %v", len(files), files)
	}
	if files[0].Path != "app.py" || files[0].Content != "print('a')\n" {
		t.Errorf("first file = %+v", files[0])
	}
	if files[1].Path != "sub/util.py" {
		t.Errorf("second file = %+v", files[1])
	}
	if gotAuth != "Bearer tok-123" {
		t.Errorf("auth header = %q", gotAuth)
	}
}

func TestGitHub_FetchRepository_DefaultBranchFallback(t *testing.T) {
	var treePath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/repos/acme/app":
			fmt.Fprint(w, `{}`)
		default:
			treePath = r.URL.Path
			fmt.Fprint(w, `{"tree": []}`)
		}
	}))
	defer srv.Close()

	p := NewGitHub(srv.URL, "")
	if _, err := p.Fetch(context.Background(), "https://github.com/acme/app"); err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if treePath != "/repos/acme/app/git/trees/main" {
		t.Errorf("tree path = %q, want main branch", treePath)
	}
}

func TestGitHub_FetchRepository_NotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		fmt.Fprint(w, `{"message": "Not Found"}`)
	}))
	defer srv.Close()

	p := NewGitHub(srv.URL, "")
	_, err := p.Fetch(context.Background(), "https://github.com/acme/ghost")
	if err == nil {
		t.Fatal("expected error")
	}
	if !IsNotFound(err) {
		t.Errorf("err = %v, want not-found", err)
	}
}

func TestGitHub_FetchRepository_SkipsFailingFiles(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/repos/acme/app":
			fmt.Fprint(w, `{"default_branch": "main"}`)
		case "/repos/acme/app/git/trees/main":
			fmt.Fprint(w, `{"tree": [
				{"path": "good.py", "type": "blob"},
				{"path": "bad.py", "type": "blob"}
			]}`)
		case "/repos/acme/app/contents/good.py":
			fmt.Fprint(w, "x = 1\n")
		case "/repos/acme/app/contents/bad.py":
			http.Error(w, `{"message": "too large"}`, http.StatusForbidden)
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	p := NewGitHub(srv.URL, "")
	files, err := p.Fetch(context.Background(), "https://github.com/acme/app")
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if len(files) != 1 || files[0].Path != "good.py" {
		t.Errorf("files = %v, want only good.py", files)
	}
}

func TestGitHub_FetchPullRequest(t *testing.T) {
	var gotRef string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/repos/acme/app/pulls/7":
			fmt.Fprint(w, `{"head": {"sha": "abc123"}}`)
		case "/repos/acme/app/pulls/7/files":
			fmt.Fprint(w, `[
				{"filename": "app.py", "status": "modified"},
				{"filename": "gone.py", "status": "removed"},
				{"filename": "notes.md", "status": "added"}
			]`)
		case "/repos/acme/app/contents/app.py":
			gotRef = r.URL.Query().Get("ref")
			fmt.Fprint(w, "changed = True\n")
		default:
			t.Errorf("unexpected request: %s", r.URL.Path)
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	p := NewGitHub(srv.URL, "")
	files, err := p.Fetch(context.Background(), "https://github.com/acme/app/pull/7")
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if len(files) != 1 {
		t.Fatalf("got %d files, want 1: %v", len(files), files)
	}
	if files[0].Path != "app.py" || files[0].Content != "changed = True\n" {
		t.Errorf("file = %+v", files[0])
	}
	if gotRef != "abc123" {
		t.Errorf("content ref = %q, want head SHA", gotRef)
	}
}

func TestGitHub_FetchPullRequest_Paginates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/repos/acme/app/pulls/9":
			fmt.Fprint(w, `{"head": {"sha": "def456"}}`)
		case "/repos/acme/app/pulls/9/files":
			type listed struct {
				Filename string `json:"filename"`
				Status   string `json:"status"`
			}
			switch r.URL.Query().Get("page") {
			case "1":
				page := make([]listed, 100)
				for i := range page {
					page[i] = listed{Filename: fmt.Sprintf("doc%d.md", i), Status: "modified"}
				}
				json.NewEncoder(w).Encode(page)
			case "2":
				json.NewEncoder(w).Encode([]listed{{Filename: "late.py", Status: "added"}})
			default:
				t.Errorf("unexpected page %q", r.URL.Query().Get("page"))
				json.NewEncoder(w).Encode([]listed{})
			}
		case "/repos/acme/app/contents/late.py":
			fmt.Fprint(w, "ok = 1\n")
		default:
			t.Errorf("unexpected request: %s", r.URL.Path)
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	p := NewGitHub(srv.URL, "")
	files, err := p.Fetch(context.Background(), "https://github.com/acme/app/pull/9")
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if len(files) != 1 || files[0].Path != "late.py" {
		t.Errorf("files = %v, want only late.py", files)
	}
}
