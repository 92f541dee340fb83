package source

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/prathamc00/AI-Code-Reviewer/internal/logging"
)

const defaultAPIBase = "https://api.github.com"

var (
	repoURLRe = regexp.MustCompile(`github\.com/([^/]+)/([^/]+?)(?:\.git)?/?$`)
	pullURLRe = regexp.MustCompile(`github\.com/([^/]+)/([^/]+)/pull/(\d+)`)
)

// IsGitHubURL reports whether target is a GitHub repository or pull
// request URL.
func IsGitHubURL(target string) bool {
	if !strings.Contains(target, "github.com/") {
		return false
	}
	return pullURLRe.MatchString(target) || repoURLRe.MatchString(target)
}

// apiError is a non-2xx GitHub API response.
type apiError struct {
	status  int
	message string
}

func (e *apiError) Error() string {
	return fmt.Sprintf("GitHub API error (status %d): %s", e.status, e.message)
}

// IsNotFound reports whether err is a GitHub 404.
func IsNotFound(err error) bool {
	var ae *apiError
	return errors.As(err, &ae) && ae.status == http.StatusNotFound
}

// GitHubProvider fetches Python files from GitHub repositories and
// pull requests over the REST API.
type GitHubProvider struct {
	apiBase string
	token   string
	client  *http.Client
	log     *zap.SugaredLogger
}

// NewGitHub creates a provider. token may be empty for public
// repositories.
func NewGitHub(apiBase, token string) *GitHubProvider {
	if apiBase == "" {
		apiBase = defaultAPIBase
	}
	return &GitHubProvider{
		apiBase: strings.TrimSuffix(apiBase, "/"),
		token:   token,
		client:  &http.Client{Timeout: 30 * time.Second},
		log:     logging.Named("github"),
	}
}

// Name returns "github".
func (p *GitHubProvider) Name() string {
	return "github"
}

// Fetch routes to the pull request or repository path based on the
// URL shape.
func (p *GitHubProvider) Fetch(ctx context.Context, target string) ([]File, error) {
	if strings.Contains(target, "/pull/") {
		return p.fetchPullRequest(ctx, target)
	}
	return p.fetchRepository(ctx, target)
}

func parseRepoURL(target string) (owner, repo string, err error) {
	m := repoURLRe.FindStringSubmatch(target)
	if m == nil {
		return "", "", fmt.Errorf("invalid GitHub repository URL: %s", target)
	}
	return m[1], m[2], nil
}

func parsePullURL(target string) (owner, repo string, number int, err error) {
	m := pullURLRe.FindStringSubmatch(target)
	if m == nil {
		return "", "", 0, fmt.Errorf("invalid GitHub pull request URL: %s", target)
	}
	number, err = strconv.Atoi(m[3])
	if err != nil {
		return "", "", 0, fmt.Errorf("invalid pull request number in %s: %w", target, err)
	}
	return m[1], m[2], number, nil
}

// fetchRepository lists the default branch tree and downloads every
// Python blob. Files that cannot be downloaded are skipped with a
// warning.
func (p *GitHubProvider) fetchRepository(ctx context.Context, target string) ([]File, error) {
	owner, repo, err := parseRepoURL(target)
	if err != nil {
		return nil, err
	}

	var meta struct {
		DefaultBranch string `json:"default_branch"`
	}
	if err := p.getJSON(ctx, fmt.Sprintf("%s/repos/%s/%s", p.apiBase, owner, repo), &meta); err != nil {
		return nil, fmt.Errorf("fetching repository %s/%s: %w", owner, repo, err)
	}
	branch := meta.DefaultBranch
	if branch == "" {
		branch = "main"
	}

	var tree struct {
		Tree []struct {
			Path string `json:"path"`
			Type string `json:"type"`
		} `json:"tree"`
		Truncated bool `json:"truncated"`
	}
	treeURL := fmt.Sprintf("%s/repos/%s/%s/git/trees/%s?recursive=1",
		p.apiBase, owner, repo, url.PathEscape(branch))
	if err := p.getJSON(ctx, treeURL, &tree); err != nil {
		return nil, fmt.Errorf("listing tree for %s/%s: %w", owner, repo, err)
	}
	if tree.Truncated {
		p.log.Warnw("tree listing truncated, some files may be missing", "repo", owner+"/"+repo)
	}

	var files []File
	for _, entry := range tree.Tree {
		if entry.Type != "blob" || !strings.HasSuffix(entry.Path, ".py") {
			continue
		}
		content, err := p.fileContent(ctx, owner, repo, entry.Path, branch)
		if err != nil {
			p.log.Warnw("skipping file", "path", entry.Path, "error", err)
			continue
		}
		files = append(files, File{Path: entry.Path, Content: content})
	}
	return files, nil
}

// fetchPullRequest lists the changed files and downloads the Python
// ones at the PR head.
func (p *GitHubProvider) fetchPullRequest(ctx context.Context, target string) ([]File, error) {
	owner, repo, number, err := parsePullURL(target)
	if err != nil {
		return nil, err
	}

	var pr struct {
		Head struct {
			SHA string `json:"sha"`
		} `json:"head"`
	}
	prURL := fmt.Sprintf("%s/repos/%s/%s/pulls/%d", p.apiBase, owner, repo, number)
	if err := p.getJSON(ctx, prURL, &pr); err != nil {
		return nil, fmt.Errorf("fetching pull request #%d: %w", number, err)
	}

	var files []File
	for page := 1; ; page++ {
		var listed []struct {
			Filename string `json:"filename"`
			Status   string `json:"status"`
		}
		listURL := fmt.Sprintf("%s/repos/%s/%s/pulls/%d/files?per_page=100&page=%d",
			p.apiBase, owner, repo, number, page)
		if err := p.getJSON(ctx, listURL, &listed); err != nil {
			return nil, fmt.Errorf("listing files for pull request #%d: %w", number, err)
		}
		if len(listed) == 0 {
			break
		}

		for _, f := range listed {
			if !strings.HasSuffix(f.Filename, ".py") || f.Status == "removed" {
				continue
			}
			content, err := p.fileContent(ctx, owner, repo, f.Filename, pr.Head.SHA)
			if err != nil {
				p.log.Warnw("skipping file", "path", f.Filename, "error", err)
				continue
			}
			files = append(files, File{Path: f.Filename, Content: content})
		}

		if len(listed) < 100 {
			break
		}
	}
	return files, nil
}

func (p *GitHubProvider) fileContent(ctx context.Context, owner, repo, path, ref string) (string, error) {
	contentURL := fmt.Sprintf("%s/repos/%s/%s/contents/%s?ref=%s",
		p.apiBase, owner, repo, escapePath(path), url.QueryEscape(ref))
	body, err := p.do(ctx, contentURL, "application/vnd.github.raw+json")
	if err != nil {
		return "", err
	}
	return string(body), nil
}

func (p *GitHubProvider) getJSON(ctx context.Context, requestURL string, out any) error {
	body, err := p.do(ctx, requestURL, "application/vnd.github+json")
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}

func (p *GitHubProvider) do(ctx context.Context, requestURL, accept string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", accept)
	if p.token != "" {
		req.Header.Set("Authorization", "Bearer "+p.token)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("sending request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &apiError{status: resp.StatusCode, message: apiMessage(body)}
	}
	return body, nil
}

// apiMessage pulls the "message" field out of a GitHub error body,
// falling back to the raw body.
func apiMessage(body []byte) string {
	var payload struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &payload); err == nil && payload.Message != "" {
		return payload.Message
	}
	msg := strings.TrimSpace(string(body))
	if len(msg) > 200 {
		msg = msg[:200]
	}
	return msg
}

func escapePath(path string) string {
	parts := strings.Split(path, "/")
	for i, part := range parts {
		parts[i] = url.PathEscape(part)
	}
	return strings.Join(parts, "/")
}
