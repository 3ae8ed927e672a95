package skill

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"
)

const (
	// fetchTimeout bounds the default HTTP client.
	fetchTimeout = 15 * time.Second

	// maxDocumentBytes caps the size of a fetched document.
	maxDocumentBytes = 1 << 20

	// rawGitHubHost serves file contents for owner/repo/path shorthands.
	rawGitHubHost = "https://raw.githubusercontent.com"

	// defaultBranch is the branch shorthands resolve against.
	defaultBranch = "main"

	userAgent = "bootstrap-skill-fetcher"
)

// Document is a fetched markdown document ready to install.
type Document struct {
	Source  string // resolved URL
	Name    string // target file name, always with a .md extension
	Title   string // first markdown heading, or the name stem
	Content []byte
}

// ResolveSource turns a source argument into a fetchable URL. Absolute
// http(s) URLs pass through; anything else must be an owner/repo/path
// GitHub shorthand, expanded against the repository's main branch.
func ResolveSource(source string) (string, error) {
	source = strings.TrimSpace(source)
	if source == "" {
		return "", ErrBadSource
	}
	if strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://") {
		if _, err := url.Parse(source); err != nil {
			return "", fmt.Errorf("%w: %q", ErrBadSource, source)
		}
		return source, nil
	}

	parts := strings.Split(source, "/")
	if len(parts) < 3 {
		return "", fmt.Errorf("%w: %q", ErrBadSource, source)
	}
	for _, part := range parts {
		if part == "" || part == "." || part == ".." {
			return "", fmt.Errorf("%w: %q", ErrBadSource, source)
		}
	}
	owner, repo := parts[0], parts[1]
	filePath := strings.Join(parts[2:], "/")
	return fmt.Sprintf("%s/%s/%s/%s/%s", rawGitHubHost, owner, repo, defaultBranch, filePath), nil
}

// Fetch resolves the source, retrieves the document, and derives its
// install name and title. Oversized and non-markdown payloads are
// rejected.
func (m *Manager) Fetch(ctx context.Context, source string) (*Document, error) {
	resolved, err := ResolveSource(source)
	if err != nil {
		return nil, err
	}

	name, err := documentName(resolved)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, resolved, nil)
	if err != nil {
		return nil, fmt.Errorf("skill: create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := m.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("skill: fetch %s: %w", resolved, err)
	}
	defer func() { _ = resp.Body.Close() }()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, fmt.Errorf("%w: %s", ErrNotFound, resolved)
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("skill: fetch %s: unexpected status %d", resolved, resp.StatusCode)
	}

	content, err := io.ReadAll(io.LimitReader(resp.Body, maxDocumentBytes+1))
	if err != nil {
		return nil, fmt.Errorf("skill: read %s: %w", resolved, err)
	}
	if len(content) > maxDocumentBytes {
		return nil, fmt.Errorf("%w: %s exceeds %d bytes", ErrTooLarge, resolved, maxDocumentBytes)
	}
	if bytes.IndexByte(content, 0) >= 0 {
		return nil, fmt.Errorf("%w: %s contains binary data", ErrNotMarkdown, resolved)
	}

	doc := &Document{
		Source:  resolved,
		Name:    name,
		Title:   strings.TrimSuffix(name, ".md"),
		Content: content,
	}
	if heading := firstHeading(content); heading != "" {
		doc.Title = heading
	}
	return doc, nil
}

// documentName derives the install file name from the resolved URL's
// last path segment, forcing a .md extension. URLs pointing at
// non-markdown files are rejected.
func documentName(resolved string) (string, error) {
	parsed, err := url.Parse(resolved)
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrBadSource, resolved)
	}
	base := path.Base(parsed.Path)
	if base == "." || base == "/" || base == "" {
		return "", fmt.Errorf("%w: %q has no file name", ErrBadSource, resolved)
	}
	ext := path.Ext(base)
	switch ext {
	case ".md":
		return base, nil
	case "":
		return base + ".md", nil
	default:
		return "", fmt.Errorf("%w: %q", ErrNotMarkdown, base)
	}
}

// firstHeading returns the text of the first level-one markdown
// heading, or "" when the document has none.
func firstHeading(content []byte) string {
	scanner := bufio.NewScanner(bytes.NewReader(content))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if rest, ok := strings.CutPrefix(line, "# "); ok {
			return strings.TrimSpace(rest)
		}
	}
	return ""
}
