package viewer

import (
	"errors"
	"path/filepath"
	"testing"
)

func TestBrowserNavigatorResolve(t *testing.T) {
	base := t.TempDir()
	n := NewBrowserNavigator(base)

	tests := []struct {
		dest    string
		want    string
		wantURL bool
	}{
		{"https://example.com/about", "https://example.com/about", true},
		{"HTTP://example.com", "HTTP://example.com", true},
		{"file:///tmp/site.html", "file:///tmp/site.html", true},
		{"site.html", filepath.Join(base, "site.html"), false},
		{"pages/site.html", filepath.Join(base, "pages", "site.html"), false},
	}

	for _, tt := range tests {
		t.Run(tt.dest, func(t *testing.T) {
			got, isURL, err := n.Resolve(tt.dest)
			if err != nil {
				t.Fatalf("Resolve: %v", err)
			}
			if got != tt.want || isURL != tt.wantURL {
				t.Errorf("Resolve(%q) = %q, %v; want %q, %v", tt.dest, got, isURL, tt.want, tt.wantURL)
			}
		})
	}

	if _, _, err := n.Resolve(""); err == nil {
		t.Error("empty destination should fail")
	}
}

func TestBrowserNavigatorNavigate(t *testing.T) {
	base := t.TempDir()
	var urls, files []string
	n := NewBrowserNavigator(base)
	n.openURL = func(u string) error { urls = append(urls, u); return nil }
	n.openFile = func(f string) error { files = append(files, f); return nil }

	if err := n.Navigate("site.html"); err != nil {
		t.Fatal(err)
	}
	if err := n.Navigate("https://example.com"); err != nil {
		t.Fatal(err)
	}

	if len(files) != 1 || files[0] != filepath.Join(base, "site.html") {
		t.Errorf("files opened = %v", files)
	}
	if len(urls) != 1 || urls[0] != "https://example.com" {
		t.Errorf("urls opened = %v", urls)
	}

	boom := errors.New("no browser")
	n.openFile = func(string) error { return boom }
	if err := n.Navigate("site.html"); !errors.Is(err, boom) {
		t.Errorf("Navigate() error = %v, want wrapped open error", err)
	}
}
