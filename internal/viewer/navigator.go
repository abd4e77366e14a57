package viewer

import (
	"fmt"
	"net/url"
	"path/filepath"
	"strings"

	"github.com/pkg/browser"
	"go.uber.org/zap"

	"github.com/Faultbox/deskview/internal/logger"
)

// Navigator leaves the viewer for a destination.
type Navigator interface {
	Navigate(dest string) error
}

// BrowserNavigator opens destinations in the system browser. URLs with a
// web or file scheme open as-is; anything else is a path relative to BaseDir.
type BrowserNavigator struct {
	BaseDir string

	openURL  func(string) error
	openFile func(string) error
}

// NewBrowserNavigator creates a navigator resolving paths against baseDir.
func NewBrowserNavigator(baseDir string) *BrowserNavigator {
	return &BrowserNavigator{
		BaseDir:  baseDir,
		openURL:  browser.OpenURL,
		openFile: browser.OpenFile,
	}
}

// Resolve returns the URL or absolute file path dest refers to.
func (n *BrowserNavigator) Resolve(dest string) (target string, isURL bool, err error) {
	if dest == "" {
		return "", false, fmt.Errorf("empty destination")
	}
	if u, err := url.Parse(dest); err == nil {
		switch strings.ToLower(u.Scheme) {
		case "http", "https", "file":
			return dest, true, nil
		}
	}

	path := filepath.FromSlash(dest)
	if !filepath.IsAbs(path) {
		path = filepath.Join(n.BaseDir, path)
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", false, fmt.Errorf("resolve %s: %w", dest, err)
	}
	return abs, false, nil
}

// Navigate opens dest.
func (n *BrowserNavigator) Navigate(dest string) error {
	target, isURL, err := n.Resolve(dest)
	if err != nil {
		return err
	}
	logger.Info("navigating", zap.String("destination", dest), zap.String("target", target))

	if isURL {
		err = n.openURL(target)
	} else {
		err = n.openFile(target)
	}
	if err != nil {
		return fmt.Errorf("open %s: %w", target, err)
	}
	return nil
}
