// Package notify broadcasts short messages to counselor channels (ntfy, Discord, Telegram, ...)
// through Shoutrrr service URLs. Delivery is fire-and-forget: failures are logged and never
// reach the caller.
package notify

import (
	"log/slog"
	"strings"
	"sync"

	"github.com/containrrr/shoutrrr"
)

// Broadcaster sends a message to every configured Shoutrrr URL.
type Broadcaster struct {
	urls []string
	send func(url, message string) error
	wg   sync.WaitGroup
}

// NewBroadcaster creates a broadcaster for the given service URLs.
// PRE: urls may be empty, in which case Broadcast is a no-op
// POST: Returns a ready-to-use broadcaster
func NewBroadcaster(urls []string) *Broadcaster {
	return &Broadcaster{urls: urls, send: shoutrrr.Send}
}

// Enabled reports whether at least one URL is configured.
func (b *Broadcaster) Enabled() bool {
	return len(b.urls) > 0
}

// Broadcast delivers message to all URLs in the background.
// PRE: none
// POST: Returns immediately; errors are logged
func (b *Broadcaster) Broadcast(message string) {
	if len(b.urls) == 0 || message == "" {
		return
	}
	b.wg.Add(1)
	go func() {
		defer b.wg.Done()
		for _, u := range b.urls {
			if err := b.send(u, message); err != nil {
				slog.Warn("notify_broadcast_failed", "url", MaskURL(u), "error", err)
			}
		}
	}()
}

// Wait blocks until in-flight broadcasts finish. Called on shutdown.
func (b *Broadcaster) Wait() {
	b.wg.Wait()
}

// ParseURLs splits a comma-or-newline-separated URL string and trims whitespace.
func ParseURLs(raw string) []string {
	raw = strings.ReplaceAll(raw, "\n", ",")
	var urls []string
	for _, p := range strings.Split(raw, ",") {
		if p = strings.TrimSpace(p); p != "" {
			urls = append(urls, p)
		}
	}
	return urls
}

// MaskURL hides credentials in a Shoutrrr URL for safe logging.
func MaskURL(u string) string {
	if len(u) <= 15 {
		if len(u) < 5 {
			return "••••"
		}
		return u[:5] + "••••"
	}
	return u[:15] + "••••"
}
