package theme

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	applog "donations/internal/log"
	"donations/internal/prefs"
)

// Theme is the dashboard colour scheme.
type Theme string

const (
	Light Theme = "light"
	Dark  Theme = "dark"
)

// PreferenceKey is the store key holding the saved theme.
const PreferenceKey = "theme"

var ErrInvalidTheme = errors.New("invalid theme")

// Parse accepts "light" or "dark", ignoring case and surrounding space.
func Parse(s string) (Theme, error) {
	switch Theme(strings.ToLower(strings.TrimSpace(s))) {
	case Light:
		return Light, nil
	case Dark:
		return Dark, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidTheme, s)
	}
}

// Toggle returns the opposite theme.
func (t Theme) Toggle() Theme {
	if t == Dark {
		return Light
	}
	return Dark
}

// IsDark reports whether t is the dark theme.
func (t Theme) IsDark() bool {
	return t == Dark
}

func (t Theme) String() string {
	return string(t)
}

// Preference holds the active theme and writes every change back to a store.
type Preference struct {
	mu      sync.RWMutex
	store   prefs.Store
	current Theme
}

// Load reads the saved theme once. A missing, unreadable or invalid value
// falls back to fallback, which stands in for the system default.
func Load(ctx context.Context, store prefs.Store, fallback Theme) *Preference {
	p := &Preference{store: store, current: fallback}
	logger := applog.FromContext(ctx).WithComponent(applog.ComponentTheme).
		With(applog.FieldOperation, applog.OpLoad)

	saved, ok, err := store.Get(ctx, PreferenceKey)
	switch {
	case err != nil:
		logger.WarnContext(ctx, "Failed to read saved theme, using default", applog.FieldError, err, "default", fallback)
	case !ok:
		logger.InfoContext(ctx, "No saved theme, using default", "default", fallback)
	default:
		t, perr := Parse(saved)
		if perr != nil {
			logger.WarnContext(ctx, "Ignoring invalid saved theme", "saved", saved, "default", fallback)
			break
		}
		p.current = t
		logger.DebugContext(ctx, "Loaded saved theme", applog.FieldTheme, t)
	}
	return p
}

// Current returns the active theme.
func (p *Preference) Current() Theme {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.current
}

// Set persists t and makes it active. The active theme is unchanged if the store fails.
func (p *Preference) Set(ctx context.Context, t Theme) error {
	if _, err := Parse(string(t)); err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.store.Set(ctx, PreferenceKey, string(t)); err != nil {
		return fmt.Errorf("save theme: %w", err)
	}
	p.current = t
	return nil
}

// Toggle flips the active theme and persists it.
func (p *Preference) Toggle(ctx context.Context) (Theme, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	next := p.current.Toggle()
	if err := p.store.Set(ctx, PreferenceKey, string(next)); err != nil {
		return p.current, fmt.Errorf("save theme: %w", err)
	}
	p.current = next
	return next, nil
}
