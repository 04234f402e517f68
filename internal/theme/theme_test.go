package theme

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	applog "donations/internal/log"
	"donations/internal/prefs"
	"donations/internal/prefs/memory"
)

type failingStore struct{ getErr, setErr error }

func (f failingStore) Get(context.Context, string) (string, bool, error) { return "", false, f.getErr }
func (f failingStore) Set(context.Context, string, string) error { return f.setErr }

func seeded(t *testing.T, saved string) *memory.Store {
	t.Helper()
	s := memory.New()
	if err := s.Set(context.Background(), PreferenceKey, saved); err != nil {
		t.Fatalf("seed store: %v", err)
	}
	return s
}

func TestParse(t *testing.T) {
	cases := []struct {
		in  string
		out Theme
		ok  bool
	}{
		{"light", Light, true},
		{"dark", Dark, true},
		{" DARK ", Dark, true},
		{"", "", false},
		{"blue", "", false},
	}
	for _, tc := range cases {
		got, err := Parse(tc.in)
		if tc.ok {
			if err != nil || got != tc.out {
				t.Fatalf("%q expected %q, got %q (err=%v)", tc.in, tc.out, got, err)
			}
		} else if !errors.Is(err, ErrInvalidTheme) {
			t.Fatalf("%q expected ErrInvalidTheme, got %v", tc.in, err)
		}
	}
}

func TestToggle(t *testing.T) {
	if Light.Toggle() != Dark || Dark.Toggle() != Light {
		t.Fatalf("toggle should flip between light and dark")
	}
}

func TestLoadPrefersSavedValue(t *testing.T) {
	store := seeded(t, "dark")
	p := Load(context.Background(), store, Light)
	if p.Current() != Dark {
		t.Fatalf("expected saved dark theme, got %q", p.Current())
	}
}

func TestLoadFallsBack(t *testing.T) {
	cases := []struct {
		name  string
		store prefs.Store
	}{
		{"missing", memory.New()},
		{"invalid", seeded(t, "sepia")},
		{"read error", failingStore{getErr: errors.New("boom")}},
	}
	for _, tc := range cases {
		p := Load(context.Background(), tc.store, Dark)
		if p.Current() != Dark {
			t.Fatalf("%s: expected fallback dark, got %q", tc.name, p.Current())
		}
	}
}

func TestLoadLogsWithContextLogger(t *testing.T) {
	var buf bytes.Buffer
	ctx := applog.NewContext(context.Background(), applog.New(applog.Config{Output: &buf}))

	Load(ctx, seeded(t, "sepia"), Light)

	logs := buf.String()
	for _, want := range []string{"Ignoring invalid saved theme", "component=theme", "operation=load", "saved=sepia"} {
		if !strings.Contains(logs, want) {
			t.Errorf("log missing %q in %q", want, logs)
		}
	}
}

func TestSetWritesBack(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	p := Load(ctx, store, Light)

	if err := p.Set(ctx, Dark); err != nil {
		t.Fatalf("set: %v", err)
	}
	if v, ok, _ := store.Get(ctx, PreferenceKey); !ok || v != "dark" {
		t.Fatalf("expected dark persisted, got %q (ok=%v)", v, ok)
	}

	if err := p.Set(ctx, Theme("neon")); !errors.Is(err, ErrInvalidTheme) {
		t.Fatalf("expected invalid theme error, got %v", err)
	}
	if p.Current() != Dark {
		t.Fatalf("invalid set must not change the theme")
	}
}

func TestToggleWritesBack(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	p := Load(ctx, store, Light)

	next, err := p.Toggle(ctx)
	if err != nil || next != Dark {
		t.Fatalf("expected dark, got %q (err=%v)", next, err)
	}
	if v, _, _ := store.Get(ctx, PreferenceKey); v != "dark" {
		t.Fatalf("toggle must persist, got %q", v)
	}

	// A reload sees the persisted value.
	if Load(ctx, store, Light).Current() != Dark {
		t.Fatalf("reloaded preference should be dark")
	}
}

func TestStoreFailureKeepsTheme(t *testing.T) {
	ctx := context.Background()
	p := Load(ctx, failingStore{setErr: errors.New("disk full")}, Light)

	if _, err := p.Toggle(ctx); err == nil {
		t.Fatalf("expected toggle error")
	}
	if err := p.Set(ctx, Dark); err == nil {
		t.Fatalf("expected set error")
	}
	if p.Current() != Light {
		t.Fatalf("failed writes must not change the theme, got %q", p.Current())
	}
}
