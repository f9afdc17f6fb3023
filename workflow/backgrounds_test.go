package workflow

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"whisperstudio/types"
)

func TestDownloadBlankInputIsNoOp(t *testing.T) {
	for _, in := range []string{"", "  ", "\n\t"} {
		backend := &fakeBackend{}
		m := NewBackgroundManager(backend)
		m.SetInput(in)

		if m.CanDownload() {
			t.Fatalf("CanDownload with input %q", in)
		}
		if err := m.Download(context.Background()); !errors.Is(err, ErrBlankURL) {
			t.Fatalf("Download(%q) error = %v; want ErrBlankURL", in, err)
		}
		if calls := backend.Calls(); len(calls) != 0 {
			t.Fatalf("Download(%q) made calls %v", in, calls)
		}
	}
}

func TestDownloadRefreshesOnceAndClearsInput(t *testing.T) {
	backend := &fakeBackend{backgrounds: []types.Background{{Name: "vid.mp4", Path: "/bg/vid.mp4"}}}
	m := NewBackgroundManager(backend)
	m.SetInput("https://example.com/vid.mp4")

	if m.Page().Downloading() {
		t.Fatal("downloading before Download")
	}
	if err := m.Download(context.Background()); err != nil {
		t.Fatalf("Download error: %v", err)
	}

	if backend.downloadURL != "https://example.com/vid.mp4" {
		t.Fatalf("download URL = %q", backend.downloadURL)
	}
	if got := strings.Join(backend.Calls(), ","); got != "download,list" {
		t.Fatalf("calls = %s; want download,list", got)
	}
	if m.Page().Input() != "" {
		t.Fatalf("input = %q; want cleared", m.Page().Input())
	}
	if m.Page().Downloading() {
		t.Fatal("downloading flag not cleared")
	}
	if len(m.Status().Backgrounds) != 1 {
		t.Fatalf("backgrounds not refreshed: %+v", m.Status().Backgrounds)
	}
}

// downloadObserver reads the downloading flag while the request is in flight
type downloadObserver struct {
	*fakeBackend
	manager *BackgroundManager
	seen    []bool
}

func (o *downloadObserver) DownloadBackground(ctx context.Context, url string) (*types.DownloadResponse, error) {
	o.seen = append(o.seen, o.manager.Page().Downloading())
	return o.fakeBackend.DownloadBackground(ctx, url)
}

func TestDownloadFlagTransitions(t *testing.T) {
	obs := &downloadObserver{fakeBackend: &fakeBackend{}}
	m := NewBackgroundManager(obs)
	obs.manager = m

	m.SetInput("https://example.com/vid.mp4")
	before := m.Page().Downloading()
	if err := m.Download(context.Background()); err != nil {
		t.Fatalf("Download error: %v", err)
	}
	after := m.Page().Downloading()

	if before || len(obs.seen) != 1 || !obs.seen[0] || after {
		t.Fatalf("downloading flag = %v -> %v -> %v; want false -> true -> false", before, obs.seen, after)
	}
	if obs.count("download") != 1 || obs.count("list") != 1 {
		t.Fatalf("calls = %v; want one download and one list", obs.Calls())
	}
}

// reentrantDownload starts a second download while the first is in flight
type reentrantDownload struct {
	*fakeBackend
	manager  *BackgroundManager
	inner    error
	inputNow string
}

func (o *reentrantDownload) DownloadBackground(ctx context.Context, url string) (*types.DownloadResponse, error) {
	o.inner = o.manager.DownloadURL(ctx, "https://example.com/second.mp4")
	o.inputNow = o.manager.Page().Input()
	return o.fakeBackend.DownloadBackground(ctx, url)
}

func TestDownloadURLRefusedWhileDownloadingKeepsInput(t *testing.T) {
	obs := &reentrantDownload{fakeBackend: &fakeBackend{}}
	m := NewBackgroundManager(obs)
	obs.manager = m

	if err := m.DownloadURL(context.Background(), "https://example.com/first.mp4"); err != nil {
		t.Fatalf("DownloadURL error: %v", err)
	}
	if !errors.Is(obs.inner, ErrDownloadInProgress) {
		t.Fatalf("second DownloadURL error = %v; want ErrDownloadInProgress", obs.inner)
	}
	if obs.inputNow != "https://example.com/first.mp4" {
		t.Fatalf("input during download = %q; the refused URL overwrote it", obs.inputNow)
	}
	if obs.count("download") != 1 || obs.downloadURL != "https://example.com/first.mp4" {
		t.Fatalf("downloads = %d of %q", obs.count("download"), obs.downloadURL)
	}
}

func TestDownloadURLBlankKeepsInput(t *testing.T) {
	m := NewBackgroundManager(&fakeBackend{})
	m.SetInput("https://example.com/typed.mp4")
	if err := m.DownloadURL(context.Background(), "   "); !errors.Is(err, ErrBlankURL) {
		t.Fatalf("DownloadURL error = %v; want ErrBlankURL", err)
	}
	if m.Page().Input() != "https://example.com/typed.mp4" {
		t.Fatalf("input = %q; want the typed URL kept", m.Page().Input())
	}
}

func TestDownloadFailureIsSilent(t *testing.T) {
	backend := &fakeBackend{downloadErr: errors.New("400 bad url")}
	m := NewBackgroundManager(backend)
	m.SetInput("https://example.com/broken")

	if err := m.Download(context.Background()); err == nil {
		t.Fatal("Download error = nil; want the backend error")
	}
	if backend.count("list") != 0 {
		t.Fatal("list refreshed after a failed download")
	}
	if m.Page().Downloading() {
		t.Fatal("downloading flag not cleared after failure")
	}
	if m.Page().Input() != "https://example.com/broken" {
		t.Fatal("input cleared after failure")
	}
	if m.Status().Error == "" {
		t.Fatal("failure not recorded in the page log")
	}
}

func TestRefreshFailureKeepsPreviousList(t *testing.T) {
	backend := &fakeBackend{backgrounds: []types.Background{{Name: "a.mp4"}, {Name: "b.mp4"}}}
	m := NewBackgroundManager(backend)
	if err := m.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh error: %v", err)
	}

	backend.listErr = errors.New("Failed to fetch backgrounds")
	if err := m.Refresh(context.Background()); err == nil {
		t.Fatal("Refresh error = nil")
	}
	if n := len(m.Status().Backgrounds); n != 2 {
		t.Fatalf("backgrounds = %d; want previous 2 kept", n)
	}
}

func TestRefreshClearsVanishedSelection(t *testing.T) {
	backend := &fakeBackend{backgrounds: []types.Background{{Name: "a.mp4"}, {Name: "b.mp4"}}}
	m := NewBackgroundManager(backend)
	_ = m.Refresh(context.Background())
	m.Select("b.mp4")

	backend.backgrounds = []types.Background{{Name: "a.mp4"}}
	_ = m.Refresh(context.Background())

	if _, ok := m.Preview(); ok {
		t.Fatal("preview still rendered for a vanished background")
	}
	if m.Status().Selected != "" {
		t.Fatalf("Selected = %q; want cleared", m.Status().Selected)
	}
}

func TestPreviewCacheBusterChangesPerSelection(t *testing.T) {
	backend := &fakeBackend{backgrounds: []types.Background{{Name: "beach.mp4"}}}
	m := NewBackgroundManager(backend)
	_ = m.Refresh(context.Background())

	if _, ok := m.Preview(); ok {
		t.Fatal("preview rendered without a selection")
	}

	clock := time.UnixMilli(1000)
	m.now = func() time.Time { return clock }
	m.Select("beach.mp4")
	first, ok := m.Preview()
	if !ok || !strings.Contains(first, "beach.mp4?t=1000") {
		t.Fatalf("Preview = %q, %v", first, ok)
	}
	if !m.Status().PreviewLoading {
		t.Fatal("preview not loading right after selection")
	}
	m.PreviewCanPlay()
	if m.Status().PreviewLoading {
		t.Fatal("preview still loading after can-play")
	}

	clock = clock.Add(5 * time.Millisecond)
	m.Select("beach.mp4")
	second, _ := m.Preview()
	if second == first {
		t.Fatalf("Preview URL unchanged after reselection: %q", second)
	}
	if m.Status().PreviewURL != second {
		t.Fatalf("Status().PreviewURL = %q; want %q", m.Status().PreviewURL, second)
	}
}
