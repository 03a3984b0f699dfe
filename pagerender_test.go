package clippdf

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"log/slog"
	"strings"
	"testing"

	"github.com/mlevac/clippdf/internal/raster"
)

// testFramePNG renders a small solid PNG for use as a captured frame.
func testFramePNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: 10, G: 120, B: 210, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

// mockSession implements documentSession and records the call sequence.
type mockSession struct {
	t     *testing.T
	calls []string

	materializeErr error
	// materializeErrAt fails the nth materialize call (1-based); zero
	// applies materializeErr to every call.
	materializeErrAt int
	materializeCalls int
	normalizeErr     error
	captureErr       error
	cleanupErr       error

	frame  *raster.Frame
	closed bool
}

func newMockSession(t *testing.T) *mockSession {
	return &mockSession{
		t:     t,
		frame: &raster.Frame{PNG: testFramePNG(t, 80, 100), Width: 80, Height: 100},
	}
}

func (m *mockSession) Materialize(ctx context.Context, from, to string, widthPx int) (string, error) {
	m.calls = append(m.calls, "materialize")
	m.materializeCalls++
	if m.materializeErr != nil && (m.materializeErrAt == 0 || m.materializeErrAt == m.materializeCalls) {
		return "", m.materializeErr
	}
	return "clippdf-staging-1", nil
}

func (m *mockSession) NormalizeColors(ctx context.Context, id string) error {
	m.calls = append(m.calls, "normalize")
	return m.normalizeErr
}

func (m *mockSession) Capture(ctx context.Context, id string, opts *RasterOptions, beforeCapture func(context.Context) error) (*raster.Frame, error) {
	m.calls = append(m.calls, "capture")
	if m.captureErr != nil {
		return nil, m.captureErr
	}
	if beforeCapture != nil {
		if err := beforeCapture(ctx); err != nil {
			return nil, err
		}
	}
	return m.frame, nil
}

func (m *mockSession) Cleanup(ctx context.Context, id string) error {
	m.calls = append(m.calls, "cleanup")
	return m.cleanupErr
}

func (m *mockSession) Close() error {
	m.closed = true
	return nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
}

func testRaster() *RasterOptions {
	return &RasterOptions{Scale: DefaultScale, PageWidthPx: DefaultPageWidthPx}
}

func TestPageRenderer_CallOrder(t *testing.T) {
	sess := newMockSession(t)
	r := &pageRenderer{session: sess, raster: testRaster(), logger: discardLogger()}

	frame, err := r.renderPage(context.Background(), PageSpec{From: "#a", To: "#b"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if frame == nil || frame.Width != 80 {
		t.Fatalf("frame = %+v", frame)
	}

	// Normalization runs twice: once at staging time and once via the
	// before-capture hook at the point of final capture.
	want := []string{"materialize", "normalize", "capture", "normalize", "cleanup"}
	if strings.Join(sess.calls, ",") != strings.Join(want, ",") {
		t.Errorf("calls = %v, want %v", sess.calls, want)
	}
}

func TestPageRenderer_CleanupOnEveryExitPath(t *testing.T) {
	boom := errors.New("boom")

	tests := []struct {
		name        string
		setup       func(*mockSession)
		wantCleanup bool
	}{
		{
			name:        "materialize failure creates no container",
			setup:       func(m *mockSession) { m.materializeErr = boom },
			wantCleanup: false,
		},
		{
			name:        "normalize failure",
			setup:       func(m *mockSession) { m.normalizeErr = boom },
			wantCleanup: true,
		},
		{
			name:        "capture failure",
			setup:       func(m *mockSession) { m.captureErr = boom },
			wantCleanup: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sess := newMockSession(t)
			tt.setup(sess)
			r := &pageRenderer{session: sess, raster: testRaster(), logger: discardLogger()}

			_, err := r.renderPage(context.Background(), PageSpec{From: "#a", To: "#b"})
			if !errors.Is(err, boom) {
				t.Fatalf("err = %v, want wrapped boom", err)
			}

			cleaned := strings.Contains(strings.Join(sess.calls, ","), "cleanup")
			if cleaned != tt.wantCleanup {
				t.Errorf("cleanup called = %v, want %v (calls: %v)", cleaned, tt.wantCleanup, sess.calls)
			}
		})
	}
}

func TestPageRenderer_NormalizeFailureSkipsCapture(t *testing.T) {
	sess := newMockSession(t)
	sess.normalizeErr = errors.New("no container")
	r := &pageRenderer{session: sess, raster: testRaster(), logger: discardLogger()}

	if _, err := r.renderPage(context.Background(), PageSpec{From: "#a", To: "#b"}); err == nil {
		t.Fatal("expected error")
	}
	for _, c := range sess.calls {
		if c == "capture" {
			t.Error("capture must not run after normalization failed")
		}
	}
}

func TestPageRenderer_CleanupErrorSurfacesOnSuccess(t *testing.T) {
	sess := newMockSession(t)
	sess.cleanupErr = errors.New("detach failed")
	r := &pageRenderer{session: sess, raster: testRaster(), logger: discardLogger()}

	if _, err := r.renderPage(context.Background(), PageSpec{From: "#a", To: "#b"}); err == nil {
		t.Fatal("cleanup failure on an otherwise successful page must surface")
	}
}

func TestPageRenderer_ErrorLogsSelectorPair(t *testing.T) {
	var logOut bytes.Buffer
	sess := newMockSession(t)
	sess.materializeErr = errors.New("nothing matched")
	r := &pageRenderer{
		session: sess,
		raster:  testRaster(),
		logger:  slog.New(slog.NewTextHandler(&logOut, nil)),
	}

	_, _ = r.renderPage(context.Background(), PageSpec{From: "#missing-from", To: "#missing-to"})

	logged := logOut.String()
	if !strings.Contains(logged, "#missing-from") || !strings.Contains(logged, "#missing-to") {
		t.Errorf("log output must name the selector pair, got: %s", logged)
	}
}
