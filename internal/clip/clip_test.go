package clip

import (
	"context"
	"errors"
	"strings"
	"testing"
)

// fakeEvaluator implements Evaluator for testing without a browser.
type fakeEvaluator struct {
	Result    string
	Err       error
	CalledJS  string
	CalledArg []any
	Calls     int
}

func (f *fakeEvaluator) Eval(ctx context.Context, js string, args ...any) (string, error) {
	f.Calls++
	f.CalledJS = js
	f.CalledArg = args
	return f.Result, f.Err
}

func TestRuntimeAsset(t *testing.T) {
	if strings.TrimSpace(runtimeJS) == "" {
		t.Fatal("embedded runtime.js is empty")
	}

	// The runtime must install exactly the documented surface.
	for _, fn := range []string{"materialize", "normalize", "cleanup", "count", "forceRgb"} {
		if !strings.Contains(runtimeJS, fn+":") {
			t.Errorf("runtime.js does not export %q", fn)
		}
	}

	// The shorthand allowlist is part of the normalization contract: these
	// properties are not reliably enumerated by the indexed walk.
	for _, prop := range []string{
		"backgroundImage", "boxShadow", "fill", "stroke",
		"color", "borderColor", "backgroundColor",
	} {
		if !strings.Contains(runtimeJS, "'"+prop+"'") {
			t.Errorf("runtime.js allowlist is missing %q", prop)
		}
	}

	// Conversion output format: rgba(R, G, B, A/255).
	if !strings.Contains(runtimeJS, "d[3] / 255") {
		t.Error("runtime.js does not divide the alpha sample by 255")
	}
	if !strings.Contains(runtimeJS, "oklch\\(") {
		t.Error("runtime.js does not match the oklch( token")
	}
}

func TestStage_Materialize(t *testing.T) {
	tests := []struct {
		name       string
		result     string
		evalErr    error
		wantID     string
		wantSelErr bool
		wantRngErr bool
		wantAnyErr bool
	}{
		{
			name:   "success returns container id",
			result: `{"ok":true,"id":"clippdf-staging-3"}`,
			wantID: "clippdf-staging-3",
		},
		{
			name:       "missing from selector",
			result:     `{"ok":false,"code":"selector","which":"from","selector":"#nope"}`,
			wantSelErr: true,
		},
		{
			name:       "missing to selector",
			result:     `{"ok":false,"code":"selector","which":"to","selector":".gone"}`,
			wantSelErr: true,
		},
		{
			name:       "reversed selectors cannot form a range",
			result:     `{"ok":false,"code":"range","detail":"end boundary does not follow start boundary"}`,
			wantRngErr: true,
		},
		{
			name:       "evaluator failure propagates",
			evalErr:    errors.New("page crashed"),
			wantAnyErr: true,
		},
		{
			name:       "garbage result is an error",
			result:     `not json`,
			wantAnyErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			eval := &fakeEvaluator{Result: tt.result, Err: tt.evalErr}
			stage := New(eval)

			id, err := stage.Materialize(context.Background(), "#a", "#b", 794)

			var selErr *SelectorError
			var rngErr *RangeError
			switch {
			case tt.wantSelErr:
				if !errors.As(err, &selErr) {
					t.Fatalf("expected SelectorError, got %v", err)
				}
			case tt.wantRngErr:
				if !errors.As(err, &rngErr) {
					t.Fatalf("expected RangeError, got %v", err)
				}
				if rngErr.From != "#a" || rngErr.To != "#b" {
					t.Errorf("RangeError selectors = %q/%q, want #a/#b", rngErr.From, rngErr.To)
				}
			case tt.wantAnyErr:
				if err == nil {
					t.Fatal("expected error, got nil")
				}
			default:
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				if id != tt.wantID {
					t.Errorf("id = %q, want %q", id, tt.wantID)
				}
			}

			// Width must be forwarded to the page runtime.
			if err == nil && len(eval.CalledArg) == 3 {
				if w, ok := eval.CalledArg[2].(int); !ok || w != 794 {
					t.Errorf("width argument = %v, want 794", eval.CalledArg[2])
				}
			}
		})
	}
}

func TestStage_SelectorErrorMessage(t *testing.T) {
	err := &SelectorError{Which: "from", Selector: "#missing"}
	if !strings.Contains(err.Error(), "#missing") || !strings.Contains(err.Error(), "from") {
		t.Errorf("error message should name the selector and side: %q", err.Error())
	}
}

func TestStage_NormalizeColors(t *testing.T) {
	eval := &fakeEvaluator{Result: `{"ok":true,"elements":12,"replaced":4}`}
	stage := New(eval)

	stats, err := stage.NormalizeColors(context.Background(), "clippdf-staging-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stats.Elements != 12 || stats.Replaced != 4 {
		t.Errorf("stats = %+v, want {Elements:12 Replaced:4}", stats)
	}
	if len(eval.CalledArg) != 1 || eval.CalledArg[0] != "clippdf-staging-1" {
		t.Errorf("container id not forwarded: %v", eval.CalledArg)
	}
}

func TestStage_NormalizeColors_MissingContainer(t *testing.T) {
	eval := &fakeEvaluator{Result: `{"ok":false,"code":"missing","detail":"no staging container x"}`}
	stage := New(eval)

	if _, err := stage.NormalizeColors(context.Background(), "x"); err == nil {
		t.Fatal("expected error for missing container")
	}
}

func TestStage_Cleanup(t *testing.T) {
	tests := []struct {
		name    string
		result  string
		evalErr error
		wantErr bool
	}{
		{name: "removes attached container", result: `{"ok":true,"removed":true}`},
		{name: "already detached is not an error", result: `{"ok":true,"removed":false}`},
		{name: "evaluator failure propagates", evalErr: errors.New("closed"), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stage := New(&fakeEvaluator{Result: tt.result, Err: tt.evalErr})
			err := stage.Cleanup(context.Background(), "clippdf-staging-1")
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr = %v", err, tt.wantErr)
			}
		})
	}
}

func TestStage_StagingCount(t *testing.T) {
	stage := New(&fakeEvaluator{Result: `{"ok":true,"count":2}`})
	n, err := stage.StagingCount(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != 2 {
		t.Errorf("count = %d, want 2", n)
	}
}

func TestStage_Install(t *testing.T) {
	eval := &fakeEvaluator{Result: "true"}
	stage := New(eval)
	if err := stage.Install(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if eval.CalledJS != runtimeJS {
		t.Error("Install must evaluate the embedded runtime source")
	}
}
