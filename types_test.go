package clippdf

import (
	"errors"
	"testing"
	"time"
)

func validConfig() Config {
	return Config{
		Source: "https://example.com/report.html",
		Pages:  []PageSpec{{From: "#a", To: "#b"}},
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		nilCfg  bool
		wantErr bool
	}{
		{name: "valid config", mutate: func(c *Config) {}},
		{name: "nil config", nilCfg: true, wantErr: true},
		{
			name:    "no source at all",
			mutate:  func(c *Config) { c.Source = "" },
			wantErr: true,
		},
		{
			name:    "source and html are exclusive",
			mutate:  func(c *Config) { c.HTML = "<html></html>" },
			wantErr: true,
		},
		{
			name:    "markdown and html are exclusive",
			mutate:  func(c *Config) { c.Source = ""; c.HTML = "<p></p>"; c.Markdown = "# t" },
			wantErr: true,
		},
		{
			name:    "nil pages",
			mutate:  func(c *Config) { c.Pages = nil },
			wantErr: true,
		},
		{
			name:    "empty pages",
			mutate:  func(c *Config) { c.Pages = []PageSpec{} },
			wantErr: true,
		},
		{
			name:    "empty from selector",
			mutate:  func(c *Config) { c.Pages = []PageSpec{{From: " ", To: "#b"}} },
			wantErr: true,
		},
		{
			name:    "empty to selector",
			mutate:  func(c *Config) { c.Pages = []PageSpec{{From: "#a", To: ""}} },
			wantErr: true,
		},
		{
			name:    "negative raster scale",
			mutate:  func(c *Config) { c.Raster = &RasterOptions{Scale: -1} },
			wantErr: true,
		},
		{
			name:    "negative assembler scale factor",
			mutate:  func(c *Config) { c.Assembler = &AssemblerOptions{ScaleFactor: -0.5} },
			wantErr: true,
		},
		{
			name:   "markdown only is valid",
			mutate: func(c *Config) { c.Source = ""; c.Markdown = "# Title" },
		},
		{
			name: "zero raster and assembler values mean defaults",
			mutate: func(c *Config) {
				c.Raster = &RasterOptions{}
				c.Assembler = &AssemblerOptions{}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var cfg *Config
			if !tt.nilCfg {
				c := validConfig()
				tt.mutate(&c)
				cfg = &c
			}

			err := cfg.Validate()
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidConfig) {
					t.Errorf("err = %v, want ErrInvalidConfig", err)
				}
				return
			}
			if err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestConfig_withDefaults(t *testing.T) {
	cfg := validConfig().withDefaults()

	if cfg.Filename != DefaultFilename {
		t.Errorf("Filename = %q, want %q", cfg.Filename, DefaultFilename)
	}
	if cfg.Raster.Scale != DefaultScale || cfg.Raster.PageWidthPx != DefaultPageWidthPx {
		t.Errorf("Raster = %+v", cfg.Raster)
	}
	if cfg.Assembler.PageFormat != DefaultPageFormat ||
		cfg.Assembler.Position != DefaultPosition ||
		cfg.Assembler.ScaleFactor != DefaultScaleFactor {
		t.Errorf("Assembler = %+v", cfg.Assembler)
	}
}

func TestConfig_withDefaults_KeepsExplicitValues(t *testing.T) {
	in := validConfig()
	in.Filename = "out.pdf"
	in.Raster = &RasterOptions{Scale: 3, PageWidthPx: 1000}
	in.Assembler = &AssemblerOptions{PageFormat: "Letter"}

	cfg := in.withDefaults()

	if cfg.Filename != "out.pdf" {
		t.Errorf("Filename = %q", cfg.Filename)
	}
	if cfg.Raster.Scale != 3 || cfg.Raster.PageWidthPx != 1000 {
		t.Errorf("Raster = %+v", cfg.Raster)
	}
	// Unset assembler fields still take defaults.
	if cfg.Assembler.PageFormat != "Letter" || cfg.Assembler.Position != DefaultPosition {
		t.Errorf("Assembler = %+v", cfg.Assembler)
	}
}

func TestConfig_withDefaults_DoesNotMutateCaller(t *testing.T) {
	in := validConfig()
	_ = in.withDefaults()

	if in.Filename != "" || in.Raster != nil || in.Assembler != nil {
		t.Errorf("caller config mutated: %+v", in)
	}
}

func TestWithTimeout_PanicsOnNonPositive(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic for non-positive timeout")
		}
	}()
	WithTimeout(0)
}

func TestWithTimeout(t *testing.T) {
	g := New(WithTimeout(2 * time.Minute))
	defer g.Close()

	if g.cfg.timeout != 2*time.Minute {
		t.Errorf("timeout = %v", g.cfg.timeout)
	}
}
