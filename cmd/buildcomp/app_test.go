// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/buildcomp/buildcomp/internal/config"
	"github.com/buildcomp/buildcomp/internal/discovery"
	"github.com/buildcomp/buildcomp/internal/testutil"
	"github.com/buildcomp/buildcomp/pkg/manifest"
	"github.com/buildcomp/buildcomp/pkg/resolver"
)

func TestNewApp_Defaults(t *testing.T) {
	t.Parallel()

	app, err := NewApp(Dependencies{})
	if err != nil {
		t.Fatalf("NewApp() error = %v", err)
	}
	if app.Config == nil || app.Discovery == nil || app.Resolvers == nil || app.Diagnostics == nil || app.Clock == nil {
		t.Fatalf("NewApp() left a dependency nil: %+v", app)
	}
	if app.stdout == nil || app.stderr == nil {
		t.Fatal("NewApp() left an output stream nil")
	}
}

func TestDefaultDiagnosticRenderer(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	r := &defaultDiagnosticRenderer{}
	r.Render(context.Background(), []discovery.Diagnostic{
		{Severity: discovery.SeverityWarning, Code: discovery.CodeNameSkipped, Message: "skipped my-dir", Path: "/tmp/c/my-dir"},
		{Severity: discovery.SeverityError, Code: discovery.CodeManifestSkipped, Message: "broken manifest"},
	}, &buf)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("rendered %d lines, want 2:\n%s", len(lines), buf.String())
	}
	if !strings.Contains(lines[0], "warning") || !strings.Contains(lines[0], "skipped my-dir") || !strings.Contains(lines[0], "/tmp/c/my-dir") {
		t.Errorf("line 0 = %q", lines[0])
	}
	if !strings.Contains(lines[1], "error") || !strings.Contains(lines[1], "broken manifest") {
		t.Errorf("line 1 = %q", lines[1])
	}
}

func TestHookResolverFactory(t *testing.T) {
	t.Parallel()

	componentsDir := t.TempDir()
	goodDir := testutil.WriteComponent(t, componentsDir, "good", "manifest.json", `{"options": ["port"]}`,
		map[string]string{"port.expr": `fallback ?? 8080`})
	badDir := testutil.WriteComponent(t, componentsDir, "bad", "manifest.json", `{"options": ["name"]}`,
		map[string]string{"name.js": `function collect(ctx) {`})

	good, err := manifest.Load(goodDir)
	if err != nil {
		t.Fatal(err)
	}
	bad, err := manifest.Load(badDir)
	if err != nil {
		t.Fatal(err)
	}
	manifests := []*manifest.Manifest{good, bad}
	factory := &hookResolverFactory{}

	t.Run("disabled", func(t *testing.T) {
		t.Parallel()

		res, diags := factory.NewResolver(context.Background(), manifests, config.HooksConfig{Enabled: false})
		if res != nil || diags != nil {
			t.Errorf("NewResolver() = %v, %v; want nil, nil", res, diags)
		}
	})

	t.Run("enabled", func(t *testing.T) {
		t.Parallel()

		res, diags := factory.NewResolver(context.Background(), manifests, config.HooksConfig{Enabled: true, Timeout: time.Second})
		reg, ok := res.(*resolver.Registry)
		if !ok {
			t.Fatalf("NewResolver() = %T, want *resolver.Registry", res)
		}
		if !reg.Has("good", "port") {
			t.Error("hook for good.port not registered")
		}
		if len(diags) != 1 || diags[0].Code != discovery.CodeHookSkipped {
			t.Fatalf("diagnostics = %+v, want one %s", diags, discovery.CodeHookSkipped)
		}
		if diags[0].Path != bad.Dir {
			t.Errorf("diagnostic path = %q, want %q", diags[0].Path, bad.Dir)
		}
	})
}

func TestFail_RendersActionableError(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	h := newHarness(t, nil)
	// A file where the components directory should be makes discovery fail.
	testutil.MustWriteFile(t, filepath.Join(root, "buildout", "components"), "not a directory")

	err := h.run(t, "order", "-p", root)
	if err == nil {
		t.Fatal("order succeeded, want an error")
	}
	if !strings.Contains(h.stderr.String(), "Error:") {
		t.Errorf("stderr = %q, want the styled error prefix", h.stderr.String())
	}
}
