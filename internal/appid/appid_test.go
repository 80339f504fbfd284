package appid

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/fulmenhq/gofulmen/appidentity"

	appidentityassets "github.com/uptimemock/uptimemock/internal/assets/appidentity"
)

func prepareIdentityForTest(t *testing.T) {
	t.Helper()

	// gofulmen caches identity and the embedded registration per process.
	appidentity.Reset()
	if err := appidentity.RegisterEmbeddedIdentityYAML(appidentityassets.YAML); err != nil {
		t.Fatalf("RegisterEmbeddedIdentityYAML: %v", err)
	}

	t.Cleanup(func() { appidentity.Reset() })
}

func TestGet_EmbeddedIdentityFallbackOutsideRepo(t *testing.T) {
	prepareIdentityForTest(t)
	t.Setenv(appidentity.EnvIdentityPath, "")

	oldWD, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	t.Cleanup(func() { _ = os.Chdir(oldWD) })

	if err := os.Chdir(t.TempDir()); err != nil {
		t.Fatalf("chdir: %v", err)
	}

	identity, err := Get(context.Background())
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if identity.BinaryName != "uptimemock" {
		t.Fatalf("expected BinaryName uptimemock, got %q", identity.BinaryName)
	}
	if EnvPrefix(identity) != "UPTIMEMOCK_" {
		t.Fatalf("expected UPTIMEMOCK_ prefix, got %q", EnvPrefix(identity))
	}
}

func TestGet_EnvVarRemainsAuthoritative(t *testing.T) {
	prepareIdentityForTest(t)

	missing := filepath.Join(t.TempDir(), "missing-app.yaml")
	t.Setenv(appidentity.EnvIdentityPath, missing)

	_, err := Get(context.Background())
	if err == nil {
		t.Fatalf("expected error")
	}

	var notFound *appidentity.NotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("expected NotFoundError, got %T: %v", err, err)
	}
}

func TestFallbacks(t *testing.T) {
	if got := EnvPrefix(nil); got != DefaultEnvPrefix {
		t.Fatalf("EnvPrefix(nil) = %q", got)
	}
	if got := EnvPrefix(&appidentity.Identity{EnvPrefix: "MOCK"}); got != "MOCK_" {
		t.Fatalf("EnvPrefix without underscore = %q", got)
	}
	if got := BinaryName(&appidentity.Identity{}); got != DefaultBinaryName {
		t.Fatalf("BinaryName(empty) = %q", got)
	}
}
