package appid

import (
	"context"
	"strings"

	"github.com/fulmenhq/gofulmen/appidentity"

	appidentityassets "github.com/uptimemock/uptimemock/internal/assets/appidentity"
)

// Fallbacks used when no identity can be loaded at all.
const (
	DefaultBinaryName = "uptimemock"
	DefaultEnvPrefix  = "UPTIMEMOCK_"
)

func init() {
	// FULMEN_APP_IDENTITY_PATH and an on-disk .fulmen/app.yaml still win over
	// the embedded copy.
	_ = appidentity.RegisterEmbeddedIdentityYAML(appidentityassets.YAML)
}

func Get(ctx context.Context) (*appidentity.Identity, error) {
	return appidentity.Get(ctx)
}

// EnvPrefix returns the identity's env prefix, always ending in "_".
func EnvPrefix(identity *appidentity.Identity) string {
	if identity == nil || strings.TrimSpace(identity.EnvPrefix) == "" {
		return DefaultEnvPrefix
	}
	prefix := strings.TrimSpace(identity.EnvPrefix)
	if !strings.HasSuffix(prefix, "_") {
		prefix += "_"
	}
	return prefix
}

// BinaryName returns the identity's binary name or the default.
func BinaryName(identity *appidentity.Identity) string {
	if identity == nil || strings.TrimSpace(identity.BinaryName) == "" {
		return DefaultBinaryName
	}
	return identity.BinaryName
}
