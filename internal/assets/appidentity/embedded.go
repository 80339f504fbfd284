package appidentityassets

import _ "embed"

// YAML mirrors .fulmen/app.yaml so a standalone binary still knows its name,
// env prefix and telemetry namespace.
//
//go:embed app.yaml
var YAML []byte
