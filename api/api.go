// Package api carries the OpenAPI document for the public HTTP surface.
// The document is embedded at build time and served from /swagger/openapi.json
// so the binary stays self-contained.
package api

import _ "embed"

//go:embed openapi.json
var OpenAPISpec []byte
