// Package scaffold provides embedded skeleton files for the inkpress CLI
// site scaffolding command.
package scaffold

import "embed"

// Templates contains the starter site written by `inkpress new`.
// Files with a .tmpl suffix use Go text/template syntax; everything else is
// copied verbatim.
//
//go:embed all:templates
var Templates embed.FS
