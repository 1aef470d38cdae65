// Package configs provides embedded configuration templates for labsite.
//
// Templates are embedded at build time so `labsite config init` works from
// any distribution.
//
// Configuration hierarchy (see internal/config Load()):
//  1. Hardcoded defaults (internal/config NewConfig())
//  2. User config ($XDG_CONFIG_HOME/labsite/config.yaml)
//  3. Project config (.labsite.yaml)
//  4. .env in the site root
//  5. Environment variables (LABSITE_*)
package configs

import _ "embed"

// ProjectConfigTemplate is the template written to .labsite.yaml by
// `labsite config init`, or to the user config with --user.
//
//go:embed project-config.example.yaml
var ProjectConfigTemplate string
