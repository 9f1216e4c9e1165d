package rinkl

import "embed"

//go:embed migrations
var MigrationsFS embed.FS
