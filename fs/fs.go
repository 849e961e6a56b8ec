// Package fs embeds the files shipped with the binaries: sql migrations and email templates.
package fs

import "embed"

const (
	MigrationsDir     = "migrations"
	EmailTemplatesDir = "assets/templates/email"
)

//go:embed migrations/*.sql assets/templates/email/*
var FS embed.FS
