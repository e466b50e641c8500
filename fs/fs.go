// Package appfs embeds the files the binaries need at runtime.
package appfs

import (
	"embed"
	"io/fs"
)

//go:embed migrations/*.sql templates/email/* assets/*
var FS embed.FS

// Glob returns the names of all embedded files matching pattern.
func Glob(pattern string) ([]string, error) {
	return fs.Glob(FS, pattern)
}
