//go:build tools

// Package tools pins code-generator versions in go.mod without pulling
// them into the build. Mirrors the wider Go ecosystem's tools.go idiom;
// run `go generate ./...` after editing internal/ir/opcode_string.go's
// source enum.
package tools

import (
	_ "golang.org/x/tools/cmd/stringer"
)
