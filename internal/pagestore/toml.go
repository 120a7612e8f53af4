package pagestore

import (
	"fmt"

	"github.com/BurntSushi/toml"
)

// FileOptions is the subset of Allocator sizing knobs a host can drive
// from a config file instead of Go literals: page size and the
// per-table registry row alignment. The engine itself takes no other
// configuration (no wire protocol, no environment variables) — this
// exists purely for hosts and local tools that prefer a TOML file over
// wiring Options through code.
type FileOptions struct {
	PageSize     uint32 `toml:"page_size"`
	RowAlignment uint16 `toml:"row_alignment"`
}

// OptionsFromTOML reads a FileOptions from the TOML file at path. Zero
// fields are left as the zero value; the caller applies its own
// defaults (DefaultPageSize, an alignment of 2) for anything unset.
func OptionsFromTOML(path string) (FileOptions, error) {
	var o FileOptions
	if _, err := toml.DecodeFile(path, &o); err != nil {
		return FileOptions{}, fmt.Errorf("pagestore: decoding %s: %w", path, err)
	}
	return o, nil
}
