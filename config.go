package icdbms

import "github.com/icdbms/icdbms/internal/pagestore"

// WithTOMLFile loads page-size/row-alignment settings from a TOML file
// and applies them as Options, for hosts that prefer a config file over
// wiring sizing through Go literals. Fields absent from the file are
// left at Open's defaults.
func WithTOMLFile(path string) Option {
	return func(o *Options) {
		fo, err := pagestore.OptionsFromTOML(path)
		if err != nil {
			o.configErr = err
			return
		}
		if fo.PageSize != 0 {
			o.PageSize = fo.PageSize
		}
		if fo.RowAlignment != 0 {
			o.RowAlignment = fo.RowAlignment
		}
	}
}
