package config

// Defaults contains the settings from the .rezip file that serve as defaults for command-line flags.
//
// Values are kept as strings so that they are parsed the same way as their flag counterparts. Empty means unset.
type Defaults struct {
	CompressThreshold string
	Sort              string
}

// Defaults returns the settings from the default section of the loaded .rezip file.
func (l *Loader) Defaults() (d Defaults) {
	if l.cfg == nil {
		return
	}

	sec := l.cfg.Section("")
	d.CompressThreshold = sec.Key("compress-threshold").String()
	d.Sort = sec.Key("sort").String()
	return
}
