package logx

// ShouldEmit decides whether a record passes the allow-list. With filtering
// off everything passes; otherwise either the tag or the source name has to
// be listed.
func ShouldEmit(tag, source string, cfg Config) bool {
	if !cfg.FilterEnabled {
		return true
	}
	return cfg.FilterAllowList.Contains(tag) || cfg.FilterAllowList.Contains(source)
}
