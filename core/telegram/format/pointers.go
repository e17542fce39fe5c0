package format

// DerefString returns *s, or fallback when s is nil or empty.
func DerefString(s *string, fallback string) string {
	if s == nil || *s == "" {
		return fallback
	}
	return *s
}
