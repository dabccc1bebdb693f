package types

import "regexp"

var identityRegex = regexp.MustCompile(identityPattern)

// ValidIdentity reports whether the value is a well-formed identity, the
// same shape rule the payload validators apply. Path parameters go through
// this directly since they bypass payload binding.
func ValidIdentity(identity string) bool {
	return identity != "" && len(identity) <= maxIdentityLen && identityRegex.MatchString(identity)
}
