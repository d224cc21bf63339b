package vault

import "strings"

// ParseOrgPath splits a slash-delimited organization path into its directory
// segments, validating each one. Leading or trailing slashes, empty
// segments, "." and ".." are all rejected with InvalidArgumentError rather
// than silently normalized: a malformed path must never be resolved against
// the characters root.
func ParseOrgPath(orgPath string) ([]string, error) {
	if orgPath == "" {
		return nil, &InvalidArgumentError{Param: "organization", Value: orgPath, Reason: "must not be empty"}
	}

	segments := strings.Split(orgPath, "/")
	for _, seg := range segments {
		if err := validateSegment("organization", orgPath, seg); err != nil {
			return nil, err
		}
	}
	return segments, nil
}

// validateSegment rejects any path segment that is empty, a dot reference,
// or contains a character that could change how the final path resolves.
func validateSegment(param, full, seg string) error {
	reject := func(reason string) error {
		return &InvalidArgumentError{Param: param, Value: full, Reason: reason}
	}

	switch {
	case seg == "":
		return reject("contains an empty segment")
	case seg == "." || seg == "..":
		return reject("contains a dot segment")
	case strings.ContainsAny(seg, `/\`):
		return reject("segment contains a path separator")
	case strings.ContainsRune(seg, 0):
		return reject("segment contains a NUL byte")
	}
	return nil
}

// validateName applies the same segment rules to a location or character
// name, which becomes the final path element of a lookup.
func validateName(param, name string) error {
	return validateSegment(param, name, name)
}
