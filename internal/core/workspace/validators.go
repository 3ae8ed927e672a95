package workspace

import (
	"regexp"
	"slices"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// MaxNameLength is the longest accepted project name.
const MaxNameLength = 50

// namePattern accepts names starting with a letter followed by letters,
// digits, underscores, or dashes. Matches the name rule enforced by the
// workspace.json schema.
var namePattern = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9_-]*$`)

// pythonVersionPattern accepts CPython 3.x version strings ("3.11", "3.299").
var pythonVersionPattern = regexp.MustCompile(`^3\.\d+$`)

// reservedNames are directory names a workspace already claims; a project
// named after one would shadow its own structure.
var reservedNames = map[string]struct{}{
	"test":  {},
	"tests": {},
	"src":   {},
	"lib":   {},
	"bin":   {},
	"build": {},
	"dist":  {},
}

// ValidateName checks a project name against the naming rules. The name is
// NFC-normalized first so visually identical input from different input
// methods validates consistently. Returns a validation-category error.
func ValidateName(name string) error {
	name = norm.NFC.String(strings.TrimSpace(name))

	if name == "" {
		return validationErr("%w: name is empty", ErrInvalidName)
	}
	if len(name) > MaxNameLength {
		return validationErr("%w: %q is %d characters (max %d)", ErrNameTooLong, name, len(name), MaxNameLength)
	}
	if !namePattern.MatchString(name) {
		return validationErr("%w: %q must start with a letter and contain only letters, digits, '_' or '-'", ErrInvalidName, name)
	}
	if _, ok := reservedNames[strings.ToLower(name)]; ok {
		return validationErr("%w: %q conflicts with a workspace directory", ErrReservedName, name)
	}
	return nil
}

// ValidatePythonVersion checks a python version string for the generated
// CI workflows and pyproject metadata.
func ValidatePythonVersion(v string) error {
	if !pythonVersionPattern.MatchString(v) {
		return validationErr("%w: %q (expected the form 3.N, e.g. 3.11)", ErrInvalidPythonVersion, v)
	}
	return nil
}

// ReservedNameList returns the reserved names in stable order, for help
// and error text.
func ReservedNameList() string {
	names := make([]string, 0, len(reservedNames))
	for n := range reservedNames {
		names = append(names, n)
	}
	slices.Sort(names)
	return strings.Join(names, ", ")
}
