package foreign

import (
	"github.com/Masterminds/semver/v3"
)

// SchemaConstraint is the range of dump schema versions this loader reads.
const SchemaConstraint = "^1.0"

// SchemaVersion is written by producers targeting this loader.
const SchemaVersion = "1.0.0"

var schemaConstraint = mustConstraint(SchemaConstraint)

func mustConstraint(c string) *semver.Constraints {
	cs, err := semver.NewConstraint(c)
	if err != nil {
		panic(err)
	}
	return cs
}

// CheckSchema validates a dump schema version against SchemaConstraint.
func CheckSchema(version string) error {
	v, err := semver.NewVersion(version)
	if err != nil {
		return &SchemaError{Version: version, Constraint: SchemaConstraint, Err: err}
	}
	if !schemaConstraint.Check(v) {
		return &SchemaError{Version: version, Constraint: SchemaConstraint}
	}
	return nil
}
