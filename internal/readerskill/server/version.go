package server

import (
	"github.com/Masterminds/semver/v3"

	"github.com/tansive/redditreader/internal/readerskill/api"
)

// Version is the current version of the server.
// The version follows semantic versioning (MAJOR.MINOR.PATCH).
const Version = "0.1.0"

// envelopeConstraint accepts any request envelope of the same major version.
var envelopeConstraint *semver.Constraints

func init() {
	var err error
	envelopeConstraint, err = semver.NewConstraint("^" + api.Version)
	if err != nil {
		panic(err)
	}
}

// IsEnvelopeVersionSupported reports whether a request envelope version is
// understood by this server. Invalid version strings are not supported.
func IsEnvelopeVersionSupported(version string) bool {
	v, err := semver.NewVersion(version)
	if err != nil {
		return false
	}
	return envelopeConstraint.Check(v)
}
