package version

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetFullVersion(t *testing.T) {
	original := Version
	t.Cleanup(func() { Version = original })

	Version = "dev"
	assert.Equal(t, "dev", GetFullVersion())

	Version = "v1.2.0"
	GitCommit = "abc123"
	BuildDate = "2026-01-01"
	assert.Equal(t, "v1.2.0 (commit abc123, built 2026-01-01)", GetFullVersion())
	assert.Equal(t, "{{.Name}} version v1.2.0 (commit abc123, built 2026-01-01)\n", Template())
}
