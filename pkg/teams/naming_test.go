package teams

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEnsureTeamNamePrefix(t *testing.T) {
	assert.Equal(t, "platform-core-developers", EnsureTeamNamePrefix("platform-core", "developers"))
	assert.Equal(t, "platform-core-developers", EnsureTeamNamePrefix("platform-core", "platform-core-developers"))
}

func TestEnsureTeamNamePrefix_Idempotent(t *testing.T) {
	once := EnsureTeamNamePrefix("team-a", "devs")
	twice := EnsureTeamNamePrefix("team-a", once)
	assert.Equal(t, once, twice)
}
