package teams

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testTemplate = `teams:
  parent_team: "{{ team_name }}"
  project: "{{ project_name }}"
  description: Team {{ team_name }}
  members: []
  repositories: []
  child_teams: []
`

// newTestStore creates a store over a temp directory with the default team
// template already written.
func newTestStore(t *testing.T) *Store {
	t.Helper()
	dir := t.TempDir()
	templatePath := filepath.Join(dir, "default_teams_config.yml")
	require.NoError(t, os.WriteFile(templatePath, []byte(testTemplate), 0o644))
	return NewStore(filepath.Join(dir, "teams"), templatePath)
}

func TestStore_SaveLoadRoundTrip(t *testing.T) {
	store := newTestStore(t)

	doc := &Document{Teams: TeamConfig{
		ParentTeam:   "platform-core",
		Project:      "Platform",
		Description:  "Core team",
		Members:      []string{"alice"},
		Repositories: []string{"platform-api"},
		ChildTeams: []ChildTeam{{
			Name:                  "platform-core-developers",
			RepositoryPermissions: PermissionPush,
			Members:               []string{"alice"},
			Repositories:          []string{"platform-api"},
		}},
	}}

	require.NoError(t, store.Save("platform-core", doc))

	loaded, err := store.Load("platform-core")
	require.NoError(t, err)
	assert.Equal(t, doc, loaded)
}

func TestStore_SaveIsDeterministic(t *testing.T) {
	store := newTestStore(t)

	doc := &Document{Teams: TeamConfig{
		ParentTeam:   "platform-core",
		Members:      []string{"alice", "bob"},
		Repositories: []string{},
	}}

	require.NoError(t, store.Save("platform-core", doc))
	first, err := os.ReadFile(store.ConfigPath("platform-core"))
	require.NoError(t, err)

	require.NoError(t, store.Save("platform-core", doc))
	second, err := os.ReadFile(store.ConfigPath("platform-core"))
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestStore_EmptyListsSerializeExplicitly(t *testing.T) {
	store := newTestStore(t)

	doc := &Document{Teams: TeamConfig{
		ParentTeam:   "platform-core",
		Members:      []string{},
		Repositories: []string{},
		ChildTeams:   []ChildTeam{},
	}}

	require.NoError(t, store.Save("platform-core", doc))
	data, err := os.ReadFile(store.ConfigPath("platform-core"))
	require.NoError(t, err)

	assert.Contains(t, string(data), "members: []")
	assert.Contains(t, string(data), "repositories: []")
	assert.Contains(t, string(data), "child_teams: []")
}

func TestStore_LoadMissing(t *testing.T) {
	store := newTestStore(t)

	_, err := store.Load("nope")
	assert.ErrorIs(t, err, ErrConfigNotFound)
}

func TestStore_LoadInvalid(t *testing.T) {
	store := newTestStore(t)
	path := store.ConfigPath("broken")
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte("not: a\nteams: doc\n"), 0o644))

	_, err := store.Load("broken")
	assert.ErrorIs(t, err, ErrConfigInvalid)
}

func TestStore_Exists(t *testing.T) {
	store := newTestStore(t)
	assert.False(t, store.Exists("platform-core"))

	require.NoError(t, store.Save("platform-core", &Document{Teams: TeamConfig{ParentTeam: "platform-core"}}))
	assert.True(t, store.Exists("platform-core"))
}

func TestStore_LoadAll(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.Save("team-a", &Document{Teams: TeamConfig{ParentTeam: "team-a"}}))
	require.NoError(t, store.Save("team-b", &Document{Teams: TeamConfig{ParentTeam: "team-b"}}))

	brokenPath := store.ConfigPath("team-c")
	require.NoError(t, os.MkdirAll(filepath.Dir(brokenPath), 0o755))
	require.NoError(t, os.WriteFile(brokenPath, []byte("---\n- just\n- a list\n"), 0o644))

	docs, failures := store.LoadAll()
	require.Len(t, docs, 2)
	assert.Equal(t, "team-a", docs[0].Teams.ParentTeam)
	assert.Equal(t, "team-b", docs[1].Teams.ParentTeam)

	require.Len(t, failures, 1)
	assert.True(t, errors.Is(failures["team-c"], ErrConfigInvalid))
}

func TestStore_LoadTemplate(t *testing.T) {
	store := newTestStore(t)

	doc, err := store.LoadTemplate()
	require.NoError(t, err)
	assert.Equal(t, "{{ team_name }}", doc.Teams.ParentTeam)
}

func TestStore_LoadTemplateMissing(t *testing.T) {
	store := NewStore(t.TempDir(), filepath.Join(t.TempDir(), "nope.yml"))

	_, err := store.LoadTemplate()
	assert.ErrorIs(t, err, ErrTemplateNotFound)
}

func TestStore_LoadTemplateWithoutTeamsSection(t *testing.T) {
	dir := t.TempDir()
	templatePath := filepath.Join(dir, "template.yml")
	require.NoError(t, os.WriteFile(templatePath, []byte("something: else\n"), 0o644))
	store := NewStore(dir, templatePath)

	_, err := store.LoadTemplate()
	assert.ErrorIs(t, err, ErrTemplateInvalid)
}
