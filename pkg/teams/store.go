package teams

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// EncodeOptions configures the deterministic YAML serializer. Key order is
// struct-field order, sequences are emitted in block style, and multiline
// strings use literal blocks; those follow from the encoder itself, so the
// only tunable is indentation.
type EncodeOptions struct {
	Indent int
}

// DefaultEncodeOptions returns the serializer settings used for all team
// configuration files.
func DefaultEncodeOptions() EncodeOptions {
	return EncodeOptions{Indent: 2}
}

// MarshalDocument serializes a team configuration document with the given
// options.
func MarshalDocument(doc *Document, opts EncodeOptions) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(opts.Indent)
	if err := enc.Encode(doc); err != nil {
		return nil, fmt.Errorf("failed to marshal team config: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("failed to finalize team config: %w", err)
	}
	return buf.Bytes(), nil
}

// UnmarshalDocument parses a team configuration document and verifies it
// carries the top-level teams section.
func UnmarshalDocument(data []byte) (*Document, error) {
	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigInvalid, err)
	}
	if doc.Teams.ParentTeam == "" {
		return nil, fmt.Errorf("%w: missing teams section", ErrConfigInvalid)
	}
	return &doc, nil
}

// Store loads and saves one declarative configuration per team, addressed
// by team name under a base directory.
type Store struct {
	baseDir      string
	templatePath string
	opts         EncodeOptions
}

// NewStore creates a store rooted at baseDir. templatePath points at the
// default team template used when creating new configurations.
func NewStore(baseDir, templatePath string) *Store {
	return &Store{
		baseDir:      baseDir,
		templatePath: templatePath,
		opts:         DefaultEncodeOptions(),
	}
}

// ConfigPath returns the on-disk path of a team's configuration file.
func (s *Store) ConfigPath(teamName string) string {
	return filepath.Join(s.baseDir, teamName, "teams.yml")
}

// Exists reports whether a configuration file exists for the team.
func (s *Store) Exists(teamName string) bool {
	_, err := os.Stat(s.ConfigPath(teamName))
	return err == nil
}

// Load reads a team's configuration. It fails softly: a missing file maps
// to ErrConfigNotFound and a structurally invalid document to
// ErrConfigInvalid, both as returned errors.
func (s *Store) Load(teamName string) (*Document, error) {
	data, err := os.ReadFile(s.ConfigPath(teamName))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, teamName)
		}
		return nil, fmt.Errorf("failed to read config for team %s: %w", teamName, err)
	}
	doc, err := UnmarshalDocument(data)
	if err != nil {
		return nil, fmt.Errorf("team %s: %w", teamName, err)
	}
	return doc, nil
}

// Save writes a team's configuration, creating the team directory as
// needed. Failures are returned, never thrown, so the caller can report
// them to the requester.
func (s *Store) Save(teamName string, doc *Document) error {
	data, err := MarshalDocument(doc, s.opts)
	if err != nil {
		return &PersistenceError{TeamName: teamName, Cause: err}
	}

	path := s.ConfigPath(teamName)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return &PersistenceError{TeamName: teamName, Cause: err}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return &PersistenceError{TeamName: teamName, Cause: err}
	}
	return nil
}

// LoadAll reads every team configuration under the base directory, in
// lexical directory order. Invalid files are skipped and reported through
// the returned per-file error map so one bad document does not stop a bulk
// sync.
func (s *Store) LoadAll() ([]*Document, map[string]error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		return nil, map[string]error{s.baseDir: err}
	}

	var docs []*Document
	failures := make(map[string]error)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		doc, err := s.Load(entry.Name())
		if err != nil {
			if !errors.Is(err, ErrConfigNotFound) {
				failures[entry.Name()] = err
			}
			continue
		}
		docs = append(docs, doc)
	}
	return docs, failures
}

// LoadTemplate reads the default team template document used to seed new
// configurations.
func (s *Store) LoadTemplate() (*Document, error) {
	data, err := os.ReadFile(s.templatePath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrTemplateNotFound, s.templatePath)
		}
		return nil, fmt.Errorf("failed to read template %s: %w", s.templatePath, err)
	}

	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTemplateInvalid, err)
	}
	// The template must at least carry the teams mapping; its parent_team
	// value is a placeholder replaced at creation time.
	var probe map[string]any
	if err := yaml.Unmarshal(data, &probe); err != nil || probe["teams"] == nil {
		return nil, fmt.Errorf("%w: missing teams section", ErrTemplateInvalid)
	}
	return &doc, nil
}

// substitutePlaceholders replaces literal template tokens for the team name
// and project in a serialized document.
func substitutePlaceholders(data []byte, teamName, project string) []byte {
	out := string(data)
	out = strings.ReplaceAll(out, "{{ team_name }}", teamName)
	out = strings.ReplaceAll(out, "{{ project_name }}", project)
	return []byte(out)
}
