// Package storage persists the daily net-next status observations.
package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/valter-silva-au/netnext/pkg/models"
	"gopkg.in/yaml.v3"
)

// StatusStore defines the interface for the date -> state datastore.
type StatusStore interface {
	// Record stores obs, replacing any observation for the same day.
	Record(obs models.Observation)
	// Observations returns every stored observation in ascending date order.
	Observations() []models.Observation
	// Latest returns the most recent observation.
	Latest() (models.Observation, bool)
	Load() error
	Save() error
	Close() error
}

// observationSet is the in-memory state shared by both backends.
type observationSet struct {
	byDate map[string]models.State
	dirty  map[string]struct{}
}

func newObservationSet() observationSet {
	return observationSet{
		byDate: make(map[string]models.State),
		dirty:  make(map[string]struct{}),
	}
}

func (s *observationSet) record(obs models.Observation) {
	key := models.Day(obs.Date).Format(models.DateLayout)
	s.byDate[key] = obs.State
	s.dirty[key] = struct{}{}
}

func (s *observationSet) sortedKeys() []string {
	keys := make([]string, 0, len(s.byDate))
	for k := range s.byDate {
		keys = append(keys, k)
	}
	// YYYY-MM-DD sorts chronologically.
	sort.Strings(keys)
	return keys
}

func (s *observationSet) observations() []models.Observation {
	keys := s.sortedKeys()
	out := make([]models.Observation, 0, len(keys))
	for _, k := range keys {
		d, _ := models.ParseDate(k)
		out = append(out, models.Observation{Date: d, State: s.byDate[k]})
	}
	return out
}

func (s *observationSet) latest() (models.Observation, bool) {
	keys := s.sortedKeys()
	if len(keys) == 0 {
		return models.Observation{}, false
	}
	k := keys[len(keys)-1]
	d, _ := models.ParseDate(k)
	return models.Observation{Date: d, State: s.byDate[k]}, true
}

// parseDateKey accepts the plain dates written by this tool and the
// timestamps some YAML emitters produce for date keys.
func parseDateKey(s string) (time.Time, error) {
	if d, err := models.ParseDate(s); err == nil {
		return d, nil
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02 15:04:05"} {
		if t, err := time.Parse(layout, s); err == nil {
			return models.Day(t), nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date key %q", s)
}

type yamlStatusStore struct {
	path string
	observationSet
}

// NewYAMLStatusStore creates a StatusStore backed by a YAML mapping of
// calendar dates to states at path:
//
//	2021-01-01: Open
//	2021-01-02: Closed
func NewYAMLStatusStore(path string) StatusStore {
	return &yamlStatusStore{path: path, observationSet: newObservationSet()}
}

func (m *yamlStatusStore) Record(obs models.Observation) { m.record(obs) }

func (m *yamlStatusStore) Observations() []models.Observation { return m.observations() }

func (m *yamlStatusStore) Latest() (models.Observation, bool) { return m.latest() }

func (m *yamlStatusStore) Load() error {
	m.observationSet = newObservationSet()

	data, err := os.ReadFile(m.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("loading datastore: %w", err)
	}

	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("loading datastore: parsing YAML: %w", err)
	}
	if len(doc.Content) == 0 {
		return nil
	}
	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return fmt.Errorf("loading datastore: expected a mapping of dates to states")
	}

	for i := 0; i+1 < len(root.Content); i += 2 {
		key, value := root.Content[i], root.Content[i+1]
		d, err := parseDateKey(key.Value)
		if err != nil {
			return fmt.Errorf("loading datastore: line %d: %w", key.Line, err)
		}
		m.byDate[d.Format(models.DateLayout)] = models.State(value.Value)
	}
	return nil
}

func (m *yamlStatusStore) Save() error {
	if err := os.MkdirAll(filepath.Dir(m.path), 0o750); err != nil {
		return fmt.Errorf("saving datastore: creating directory: %w", err)
	}

	root := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for _, k := range m.sortedKeys() {
		root.Content = append(root.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!timestamp", Value: k},
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: string(m.byDate[k])},
		)
	}
	doc := &yaml.Node{Kind: yaml.DocumentNode, Content: []*yaml.Node{root}}

	data, err := yaml.Marshal(doc)
	if err != nil {
		return fmt.Errorf("saving datastore: marshaling YAML: %w", err)
	}

	unlock, err := lockFile(m.path + ".lock")
	if err != nil {
		return fmt.Errorf("saving datastore: %w", err)
	}
	defer func() { _ = unlock() }()

	if err := os.WriteFile(m.path, data, 0o600); err != nil {
		return fmt.Errorf("saving datastore: writing file: %w", err)
	}
	m.dirty = make(map[string]struct{})
	return nil
}

func (m *yamlStatusStore) Close() error { return nil }
