// Package catalog holds the read-only list of competition events per
// division. It is loaded once at startup and never mutated.
package catalog

import (
	_ "embed"
	"fmt"
	"os"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/decanter-app/decanter/internal/tournament"
)

//go:embed events.yaml
var defaultEvents []byte

type Catalog struct {
	events map[tournament.Division][]string
	index  map[tournament.Division]map[string]struct{}
}

type document struct {
	Divisions map[tournament.Division][]string `yaml:"divisions"`
}

// Parse builds a catalog from a YAML document with a `divisions` map.
func Parse(data []byte) (*Catalog, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("error parsing event catalog: %w", err)
	}

	c := &Catalog{
		events: make(map[tournament.Division][]string, len(doc.Divisions)),
		index:  make(map[tournament.Division]map[string]struct{}, len(doc.Divisions)),
	}
	for division, events := range doc.Divisions {
		if !division.Valid() {
			return nil, fmt.Errorf("unknown division %q in event catalog", division)
		}
		set := make(map[string]struct{}, len(events))
		for _, e := range events {
			if e == "" {
				return nil, fmt.Errorf("empty event name in division %s", division)
			}
			set[e] = struct{}{}
		}
		c.events[division] = append([]string(nil), events...)
		c.index[division] = set
	}
	for _, d := range []tournament.Division{tournament.DivisionB, tournament.DivisionC} {
		if len(c.events[d]) == 0 {
			return nil, fmt.Errorf("event catalog has no events for division %s", d)
		}
	}
	return c, nil
}

// LoadFile reads a catalog override from disk.
func LoadFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading event catalog: %w", err)
	}
	return Parse(data)
}

var Default = sync.OnceValue(func() *Catalog {
	c, err := Parse(defaultEvents)
	if err != nil {
		panic(err)
	}
	return c
})

// Events returns a copy of the division's events in display order.
func (c *Catalog) Events(d tournament.Division) []string {
	return append([]string(nil), c.events[d]...)
}

func (c *Catalog) Contains(d tournament.Division, event string) bool {
	_, ok := c.index[d][event]
	return ok
}
