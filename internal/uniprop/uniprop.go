// Package uniprop resolves the Unicode property expressions allowed inside
// \p{...} and \P{...} escapes.
//
// Property data comes from the tables shipped with the Go toolchain. Derived
// properties that the toolchain does not ship directly (Alphabetic,
// ID_Start, Assigned, ...) are computed from their defining formulas the
// first time they are asked for and memoized afterwards.
package uniprop

import (
	"errors"
	"sync"
	"unicode"
)

var (
	// ErrUnknownName is returned for a property name that does not exist.
	ErrUnknownName = errors.New("unknown property name")
	// ErrUnknownValue is returned for a value the property does not have.
	ErrUnknownValue = errors.New("unknown property value")
	// ErrUnavailable is returned for properties that exist but whose data is
	// neither part of the Go Unicode tables nor derivable from them (emoji
	// properties, Bidi_Mirrored and Changes_When_NFKC_Casefolded).
	ErrUnavailable = errors.New("property data unavailable")
)

// Lookup resolves \p{name} when value is empty and \p{name=value}
// otherwise. Names and values are matched exactly, without loose matching.
// The returned table is shared and must not be modified.
func Lookup(name, value string) (*unicode.RangeTable, error) {
	key, build, err := resolve(name, value)
	if err != nil {
		return nil, err
	}
	return tables.get(key, build), nil
}

// Predicate is Lookup returning a membership test.
func Predicate(name, value string) (func(r rune) bool, error) {
	t, err := Lookup(name, value)
	if err != nil {
		return nil, err
	}
	return func(r rune) bool {
		return unicode.Is(t, r)
	}, nil
}

func resolve(name, value string) (string, func() *unicode.RangeTable, error) {
	if value == "" {
		if canonical, ok := binaryAliases[name]; ok {
			build, ok := binary[canonical]
			if !ok {
				return "", nil, ErrUnavailable
			}
			return canonical, build, nil
		}
		if gc, ok := generalCategoryAliases[name]; ok {
			return "gc=" + gc, generalCategory(gc), nil
		}
		return "", nil, ErrUnknownName
	}

	switch name {
	case "General_Category", "gc":
		gc, ok := generalCategoryAliases[value]
		if !ok {
			return "", nil, ErrUnknownValue
		}
		return "gc=" + gc, generalCategory(gc), nil
	case "Script", "sc", "Script_Extensions", "scx":
		sc, ok := scriptAliases[value]
		if !ok {
			return "", nil, ErrUnknownValue
		}
		return "sc=" + sc, script(sc), nil
	}
	return "", nil, ErrUnknownName
}

// cache memoizes resolved tables keyed by canonical property=value. Tables
// are never evicted; the whole set is bounded by the number of properties.
type cache struct {
	mu     sync.Mutex
	tables map[string]*unicode.RangeTable
}

var tables = cache{tables: map[string]*unicode.RangeTable{}}

func (c *cache) get(key string, build func() *unicode.RangeTable) *unicode.RangeTable {
	c.mu.Lock()
	defer c.mu.Unlock()
	if t, ok := c.tables[key]; ok {
		return t
	}
	t := build()
	c.tables[key] = t
	return t
}

func (c *cache) len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.tables)
}
