package config

import (
	"errors"
	"strings"
)

var errMultiStringSetEmptyValue = errors.New("value cannot be empty")

const defaultSeparator = ","

// MultiStringFlag implements the flag.Value interface and allows a string flag
// to be specified multiple times on the command line.
//
// e.g.: -listen-http 127.0.0.1:8080 -listen-http [::1]:8080
type MultiStringFlag struct {
	value     []string
	separator string
}

// String returns the list of parameters joined with the separator
func (s *MultiStringFlag) String() string {
	return strings.Join(s.value, s.sep())
}

// Set appends the value to the list of parameters
func (s *MultiStringFlag) Set(value string) error {
	if strings.TrimSpace(value) == "" {
		return errMultiStringSetEmptyValue
	}

	s.value = append(s.value, value)
	return nil
}

// Split returns every entry, splitting values that hold several separated
// entries. Surrounding whitespace is trimmed and blank entries, as left by
// "a, b," in a config file, are dropped.
func (s *MultiStringFlag) Split() (result []string) {
	for _, str := range s.value {
		for _, entry := range strings.Split(str, s.sep()) {
			if entry = strings.TrimSpace(entry); entry != "" {
				result = append(result, entry)
			}
		}
	}

	return
}

func (s *MultiStringFlag) sep() string {
	if s.separator == "" {
		return defaultSeparator
	}

	return s.separator
}

// Len is the number of times the flag was set
func (s *MultiStringFlag) Len() int {
	return len(s.value)
}
