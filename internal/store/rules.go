package store

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"fjacquet/ledgerline/internal/fileutils"
	"fjacquet/ledgerline/internal/logging"
	"fjacquet/ledgerline/internal/vendor"

	"gopkg.in/yaml.v3"
)

// PatternEntry is one user pattern rule as written in the rules file.
type PatternEntry struct {
	Pattern string `yaml:"pattern"`
	Name    string `yaml:"name"`
}

// RuleFile is the YAML layout of user vendor rules:
//
//	patterns:
//	  - pattern: '\bACME\b'
//	    name: Acme
//	merchants:
//	  BLUE BOTTLE: Blue Bottle
type RuleFile struct {
	Patterns  []PatternEntry    `yaml:"patterns,omitempty"`
	Merchants map[string]string `yaml:"merchants,omitempty"`
}

// IsEmpty reports whether the file defines no rules.
func (f RuleFile) IsEmpty() bool {
	return len(f.Patterns) == 0 && len(f.Merchants) == 0
}

// Compile turns the pattern entries into vendor rules, in file order.
func (f RuleFile) Compile() ([]vendor.PatternRule, error) {
	rules := make([]vendor.PatternRule, 0, len(f.Patterns))
	for i, entry := range f.Patterns {
		if strings.TrimSpace(entry.Name) == "" {
			return nil, fmt.Errorf("pattern rule %d (%q): missing name", i+1, entry.Pattern)
		}
		rule, err := vendor.NewPatternRule(entry.Pattern, entry.Name)
		if err != nil {
			return nil, err
		}
		rules = append(rules, rule)
	}
	return rules, nil
}

// Apply extends base with the file's rules.
func (f RuleFile) Apply(base vendor.RuleSet) (vendor.RuleSet, error) {
	if f.IsEmpty() {
		return base, nil
	}
	patterns, err := f.Compile()
	if err != nil {
		return vendor.RuleSet{}, err
	}
	return base.Extend(patterns, f.Merchants), nil
}

// RuleStore reads and writes the user rules file.
type RuleStore struct {
	Path   string
	logger logging.Logger
}

// NewRuleStore creates a RuleStore for path. An empty path means built-in
// rules only.
func NewRuleStore(path string, logger logging.Logger) *RuleStore {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &RuleStore{Path: path, logger: logger}
}

// Load reads the rules file. A missing file is not an error and yields no
// rules; an unreadable or malformed one is.
func (s *RuleStore) Load() (RuleFile, error) {
	if s.Path == "" {
		return RuleFile{}, nil
	}

	data, err := os.ReadFile(s.Path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			s.logger.Warn("Rules file not found, using built-in rules",
				logging.Field{Key: logging.FieldInputFile, Value: s.Path})
			return RuleFile{}, nil
		}
		return RuleFile{}, fmt.Errorf("error reading rules file: %w", err)
	}

	var file RuleFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return RuleFile{}, fmt.Errorf("error parsing rules file %s: %w", s.Path, err)
	}

	if _, err := file.Compile(); err != nil {
		return RuleFile{}, fmt.Errorf("error in rules file %s: %w", s.Path, err)
	}

	s.logger.Debug("Loaded vendor rules",
		logging.Field{Key: logging.FieldInputFile, Value: s.Path},
		logging.Field{Key: logging.FieldCount, Value: len(file.Patterns) + len(file.Merchants)})
	return file, nil
}

// Save writes file to the rules path, creating parent directories.
func (s *RuleStore) Save(file RuleFile) error {
	if s.Path == "" {
		return errors.New("no rules file configured")
	}
	if _, err := file.Compile(); err != nil {
		return err
	}

	if err := fileutils.EnsureParentExists(s.Path); err != nil {
		return err
	}

	data, err := yaml.Marshal(file)
	if err != nil {
		return fmt.Errorf("error marshaling rules: %w", err)
	}
	if err := os.WriteFile(s.Path, data, 0644); err != nil {
		return fmt.Errorf("error writing rules file: %w", err)
	}

	s.logger.Debug("Saved vendor rules",
		logging.Field{Key: logging.FieldOutputFile, Value: s.Path},
		logging.Field{Key: logging.FieldCount, Value: len(file.Patterns) + len(file.Merchants)})
	return nil
}

// AddPattern appends a pattern rule and saves the file.
func (s *RuleStore) AddPattern(pattern, name string) error {
	file, err := s.Load()
	if err != nil {
		return err
	}
	file.Patterns = append(file.Patterns, PatternEntry{Pattern: pattern, Name: name})
	return s.Save(file)
}

// AddMerchant sets a merchant rule and saves the file.
func (s *RuleStore) AddMerchant(key, name string) error {
	key = strings.ToUpper(strings.TrimSpace(key))
	if key == "" {
		return errors.New("merchant key must not be empty")
	}
	file, err := s.Load()
	if err != nil {
		return err
	}
	if file.Merchants == nil {
		file.Merchants = make(map[string]string)
	}
	file.Merchants[key] = name
	return s.Save(file)
}

// MerchantKeys returns the merchant keys in sorted order.
func (f RuleFile) MerchantKeys() []string {
	keys := make([]string, 0, len(f.Merchants))
	for key := range f.Merchants {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
