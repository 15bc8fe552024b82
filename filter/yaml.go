package filter

import (
	"fmt"
	"regexp"

	"gopkg.in/yaml.v3"
)

// UnmarshalYAML decodes a pattern from configuration files:
//
//	include: [Foo, Bar]        # literal set
//	include: "Foo,Bar"         # delimited string
//	include: "/^Tab/"          # regexp in slashes
//	include: {regexp: "^Tab"}  # explicit regexp
func (p *Pattern) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.SequenceNode:
		var names []string
		if err := value.Decode(&names); err != nil {
			return fmt.Errorf("filter: decode names: %w", err)
		}
		*p = Literals(names...)
		return nil

	case yaml.ScalarNode:
		var s string
		if err := value.Decode(&s); err != nil {
			return fmt.Errorf("filter: decode string: %w", err)
		}
		parsed, err := ParseStrict(s)
		if err != nil {
			return err
		}
		*p = parsed
		return nil

	case yaml.MappingNode:
		var m struct {
			Regexp string `yaml:"regexp"`
		}
		if err := value.Decode(&m); err != nil {
			return fmt.Errorf("filter: decode mapping: %w", err)
		}
		if m.Regexp == "" {
			*p = Pattern{}
			return nil
		}
		re, err := regexp.Compile(m.Regexp)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidPattern, err)
		}
		*p = Regexp(re)
		return nil

	default:
		// Unknown shapes degrade to the absent pattern.
		*p = Pattern{}
		return nil
	}
}

var _ yaml.Unmarshaler = (*Pattern)(nil)
