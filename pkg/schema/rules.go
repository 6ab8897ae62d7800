package schema

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"unicode/utf8"
)

// RuleKind identifies a validation rule. Kinds are applied in a fixed order:
// required, minLength, maxLength, pattern, then custom rules in declaration
// order.
type RuleKind string

const (
	RuleRequired  RuleKind = "required"
	RuleMinLength RuleKind = "minLength"
	RuleMaxLength RuleKind = "maxLength"
	RulePattern   RuleKind = "pattern"
	RuleCustom    RuleKind = "custom"
)

func (k RuleKind) rank() int {
	switch k {
	case RuleRequired:
		return 0
	case RuleMinLength:
		return 1
	case RuleMaxLength:
		return 2
	case RulePattern:
		return 3
	default:
		return 4
	}
}

// CheckFunc reports whether value satisfies a custom rule.
type CheckFunc func(value string) bool

// Rule is a single constraint on a field value. Param carries the canonical
// string form of the rule argument (length bound or pattern) so renderers can
// map it onto markup attributes.
type Rule struct {
	Kind    RuleKind `json:"kind"`
	Name    string   `json:"name,omitempty"`
	Param   string   `json:"param,omitempty"`
	Message string   `json:"message"`

	check CheckFunc
}

// Check applies the rule to value.
func (r Rule) Check(value string) bool {
	if r.check == nil {
		return true
	}
	return r.check(value)
}

// Limit returns the numeric parameter of length rules.
func (r Rule) Limit() (int, bool) {
	if r.Kind != RuleMinLength && r.Kind != RuleMaxLength {
		return 0, false
	}
	n, err := strconv.Atoi(r.Param)
	return n, err == nil
}

// FieldSpec is the immutable description of one declared field.
type FieldSpec struct {
	Name        string `json:"name"`
	Label       string `json:"label,omitempty"`
	Placeholder string `json:"placeholder,omitempty"`
	InputType   string `json:"inputType,omitempty"`
	Rules       []Rule `json:"rules,omitempty"`
}

// Required reports whether the field carries a required rule.
func (f FieldSpec) Required() bool {
	for _, rule := range f.Rules {
		if rule.Kind == RuleRequired {
			return true
		}
	}
	return false
}

// Rule returns the first rule of the requested kind.
func (f FieldSpec) Rule(kind RuleKind) (Rule, bool) {
	for _, rule := range f.Rules {
		if rule.Kind == kind {
			return rule, true
		}
	}
	return Rule{}, false
}

// FieldOption configures a field declaration.
type FieldOption func(*fieldConfig)

type fieldConfig struct {
	spec     FieldSpec
	messages map[RuleKind]string
	err      error
}

// Label sets the human readable label.
func Label(label string) FieldOption {
	return func(cfg *fieldConfig) {
		cfg.spec.Label = strings.TrimSpace(label)
	}
}

// Placeholder sets the placeholder hint.
func Placeholder(text string) FieldOption {
	return func(cfg *fieldConfig) {
		cfg.spec.Placeholder = text
	}
}

// InputType overrides the rendered input type (text, email, password...).
func InputType(kind string) FieldOption {
	return func(cfg *fieldConfig) {
		cfg.spec.InputType = strings.TrimSpace(kind)
	}
}

// Required rejects blank values.
func Required() FieldOption {
	return func(cfg *fieldConfig) {
		cfg.add(Rule{
			Kind:    RuleRequired,
			Message: "required",
			check: func(value string) bool {
				return strings.TrimSpace(value) != ""
			},
		})
	}
}

// MinLength rejects values with fewer than n characters.
func MinLength(n int) FieldOption {
	return func(cfg *fieldConfig) {
		if n < 0 {
			cfg.fail(fmt.Errorf("schema: field %q: negative min length %d", cfg.spec.Name, n))
			return
		}
		cfg.add(Rule{
			Kind:    RuleMinLength,
			Param:   strconv.Itoa(n),
			Message: fmt.Sprintf("too short: must be at least %d characters", n),
			check: func(value string) bool {
				return utf8.RuneCountInString(value) >= n
			},
		})
	}
}

// MaxLength rejects values with more than n characters.
func MaxLength(n int) FieldOption {
	return func(cfg *fieldConfig) {
		if n < 0 {
			cfg.fail(fmt.Errorf("schema: field %q: negative max length %d", cfg.spec.Name, n))
			return
		}
		cfg.add(Rule{
			Kind:    RuleMaxLength,
			Param:   strconv.Itoa(n),
			Message: fmt.Sprintf("too long: must be at most %d characters", n),
			check: func(value string) bool {
				return utf8.RuneCountInString(value) <= n
			},
		})
	}
}

// Pattern rejects values that do not match expr.
func Pattern(expr string) FieldOption {
	return func(cfg *fieldConfig) {
		re, err := regexp.Compile(expr)
		if err != nil {
			cfg.fail(fmt.Errorf("schema: field %q: compile pattern: %w", cfg.spec.Name, err))
			return
		}
		cfg.add(Rule{
			Kind:    RulePattern,
			Param:   expr,
			Message: "invalid format",
			check:   re.MatchString,
		})
	}
}

// Custom appends a named rule evaluated after the built-in kinds.
func Custom(name, message string, check CheckFunc) FieldOption {
	return func(cfg *fieldConfig) {
		if check == nil {
			cfg.fail(fmt.Errorf("schema: field %q: custom rule %q has no check", cfg.spec.Name, name))
			return
		}
		if strings.TrimSpace(message) == "" {
			message = "invalid"
		}
		cfg.add(Rule{
			Kind:    RuleCustom,
			Name:    strings.TrimSpace(name),
			Message: message,
			check:   check,
		})
	}
}

// Message overrides the message reported when a built-in rule fails.
func Message(kind RuleKind, text string) FieldOption {
	return func(cfg *fieldConfig) {
		if cfg.messages == nil {
			cfg.messages = make(map[RuleKind]string)
		}
		cfg.messages[kind] = text
	}
}

func (cfg *fieldConfig) add(rule Rule) {
	if rule.Kind != RuleCustom {
		// one rule per built-in kind; the last declaration wins
		for idx, existing := range cfg.spec.Rules {
			if existing.Kind == rule.Kind {
				cfg.spec.Rules[idx] = rule
				return
			}
		}
	}
	cfg.spec.Rules = append(cfg.spec.Rules, rule)
}

func (cfg *fieldConfig) fail(err error) {
	if cfg.err == nil {
		cfg.err = err
	}
}

func (cfg *fieldConfig) finish() (FieldSpec, error) {
	if cfg.err != nil {
		return FieldSpec{}, cfg.err
	}
	for idx, rule := range cfg.spec.Rules {
		if text, ok := cfg.messages[rule.Kind]; ok && rule.Kind != RuleCustom && strings.TrimSpace(text) != "" {
			cfg.spec.Rules[idx].Message = text
		}
	}
	sort.SliceStable(cfg.spec.Rules, func(i, j int) bool {
		return cfg.spec.Rules[i].Kind.rank() < cfg.spec.Rules[j].Kind.rank()
	})
	return cfg.spec, nil
}
