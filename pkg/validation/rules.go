package validation

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/goliatone/go-article-admin/pkg/model"
)

const (
	RuleRequired  = "required"
	RuleMinLength = "minLength"
	RuleMaxLength = "maxLength"
	RuleValidator = "validator"
)

// MessageRequired is reported when a required field stringifies to "".
const MessageRequired = "This field is required"

// Rule is one link of the validation chain. Applies reports whether the field
// declares the constraint; Check runs it against the stringified value.
type Rule struct {
	Kind    string
	Applies func(field model.Field) bool
	Check   func(field model.Field, value any, text string) model.Validity
}

// Chain is an ordered rule list evaluated short-circuit: the first rule that
// applies to the field decides the outcome, and later rules are never
// consulted, even when the deciding rule passes.
type Chain []Rule

// DefaultChain is required, minLength, maxLength, then the custom validator.
func DefaultChain() Chain {
	return Chain{requiredRule, minLengthRule, maxLengthRule, validatorRule}
}

// Evaluate runs the chain. A field no rule applies to is valid.
func (c Chain) Evaluate(field model.Field, value any) model.Validity {
	text := Stringify(value)
	for _, rule := range c {
		if rule.Applies == nil || rule.Check == nil || !rule.Applies(field) {
			continue
		}
		return rule.Check(field, value, text)
	}
	return model.Valid
}

// Validate evaluates the default chain.
func Validate(field model.Field, value any) model.Validity {
	return DefaultChain().Evaluate(field, value)
}

var requiredRule = Rule{
	Kind: RuleRequired,
	Applies: func(field model.Field) bool {
		return field.Required
	},
	Check: func(_ model.Field, _ any, text string) model.Validity {
		if text == "" {
			return model.Invalid(MessageRequired)
		}
		return model.Valid
	},
}

var minLengthRule = Rule{
	Kind: RuleMinLength,
	Applies: func(field model.Field) bool {
		return field.MinLength != nil
	},
	Check: func(field model.Field, _ any, text string) model.Validity {
		if utf8.RuneCountInString(text) < *field.MinLength {
			return model.Invalid(fmt.Sprintf("Minimum %d characters", *field.MinLength))
		}
		return model.Valid
	},
}

var maxLengthRule = Rule{
	Kind: RuleMaxLength,
	Applies: func(field model.Field) bool {
		return field.MaxLength != nil && !field.IsMulti()
	},
	Check: func(field model.Field, _ any, text string) model.Validity {
		if utf8.RuneCountInString(text) > *field.MaxLength {
			return model.Invalid(fmt.Sprintf("Maximum %d characters", *field.MaxLength))
		}
		return model.Valid
	},
}

var validatorRule = Rule{
	Kind: RuleValidator,
	Applies: func(field model.Field) bool {
		return field.Validator != nil
	},
	Check: func(field model.Field, value any, _ string) model.Validity {
		return field.Validator(value)
	},
}

// Stringify converts a record value to the text the length rules measure.
// nil is empty, numbers use their shortest decimal form and slices are joined
// with commas.
func Stringify(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(v), 'f', -1, 32)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case bool:
		return strconv.FormatBool(v)
	case []string:
		return strings.Join(v, ",")
	case []any:
		parts := make([]string, len(v))
		for i, item := range v {
			parts[i] = Stringify(item)
		}
		return strings.Join(parts, ",")
	case fmt.Stringer:
		return v.String()
	default:
		return fmt.Sprint(v)
	}
}
