// Package classify resolves loosely-typed webhook payloads into tags from
// the closed taxonomy. Each category runs an ordered cascade of
// (predicate, tag) rules evaluated top to bottom, first match wins: the
// same payload shape can satisfy several category definitions at once, so
// priority has to be explicit, inspectable data rather than buried
// control flow.
package classify

import (
	"github.com/lotwire-systems/lotwire-relay/common/models"
)

// Rule is one step of a category's cascade.
type Rule struct {
	// Name labels the rule in logs, metrics, and rejection messages.
	Name string
	// Match reports whether this rule applies to the category payload.
	Match func(payload map[string]interface{}) bool
	// Tag is assigned when the rule matches.
	Tag string
}

// Cascade is the full decision procedure for one category: an optional
// shape/enum validation gate, the ordered rules, and a terminal resolver
// for payloads no rule claimed.
type Cascade struct {
	Category string
	// Validate runs before any rule and refuses payloads whose shape or
	// enum values fall outside the contract. Optional.
	Validate func(payload map[string]interface{}) *models.ValidationError
	Rules    []Rule
	// Fallback resolves payloads no rule matched, typically through a
	// closed enum map. Optional; with no fallback an unmatched payload
	// is refused.
	Fallback func(payload map[string]interface{}) (string, *models.ValidationError)
}

// fallbackRule names the terminal resolver in Classification.Rule.
const fallbackRule = "enum-map"

// Classification is a resolved tag plus the rule that produced it.
type Classification struct {
	Category string `json:"category"`
	Tag      string `json:"tag"`
	Rule     string `json:"rule"`
}

// Evaluate runs the cascade over payload.
func (c *Cascade) Evaluate(payload map[string]interface{}) (Classification, *models.ValidationError) {
	if c.Validate != nil {
		if verr := c.Validate(payload); verr != nil {
			return Classification{}, verr
		}
	}

	for _, r := range c.Rules {
		if r.Match(payload) {
			return Classification{Category: c.Category, Tag: r.Tag, Rule: r.Name}, nil
		}
	}

	if c.Fallback != nil {
		tag, verr := c.Fallback(payload)
		if verr != nil {
			return Classification{}, verr
		}
		return Classification{Category: c.Category, Tag: tag, Rule: fallbackRule}, nil
	}

	return Classification{}, &models.ValidationError{
		Code:    models.CodeUnrecognizedShape,
		Message: "no rule matched the payload",
	}
}
