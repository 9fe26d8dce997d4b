package service

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
	"github.com/rs/zerolog/log"
	"github.com/tmarlen/linguabot/internal/catalog"
)

// BranchingService evaluates the stage-gating and classification rules over
// a respondent's stored answers. Both methods are pure and total: missing or
// malformed answers never produce an error, only a non-match. The flow engine
// relies on that determinism when it re-evaluates after backward navigation.
type BranchingService interface {
	ShouldEnterFollowup(answers map[string]string) bool
	Classify(answers map[string]string) string
}

type compiledClassification struct {
	label   string
	program *vm.Program
}

type branchingService struct {
	cat            *catalog.Catalog
	followupRules  []*vm.Program
	classification []compiledClassification
}

// NewBranchingService compiles the catalog's rule expressions. Compilation is
// the only failure point; evaluation never errors outward.
func NewBranchingService(cat *catalog.Catalog) (BranchingService, error) {
	sample := buildRuleEnv(cat, nil)

	s := &branchingService{cat: cat}
	for _, rule := range catalog.FollowupRules {
		program, err := expr.Compile(rule, expr.Env(sample), expr.AsBool())
		if err != nil {
			return nil, fmt.Errorf("compiling followup rule %q: %w", rule, err)
		}
		s.followupRules = append(s.followupRules, program)
	}
	for _, rule := range catalog.ClassificationRules {
		program, err := expr.Compile(rule.Expression, expr.Env(sample), expr.AsBool())
		if err != nil {
			return nil, fmt.Errorf("compiling classification rule %q: %w", rule.Expression, err)
		}
		s.classification = append(s.classification, compiledClassification{label: rule.Label, program: program})
	}
	return s, nil
}

func (s *branchingService) ShouldEnterFollowup(answers map[string]string) bool {
	env := buildRuleEnv(s.cat, answers)
	for _, program := range s.followupRules {
		if s.run(program, env) {
			return true
		}
	}
	return false
}

func (s *branchingService) Classify(answers map[string]string) string {
	env := buildRuleEnv(s.cat, answers)
	for _, rule := range s.classification {
		if s.run(rule.program, env) {
			return rule.label
		}
	}
	return catalog.AggressionGeneral
}

func (s *branchingService) run(program *vm.Program, env map[string]interface{}) bool {
	output, err := expr.Run(program, env)
	if err != nil {
		log.Error().Err(err).Msg("Rule evaluation failed, treating as non-match")
		return false
	}
	result, ok := output.(bool)
	return ok && result
}

// buildRuleEnv produces a total evaluation environment: every question code
// is present, defaulted to its zero value, so rule expressions never see a
// missing key. Multi-select answers become slices of base option codes,
// single answers the base option code, open answers the raw text.
func buildRuleEnv(cat *catalog.Catalog, answers map[string]string) map[string]interface{} {
	env := make(map[string]interface{})
	for _, code := range cat.AllCodes() {
		question, err := cat.Lookup(code)
		if err != nil {
			continue
		}
		value, answered := answers[code]
		switch question.Kind {
		case catalog.Multi:
			if !answered {
				env[code] = []string{}
			} else {
				env[code] = DecodeStoredMulti(value)
			}
		case catalog.Open:
			env[code] = value
		default:
			env[code] = BaseOptionCode(value)
		}
	}
	return env
}

// DecodeStoredMulti turns a stored multi-select value into base option codes.
// Single scalar codes are accepted for compatibility with answers written by
// single-choice flows; anything undecodable yields an empty selection.
func DecodeStoredMulti(value string) []string {
	if value == "" {
		return []string{}
	}
	var items []string
	if err := json.Unmarshal([]byte(value), &items); err != nil {
		if strings.HasPrefix(value, "[") {
			return []string{}
		}
		return []string{BaseOptionCode(value)}
	}
	codes := make([]string, 0, len(items))
	for _, item := range items {
		codes = append(codes, BaseOptionCode(item))
	}
	return codes
}

// BaseOptionCode strips the free-text elaboration from a composite value:
// "Q1_OP7:текст" → "Q1_OP7".
func BaseOptionCode(value string) string {
	base, _, _ := strings.Cut(value, ":")
	return base
}
