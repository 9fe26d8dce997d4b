package catalog

import (
	"errors"
	"strings"
)

var ErrQuestionNotFound = errors.New("question not found")

// Stage identifies which block of the survey a question belongs to.
type Stage int

const (
	StageScreening Stage = iota + 1
	StageFollowup
)

func (s Stage) String() string {
	switch s {
	case StageScreening:
		return "screening"
	case StageFollowup:
		return "followup"
	default:
		return "unknown"
	}
}

// Kind is the answer type of a question.
type Kind string

const (
	Single Kind = "single"
	Multi  Kind = "multi"
	Open   Kind = "open"
)

// Option is one selectable answer for a single- or multi-choice question.
// RequiresElaboration marks options ("other", etc.) that must be followed by
// a free-text clarification before the answer is stored.
type Option struct {
	Code                string
	Label               string
	RequiresElaboration bool
}

// Question is one node of the static survey graph.
type Question struct {
	Code     string
	Prompt   string
	Kind     Kind
	Options  []Option
	Required bool
}

// Option returns the option with the given code, or nil.
func (q *Question) Option(code string) *Option {
	for i := range q.Options {
		if q.Options[i].Code == code {
			return &q.Options[i]
		}
	}
	return nil
}

// Catalog is the read-only question graph: two ordered stages. It is built
// once from the compiled-in content and never mutated at runtime.
type Catalog struct {
	screening []Question
	followup  []Question
	byCode    map[string]*Question
}

// New returns the catalog with the default survey content.
func New() *Catalog {
	return newCatalog(screeningQuestions, followupQuestions)
}

func newCatalog(screening, followup []Question) *Catalog {
	c := &Catalog{
		screening: screening,
		followup:  followup,
		byCode:    make(map[string]*Question, len(screening)+len(followup)),
	}
	for i := range c.screening {
		c.byCode[c.screening[i].Code] = &c.screening[i]
	}
	for i := range c.followup {
		c.byCode[c.followup[i].Code] = &c.followup[i]
	}
	return c
}

// Lookup returns the question with the given code.
func (c *Catalog) Lookup(code string) (*Question, error) {
	q, ok := c.byCode[code]
	if !ok {
		return nil, ErrQuestionNotFound
	}
	return q, nil
}

// StageOf returns the stage the code belongs to.
func (c *Catalog) StageOf(code string) (Stage, error) {
	if _, ok := c.byCode[code]; !ok {
		return 0, ErrQuestionNotFound
	}
	for i := range c.screening {
		if c.screening[i].Code == code {
			return StageScreening, nil
		}
	}
	return StageFollowup, nil
}

// NextInStage returns the sequential successor within the question's stage,
// or nil when the stage is exhausted.
func (c *Catalog) NextInStage(code string) (*Question, error) {
	list, idx, err := c.locate(code)
	if err != nil {
		return nil, err
	}
	if idx+1 >= len(list) {
		return nil, nil
	}
	return &list[idx+1], nil
}

// PreviousInStage returns the sequential predecessor within the question's
// stage, or nil at the start of the stage.
func (c *Catalog) PreviousInStage(code string) (*Question, error) {
	list, idx, err := c.locate(code)
	if err != nil {
		return nil, err
	}
	if idx == 0 {
		return nil, nil
	}
	return &list[idx-1], nil
}

// Position returns the 1-based position of the question within its stage and
// the stage size, for "question n of m" progress display.
func (c *Catalog) Position(code string) (int, int, error) {
	list, idx, err := c.locate(code)
	if err != nil {
		return 0, 0, err
	}
	return idx + 1, len(list), nil
}

// FirstScreening returns the entry question of the screening stage.
func (c *Catalog) FirstScreening() *Question {
	return &c.screening[0]
}

// FirstFollowup returns the entry question of the follow-up stage.
func (c *Catalog) FirstFollowup() *Question {
	return &c.followup[0]
}

// ScreeningCodes returns the ordered screening question codes.
func (c *Catalog) ScreeningCodes() []string {
	return codesOf(c.screening)
}

// FollowupCodes returns the ordered follow-up question codes.
func (c *Catalog) FollowupCodes() []string {
	return codesOf(c.followup)
}

// AllCodes returns every question code, screening first.
func (c *Catalog) AllCodes() []string {
	return append(c.ScreeningCodes(), c.FollowupCodes()...)
}

func (c *Catalog) locate(code string) ([]Question, int, error) {
	for i := range c.screening {
		if c.screening[i].Code == code {
			return c.screening, i, nil
		}
	}
	for i := range c.followup {
		if c.followup[i].Code == code {
			return c.followup, i, nil
		}
	}
	return nil, 0, ErrQuestionNotFound
}

func codesOf(qs []Question) []string {
	codes := make([]string, len(qs))
	for i := range qs {
		codes[i] = qs[i].Code
	}
	return codes
}

// OptionLabel resolves a stored value into a display label. Composite values
// keep their elaboration text: "Q1_OP7:текст" renders as the option label
// followed by the custom text. Unknown codes render as-is.
func (c *Catalog) OptionLabel(value string) string {
	if base, custom, found := strings.Cut(value, ":"); found {
		if label, ok := optionLabels[base]; ok {
			return label + ": " + custom
		}
		return value
	}
	if label, ok := optionLabels[value]; ok {
		return label
	}
	return value
}
