package intent

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Signals are the independent intent flags derived from a question.
// External (out-of-domain) is decided separately by the relatedness gate.
type Signals struct {
	Binary bool
	List   bool
}

// Triggers are deliberately plain substring tables, not a learned
// classifier, so the routing behavior stays auditable and editable.
type Triggers struct {
	Binary    []string `yaml:"binary"`
	List      []string `yaml:"list"`
	Audiences []string `yaml:"audiences"`
}

func DefaultTriggers() Triggers {
	return Triggers{
		Binary: []string{
			"возможно ли",
			"можно ли",
			"нельзя ли",
			"имею ли право",
			"допускается ли",
		},
		List: []string{
			"какие",
			"перечисли",
			"список",
			"доступны",
			"есть ли проекты",
		},
		// scan order is significant: first keyword found in the text wins
		Audiences: []string{
			"студент",
			"школьник",
			"специалист",
			"преподаватель",
			"абитуриент",
			"учащийся",
			"выпускник",
		},
	}
}

// LoadTriggers reads a trigger table from a YAML file, falling back to the
// defaults for any list the file leaves empty.
func LoadTriggers(path string) (Triggers, error) {
	def := DefaultTriggers()
	b, err := os.ReadFile(path)
	if err != nil {
		return def, fmt.Errorf("intent: read triggers: %w", err)
	}
	var t Triggers
	if err := yaml.Unmarshal(b, &t); err != nil {
		return def, fmt.Errorf("intent: parse triggers: %w", err)
	}
	if len(t.Binary) == 0 {
		t.Binary = def.Binary
	}
	if len(t.List) == 0 {
		t.List = def.List
	}
	if len(t.Audiences) == 0 {
		t.Audiences = def.Audiences
	}
	return t, nil
}

type Classifier struct{ t Triggers }

func NewClassifier(t Triggers) *Classifier { return &Classifier{t} }

func (c *Classifier) Classify(text string) Signals {
	low := strings.ToLower(text)
	return Signals{
		Binary: containsAny(low, c.t.Binary),
		List:   containsAny(low, c.t.List),
	}
}

// Audience returns the first audience keyword contained in the text.
func (c *Classifier) Audience(text string) (string, bool) {
	low := strings.ToLower(text)
	for _, a := range c.t.Audiences {
		if strings.Contains(low, a) {
			return a, true
		}
	}
	return "", false
}

func containsAny(text string, triggers []string) bool {
	for _, t := range triggers {
		if strings.Contains(text, strings.ToLower(t)) {
			return true
		}
	}
	return false
}
