package content

import (
	"fmt"
	"math"
	"strings"
)

// EndOfSession is the NextEventID sentinel for an outcome with no outgoing edge.
const EndOfSession = 0

// ChoicesPerEvent is the fixed branching factor of every event node.
const ChoicesPerEvent = 2

// SceneTag names the backdrop an event plays out in.
type SceneTag string

const (
	SceneForest   SceneTag = "forest"
	SceneMountain SceneTag = "mountain"
	SceneRiver    SceneTag = "river"
)

// SceneTags lists every scene tag the catalog accepts.
var SceneTags = []SceneTag{SceneForest, SceneMountain, SceneRiver}

// ParseSceneTag normalizes a raw scene value from catalog data.
func ParseSceneTag(raw string) (SceneTag, error) {
	tag := SceneTag(strings.ToLower(strings.TrimSpace(raw)))
	if !tag.Valid() {
		return "", fmt.Errorf("unknown scene tag %q", raw)
	}
	return tag, nil
}

// Valid reports whether the tag is one of SceneTags.
func (s SceneTag) Valid() bool {
	for _, tag := range SceneTags {
		if s == tag {
			return true
		}
	}
	return false
}

// Outcome is one realized result of a choice.
type Outcome struct {
	Text        string  `json:"text" yaml:"text"`                  // Result text shown to the player
	Probability float64 `json:"probability" yaml:"probability"`    // Sampling weight, normalized against sibling outcomes
	Reward      int     `json:"reward" yaml:"reward"`              // Currency delta, may be zero or negative
	NextEventID int     `json:"next_event_id" yaml:"next"`         // Next event, or EndOfSession
	UnlockID    int     `json:"unlock_id,omitempty" yaml:"unlock"` // Collectible unlocked by this outcome, 0 for none
}

// EndsSession reports whether the outcome has no outgoing edge.
func (o Outcome) EndsSession() bool {
	return o.NextEventID == EndOfSession
}

// Choice is one selectable option within an event node.
type Choice struct {
	Label    string    `json:"label" yaml:"label"`
	Outcomes []Outcome `json:"outcomes" yaml:"outcomes"` // One or two outcome variants
}

// SuccessProbability is the normalized probability of the first outcome.
func (c Choice) SuccessProbability() float64 {
	weights, ok := c.weights()
	if !ok {
		return 1
	}
	return weights[0]
}

// weights returns the normalized outcome distribution. The second return
// value is false when the distribution is unusable and outcome 1 applies.
func (c Choice) weights() ([]float64, bool) {
	if len(c.Outcomes) < 2 {
		return nil, false
	}
	first, second := c.Outcomes[0].Probability, c.Outcomes[1].Probability
	if math.IsNaN(first) || math.IsNaN(second) || first < 0 || second < 0 {
		return nil, false
	}
	total := first + second
	if total <= 0 || math.IsInf(total, 0) {
		return nil, false
	}
	return []float64{first / total, second / total}, true
}

// PickOutcome maps a sample in [0,1) to an outcome index. A single outcome
// always wins. With two outcomes the first wins when sample <= its
// normalized probability, so boundary draws resolve to the first branch.
// Unusable weights fall back to the first outcome.
func (c Choice) PickOutcome(sample float64) int {
	weights, ok := c.weights()
	if !ok {
		return 0
	}
	if sample <= weights[0] {
		return 0
	}
	return 1
}

// EventNode is one authored encounter.
type EventNode struct {
	ID      int      `json:"id" yaml:"id"`
	Name    string   `json:"name,omitempty" yaml:"name"` // Short title, optional
	Text    string   `json:"text" yaml:"text"`
	Scene   SceneTag `json:"scene" yaml:"scene"`
	Choices []Choice `json:"choices" yaml:"choices"`
}

// Title is the label used for the event in the journey log.
func (e EventNode) Title() string {
	if name := strings.TrimSpace(e.Name); name != "" {
		return name
	}
	return e.Text
}

// Choice returns the choice at index, or false if it does not exist.
func (e EventNode) Choice(index int) (Choice, bool) {
	if index < 0 || index >= len(e.Choices) {
		return Choice{}, false
	}
	return e.Choices[index], true
}
