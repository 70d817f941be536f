package prompts

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jwebster45206/wild-trails/pkg/state"
)

// ErrEmptyJourney is returned when there is nothing to review.
var ErrEmptyJourney = errors.New("journey log is empty")

// Builder constructs the journey review prompt using a fluent interface.
type Builder struct {
	journey     []state.JourneyEntry
	gallery     []string
	closingLine string
}

// New creates a new prompt builder with default settings.
func New() *Builder {
	return &Builder{
		closingLine: DefaultClosingLine,
	}
}

// WithJourney sets the (encounter, choice) pairs to review.
func (b *Builder) WithJourney(entries []state.JourneyEntry) *Builder {
	b.journey = entries
	return b
}

// WithGallery sets the display names of collectibles unlocked this session.
func (b *Builder) WithGallery(names []string) *Builder {
	b.gallery = names
	return b
}

// WithClosingLine overrides the fixed last paragraph. Empty keeps the default.
func (b *Builder) WithClosingLine(line string) *Builder {
	if strings.TrimSpace(line) != "" {
		b.closingLine = line
	}
	return b
}

// Build renders the complete system prompt.
func (b *Builder) Build() (string, error) {
	if len(b.journey) == 0 {
		return "", ErrEmptyJourney
	}

	var sb strings.Builder

	sb.WriteString("<role>\n" + ReviewRole + "\n</role>\n\n")

	sb.WriteString("<instructions>\n" + ReviewInstructions + "\n")
	sb.WriteString(fmt.Sprintf("8. The last paragraph must be exactly: %q\n", b.closingLine))
	sb.WriteString("</instructions>\n\n")

	sb.WriteString("<player_data>\n")
	sb.WriteString("    <journey_log>\n")
	for _, entry := range b.journey {
		sb.WriteString("        <event>\n")
		sb.WriteString("            <encounter>" + escape(entry.Encounter) + "</encounter>\n")
		sb.WriteString("            <choice>" + escape(entry.Choice) + "</choice>\n")
		sb.WriteString("        </event>\n")
	}
	sb.WriteString("    </journey_log>\n")
	sb.WriteString("    <unlocked_gallery>\n")
	for _, name := range b.gallery {
		sb.WriteString("        - " + escape(name) + "\n")
	}
	sb.WriteString("    </unlocked_gallery>\n")
	sb.WriteString("</player_data>\n\n")

	sb.WriteString("<output_format>\n" + ReviewOutputFormat + "\n</output_format>")

	return sb.String(), nil
}

var tagEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")

// escape keeps authored text from closing the surrounding tags.
func escape(s string) string {
	return tagEscaper.Replace(strings.TrimSpace(s))
}
