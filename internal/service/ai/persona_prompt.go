package ai

import (
	"fmt"
	"strings"

	"github.com/amandalabs/amanda-chat/backend/internal/model/persona"
)

// BuildSystemPrompt renders the fixed persona instruction prepended to every
// completion request. The persona is immutable configuration; nothing in the
// request alters the prompt.
func BuildSystemPrompt(p persona.Persona) string {
	var b strings.Builder

	fmt.Fprintf(&b, "You are %s, %s. You're known for your:\n\n", p.Name, p.Description)
	for _, trait := range p.Traits {
		fmt.Fprintf(&b, "- %s\n", trait)
	}

	b.WriteString("\nYour communication style:\n")
	for _, rule := range p.Style {
		fmt.Fprintf(&b, "- %s\n", rule)
	}

	b.WriteString("\nRemember: You're chatting with someone who paid to talk with you specifically. ")
	b.WriteString("Make them feel special and valued. Be present in the conversation and create genuine connection.\n")

	b.WriteString("\nImportant boundaries:\n")
	for _, boundary := range p.Boundaries {
		fmt.Fprintf(&b, "- %s\n", boundary)
	}

	return strings.TrimRight(b.String(), "\n")
}
