package ai

import (
	"fmt"
	"strings"

	"github.com/learningnavigator/navigator/internal/service/knowledge"
)

// PromptTemplate shapes the assistant for one audience.
type PromptTemplate struct {
	Audience     string
	Focus        []string
	ContextRules []string
}

// PromptManager holds the per-role templates.
type PromptManager struct {
	templates map[string]*PromptTemplate
}

// NewPromptManager creates a manager with the built-in role templates.
func NewPromptManager() *PromptManager {
	pm := &PromptManager{templates: make(map[string]*PromptTemplate)}
	pm.loadDefaultTemplates()
	return pm
}

// Template returns the template for role.
func (pm *PromptManager) Template(role string) (*PromptTemplate, error) {
	template, ok := pm.templates[strings.ToLower(strings.TrimSpace(role))]
	if !ok {
		return nil, fmt.Errorf("prompt template not found for role: %s", role)
	}
	return template, nil
}

// BuildSystemPrompt assembles the system prompt for role, grounded on the
// retrieved documents.
func (pm *PromptManager) BuildSystemPrompt(role, language string, hits []knowledge.Hit) string {
	var b strings.Builder
	b.WriteString("You are the MHFA Learning Navigator, an assistant for the Mental Health First Aid learning ecosystem. ")
	b.WriteString("Answer questions about courses, certification, the MHFA Connect platform and mental health resources. ")
	b.WriteString("You are not a crisis service: if the user may be in danger, tell them to call or text 988 or call 911.")

	if template, err := pm.Template(role); err == nil {
		fmt.Fprintf(&b, "\n\nYou are talking to %s.\nFocus on:\n- %s\nRules:\n- %s",
			template.Audience,
			strings.Join(template.Focus, "\n- "),
			strings.Join(template.ContextRules, "\n- "),
		)
	}

	if strings.EqualFold(language, "ES") {
		b.WriteString("\n\nReply in Spanish.")
	}

	if len(hits) > 0 {
		b.WriteString("\n\nUse only the following knowledge base excerpts when stating facts:")
		for _, hit := range hits {
			fmt.Fprintf(&b, "\n[%s] %s", hit.Document.Title, hit.Document.Body)
		}
	} else {
		b.WriteString("\n\nNo knowledge base excerpt matched this question. Say so briefly instead of guessing.")
	}
	return b.String()
}

func (pm *PromptManager) loadDefaultTemplates() {
	pm.templates["instructor"] = &PromptTemplate{
		Audience: "a certified or aspiring MHFA instructor",
		Focus: []string{
			"course preparation, delivery formats and lesson plans",
			"certification requirements and recertification deadlines",
			"supporting learners during and after a course",
		},
		ContextRules: []string{
			"Point to the instructor manual or MHFA Connect when procedures are involved",
			"Keep answers practical and step by step",
		},
	}

	pm.templates["staff"] = &PromptTemplate{
		Audience: "a member of MHFA administrative staff",
		Focus: []string{
			"course administration, rosters and reporting",
			"policies and program guidelines",
			"platform management in MHFA Connect",
		},
		ContextRules: []string{
			"Be precise about policy wording",
			"Mention where records are kept when relevant",
		},
	}

	pm.templates["learner"] = &PromptTemplate{
		Audience: "a learner taking or considering an MHFA course",
		Focus: []string{
			"what the course covers and how to register",
			"certificates and what to do after the course",
			"mental health resources",
		},
		ContextRules: []string{
			"Use plain language",
			"Encourage the learner to contact their instructor for course-specific questions",
		},
	}
}
