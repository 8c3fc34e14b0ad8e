package category

import "strings"

// Categories a question can be filed under.
const (
	TrainingCourses          = "Training & Courses"
	InstructorCertification  = "Instructor Certification"
	LearnerSupport           = "Learner Support"
	AdministrativeProcedures = "Administrative Procedures"
	CourseMaterials          = "Course Materials"
	ConnectPlatform          = "MHFA Connect Platform"
	Recertification          = "Recertification"
	MentalHealthResources    = "Mental Health Resources"
	SchedulingRegistration   = "Scheduling & Registration"
	PoliciesGuidelines       = "Policies & Guidelines"
	TechnicalSupport         = "Technical Support"
	Unknown                  = "Unknown"
)

// All lists the categories in display order, Unknown last.
var All = []string{
	TrainingCourses, InstructorCertification, LearnerSupport, AdministrativeProcedures,
	CourseMaterials, ConnectPlatform, Recertification, MentalHealthResources,
	SchedulingRegistration, PoliciesGuidelines, TechnicalSupport, Unknown,
}

// order matters: more specific buckets are checked first
var rules = []struct {
	category string
	keywords []string
}{
	{Recertification, []string{"recertif", "renew", "expire", "expiration"}},
	{InstructorCertification, []string{"become an instructor", "instructor cert", "certified instructor", "instructor training", "become a certified"}},
	{ConnectPlatform, []string{"mhfa connect", "connect platform", "portal", "dashboard", "my account"}},
	{TechnicalSupport, []string{"login", "log in", "password", "error", "bug", "not working", "can't access", "cannot access", "zoom"}},
	{SchedulingRegistration, []string{"register", "registration", "schedule", "sign up", "enroll", "upcoming course", "date"}},
	{CourseMaterials, []string{"manual", "material", "slides", "handout", "workbook", "curriculum", "lesson plan"}},
	{PoliciesGuidelines, []string{"policy", "policies", "guideline", "requirement", "rule", "fidelity"}},
	{AdministrativeProcedures, []string{"invoice", "payment", "billing", "report", "paperwork", "submit", "roster", "certificate"}},
	{MentalHealthResources, []string{"crisis", "suicide", "anxiety", "depression", "resource", "hotline", "988", "self-care", "wellbeing", "well-being"}},
	{LearnerSupport, []string{"learner", "participant", "help me", "support", "struggling"}},
	{TrainingCourses, []string{"mhfa", "mental health first aid", "course", "training", "class", "module"}},
}

// Classify files a question under the first matching category.
func Classify(question string) string {
	normalized := strings.ToLower(strings.TrimSpace(question))
	if normalized == "" {
		return Unknown
	}
	for _, rule := range rules {
		for _, word := range rule.keywords {
			if strings.Contains(normalized, word) {
				return rule.category
			}
		}
	}
	return Unknown
}

// Normalize maps free text, as returned by a model, onto a known category.
func Normalize(raw string) string {
	trimmed := strings.Trim(strings.TrimSpace(raw), `"'.`)
	for _, c := range All {
		if strings.EqualFold(trimmed, c) {
			return c
		}
	}
	return Unknown
}
