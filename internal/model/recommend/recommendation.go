package recommend

// QuickAction is a card of canned queries the user can send with one click.
type QuickAction struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Icon        string   `json:"icon,omitempty"`
	Queries     []string `json:"queries,omitempty"`
}

// Set groups everything shown on the recommendations page for one role.
type Set struct {
	QuickActions    []QuickAction `json:"quick_actions"`
	SuggestedTopics []string      `json:"suggested_topics"`
	RecentUpdates   []string      `json:"recent_updates"`
}

// Response is the payload of GET recommendations.
type Response struct {
	Role            string `json:"role"`
	Recommendations Set    `json:"recommendations"`
}

// Clone returns a deep copy so callers can rewrite texts safely.
func (s Set) Clone() Set {
	out := Set{
		QuickActions:    make([]QuickAction, len(s.QuickActions)),
		SuggestedTopics: append([]string(nil), s.SuggestedTopics...),
		RecentUpdates:   append([]string(nil), s.RecentUpdates...),
	}
	for i, action := range s.QuickActions {
		action.Queries = append([]string(nil), action.Queries...)
		out.QuickActions[i] = action
	}
	return out
}

// Roles known to the navigator.
const (
	RoleInstructor = "instructor"
	RoleStaff      = "staff"
	RoleLearner    = "learner"
)

// Seed provides the per-role recommendations used for guests and by the local gateway.
func Seed() map[string]Set {
	return map[string]Set{
		RoleInstructor: {
			QuickActions: []QuickAction{
				{
					Title:       "Course Planning",
					Description: "Access course materials and lesson plans",
					Icon:        "School",
					Queries: []string{
						"Show me the latest MHFA course curriculum",
						"What are best practices for teaching mental health first aid?",
						"How do I prepare for an upcoming MHFA course?",
					},
				},
				{
					Title:       "Student Management",
					Description: "Track student progress and engagement",
					Icon:        "People",
					Queries: []string{
						"How do I track student attendance?",
						"What are the assessment criteria for MHFA certification?",
						"How can I support struggling learners?",
					},
				},
				{
					Title:       "Training Resources",
					Description: "Access instructor guides and materials",
					Icon:        "LibraryBooks",
					Queries: []string{
						"Show me instructor training resources",
						"What materials do I need for blended courses?",
						"Where can I find updated training videos?",
					},
				},
				{
					Title:       "Certification & Credits",
					Description: "Manage certifications and continuing education",
					Icon:        "Verified",
					Queries: []string{
						"How do I maintain my instructor certification?",
						"What are the requirements for recertification?",
						"How do I earn CEUs for teaching MHFA?",
					},
				},
			},
			SuggestedTopics: []string{
				"Blended Course Delivery",
				"Virtual Training Best Practices",
				"Student Assessment Methods",
				"Crisis Intervention Techniques",
				"Cultural Competency in Training",
			},
			RecentUpdates: []string{
				"New curriculum updates for Mental Health First Aid USA",
				"Updated assessment rubrics available",
				"Virtual training platform enhancements",
			},
		},
		RoleStaff: {
			QuickActions: []QuickAction{
				{
					Title:       "Operations Dashboard",
					Description: "View training operations and metrics",
					Icon:        "Dashboard",
					Queries: []string{
						"Show me current course enrollment numbers",
						"What are the training completion rates?",
						"How many instructors are active this month?",
					},
				},
				{
					Title:       "Instructor Support",
					Description: "Manage instructor requests and issues",
					Icon:        "SupportAgent",
					Queries: []string{
						"How do I onboard new instructors?",
						"What support resources are available for instructors?",
						"How do I handle instructor certification renewals?",
					},
				},
				{
					Title:       "Course Management",
					Description: "Schedule and coordinate training courses",
					Icon:        "Event",
					Queries: []string{
						"How do I schedule a new MHFA course?",
						"What are the requirements for blended courses?",
						"How do I update course information?",
					},
				},
				{
					Title:       "Reporting & Analytics",
					Description: "Access program metrics and insights",
					Icon:        "Analytics",
					Queries: []string{
						"Show me monthly training statistics",
						"What are the most popular MHFA courses?",
						"Generate a report on instructor performance",
					},
				},
			},
			SuggestedTopics: []string{
				"Learning Management System",
				"Course Scheduling Procedures",
				"Instructor Credentialing",
				"Program Quality Assurance",
				"Stakeholder Communication",
			},
			RecentUpdates: []string{
				"New LMS features released",
				"Updated staff training protocols",
				"Improved reporting dashboard",
			},
		},
		RoleLearner: {
			QuickActions: []QuickAction{
				{
					Title:       "My Courses",
					Description: "View enrolled courses and progress",
					Icon:        "School",
					Queries: []string{
						"Show me my enrolled MHFA courses",
						"What is my course completion status?",
						"How do I access my course materials?",
					},
				},
				{
					Title:       "Find Training",
					Description: "Search for available MHFA courses",
					Icon:        "Search",
					Queries: []string{
						"What MHFA courses are available near me?",
						"How do I enroll in a Mental Health First Aid course?",
						"What are the different types of MHFA training?",
					},
				},
				{
					Title:       "Certification",
					Description: "Track certification and renewal",
					Icon:        "Verified",
					Queries: []string{
						"How do I get my MHFA certification?",
						"When does my certification expire?",
						"How do I renew my Mental Health First Aid certification?",
					},
				},
				{
					Title:       "Resources & Support",
					Description: "Access learning materials and help",
					Icon:        "Help",
					Queries: []string{
						"Where can I find additional MHFA resources?",
						"How do I contact my instructor?",
						"What support is available for learners?",
					},
				},
			},
			SuggestedTopics: []string{
				"Course Enrollment Process",
				"Blended Learning Format",
				"Certification Requirements",
				"Mental Health Resources",
				"Community Support Groups",
			},
			RecentUpdates: []string{
				"New online course modules available",
				"Updated certification process",
				"Mobile app for course access launched",
			},
		},
	}
}
