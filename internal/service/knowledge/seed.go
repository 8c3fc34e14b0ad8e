package knowledge

import "time"

var seededAt = time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC)

// Seed returns the documents the local gateway starts with.
func Seed() []Document {
	return []Document{
		{
			Key:    "mhfa-overview.pdf",
			Title:  "About Mental Health First Aid",
			Source: "https://www.mentalhealthfirstaid.org/about/",
			Body: "Mental Health First Aid (MHFA) is a skills-based training course that teaches people " +
				"how to identify, understand and respond to signs and symptoms of mental health and " +
				"substance use challenges. The course introduces risk factors and warning signs and " +
				"teaches the ALGEE action plan.",
			LastModified: seededAt,
		},
		{
			Key:    "instructor-certification.pdf",
			Title:  "Becoming an MHFA Instructor",
			Source: "https://www.mentalhealthfirstaid.org/become-an-instructor/",
			Body: "To become a certified MHFA instructor you complete an instructor training program, " +
				"pass the certification assessment and agree to teach at least three courses per year " +
				"to keep your certification active.",
			LastModified: seededAt,
		},
		{
			Key:    "recertification-guide.pdf",
			Title:  "Instructor Recertification Guide",
			Source: "https://www.mentalhealthfirstaid.org/recertification/",
			Body: "Instructor certification lasts three years. To recertify, log in to MHFA Connect, " +
				"complete the recertification module and submit your teaching record before your " +
				"certification expires.",
			LastModified: seededAt,
		},
		{
			Key:    "course-formats.pdf",
			Title:  "Course Formats",
			Source: "https://www.mentalhealthfirstaid.org/course-types/",
			Body: "MHFA courses are offered in person, blended with self-paced online work followed by " +
				"instructor-led sessions, and fully virtual. Adult, youth, teen and workplace " +
				"curricula are available.",
			LastModified: seededAt,
		},
		{
			Key:    "mhfa-connect-help.pdf",
			Title:  "MHFA Connect Help",
			Source: "https://www.mentalhealthfirstaid.org/connect-help/",
			Body: "MHFA Connect is the platform for registering courses, managing rosters, downloading " +
				"materials and tracking certification. Reset your password from the login page if " +
				"you cannot access your account.",
			LastModified: seededAt,
		},
		{
			Key:    "crisis-resources.pdf",
			Title:  "Crisis Resources",
			Source: "https://988lifeline.org/",
			Body: "If someone is in crisis, call or text 988 to reach the Suicide and Crisis Lifeline. " +
				"In an emergency call 911. MHFA does not replace professional help.",
			LastModified: seededAt,
		},
	}
}
