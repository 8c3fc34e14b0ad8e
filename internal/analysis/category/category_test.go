package category

import "testing"

func TestClassify(t *testing.T) {
	cases := map[string]string{
		"How do I renew my certification?":            Recertification,
		"How do I become a certified MHFA instructor?": InstructorCertification,
		"I forgot my password":                         TechnicalSupport,
		"Where can I find the participant manual?":     CourseMaterials,
		"What is Mental Health First Aid?":             TrainingCourses,
		"Where is the nearest crisis hotline?":         MentalHealthResources,
		"What's the weather like?":                     Unknown,
		"":                                             Unknown,
	}
	for question, want := range cases {
		if got := Classify(question); got != want {
			t.Errorf("Classify(%q) = %q, want %q", question, got, want)
		}
	}
}

func TestNormalize(t *testing.T) {
	if got := Normalize(`"training & courses"`); got != TrainingCourses {
		t.Fatalf("got %q", got)
	}
	if got := Normalize("Astrology"); got != Unknown {
		t.Fatalf("got %q", got)
	}
}
