package prompts

import "fmt"

// FeatureNamePrompt asks for a short feature name suitable as a filename
// base. Issued as a one-shot generation near the start of the session.
func FeatureNamePrompt(idea string) string {
	return fmt.Sprintf("You are a naming expert. Given the following feature description, suggest a short, 2-3 word feature name that can be used as a filename.\n\nFeature Description: %q\n\nSuggested Name:", idea)
}
