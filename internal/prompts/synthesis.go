package prompts

import "fmt"

// planTemplate produces the human-readable Feature Plan. Interpolation
// order: context JSON, rendered transcript.
const planTemplate = `Based on our entire conversation, synthesize the human-readable "Feature Plan"
in Markdown. The plan MUST include:
1.  **Feature Name**: (e.g., "Auth: Forgot Password Flow")
2.  **Problem Statement**: (The "Why")
3.  **Success Metrics**: (How we know it works)
4.  **User Stories / Journey**: (The "What")
5.  **Implementation Notes**: (The "How", including high-level API needs or UI components)
6.  **Edge Cases & Security**: (e.g., "User is not found", "Rate limiting")

You MUST only output the Markdown content, with no other text or formatting.

**Adhere to this context (if provided):**
---
%s
---

Here is our conversation history:
%s

Generate the Markdown file now.
`

// specTemplate produces the machine-readable Execution Spec. Interpolation
// order: context JSON, rendered transcript.
const specTemplate = "Based on our entire conversation, synthesize the machine-readable \"Execution Spec\"\nin **MARKDOWN**. The user expects the spec to be detailed and structured using Markdown headings and bullet points.\n\nExample of the expected output:\n\n```markdown\n# Execution Specification\n\n## Feature: Example Feature\n\n### Requirements:\n*   **REQ-001 [Type: SYSTEM]** The system shall do something.\n*   **REQ-002 [Type: USER_STORY]** When the user does something, the system shall respond.\n```\n\nHere is the structure I expect:\n\n# Execution Specification\n\n## Feature: [Feature Name]\n\n### Requirements:\n*   **[ID] [Type: USER_STORY | SYSTEM | SECURITY | ACCESSIBILITY]** [A clear, testable, EARS-style requirement. (e.g., WHEN a user clicks 'Forgot Password', THE SYSTEM SHALL navigate to the 'Password Reset' view.)]\n\n\n**Rules:**\n* Create a requirement for EVERY actionable item, user story, and system behavior we discussed.\n* IDs must be sequential (REQ-001, REQ-002, ...).\n* The `requirement` text is CRITICAL. It must be a clear instruction for a coding agent.\n\n**Adhere to this context (if provided):**\n---\n%s\n---\n\nHere is our conversation history:\n%s\n\nGenerate the Markdown file now.\n"

// PlanPrompt returns the Feature Plan synthesis prompt.
func PlanPrompt(contextJSON, transcript string) string {
	return fmt.Sprintf(planTemplate, contextJSON, transcript)
}

// SpecPrompt returns the Execution Spec synthesis prompt.
func SpecPrompt(contextJSON, transcript string) string {
	return fmt.Sprintf(specTemplate, contextJSON, transcript)
}
