package analyzer

import "strings"

const basePrompt = `You are a sports card and memorabilia identification assistant.

Identify the item in the attached photo and estimate its raw (ungraded) value
from recent market sales.

Return ONLY a JSON object. No markdown, no explanations, no extra text.
Use exactly these keys, with string values, and "" for anything you cannot determine:
{
  "Player": "string",
  "Team": "string",
  "Year": "string",
  "Set": "string",
  "Card_Number": "string",
  "Variation": "string",
  "Condition_Notes": "string",
  "Estimated_Raw_Value": "price range in USD, for example $15 - $25",
  "Archive_Location": ""
}`

// BuildPrompt returns the instruction sent with the images. A non-empty hint
// is appended verbatim so the user can steer the identification.
func BuildPrompt(hint string, hasBack bool) string {
	var b strings.Builder
	b.WriteString(basePrompt)

	if hasBack {
		b.WriteString("\n\nThe first image is the front of the item, the second image is the back.")
	}

	if h := strings.TrimSpace(hint); h != "" {
		b.WriteString("\n\nUser hint: ")
		b.WriteString(h)
	}

	return b.String()
}
