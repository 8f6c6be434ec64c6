package generator

import (
	"fmt"
	"slices"
	"strings"
)

const systemPrompt = `You are a memory coach who writes short, vivid memory tricks for students.

**Rules:**
- Answer with a single trick that fits in a few lines.
- Prefer concrete images, everyday objects and familiar names over abstract wording.
- Keep the letters or order of the concept intact when the trick encodes a sequence.
- Do not restate the instructions or explain what a memory trick is.
- Respond with a JSON object: {"trick": string, "keywords": [string]}. "keywords" lists the words or letters the trick is built around.
- Do not include any commentary or markdown. Output only the raw JSON.`

// Trick types with a dedicated instruction.
const (
	Acronym        = "acronym"
	Acrostic       = "acrostic"
	RhymesSongs    = "rhymes_songs"
	Visualization  = "visualization"
	MethodOfLoci   = "method_of_loci"
	Association    = "association"
	PegSystem      = "peg_system"
	KeyWordsMethod = "key_words_method"
)

var prompts = map[string]string{
	Acronym:        "Create a meaningful acronym to remember: %s. Ensure it's easy to recall.",
	Acrostic:       "Make a meaningful sentence (Acrostic) where each word starts with letters from: %s.",
	RhymesSongs:    "Write a short, catchy rhyme or song lyrics to memorize: %s.",
	Visualization:  "Describe a visual scene that strongly connects with: %s.",
	MethodOfLoci:   "Use the Method of Loci to link %s with a familiar location for easy recall.",
	Association:    "Create a strong association between %s and something common in daily life.",
	PegSystem:      "Use the Peg System to remember %s by linking it with numbers (1 = Sun, 2 = Shoe, etc.).",
	KeyWordsMethod: "Generate a Key Words Method trick to help memorize %s by linking keywords.",
}

const fallbackPrompt = "Generate a memory trick for: %s."

// Prompt returns the instruction for trickType with concept interpolated.
// Unknown types get a generic instruction.
func Prompt(concept, trickType string) string {
	tmpl, ok := prompts[strings.ToLower(strings.TrimSpace(trickType))]
	if !ok {
		tmpl = fallbackPrompt
	}
	return fmt.Sprintf(tmpl, concept)
}

// TrickTypes lists the trick types with dedicated instructions.
func TrickTypes() []string {
	types := make([]string, 0, len(prompts))
	for t := range prompts {
		types = append(types, t)
	}
	slices.Sort(types)
	return types
}
