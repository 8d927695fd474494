package classify

import (
	"fmt"
	"strings"
)

const systemPrompt = `You are a weather assistant. Given some context about the weather, you will response with a suitable weather descriptor.`

// promptTemplate slots: short title, Daytime/Nighttime label, detailed
// description, comma-joined vocabulary. The one-shot example anchors the
// model on bare-descriptor output.
const promptTemplate = `Given the following weather description, assign it a descriptor from the available choices.

Title: %s

Time of Day: %s

Description: %s

You must pick one of the following descriptors: %s

Simply output the descriptor. DO NOT make up your own descriptor. DO NOT respond with a sentence and any extra words.

For example, a proper descriptor for the following description is Sunny.

Title: Mostly Sunny

Time of Day: Daytime

Description: Mostly sunny. High near 52, with temperatures falling to around 49 in the afternoon. West wind 13 to 17 mph, with gusts as high as 29 mph.
`

// buildPrompt fills the classification prompt for one half-day summary.
func buildPrompt(title, timeOfDay, description string, vocab []string) string {
	return fmt.Sprintf(promptTemplate, title, timeOfDay, description, strings.Join(vocab, ", "))
}
