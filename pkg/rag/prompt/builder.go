package prompt

import (
	"fmt"
	"strings"

	"chainchat-be/pkg/store"
)

// ContextualBuilder builds the system instruction for a retrieval-backed
// turn: the retrieved chunks plus the multilingual answering rules.
type ContextualBuilder struct {
	chunks []store.Chunk
}

// NewContextualBuilder creates a builder over the retrieved chunks.
func NewContextualBuilder(chunks []store.Chunk) *ContextualBuilder {
	return &ContextualBuilder{chunks: chunks}
}

// Build assembles the full instruction text.
func (b *ContextualBuilder) Build() string {
	var prompt strings.Builder

	b.writeTask(&prompt)
	b.writeGuidelines(&prompt)
	b.writeReferenceMaterial(&prompt)

	return prompt.String()
}

func (b *ContextualBuilder) writeTask(prompt *strings.Builder) {
	prompt.WriteString("<task>\n")
	prompt.WriteString("You are a helpful assistant that can communicate in multiple languages including Hebrew, English and Arabic.\n")
	prompt.WriteString("Answer the user's question using the reference material extracted from their uploaded documents.\n")
	prompt.WriteString("</task>\n\n")
}

func (b *ContextualBuilder) writeGuidelines(prompt *strings.Builder) {
	prompt.WriteString("<guidelines>\n")
	prompt.WriteString("1. Answer in the same language the question was asked in, unless asked otherwise\n")
	prompt.WriteString("2. When the question mentions \"the file\", \"the document\", \"הקובץ\" or \"המסמך\", it refers to the uploaded document(s)\n")
	prompt.WriteString("3. Maintain conversation context across different languages; when the user switches language, acknowledge the earlier context\n")
	prompt.WriteString("4. Base your answer on the reference material; if it does not contain what is being asked, say so honestly\n")
	prompt.WriteString("</guidelines>\n\n")
}

func (b *ContextualBuilder) writeReferenceMaterial(prompt *strings.Builder) {
	prompt.WriteString("<reference_material>\n")
	for _, chunk := range b.chunks {
		fmt.Fprintf(prompt, "[source: %s, part %d]\n", chunk.Filename, chunk.Index)
		prompt.WriteString(chunk.Text)
		prompt.WriteString("\n\n")
	}
	prompt.WriteString("</reference_material>")
}
