package augment

import "strings"

// LanguagePack binds document-referring phrases in one language to the
// prefix that anchors the question to the uploaded material. The phrase
// lists are configuration, not logic: the detection is a best-effort
// retrieval bias, never a guarantee.
type LanguagePack struct {
	// Phrases that refer to "the document" / "this file" in the pack's language.
	Phrases []string
	// ExactMatches are whole questions (compared after trimming) that
	// implicitly refer to the document, like "summarize this".
	ExactMatches []string
	// Prefix prepended to the question when a phrase matches.
	Prefix string
	// CaseFold lowercases the question before matching (for scripts with case).
	CaseFold bool
}

// DefaultPacks covers Hebrew and English, matching the deployments this
// service grew out of.
func DefaultPacks() []LanguagePack {
	return []LanguagePack{
		{
			Phrases:      []string{"הקובץ", "המסמך", "הטקסט", "המידע"},
			ExactMatches: []string{"תסביר על הקובץ בבקשה", "תן לי סיכום", "מה יש במסמך"},
			Prefix:       "בהתבסס על המסמך שהועלה, ",
		},
		{
			Phrases:      []string{"the file", "the document", "this document", "this file"},
			ExactMatches: []string{"explain in english", "summarize this", "what's in this"},
			Prefix:       "Based on the uploaded document, ",
			CaseFold:     true,
		},
	}
}

// Augmenter rewrites questions with deictic document references into a
// form explicitly anchored to the uploaded material, biasing retrieval
// toward document content rather than generic chat.
type Augmenter struct {
	packs []LanguagePack
}

func New(packs []LanguagePack) *Augmenter {
	if len(packs) == 0 {
		packs = DefaultPacks()
	}
	return &Augmenter{packs: packs}
}

// Rewrite returns the augmented question and whether a rewrite happened.
// Packs are tried in order; the first match wins. A pack matches when
// the question contains one of its phrases, or when the whole trimmed
// question equals one of its exact matches (bare requests like
// "summarize this" that name no document).
func (a *Augmenter) Rewrite(question string) (string, bool) {
	for _, pack := range a.packs {
		haystack := question
		if pack.CaseFold {
			haystack = strings.ToLower(question)
		}
		for _, phrase := range pack.Phrases {
			if strings.Contains(haystack, phrase) {
				return pack.Prefix + question, true
			}
		}
		trimmed := strings.TrimSpace(haystack)
		for _, exact := range pack.ExactMatches {
			if trimmed == exact {
				return pack.Prefix + question, true
			}
		}
	}
	return question, false
}
