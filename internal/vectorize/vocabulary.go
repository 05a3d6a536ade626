package vectorize

import (
	"fmt"

	"github.com/Veraticus/evento/internal/common"
)

// Reserved token ids.
const (
	PadID = 0
	OOVID = 1

	OOVToken = "<OOV>"
)

// Vocabulary maps tokens to ids. It is immutable once built.
type Vocabulary struct {
	index  map[string]int
	tokens []string
}

func newVocabulary() *Vocabulary {
	return &Vocabulary{
		index:  map[string]int{OOVToken: OOVID},
		tokens: []string{"", OOVToken},
	}
}

// restoreVocabulary rebuilds a vocabulary from its id-ordered token list.
func restoreVocabulary(tokens []string) (*Vocabulary, error) {
	if len(tokens) < 2 || tokens[PadID] != "" || tokens[OOVID] != OOVToken {
		return nil, fmt.Errorf("%w: vocabulary is missing reserved tokens", common.ErrArtifactMismatch)
	}

	v := &Vocabulary{
		index:  make(map[string]int, len(tokens)),
		tokens: append([]string(nil), tokens...),
	}
	for id, tok := range tokens[1:] {
		if _, dup := v.index[tok]; dup {
			return nil, fmt.Errorf("%w: duplicate token %q", common.ErrArtifactMismatch, tok)
		}
		v.index[tok] = id + 1
	}
	return v, nil
}

// add assigns the next id to tok unless it is known or the cap is reached.
func (v *Vocabulary) add(tok string, maxSize int) {
	if _, ok := v.index[tok]; ok {
		return
	}
	if len(v.tokens) >= maxSize {
		return
	}
	v.index[tok] = len(v.tokens)
	v.tokens = append(v.tokens, tok)
}

// ID returns the id of tok, or OOVID when it is not in the vocabulary.
func (v *Vocabulary) ID(tok string) int {
	if id, ok := v.index[tok]; ok {
		return id
	}
	return OOVID
}

// Token returns the token with the given id.
func (v *Vocabulary) Token(id int) (string, bool) {
	if id < 0 || id >= len(v.tokens) {
		return "", false
	}
	return v.tokens[id], true
}

// Size is the number of ids in use, reserved ids included.
func (v *Vocabulary) Size() int {
	return len(v.tokens)
}

// Tokens returns a copy of the id-ordered token list.
func (v *Vocabulary) Tokens() []string {
	return append([]string(nil), v.tokens...)
}
