package vectorize

import (
	"fmt"

	"github.com/Veraticus/evento/internal/common"
)

// Default sizes.
const (
	DefaultMaxVocab = 5000
	DefaultSeqLen   = 50
)

// Options controls vocabulary size and output length.
type Options struct {
	MaxVocab int
	SeqLen   int
}

func (o Options) withDefaults() Options {
	if o.MaxVocab <= 0 {
		o.MaxVocab = DefaultMaxVocab
	}
	if o.SeqLen <= 0 {
		o.SeqLen = DefaultSeqLen
	}
	return o
}

// Vectorizer is a fitted vocabulary plus the output sequence length.
// It is read-only and safe for concurrent use.
type Vectorizer struct {
	vocab    *Vocabulary
	seqLen   int
	maxVocab int
}

// Fit builds a vocabulary from corpus, assigning ids in order of first
// appearance until MaxVocab ids are in use.
func Fit(corpus []string, opts Options) (*Vectorizer, error) {
	opts = opts.withDefaults()
	if opts.MaxVocab < 2 {
		return nil, fmt.Errorf("%w: max vocabulary %d leaves no room for tokens", common.ErrInvalidConfig, opts.MaxVocab)
	}

	vocab := newVocabulary()
	for _, prompt := range corpus {
		for _, tok := range Tokenize(prompt) {
			vocab.add(tok, opts.MaxVocab)
		}
	}

	return &Vectorizer{vocab: vocab, seqLen: opts.SeqLen, maxVocab: opts.MaxVocab}, nil
}

// Restore rebuilds a vectorizer from a persisted token list.
func Restore(tokens []string, opts Options) (*Vectorizer, error) {
	opts = opts.withDefaults()
	if len(tokens) > opts.MaxVocab {
		return nil, fmt.Errorf("%w: %d tokens exceed max vocabulary %d", common.ErrArtifactMismatch, len(tokens), opts.MaxVocab)
	}

	vocab, err := restoreVocabulary(tokens)
	if err != nil {
		return nil, err
	}
	return &Vectorizer{vocab: vocab, seqLen: opts.SeqLen, maxVocab: opts.MaxVocab}, nil
}

// Vectorize maps prompt to exactly SeqLen ids. Longer sequences keep their
// last SeqLen ids; shorter ones are right-padded with PadID.
func (v *Vectorizer) Vectorize(prompt string) ([]int, error) {
	if v == nil || v.vocab == nil {
		return nil, common.ErrNotFitted
	}

	tokens := Tokenize(prompt)
	if len(tokens) > v.seqLen {
		tokens = tokens[len(tokens)-v.seqLen:]
	}

	seq := make([]int, v.seqLen)
	for i, tok := range tokens {
		seq[i] = v.vocab.ID(tok)
	}
	return seq, nil
}

// VectorizeAll vectorizes every prompt in order.
func (v *Vectorizer) VectorizeAll(prompts []string) ([][]int, error) {
	out := make([][]int, len(prompts))
	for i, p := range prompts {
		seq, err := v.Vectorize(p)
		if err != nil {
			return nil, err
		}
		out[i] = seq
	}
	return out, nil
}

// Vocabulary returns the fitted vocabulary.
func (v *Vectorizer) Vocabulary() *Vocabulary {
	if v == nil {
		return nil
	}
	return v.vocab
}

// SeqLen returns the output sequence length.
func (v *Vectorizer) SeqLen() int {
	return v.seqLen
}

// MaxVocab returns the vocabulary cap the vectorizer was fitted with.
func (v *Vectorizer) MaxVocab() int {
	return v.maxVocab
}
