package lexruntime

import "github.com/tansive/lexruntime/pkg/types"

// IntentConfidence is the NLU confidence that an intent matches the input,
// between 0.0 and 1.0.
type IntentConfidence struct {
	Score types.NullableValue[float64] `json:"score,omitzero"`
}

// NewIntentConfidence returns a confidence holding score.
func NewIntentConfidence(score float64) *IntentConfidence {
	return &IntentConfidence{Score: types.NullableValueFrom(score)}
}

func (c *IntentConfidence) Equal(other *IntentConfidence) bool {
	if c == nil || other == nil {
		return c == other
	}
	return c.Score.Equals(other.Score)
}

func (c *IntentConfidence) Hash() uint64 {
	if c == nil {
		return 0
	}
	return types.HashFields(c.Score.Hash())
}

func (c *IntentConfidence) String() string {
	if c == nil {
		return "<nil>"
	}
	w := newFieldWriter()
	writeValue(w, "Score", c.Score)
	return w.String()
}

// PredictedIntent is an alternative interpretation of the user input.
type PredictedIntent struct {
	IntentName          types.NullableString      `json:"intentName,omitzero"`
	NluIntentConfidence *IntentConfidence         `json:"nluIntentConfidence,omitempty"`
	Slots               types.NullableMap[string] `json:"slots,omitzero"`
}

func (p *PredictedIntent) WithIntentName(name string) *PredictedIntent {
	p.IntentName.Set(name)
	return p
}

func (p *PredictedIntent) WithNluIntentConfidence(c *IntentConfidence) *PredictedIntent {
	p.NluIntentConfidence = c
	return p
}

func (p *PredictedIntent) WithSlots(slots map[string]string) *PredictedIntent {
	p.Slots.Set(slots)
	return p
}

func (p *PredictedIntent) AddSlotsEntry(name, value string) error {
	return p.Slots.Add(name, value)
}

// Confidence returns the score, or 0 when none was reported.
func (p *PredictedIntent) Confidence() float64 {
	if p == nil || p.NluIntentConfidence == nil {
		return 0
	}
	return p.NluIntentConfidence.Score.Value
}

func (p *PredictedIntent) Equal(other *PredictedIntent) bool {
	if p == nil || other == nil {
		return p == other
	}
	return p.IntentName.Equals(other.IntentName) &&
		p.NluIntentConfidence.Equal(other.NluIntentConfidence) &&
		p.Slots.Equals(other.Slots)
}

func (p *PredictedIntent) Hash() uint64 {
	if p == nil {
		return 0
	}
	return types.HashFields(p.IntentName.Hash(), p.NluIntentConfidence.Hash(), p.Slots.Hash())
}

func (p *PredictedIntent) String() string {
	if p == nil {
		return "<nil>"
	}
	w := newFieldWriter()
	w.str("IntentName", p.IntentName)
	w.stringer("NluIntentConfidence", p.NluIntentConfidence, p.NluIntentConfidence != nil)
	writeMap(w, "Slots", p.Slots)
	return w.String()
}

func predictedIntentsEqual(a, b types.NullableList[PredictedIntent]) bool {
	return a.EqualFunc(b, (*PredictedIntent).Equal)
}

func predictedIntentsHash(l types.NullableList[PredictedIntent]) uint64 {
	return l.HashFunc((*PredictedIntent).Hash)
}

// SentimentResponse is the sentiment detected in the user utterance, when
// sentiment analysis is enabled for the bot.
type SentimentResponse struct {
	SentimentLabel types.NullableString `json:"sentimentLabel,omitzero"`
	SentimentScore types.NullableString `json:"sentimentScore,omitzero"`
}

func (s *SentimentResponse) Equal(other *SentimentResponse) bool {
	if s == nil || other == nil {
		return s == other
	}
	return s.SentimentLabel.Equals(other.SentimentLabel) && s.SentimentScore.Equals(other.SentimentScore)
}

func (s *SentimentResponse) Hash() uint64 {
	if s == nil {
		return 0
	}
	return types.HashFields(s.SentimentLabel.Hash(), s.SentimentScore.Hash())
}

func (s *SentimentResponse) String() string {
	if s == nil {
		return "<nil>"
	}
	w := newFieldWriter()
	w.str("SentimentLabel", s.SentimentLabel)
	w.str("SentimentScore", s.SentimentScore)
	return w.String()
}
