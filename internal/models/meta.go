package models

import "encoding/json"

// metaKnown mirrors ImageMeta's named fields for (un)marshaling.
type metaKnown struct {
	Prompt         string     `json:"prompt,omitempty"`
	NegativePrompt string     `json:"negativePrompt,omitempty"`
	CFGScale       float64    `json:"cfgScale,omitempty"`
	Steps          int        `json:"steps,omitempty"`
	Sampler        string     `json:"sampler,omitempty"`
	Seed           int64      `json:"seed,omitempty"`
	ClipSkip       int        `json:"clipSkip,omitempty"`
	Resources      []Resource `json:"resources,omitempty"`
}

var metaKnownKeys = map[string]bool{
	"prompt":         true,
	"negativePrompt": true,
	"cfgScale":       true,
	"steps":          true,
	"sampler":        true,
	"seed":           true,
	"clipSkip":       true,
	"resources":      true,
}

// UnmarshalJSON decodes the named generation parameters and keeps any
// additional keys the catalog attached in Extra, so a cached record
// round-trips without losing metadata.
func (m *ImageMeta) UnmarshalJSON(data []byte) error {
	var known metaKnown
	if err := json.Unmarshal(data, &known); err != nil {
		return err
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	*m = ImageMeta{
		Prompt:         known.Prompt,
		NegativePrompt: known.NegativePrompt,
		CFGScale:       known.CFGScale,
		Steps:          known.Steps,
		Sampler:        known.Sampler,
		Seed:           known.Seed,
		ClipSkip:       known.ClipSkip,
		Resources:      known.Resources,
	}

	for key, value := range raw {
		if metaKnownKeys[key] {
			continue
		}
		var v any
		if err := json.Unmarshal(value, &v); err != nil {
			return err
		}
		if m.Extra == nil {
			m.Extra = make(map[string]any)
		}
		m.Extra[key] = v
	}

	return nil
}

// MarshalJSON emits the named fields plus the extension bag as one flat
// object. Named fields win on key collision.
func (m ImageMeta) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(m.Extra)+8)
	for key, value := range m.Extra {
		out[key] = value
	}

	known, err := json.Marshal(metaKnown{
		Prompt:         m.Prompt,
		NegativePrompt: m.NegativePrompt,
		CFGScale:       m.CFGScale,
		Steps:          m.Steps,
		Sampler:        m.Sampler,
		Seed:           m.Seed,
		ClipSkip:       m.ClipSkip,
		Resources:      m.Resources,
	})
	if err != nil {
		return nil, err
	}

	var knownMap map[string]any
	if err := json.Unmarshal(known, &knownMap); err != nil {
		return nil, err
	}
	for key, value := range knownMap {
		out[key] = value
	}

	return json.Marshal(out)
}
