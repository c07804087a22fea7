package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestImageMetaUnmarshalKeepsExtraKeys(t *testing.T) {
	raw := `{
		"prompt": "wtrclr style, mountain lake",
		"negativePrompt": "lowres",
		"cfgScale": 7.5,
		"steps": 30,
		"sampler": "DPM++ 2M",
		"seed": 123456789,
		"clipSkip": 2,
		"resources": [{"name": "detail-tweaker", "type": "lora"}],
		"Size": "768x1152",
		"Model hash": "abc123",
		"denoiseStrength": 0.4
	}`

	var meta ImageMeta
	require.NoError(t, json.Unmarshal([]byte(raw), &meta))

	assert.Equal(t, "wtrclr style, mountain lake", meta.Prompt)
	assert.Equal(t, "lowres", meta.NegativePrompt)
	assert.Equal(t, 7.5, meta.CFGScale)
	assert.Equal(t, 30, meta.Steps)
	assert.Equal(t, "DPM++ 2M", meta.Sampler)
	assert.Equal(t, int64(123456789), meta.Seed)
	assert.Equal(t, 2, meta.ClipSkip)
	require.Len(t, meta.Resources, 1)
	assert.Equal(t, "detail-tweaker", meta.Resources[0].Name)

	require.NotNil(t, meta.Extra)
	assert.Equal(t, "768x1152", meta.Extra["Size"])
	assert.Equal(t, "abc123", meta.Extra["Model hash"])
	assert.Equal(t, 0.4, meta.Extra["denoiseStrength"])
	assert.NotContains(t, meta.Extra, "prompt")
}

func TestImageMetaRoundTripPreservesExtra(t *testing.T) {
	raw := `{"prompt": "neon city", "Hires upscale": "2", "VAE": "vae-ft-mse"}`

	var meta ImageMeta
	require.NoError(t, json.Unmarshal([]byte(raw), &meta))

	data, err := json.Marshal(meta)
	require.NoError(t, err)

	var back ImageMeta
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, "neon city", back.Prompt)
	assert.Equal(t, "2", back.Extra["Hires upscale"])
	assert.Equal(t, "vae-ft-mse", back.Extra["VAE"])
}

func TestImageMetaMarshalNamedFieldsWin(t *testing.T) {
	meta := ImageMeta{
		Prompt: "from the field",
		Extra:  map[string]any{"prompt": "from the bag"},
	}

	data, err := json.Marshal(meta)
	require.NoError(t, err)

	var out map[string]any
	require.NoError(t, json.Unmarshal(data, &out))
	assert.Equal(t, "from the field", out["prompt"])
}

func TestImageMetaEmpty(t *testing.T) {
	var meta ImageMeta
	require.NoError(t, json.Unmarshal([]byte(`{}`), &meta))

	assert.Nil(t, meta.Extra)

	data, err := json.Marshal(meta)
	require.NoError(t, err)
	assert.JSONEq(t, `{}`, string(data))
}

func TestRecordTrainedWordsFlattens(t *testing.T) {
	record := Record{
		Versions: []Version{
			{TrainedWords: []string{"wtrclr", "softlight"}},
			{TrainedWords: nil},
			{TrainedWords: []string{"neoncity"}},
		},
	}

	assert.Equal(t, []string{"wtrclr", "softlight", "neoncity"}, record.TrainedWords())

	empty := Record{}
	assert.Empty(t, empty.TrainedWords())
}
