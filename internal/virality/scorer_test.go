package virality

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	assert.Equal(t, "eleicao", Normalize("Eleição"))
	assert.Equal(t, "urgente", Normalize("URGENTE"))
	assert.Equal(t, "cafe com acucar", Normalize("Café com Açúcar"))
}

func TestScore_TitleCountsDouble(t *testing.T) {
	weights := Weights{"eleicao": 3, "urgente": 4}

	assert.Equal(t, 6.0, Score("Eleição", "", weights))
	assert.Equal(t, 3.0, Score("", "eleição", weights))
	assert.Equal(t, 9.0, Score("eleição", "eleição", weights))
	assert.Equal(t, 14.0, Score("Eleição URGENTE", "urgente hoje", weights))
}

func TestScore_SingleLetterTitleKeyword(t *testing.T) {
	// weight 5, title multiplier 2
	assert.Equal(t, 10.0, Score("T", "B", Weights{"t": 5}))
}

func TestScore_NoKeywordHitsIsZero(t *testing.T) {
	weights := Weights{"eleicao": 3}
	assert.Equal(t, 0.0, Score("nothing relevant here", "still nothing", weights))
	assert.Equal(t, 0.0, Score("", "", weights))
	assert.Equal(t, 0.0, Score("eleicao", "eleicao", Weights{}))
}

func TestScore_RepeatedTokensAccumulate(t *testing.T) {
	weights := Weights{"gol": 2}
	assert.Equal(t, 2.0+2.0+2.0, Score("", "gol gol gol", weights))
}

func TestScore_PunctuationSplitsTokens(t *testing.T) {
	weights := Weights{"crise": 1, "governo": 1}
	assert.Equal(t, 2.0, Score("", "crise,governo!", weights))
}

func TestScore_Deterministic(t *testing.T) {
	weights := Weights{"eleicao": 3, "urgente": 4, "gol": 1}
	first := Score("Eleição urgente", "gol do século", weights)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, Score("Eleição urgente", "gol do século", weights))
	}
}

func TestScore_DoublingWeightsDoublesScore(t *testing.T) {
	weights := Weights{"eleicao": 3, "urgente": 4}
	doubled := Weights{}
	for k, v := range weights {
		doubled[k] = v * 2
	}

	title, body := "Eleição urgente hoje", "a eleição segue urgente"
	assert.Equal(t, Score(title, body, weights)*2, Score(title, body, doubled))
}

func TestPercent(t *testing.T) {
	weights := Weights{"a": 6, "b": 4}

	assert.Equal(t, 0.0, Percent(0, weights))
	assert.Equal(t, 50.0, Percent(5, weights))
	assert.Equal(t, 100.0, Percent(10, weights))
	assert.Equal(t, 100.0, Percent(25, weights), "clamped at 100")
	assert.Equal(t, 0.0, Percent(5, Weights{}), "empty table")
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "keywords.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"Eleição": 3, "urgente": 4.5}`), 0o644))

	weights, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 3.0, weights["eleicao"], "keys normalized at load")
	assert.Equal(t, 4.5, weights["urgente"])
	assert.Equal(t, 7.5, weights.Total())
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "broken.json")
	require.NoError(t, os.WriteFile(path, []byte(`not json`), 0o644))
	_, err = Load(path)
	assert.Error(t, err)
}
