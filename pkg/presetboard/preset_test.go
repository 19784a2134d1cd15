package presetboard

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPresetsKeepInsertionOrder(t *testing.T) {
	ps := NewPresets()
	ps.Set("b", Preset{Description: "first"})
	ps.Set("a", Preset{Description: "second"})
	ps.Set("c", Preset{Description: "third"})

	assert.Equal(t, []string{"b", "a", "c"}, ps.Names())
}

func TestPresetsOverwriteKeepsPosition(t *testing.T) {
	ps := NewPresets()
	ps.Set("a", Preset{Description: "old"})
	ps.Set("b", Preset{})
	ps.Set("a", Preset{Description: "new"})

	assert.Equal(t, []string{"a", "b"}, ps.Names())
	got, ok := ps.Get("a")
	require.True(t, ok)
	assert.Equal(t, "new", got.Description)
}

func TestPresetsDelete(t *testing.T) {
	ps := DefaultPresets()

	assert.True(t, ps.Delete("School"))
	assert.False(t, ps.Delete("School"))
	assert.Equal(t, []string{"Work", "Gaming", "Relax"}, ps.Names())
	assert.Equal(t, 3, ps.Len())
}

func TestPresetsGetReturnsCopy(t *testing.T) {
	ps := NewPresets()
	ps.Set("a", Preset{Apps: []string{"A", "B"}})

	got, _ := ps.Get("a")
	got.Apps[0] = "changed"

	again, _ := ps.Get("a")
	assert.Equal(t, []string{"A", "B"}, again.Apps)
}

func TestPresetsJSONRoundTripKeepsOrder(t *testing.T) {
	doc := `{"Zeta":{"description":"z","apps":["Z"],"close_previous":false},` +
		`"Alpha":{"description":"a","apps":["A","A","B"],"close_previous":true}}`

	ps := NewPresets()
	require.NoError(t, json.Unmarshal([]byte(doc), ps))
	assert.Equal(t, []string{"Zeta", "Alpha"}, ps.Names())

	alpha, ok := ps.Get("Alpha")
	require.True(t, ok)
	assert.Equal(t, []string{"A", "A", "B"}, alpha.Apps)

	data, err := json.Marshal(ps)
	require.NoError(t, err)
	assert.JSONEq(t, doc, string(data))
	assert.Less(t, strings.Index(string(data), "Zeta"), strings.Index(string(data), "Alpha"))
}

func TestPresetsMarshalDoesNotEscapeHTML(t *testing.T) {
	ps := NewPresets()
	ps.Set("R&D", Preset{Description: "Games & <fun>", Apps: []string{"A"}, ClosePrevious: true})

	data, err := ps.MarshalJSON()
	require.NoError(t, err)
	assert.Equal(t, `{"R&D":{"description":"Games & <fun>","apps":["A"],"close_previous":true}}`, string(data))
}

func TestPresetMissingClosePreviousDefaultsToTrue(t *testing.T) {
	var p Preset
	require.NoError(t, json.Unmarshal([]byte(`{"description":"d","apps":["A"]}`), &p))
	assert.True(t, p.ClosePrevious)

	require.NoError(t, json.Unmarshal([]byte(`{"description":"d","apps":["A"],"close_previous":false}`), &p))
	assert.False(t, p.ClosePrevious)
}

func TestPresetsUnmarshalRejectsBadDocuments(t *testing.T) {
	for name, doc := range map[string]string{
		"array":      `[]`,
		"empty name": `{"":{"description":"d","apps":[],"close_previous":true}}`,
		"bad preset": `{"X":"not an object"}`,
		"null":       `null`,
	} {
		t.Run(name, func(t *testing.T) {
			ps := NewPresets()
			assert.Error(t, json.Unmarshal([]byte(doc), ps))
		})
	}
}

func TestPresetsUnmarshalEmptyNameIsSentinel(t *testing.T) {
	ps := NewPresets()
	err := json.Unmarshal([]byte(`{"":{"description":"d","apps":[]}}`), ps)
	assert.ErrorIs(t, err, ErrEmptyName)
}

func TestDefaultPresets(t *testing.T) {
	ps := DefaultPresets()
	assert.Equal(t, []string{"Work", "School", "Gaming", "Relax"}, ps.Names())

	work, _ := ps.Get("Work")
	assert.Equal(t, Preset{
		Description:   "Productivity and development workspace",
		Apps:          []string{"Safari", "Xcode", "Terminal", "Slack", "Notes"},
		ClosePrevious: true,
	}, work)

	gaming, _ := ps.Get("Gaming")
	assert.False(t, gaming.ClosePrevious)
}
