package dataset

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeLabel(t *testing.T) {
	tests := []struct {
		name  string
		label string
		want  string
	}{
		{name: "trailing period", label: "Auftragsart.", want: "Auftragsart"},
		{name: "surrounding whitespace", label: "  Lieferart ", want: "Lieferart"},
		{name: "whitespace and punctuation", label: " RKdNr. ", want: "RKdNr"},
		{name: "interior dot kept", label: "System_id.Auftrag", want: "System_id.Auftrag"},
		{name: "interior dot with trailing period", label: "Nummer.Auftraggeber.", want: "Nummer.Auftraggeber"},
		{name: "trailing colon", label: "Sparte:", want: "Sparte"},
		{name: "already clean", label: "Betriebszentrale", want: "Betriebszentrale"},
		{name: "hyphen not stripped", label: "Auftrag-Nr.", want: "Auftrag-Nr"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeLabel(tt.label))
		})
	}
}

func TestNormalizeLabels(t *testing.T) {
	t.Run("counts altered labels and maps all", func(t *testing.T) {
		norm, err := NormalizeLabels([]string{"Auftragsart.", "Lieferart", " RKdNr. "})
		require.NoError(t, err)

		assert.Equal(t, 2, norm.Altered)
		assert.Equal(t, "Auftragsart", norm.Mapping["Auftragsart."])
		assert.Equal(t, "Lieferart", norm.Mapping["Lieferart"])
		assert.Equal(t, "RKdNr", norm.Mapping[" RKdNr. "])
	})

	t.Run("collision is fatal", func(t *testing.T) {
		_, err := NormalizeLabels([]string{"Sparte.", "Sparte"})
		require.Error(t, err)

		var conflict *SchemaConflictError
		require.ErrorAs(t, err, &conflict)
		assert.Equal(t, "Sparte", conflict.Normalized)
		assert.ElementsMatch(t, []string{"Sparte.", "Sparte"}, conflict.Labels)
	})

	t.Run("repeating an identical label is not a collision", func(t *testing.T) {
		norm, err := NormalizeLabels([]string{"Sparte", "Sparte"})
		require.NoError(t, err)
		assert.Equal(t, 0, norm.Altered)
	})
}

func TestSchema_Lookup(t *testing.T) {
	table := Table{
		Labels: []string{"Auftrag-Nr.", "Lieferart", "System_id.Auftrag"},
		Rows: [][]string{
			{"1001", "Leergut", "B&T"},
			{"1002"}, // ragged row from the export
		},
	}

	schema, err := NewSchema(table)
	require.NoError(t, err)

	idx, ok := schema.Column("Auftrag-Nr")
	require.True(t, ok)
	assert.Equal(t, 0, idx)

	_, ok = schema.Column("Auftrag-Nr.") // raw form must not resolve
	assert.False(t, ok)

	assert.Equal(t, "Leergut", schema.Value(table.Rows[0], "Lieferart"))
	assert.Equal(t, "", schema.Value(table.Rows[1], "Lieferart"))

	_, err = schema.Require("Sparte")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Sparte")
}
