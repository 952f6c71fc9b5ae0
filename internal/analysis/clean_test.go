package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/guttosm/gastos/internal/domain/models"
)

func TestClean(t *testing.T) {
	cases := []struct {
		name string
		in   models.Table
		want models.Table
	}{
		{name: "empty", in: models.Table{}, want: models.Table{}},
		{name: "nil", in: nil, want: models.Table{}},
		{
			name: "drops blank rows",
			in:   models.Table{{"Data", "Item"}, {}, {"", "  "}, {"\t"}, {"01/09/2025", "Luz"}},
			want: models.Table{{"Data", "Item"}, {"01/09/2025", "Luz"}},
		},
		{
			name: "fills empty cells and keeps length",
			in:   models.Table{{"Data", "", "Item"}, {"01/09/2025", ""}},
			want: models.Table{{"Data", "N/A", "Item"}, {"01/09/2025", "N/A"}},
		},
		{
			name: "whitespace cell is kept as is",
			in:   models.Table{{"a", " "}},
			want: models.Table{{"a", " "}},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Clean(tc.in)
			assert.Equal(t, tc.want, got)
			assert.Equal(t, got, Clean(got), "clean must be idempotent")
		})
	}
}

func TestClean_DoesNotMutateInput(t *testing.T) {
	in := models.Table{{"a", ""}}
	_ = Clean(in)
	assert.Equal(t, "", in[0][1])
}
