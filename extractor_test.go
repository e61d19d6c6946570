package sitetext_test

import (
	"testing"

	"github.com/fwojciec/sitetext"
	"github.com/stretchr/testify/assert"
)

func TestNormalizeText(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", ""},
		{"whitespace only", " \n\t\n  ", ""},
		{"trims lines", "  Title  \n\tBody text\t", "Title\nBody text"},
		{"drops blank lines", "One\n\n\n  \nTwo", "One\nTwo"},
		{"handles carriage returns", "One\r\nTwo\r\n", "One\nTwo"},
		{"keeps inner spacing", "a  b", "a  b"},
		{"keeps non-ASCII", "  سلام دنیا  ", "سلام دنیا"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, sitetext.NormalizeText(tt.in))
		})
	}
}
