package qup

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestConfirm(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  bool
	}{
		{"y", "y\n", true},
		{"yes", "yes\n", true},
		{"uppercase Y", "Y\n", true},
		{"empty defaults to yes", "\n", true},
		{"n", "n\n", false},
		{"no", "no\n", false},
		{"anything else declines", "maybe\n", false},
		{"eof declines", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &Prompter{In: strings.NewReader(tt.input)}
			require.Equal(t, tt.want, p.Confirm("Would you like to try with root permissions?"))
		})
	}
}
