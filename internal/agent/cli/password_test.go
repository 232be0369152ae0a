package cli

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTrimLineEnd(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "lf", in: "secret\n", want: "secret"},
		{name: "crlf", in: "secret\r\n", want: "secret"},
		{name: "spaces kept", in: "  secret pass \n", want: "  secret pass "},
		{name: "no terminator", in: " secret", want: " secret"},
		{name: "only newline", in: "\n", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, trimLineEnd([]byte(tt.in)))
		})
	}
}
