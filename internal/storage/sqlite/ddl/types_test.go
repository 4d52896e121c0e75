package ddl

import "testing"

func TestMapType(t *testing.T) {
	t.Parallel()

	tests := []struct {
		kind string
		want string
	}{
		{kind: "integer", want: "INTEGER"},
		{kind: "  BigInt ", want: "INTEGER"},
		{kind: "bool", want: "INTEGER"},
		{kind: "real", want: "REAL"},
		{kind: "double", want: "REAL"},
		{kind: "decimal", want: "NUMERIC"},
		{kind: "text", want: "TEXT"},
		{kind: "", want: "TEXT"},
	}
	for _, tt := range tests {
		if got := MapType(tt.kind); got != tt.want {
			t.Errorf("MapType(%q) = %q, want %q", tt.kind, got, tt.want)
		}
	}
}
