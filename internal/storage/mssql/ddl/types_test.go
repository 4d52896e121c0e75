package ddl

import "testing"

func TestMapType(t *testing.T) {
	cases := map[string]string{
		"integer":  "BIGINT",
		" BIGINT ": "BIGINT",
		"bool":     "BIT",
		"real":     "FLOAT",
		"decimal":  "DECIMAL(38, 10)",
		"text":     "NVARCHAR(MAX)",
		"":         "NVARCHAR(MAX)",
	}
	for in, want := range cases {
		if got := MapType(in); got != want {
			t.Fatalf("MapType(%q) = %q; want %q", in, got, want)
		}
	}
}
