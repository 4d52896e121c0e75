package codec

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func ptr[T any](v T) *T { return &v }

func TestBool(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in      string
		want    bool
		wantErr bool
	}{
		{in: "0", want: false},
		{in: "1", want: true},
		{in: "", wantErr: true},
		{in: "true", wantErr: true},
		{in: "2", wantErr: true},
		{in: " 1", wantErr: true},
		{in: NullSentinel, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()

			got, err := Bool(tt.in)
			if tt.wantErr {
				if !errors.Is(err, ErrMalformedField) {
					t.Fatalf("Bool(%q) error = %v, want ErrMalformedField", tt.in, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Bool(%q) error = %v", tt.in, err)
			}
			if got != tt.want {
				t.Fatalf("Bool(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestOptionalBool(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in      string
		want    *bool
		wantErr bool
	}{
		{in: NullSentinel, want: nil},
		{in: "0", want: ptr(false)},
		{in: "1", want: ptr(true)},
		{in: "yes", wantErr: true},
	}
	for _, tt := range tests {
		got, err := OptionalBool(tt.in)
		if (err != nil) != tt.wantErr {
			t.Fatalf("OptionalBool(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
		}
		if diff := cmp.Diff(tt.want, got); diff != "" {
			t.Fatalf("OptionalBool(%q) mismatch (-want +got):\n%s", tt.in, diff)
		}
	}
}

func TestOptionalInt(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in      string
		want    *int
		wantErr bool
	}{
		{in: NullSentinel, want: nil},
		{in: "1909", want: ptr(1909)},
		{in: "0", want: ptr(0)},
		{in: "-3", want: ptr(-3)},
		{in: "abc", wantErr: true},
		{in: "", wantErr: true},
		{in: "12.5", wantErr: true},
	}
	for _, tt := range tests {
		got, err := OptionalInt(tt.in)
		if tt.wantErr {
			if !errors.Is(err, ErrMalformedField) {
				t.Fatalf("OptionalInt(%q) error = %v, want ErrMalformedField", tt.in, err)
			}
			continue
		}
		if err != nil {
			t.Fatalf("OptionalInt(%q) error = %v", tt.in, err)
		}
		if diff := cmp.Diff(tt.want, got); diff != "" {
			t.Fatalf("OptionalInt(%q) mismatch (-want +got):\n%s", tt.in, diff)
		}
	}
}

func TestIntAndFloat(t *testing.T) {
	t.Parallel()

	if n, err := Int("466"); err != nil || n != 466 {
		t.Fatalf("Int(466) = %d, %v", n, err)
	}
	if _, err := Int(NullSentinel); !errors.Is(err, ErrMalformedField) {
		t.Fatalf("Int(sentinel) error = %v, want ErrMalformedField", err)
	}
	if f, err := Float("4.5"); err != nil || f != 4.5 {
		t.Fatalf("Float(4.5) = %v, %v", f, err)
	}
	_, err := Float("x")
	var fe *FieldError
	if !errors.As(err, &fe) || fe.Want != "float" || fe.Value != "x" {
		t.Fatalf("Float(x) error = %#v, want *FieldError{Want: float}", err)
	}
	if strings.Contains(err.Error(), "strconv") {
		t.Fatalf("Float(x) error = %q, want no strconv noise", err)
	}
}

func TestText(t *testing.T) {
	t.Parallel()

	if got, err := Text("The Cord of Life"); err != nil || got != "The Cord of Life" {
		t.Fatalf("Text() = %q, %v", got, err)
	}
	if got, err := Text(""); err != nil || got != "" {
		t.Fatalf("Text(\"\") = %q, %v, want empty string", got, err)
	}
	if _, err := Text(NullSentinel); !errors.Is(err, ErrMalformedField) {
		t.Fatalf("Text(sentinel) error = %v, want ErrMalformedField", err)
	}
}

func TestOptionalString(t *testing.T) {
	t.Parallel()

	if got := OptionalString(NullSentinel); got != nil {
		t.Fatalf("OptionalString(sentinel) = %q, want nil", *got)
	}
	for _, in := range []string{"", " padded ", "GB", `"quoted"`} {
		got := OptionalString(in)
		if got == nil || *got != in {
			t.Fatalf("OptionalString(%q) = %v, want identity", in, got)
		}
	}
}

func TestList(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want []string
	}{
		{in: "", want: []string{}},
		{in: NullSentinel, want: []string{}},
		{in: "Crime,Drama,Short", want: []string{"Crime", "Drama", "Short"}},
		{in: "a, b", want: []string{"a", " b"}},
		{in: "x,x", want: []string{"x", "x"}},
		{in: "solo", want: []string{"solo"}},
	}
	for _, tt := range tests {
		got := List(tt.in)
		if got == nil {
			t.Fatalf("List(%q) = nil, want non-nil", tt.in)
		}
		if diff := cmp.Diff(tt.want, got); diff != "" {
			t.Fatalf("List(%q) mismatch (-want +got):\n%s", tt.in, diff)
		}
	}
}

func TestOptionalList(t *testing.T) {
	t.Parallel()

	if got := OptionalList(""); got != nil {
		t.Fatalf("OptionalList(\"\") = %#v, want nil", got)
	}
	if got := OptionalList(NullSentinel); got != nil {
		t.Fatalf("OptionalList(sentinel) = %#v, want nil", got)
	}
	if diff := cmp.Diff([]string{"new title"}, OptionalList("new title")); diff != "" {
		t.Fatalf("OptionalList mismatch (-want +got):\n%s", diff)
	}
}

func FuzzList(f *testing.F) {
	for _, s := range []string{"", NullSentinel, "a,b", ",,", "tt0076538,tt0069113"} {
		f.Add(s)
	}
	f.Fuzz(func(t *testing.T, s string) {
		got := List(s)
		if s == "" || s == NullSentinel {
			if len(got) != 0 {
				t.Fatalf("List(%q) = %q, want empty", s, got)
			}
			return
		}
		if joined := strings.Join(got, ListSeparator); joined != s {
			t.Fatalf("Join(List(%q)) = %q", s, joined)
		}
	})
}

func FuzzOptionalInt(f *testing.F) {
	for _, s := range []string{"", NullSentinel, "0", "-1", "2006", "1e3"} {
		f.Add(s)
	}
	f.Fuzz(func(t *testing.T, s string) {
		got, err := OptionalInt(s)
		if err != nil {
			if !errors.Is(err, ErrMalformedField) {
				t.Fatalf("OptionalInt(%q) error = %v, want ErrMalformedField", s, err)
			}
			return
		}
		if s == NullSentinel && got != nil {
			t.Fatalf("OptionalInt(sentinel) = %d, want nil", *got)
		}
	})
}
