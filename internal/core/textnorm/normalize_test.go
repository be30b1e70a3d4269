package textnorm

import "testing"

func TestNormalizeBasic(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Привет, Мир!", "привет мир"},
		{"  Astana  ", "astana"},
		{"Нур-Султан", "нур-султан"},
		{"a\t b\n c", "a b c"},
		{"", ""},
		{"...", ""},
	}
	for _, c := range cases {
		if got := Normalize(c.in); got != c.want {
			t.Errorf("Normalize(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	inputs := []string{"Привет, Мир!", "  0,5  ", "Quick   brown FOX?!", "нур-султан"}
	for _, in := range inputs {
		once := Normalize(in)
		if twice := Normalize(once); twice != once {
			t.Errorf("Normalize not idempotent for %q: %q vs %q", in, once, twice)
		}
	}
}

func TestIsNumber(t *testing.T) {
	cases := []struct {
		in   string
		want bool
	}{
		{"10,5", true},
		{"3.14", true},
		{"1 000", true},
		{"-4", true},
		{"abc", false},
		{"1/2", false},
		{"", false},
	}
	for _, c := range cases {
		if got := IsNumber(c.in); got != c.want {
			t.Errorf("IsNumber(%q) = %v, want %v", c.in, got, c.want)
		}
	}
}

func TestNumericEqual(t *testing.T) {
	cases := []struct {
		a, b string
		want bool
	}{
		{"0,5", "0.5", true},
		{"10", "10", true},
		{"1 0", "10", true},
		{"0.50", "0.5", false},
		{"1/2", "0.5", false},
		{"abc", "abc", false},
	}
	for _, c := range cases {
		if got := NumericEqual(c.a, c.b); got != c.want {
			t.Errorf("NumericEqual(%q, %q) = %v, want %v", c.a, c.b, got, c.want)
		}
	}
}
