package validator

import (
	"testing"
)

func TestIsEmpty(t *testing.T) {
	cases := []struct {
		input string
		want  bool
	}{
		{"", true},
		{"   ", true},
		{"abc", false},
		{" abc ", false},
	}
	for _, c := range cases {
		got := IsEmpty(c.input)
		if got != c.want {
			t.Errorf("IsEmpty(%q) = %v, want %v", c.input, got, c.want)
		}
	}
}

func TestIsValidDate(t *testing.T) {
	valid := []string{"2023-01-01", "2000-12-31"}
	invalid := []string{"2023-13-01", "2023-01-32", "2023/01/01", "01-01-2023", ""}
	for _, s := range valid {
		_, ok := IsValidDate(s)
		if !ok {
			t.Errorf("IsValidDate(%q) = false, want true", s)
		}
	}
	for _, s := range invalid {
		_, ok := IsValidDate(s)
		if ok {
			t.Errorf("IsValidDate(%q) = true, want false", s)
		}
	}
}

func TestParseOptionalInt(t *testing.T) {
	v, err := ParseOptionalInt("")
	if err != nil || v != nil {
		t.Errorf("ParseOptionalInt(\"\") = %v, %v, want nil, nil", v, err)
	}

	v, err = ParseOptionalInt(" 7 ")
	if err != nil || v == nil || *v != 7 {
		t.Errorf("ParseOptionalInt(\" 7 \") = %v, %v, want 7", v, err)
	}

	if _, err := ParseOptionalInt("seven"); err == nil {
		t.Errorf("ParseOptionalInt(\"seven\") returned no error")
	}
}

func TestValidationErrors(t *testing.T) {
	errs := ValidationErrors{
		{Field: "month", Message: "month must be between 1 and 12"},
		{Field: "year", Message: "year is required"},
	}
	if got := errs.Error(); got != "month: month must be between 1 and 12; year: year is required" {
		t.Errorf("Error() = %q", got)
	}
	m := errs.ToMap()
	if len(m) != 2 || m["year"] != "year is required" {
		t.Errorf("ToMap() = %v", m)
	}
}
