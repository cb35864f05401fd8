package utils

import (
	"os"
	"testing"
)

func TestMain(m *testing.M) {
	os.Setenv("JWT_SECRET", "this-is-a-test-secret-with-32-bytes!")
	os.Exit(m.Run())
}

func TestValidPassword(t *testing.T) {
	cases := []struct {
		password string
		want     bool
	}{
		{"abcdE12345!", true},
		{"newPass123!@", true},
		{"abc12345", false},    // too short, no symbol
		{"abcdefghij", false},  // no digit, no symbol
		{"1234567890!", false}, // no letter
		{"abcde12345", false},  // no symbol
		{"abcdE1234 !", false}, // space is outside the alphabet
		{"abcdE1234^!", false}, // ^ is outside the alphabet
		{"", false},
	}
	for _, c := range cases {
		if got := ValidPassword(c.password); got != c.want {
			t.Errorf("ValidPassword(%q) = %v, want %v", c.password, got, c.want)
		}
	}
}

func TestValidGender(t *testing.T) {
	if !ValidGender(GenderMale) || !ValidGender(GenderFemale) {
		t.Fatal("both accepted values must validate")
	}
	for _, s := range []string{"Other", "masculino", "", "M"} {
		if ValidGender(s) {
			t.Errorf("ValidGender(%q) must be false", s)
		}
	}
}

func TestValidEmail(t *testing.T) {
	cases := []struct {
		email string
		want  bool
	}{
		{"ana@example.com", true},
		{"a.b+tag@sub.example.org", true},
		{"not-an-email", false},
		{"Ana <ana@example.com>", false},
		{"", false},
	}
	for _, c := range cases {
		if got := ValidEmail(c.email); got != c.want {
			t.Errorf("ValidEmail(%q) = %v, want %v", c.email, got, c.want)
		}
	}
}
