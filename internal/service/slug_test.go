package service

import "testing"

func TestSlugify(t *testing.T) {
	cases := []struct {
		name  string
		title string
		want  string
	}{
		{"simple", "Hello World", "hello-world"},
		{"punctuation collapses", "Go, Gin & GORM!", "go-gin-gorm"},
		{"leading and trailing noise", "  --Hello--  ", "hello"},
		{"digits kept", "Top 10 Tips", "top-10-tips"},
		{"unicode letters kept", "Go 语言入门", "go-语言入门"},
		{"only punctuation", "!!!", ""},
		{"empty", "", ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Slugify(tc.title); got != tc.want {
				t.Fatalf("Slugify(%q) = %q, want %q", tc.title, got, tc.want)
			}
		})
	}
}
