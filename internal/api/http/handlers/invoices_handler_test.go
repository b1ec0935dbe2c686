package handlers

import "testing"

func TestContentTypeFor(t *testing.T) {
	cases := []struct {
		ext  string
		want string
	}{
		{".pdf", "application/pdf"},
		{".png", "image/png"},
		{"", "application/octet-stream"},
		{".bin2", "application/octet-stream"},
	}
	for _, tc := range cases {
		if got := contentTypeFor(tc.ext); got != tc.want {
			t.Errorf("contentTypeFor(%q) = %q, want %q", tc.ext, got, tc.want)
		}
	}
}
