package storage

import "testing"

func TestSanitizeFileName(t *testing.T) {
	cases := map[string]string{
		"plan final.pdf":     "plan-final.pdf",
		"نقشه طبقه اول.pdf":  "نقشه-طبقه-اول.pdf",
		"../../etc/passwd":   "....etcpasswd",
		"a  b   c.png":       "a-b-c.png",
		"":                   "file",
		"!!!@@@":             "file",
	}
	for in, want := range cases {
		if got := SanitizeFileName(in); got != want {
			t.Errorf("SanitizeFileName(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestSanitizeFileNameTruncatesRunes(t *testing.T) {
	long := ""
	for i := 0; i < 200; i++ {
		long += "ن"
	}
	got := SanitizeFileName(long)
	if runes := []rune(got); len(runes) != 120 {
		t.Errorf("Truncated to %d runes, want 120", len(runes))
	}
}

func TestSanitizePrefix(t *testing.T) {
	if got := SanitizePrefix("requests/../x"); got != "requests//x" {
		t.Errorf("SanitizePrefix did not strip dots: %q", got)
	}
	if got := SanitizePrefix("requests"); got != "requests" {
		t.Errorf("SanitizePrefix(requests) = %q", got)
	}
	if got := SanitizePrefix("pro jects!"); got != "projects" {
		t.Errorf("SanitizePrefix = %q", got)
	}
}

func TestIsAllowedMimeType(t *testing.T) {
	if !IsAllowedMimeType("application/pdf", RequestAllowedMimeTypes) {
		t.Error("PDF rejected for requests")
	}
	if IsAllowedMimeType("application/pdf", ProjectAllowedMimeTypes) {
		t.Error("PDF accepted for project media")
	}
	if IsAllowedMimeType("text/html", RequestAllowedMimeTypes) {
		t.Error("HTML accepted")
	}
}

func TestIsAbsoluteURL(t *testing.T) {
	if !IsAbsoluteURL("https://cdn.example.com/x.png") {
		t.Error("https URL not detected")
	}
	if IsAbsoluteURL("requests/u/x.png") {
		t.Error("Object key detected as URL")
	}
}
