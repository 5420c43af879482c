package factory

import (
	"errors"
	"path/filepath"
	"testing"
)

func TestNewInputFileDerivesFields(t *testing.T) {
	path := writeFile(t, t.TempDir(), "text-plain.html", "<!DOCTYPE html><html><body>hi</body></html>")

	f, err := NewInputFile(InputSpec{Source: path}, nil, nil)
	if err != nil {
		t.Fatalf("NewInputFile returned error: %v", err)
	}
	if f.Source() != path {
		t.Fatalf("Source() = %q, want %q", f.Source(), path)
	}
	if f.ContentType != "text/html" {
		t.Fatalf("ContentType = %q, want text/html", f.ContentType)
	}
	if f.OutputFilename != "text-plain.html" {
		t.Fatalf("OutputFilename = %q, want raw base name", f.OutputFilename)
	}
}

func TestNewInputFileKeepsExplicitFields(t *testing.T) {
	path := writeFile(t, t.TempDir(), "page.html", "x")
	calls := 0
	sniffer := SnifferFunc(func(string) (string, error) {
		calls++
		return "text/plain", nil
	})

	f, err := NewInputFile(InputSpec{
		Source:          path,
		ContentType:     "other",
		OutputPath:      "/tmp/output_path",
		OutputFilename:  "file1",
		OutputExtension: "jpg",
		OutputType:      "jpeg",
	}, nil, sniffer)
	if err != nil {
		t.Fatalf("NewInputFile returned error: %v", err)
	}
	if calls != 0 {
		t.Fatalf("sniffer called %d times with explicit content type", calls)
	}
	if f.ContentType != "other" || f.OutputFilename != "file1" || f.OutputPath != "/tmp/output_path" {
		t.Fatalf("explicit fields not kept: %+v", f)
	}
	if f.OutputExtension != "jpg" || f.OutputType != "jpeg" {
		t.Fatalf("explicit overrides not kept: %+v", f)
	}
}

func TestNewInputFileSniffsOnce(t *testing.T) {
	path := writeFile(t, t.TempDir(), "page.html", "x")
	calls := 0
	sniffer := SnifferFunc(func(string) (string, error) {
		calls++
		return "text/html", nil
	})

	f, err := NewInputFile(InputSpec{Source: path}, nil, sniffer)
	if err != nil {
		t.Fatal(err)
	}
	f.OutputPath = "/tmp/elsewhere"
	f.OutputFilename = "renamed"
	if calls != 1 {
		t.Fatalf("sniffer called %d times, want 1", calls)
	}
	if f.ContentType != "text/html" {
		t.Fatalf("ContentType = %q", f.ContentType)
	}
}

func TestNewInputFileRejectsMissingOrNonRegular(t *testing.T) {
	dir := t.TempDir()
	for _, source := range []string{"", filepath.Join(dir, "non_existent_file.html"), dir} {
		_, err := NewInputFile(InputSpec{Source: source}, nil, fixedType)
		if !errors.Is(err, ErrNonExistentFile) {
			t.Fatalf("NewInputFile(%q) error = %v, want ErrNonExistentFile", source, err)
		}
	}
}

func TestNewInputFileSnifferFailure(t *testing.T) {
	path := writeFile(t, t.TempDir(), "page.html", "x")
	boom := errors.New("boom")
	_, err := NewInputFile(InputSpec{Source: path}, nil, SnifferFunc(func(string) (string, error) {
		return "", boom
	}))
	if !errors.Is(err, ErrUndetectableContentType) || !errors.Is(err, boom) {
		t.Fatalf("error = %v, want undetectable content type wrapping cause", err)
	}
}

func TestInputFilePassThrough(t *testing.T) {
	path := writeFile(t, t.TempDir(), "page.html", "x")
	f, err := NewInputFile(InputSpec{Source: path}, nil, fixedType)
	if err != nil {
		t.Fatal(err)
	}
	got, err := f.inputFile(nil, nil)
	if err != nil || got != f {
		t.Fatalf("pass-through returned (%p, %v), want (%p, nil)", got, err, f)
	}
}

func TestBaseMediaType(t *testing.T) {
	tests := map[string]string{
		"text/html; charset=utf-8": "text/html",
		"image/png":                "image/png",
		"broken;;":                 "broken",
	}
	for in, want := range tests {
		if got := baseMediaType(in); got != want {
			t.Fatalf("baseMediaType(%q) = %q, want %q", in, got, want)
		}
	}
}
