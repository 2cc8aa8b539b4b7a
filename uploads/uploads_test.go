package uploads

import (
	"bytes"
	"mime/multipart"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/YNikhil188/BugCrew/models"
)

func fileHeaders(t *testing.T, names ...string) []*multipart.FileHeader {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	for _, name := range names {
		part, err := w.CreateFormFile("screenshots", name)
		if err != nil {
			t.Fatalf("create form file: %v", err)
		}
		part.Write([]byte("content of " + name))
	}
	w.Close()

	req := httptest.NewRequest("POST", "/", &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	if err := req.ParseMultipartForm(1 << 20); err != nil {
		t.Fatalf("parse form: %v", err)
	}
	return req.MultipartForm.File["screenshots"]
}

func TestSaveStoresUniqueNames(t *testing.T) {
	s, err := New(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	names, err := s.Save(fileHeaders(t, "crash.png", "crash.png"), 5)
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if len(names) != 2 || names[0] == names[1] {
		t.Fatalf("names = %v, want two distinct", names)
	}
	for _, name := range names {
		if !strings.HasSuffix(name, ".png") {
			t.Errorf("name %q lost its extension", name)
		}
		path, ok := s.Path(name)
		if !ok {
			t.Fatalf("path refused for %q", name)
		}
		data, err := os.ReadFile(path)
		if err != nil || string(data) != "content of crash.png" {
			t.Errorf("stored %q = %q, %v", name, data, err)
		}
	}
}

func TestSaveRejectsTooManyFiles(t *testing.T) {
	s, _ := New(t.TempDir())
	_, err := s.Save(fileHeaders(t, "a.png", "b.png", "c.png", "d.png"), 3)
	if models.ErrorCode(err) != models.ErrorCodeValidation {
		t.Fatalf("err = %v, want validation", err)
	}
}

func TestSaveRejectsTypeAndCleansUp(t *testing.T) {
	dir := t.TempDir()
	s, _ := New(dir)
	_, err := s.Save(fileHeaders(t, "ok.png", "run.exe"), 5)
	if models.ErrorCode(err) != models.ErrorCodeValidation {
		t.Fatalf("err = %v, want validation", err)
	}
	entries, _ := os.ReadDir(dir)
	if len(entries) != 0 {
		t.Fatalf("leftover files: %d", len(entries))
	}
}

func TestPathRefusesTraversal(t *testing.T) {
	s, _ := New(t.TempDir())
	for _, name := range []string{"", "..", "../etc/passwd", "a/b.png"} {
		if _, ok := s.Path(name); ok {
			t.Errorf("Path(%q) accepted", name)
		}
	}
}
