package convert

import (
	"archive/zip"
	"bytes"
	"os"
	"path/filepath"
	"testing"
)

// TestIsArchiveFile tests archive file detection
func TestIsArchiveFile(t *testing.T) {
	tmpDir := t.TempDir()

	t.Run("non-zip extension", func(t *testing.T) {
		filePath := filepath.Join(tmpDir, "test.txt")
		if err := os.WriteFile(filePath, []byte("not a zip"), 0644); err != nil {
			t.Fatalf("Failed to create test file: %v", err)
		}
		got, err := isArchiveFile(filePath)
		if err != nil {
			t.Errorf("isArchiveFile() error = %v", err)
		}
		if got != false {
			t.Errorf("isArchiveFile() = %v, want false", got)
		}
	})

	t.Run("zip extension but invalid content", func(t *testing.T) {
		filePath := filepath.Join(tmpDir, "test.zip")
		if err := os.WriteFile(filePath, []byte("not a real zip file"), 0644); err != nil {
			t.Fatalf("Failed to create test file: %v", err)
		}
		got, err := isArchiveFile(filePath)
		if err != nil {
			t.Errorf("isArchiveFile() error = %v", err)
		}
		if got != false {
			t.Errorf("isArchiveFile() = %v, want false", got)
		}
	})

	t.Run("valid zip file", func(t *testing.T) {
		filePath := filepath.Join(tmpDir, "test2.zip")
		zipFile, err := os.Create(filePath)
		if err != nil {
			t.Fatalf("Failed to create zip file: %v", err)
		}
		w := zip.NewWriter(zipFile)
		f, err := w.Create("test.txt")
		if err != nil {
			t.Fatalf("Failed to create file in zip: %v", err)
		}
		content := make([]byte, 300)
		f.Write(content)
		w.Close()
		zipFile.Close()

		got, err := isArchiveFile(filePath)
		if err != nil {
			t.Errorf("isArchiveFile() error = %v", err)
		}
		if !got {
			t.Error("isArchiveFile() = false, want true")
		}
	})
}

// TestIsArchiveFile_NonExistent tests with non-existent file
func TestIsArchiveFile_NonExistent(t *testing.T) {
	_, err := isArchiveFile("/nonexistent/file.zip")
	if err == nil {
		t.Error("Expected error for non-existent file, got nil")
	}
}

// TestDetectUTF tests UTF encoding detection
func TestDetectUTF(t *testing.T) {
	tests := []struct {
		name string
		buf  []byte
		want srcEncoding
	}{
		{
			name: "UTF-8 BOM",
			buf:  []byte{0xEF, 0xBB, 0xBF, 0x00},
			want: encUTF8,
		},
		{
			name: "UTF-16 Big Endian BOM",
			buf:  []byte{0xFE, 0xFF, 0x00, 0x00},
			want: encUTF16BigEndian,
		},
		{
			name: "UTF-16 Little Endian BOM",
			buf:  []byte{0xFF, 0xFE, 0x01, 0x00}, // Different from UTF-32LE
			want: encUTF16LittleEndian,
		},
		{
			name: "UTF-32 Big Endian BOM",
			buf:  []byte{0x00, 0x00, 0xFE, 0xFF},
			want: encUTF32BigEndian,
		},
		{
			name: "UTF-32 Little Endian BOM",
			buf:  []byte{0xFF, 0xFE, 0x00, 0x00},
			want: encUTF32LittleEndian,
		},
		{
			name: "No BOM",
			buf:  []byte{0x00, 0x01, 0x02, 0x03},
			want: encUnknown,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := detectUTF(tt.buf)
			if got != tt.want {
				t.Errorf("detectUTF() = %v, want %v", got, tt.want)
			}
		})
	}
}

// TestBOMDetectionFunctions tests individual BOM detection functions
func TestBOMDetectionFunctions(t *testing.T) {
	t.Run("isUTF8BOM3", func(t *testing.T) {
		if !isUTF8BOM3([]byte{0xEF, 0xBB, 0xBF}) {
			t.Error("Expected true for UTF-8 BOM")
		}
		if isUTF8BOM3([]byte{0x00, 0x00, 0x00}) {
			t.Error("Expected false for non-BOM")
		}
	})

	t.Run("isUTF16BigEndianBOM2", func(t *testing.T) {
		if !isUTF16BigEndianBOM2([]byte{0xFE, 0xFF}) {
			t.Error("Expected true for UTF-16 BE BOM")
		}
		if isUTF16BigEndianBOM2([]byte{0xFF, 0xFE}) {
			t.Error("Expected false for UTF-16 LE BOM")
		}
	})

	t.Run("isUTF16LittleEndianBOM2", func(t *testing.T) {
		if !isUTF16LittleEndianBOM2([]byte{0xFF, 0xFE}) {
			t.Error("Expected true for UTF-16 LE BOM")
		}
		if isUTF16LittleEndianBOM2([]byte{0xFE, 0xFF}) {
			t.Error("Expected false for UTF-16 BE BOM")
		}
	})

	t.Run("isUTF32BigEndianBOM4", func(t *testing.T) {
		if !isUTF32BigEndianBOM4([]byte{0x00, 0x00, 0xFE, 0xFF}) {
			t.Error("Expected true for UTF-32 BE BOM")
		}
		if isUTF32BigEndianBOM4([]byte{0xFF, 0xFE, 0x00, 0x00}) {
			t.Error("Expected false for UTF-32 LE BOM")
		}
	})

	t.Run("isUTF32LittleEndianBOM4", func(t *testing.T) {
		if !isUTF32LittleEndianBOM4([]byte{0xFF, 0xFE, 0x00, 0x00}) {
			t.Error("Expected true for UTF-32 LE BOM")
		}
		if isUTF32LittleEndianBOM4([]byte{0x00, 0x00, 0xFE, 0xFF}) {
			t.Error("Expected false for UTF-32 BE BOM")
		}
	})
}

// TestIsBookFile tests source document detection
func TestIsBookFile(t *testing.T) {
	tmpDir := t.TempDir()

	docContent := []byte(`<?xml version="1.0" encoding="UTF-8"?>
<document id="0191b2c0-0000-7000-8000-000000000000" lang="en" title="Test">
<body><paragraph>Content</paragraph></body>
</document>`)

	tests := []struct {
		name     string
		filename string
		content  []byte
		wantBook bool
		wantEnc  srcEncoding
		wantErr  bool
	}{
		{
			name:     "valid document",
			filename: "test.xml",
			content:  docContent,
			wantBook: true,
			wantEnc:  encUnknown,
			wantErr:  false,
		},
		{
			name:     "document with UTF-8 BOM",
			filename: "test-utf8.xml",
			content:  append([]byte{0xEF, 0xBB, 0xBF}, docContent...),
			wantBook: true,
			wantEnc:  encUTF8,
			wantErr:  false,
		},
		{
			name:     "wrong extension",
			filename: "test.txt",
			content:  docContent,
			wantBook: false,
			wantEnc:  encUnknown,
			wantErr:  false,
		},
		{
			name:     "xml extension but not a document",
			filename: "other.xml",
			content:  []byte("this is not markup"),
			wantBook: false,
			wantEnc:  encUnknown,
			wantErr:  false,
		},
		{
			name:     "uppercase extension",
			filename: "test.XML",
			content:  docContent,
			wantBook: true,
			wantEnc:  encUnknown,
			wantErr:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			filePath := filepath.Join(tmpDir, tt.filename)
			if err := os.WriteFile(filePath, tt.content, 0644); err != nil {
				t.Fatalf("Failed to create test file: %v", err)
			}

			gotBook, gotEnc, err := isBookFile(filePath)
			if (err != nil) != tt.wantErr {
				t.Errorf("isBookFile() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if gotBook != tt.wantBook {
				t.Errorf("isBookFile() book = %v, want %v", gotBook, tt.wantBook)
			}
			if gotEnc != tt.wantEnc {
				t.Errorf("isBookFile() encoding = %v, want %v", gotEnc, tt.wantEnc)
			}
		})
	}
}

// TestIsBookFile_NonExistent tests with non-existent file
func TestIsBookFile_NonExistent(t *testing.T) {
	_, _, err := isBookFile("/nonexistent/file.xml")
	if err == nil {
		t.Error("Expected error for non-existent file, got nil")
	}
}

// TestIsBookInArchive tests document detection inside a zip bundle
func TestIsBookInArchive(t *testing.T) {
	tmpDir := t.TempDir()
	zipPath := filepath.Join(tmpDir, "test.zip")

	// Content long enough to fill the detection window
	docBase := `<?xml version="1.0" encoding="UTF-8"?>
<document id="0191b2c0-0000-7000-8000-000000000000" lang="en" title="Test Document Title">
<body><paragraph>This is test content that needs to be long enough for proper detection. `

	padding := make([]byte, 512-len(docBase)-len("</paragraph></body></document>"))
	for i := range padding {
		padding[i] = byte('A' + (i % 26))
	}
	docContent := []byte(docBase + string(padding) + "</paragraph></body></document>")

	zipFile, err := os.Create(zipPath)
	if err != nil {
		t.Fatalf("Failed to create zip file: %v", err)
	}

	w := zip.NewWriter(zipFile)

	f1, err := w.CreateHeader(&zip.FileHeader{
		Name:   "test.xml",
		Method: zip.Store,
	})
	if err != nil {
		t.Fatalf("Failed to create file in zip: %v", err)
	}
	if _, err := f1.Write(docContent); err != nil {
		t.Fatalf("Failed to write to zip: %v", err)
	}

	f2, err := w.CreateHeader(&zip.FileHeader{
		Name:   "test.txt",
		Method: zip.Store,
	})
	if err != nil {
		t.Fatalf("Failed to create txt file in zip: %v", err)
	}
	if _, err := f2.Write([]byte("not a document")); err != nil {
		t.Fatalf("Failed to write txt to zip: %v", err)
	}

	f3, err := w.CreateHeader(&zip.FileHeader{
		Name:   "test-bom.xml",
		Method: zip.Store,
	})
	if err != nil {
		t.Fatalf("Failed to create BOM file in zip: %v", err)
	}
	if _, err := f3.Write(append([]byte{0xEF, 0xBB, 0xBF}, docContent...)); err != nil {
		t.Fatalf("Failed to write BOM file to zip: %v", err)
	}

	w.Close()
	zipFile.Close()

	r, err := zip.OpenReader(zipPath)
	if err != nil {
		t.Fatalf("Failed to open zip: %v", err)
	}
	defer r.Close()

	tests := []struct {
		name     string
		fileIdx  int
		wantBook bool
		wantEnc  srcEncoding
	}{
		{
			name:     "document in archive",
			fileIdx:  0,
			wantBook: true,
			wantEnc:  encUnknown,
		},
		{
			name:     "non-document in archive",
			fileIdx:  1,
			wantBook: false,
			wantEnc:  encUnknown,
		},
		{
			name:     "document with BOM in archive",
			fileIdx:  2,
			wantBook: true,
			wantEnc:  encUTF8,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotBook, gotEnc, err := isBookInArchive(r.File[tt.fileIdx])
			if err != nil {
				t.Errorf("isBookInArchive() error = %v", err)
				return
			}
			if gotBook != tt.wantBook {
				t.Errorf("isBookInArchive() book = %v, want %v", gotBook, tt.wantBook)
			}
			if gotEnc != tt.wantEnc {
				t.Errorf("isBookInArchive() encoding = %v, want %v", gotEnc, tt.wantEnc)
			}
		})
	}
}

// TestSelectReader tests reader selection for different encodings
func TestSelectReader(t *testing.T) {
	tests := []srcEncoding{
		encUnknown,
		encUTF8,
		encUTF16BigEndian,
		encUTF16LittleEndian,
		encUTF32BigEndian,
		encUTF32LittleEndian,
	}

	for i, enc := range tests {
		t.Run(string(rune('0'+i)), func(t *testing.T) {
			result := selectReader(bytes.NewReader([]byte("test data")), enc)
			if result == nil {
				t.Error("selectReader() returned nil")
			}
		})
	}

	t.Run("UTF-16 LE round trip", func(t *testing.T) {
		src := []byte{0xFF, 0xFE, 't', 0, 'e', 0, 's', 0, 't', 0}
		r := selectReader(bytes.NewReader(src), detectUTF(src))
		buf := new(bytes.Buffer)
		if _, err := buf.ReadFrom(r); err != nil {
			t.Fatalf("read failed: %v", err)
		}
		if buf.String() != "test" {
			t.Errorf("decoded %q, want %q", buf.String(), "test")
		}
	})
}
