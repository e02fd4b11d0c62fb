package convert

import (
	"archive/zip"
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/h2non/filetype"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/encoding/unicode/utf32"
	"golang.org/x/text/transform"
)

// srcEncoding is the encoding of a source document as determined by its BOM.
type srcEncoding int

const (
	encUnknown srcEncoding = iota
	encUTF8
	encUTF16BigEndian
	encUTF16LittleEndian
	encUTF32BigEndian
	encUTF32LittleEndian
)

// maxDetectionBytes is how much of a file we look at to decide what it is.
const maxDetectionBytes = 512

func isUTF8BOM3(buf []byte) bool {
	return len(buf) >= 3 && buf[0] == 0xEF && buf[1] == 0xBB && buf[2] == 0xBF
}

func isUTF16BigEndianBOM2(buf []byte) bool {
	return len(buf) >= 2 && buf[0] == 0xFE && buf[1] == 0xFF
}

func isUTF16LittleEndianBOM2(buf []byte) bool {
	return len(buf) >= 2 && buf[0] == 0xFF && buf[1] == 0xFE
}

func isUTF32BigEndianBOM4(buf []byte) bool {
	return len(buf) >= 4 && buf[0] == 0x00 && buf[1] == 0x00 && buf[2] == 0xFE && buf[3] == 0xFF
}

func isUTF32LittleEndianBOM4(buf []byte) bool {
	return len(buf) >= 4 && buf[0] == 0xFF && buf[1] == 0xFE && buf[2] == 0x00 && buf[3] == 0x00
}

// detectUTF sniffs the BOM at the beginning of buf. UTF-32 LE must be checked
// before UTF-16 LE since the former starts with the latter's mark.
func detectUTF(buf []byte) srcEncoding {
	switch {
	case isUTF32BigEndianBOM4(buf):
		return encUTF32BigEndian
	case isUTF32LittleEndianBOM4(buf):
		return encUTF32LittleEndian
	case isUTF16BigEndianBOM2(buf):
		return encUTF16BigEndian
	case isUTF16LittleEndianBOM2(buf):
		return encUTF16LittleEndian
	case isUTF8BOM3(buf):
		return encUTF8
	default:
		return encUnknown
	}
}

// selectReader wraps r with a decoder for the detected encoding so downstream
// parsing always sees UTF-8. For encUnknown r is returned as is and any
// declared charset is left to the document reader.
func selectReader(r io.Reader, enc srcEncoding) io.Reader {
	switch enc {
	case encUTF8:
		return transform.NewReader(r, unicode.UTF8BOM.NewDecoder())
	case encUTF16BigEndian:
		return transform.NewReader(r, unicode.UTF16(unicode.BigEndian, unicode.UseBOM).NewDecoder())
	case encUTF16LittleEndian:
		return transform.NewReader(r, unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewDecoder())
	case encUTF32BigEndian:
		return transform.NewReader(r, utf32.UTF32(utf32.BigEndian, utf32.UseBOM).NewDecoder())
	case encUTF32LittleEndian:
		return transform.NewReader(r, utf32.UTF32(utf32.LittleEndian, utf32.UseBOM).NewDecoder())
	default:
		return r
	}
}

// isArchiveFile reports whether the file at filePath is a zip archive. The
// extension has to match, content sniffing alone is not enough - we do not
// want to treat docx and friends as bundles.
func isArchiveFile(filePath string) (bool, error) {
	if !strings.EqualFold(filepath.Ext(filePath), ".zip") {
		return false, nil
	}

	f, err := os.Open(filePath)
	if err != nil {
		return false, err
	}
	defer f.Close()

	buf := make([]byte, maxDetectionBytes)
	n, err := f.Read(buf)
	if err != nil && err != io.EOF {
		return false, err
	}

	kind, err := filetype.Match(buf[:n])
	if err != nil {
		return false, nil
	}
	return kind.Extension == "zip", nil
}

// looksLikeDocument reports whether decoded header bytes plausibly begin a
// composable markup document.
func looksLikeDocument(header []byte) bool {
	s := strings.TrimLeftFunc(string(header), func(r rune) bool {
		return r == '\uFEFF' || r == ' ' || r == '\t' || r == '\r' || r == '\n'
	})
	if !strings.HasPrefix(s, "<") {
		return false
	}
	return strings.Contains(s, "<document")
}

func sniffDocument(r io.Reader) (bool, srcEncoding, error) {
	buf := make([]byte, maxDetectionBytes)
	n, err := io.ReadFull(r, buf)
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		return false, encUnknown, err
	}
	buf = buf[:n]

	enc := detectUTF(buf)
	header, err := io.ReadAll(selectReader(bytes.NewReader(buf), enc))
	if err != nil {
		// undecodable under the detected encoding - not our document
		return false, encUnknown, nil
	}
	if !looksLikeDocument(header) {
		return false, encUnknown, nil
	}
	return true, enc, nil
}

// isBookFile reports whether the file at filePath is a source document and
// what encoding its BOM declares.
func isBookFile(filePath string) (bool, srcEncoding, error) {
	if !strings.EqualFold(filepath.Ext(filePath), ".xml") {
		return false, encUnknown, nil
	}

	f, err := os.Open(filePath)
	if err != nil {
		return false, encUnknown, err
	}
	defer f.Close()

	return sniffDocument(f)
}

// isBookInArchive is isBookFile for a zip bundle member.
func isBookInArchive(f *zip.File) (bool, srcEncoding, error) {
	if !strings.EqualFold(filepath.Ext(f.Name), ".xml") {
		return false, encUnknown, nil
	}

	r, err := f.Open()
	if err != nil {
		return false, encUnknown, err
	}
	defer r.Close()

	return sniffDocument(r)
}
