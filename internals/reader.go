package internals

import "os"

// CodeReader is where the compiled text comes from. The display name is
// what diagnostics print in their header.
type CodeReader interface {
	Code() (string, error)
	Filename() string
}

type FileReader struct {
	path string
}

func NewFileReader(path string) *FileReader {
	return &FileReader{path: path}
}

func (r *FileReader) Code() (string, error) {
	content, err := os.ReadFile(r.path)
	if err != nil {
		return "", err
	}
	return string(content), nil
}

func (r *FileReader) Filename() string {
	return r.path
}

// StringReader serves code held in memory, e.g. from the repl or -e.
type StringReader struct {
	code string
}

func NewStringReader(code string) *StringReader {
	return &StringReader{code: code}
}

func (r *StringReader) Code() (string, error) {
	return r.code, nil
}

func (r *StringReader) Filename() string {
	return "<code>"
}
