package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStemAndExt(t *testing.T) {
	tests := []struct {
		name     string
		path     string
		wantStem string
		wantExt  string
	}{
		{
			name:     "app.jar",
			path:     "/path/to/app.jar",
			wantStem: "app",
			wantExt:  ".jar",
		},
		{
			name:     "relative",
			path:     "archive.zip",
			wantStem: "archive",
			wantExt:  ".zip",
		},
		{
			// only the last extension counts.
			name:     "test.tar.gz",
			path:     "/path/to/test.tar.gz",
			wantStem: "test.tar",
			wantExt:  ".gz",
		},
		{
			name:     "extension too long",
			path:     "/path/to/test.jfif-tbnl",
			wantStem: "test.jfif-tbnl",
			wantExt:  "",
		},
		{
			name:     "hidden file",
			path:     "/path/to/.rezip",
			wantStem: ".rezip",
			wantExt:  "",
		},
		{
			name:     "no extension",
			path:     "ab",
			wantStem: "ab",
			wantExt:  "",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotStem, gotExt := StemAndExt(tt.path)
			assert.Equalf(t, tt.wantStem, gotStem, "StemAndExt() gotStem = %v, want %v", gotStem, tt.wantStem)
			assert.Equalf(t, tt.wantExt, gotExt, "StemAndExt() gotExt = %v, want %v", gotExt, tt.wantExt)
		})
	}
}

func TestTruncateRightWithSuffix(t *testing.T) {
	tests := []struct {
		text, suffix string
		n            int
		want         string
	}{
		{text: "hello", n: 10, suffix: "...", want: "hello"},
		{text: "hello", n: 5, suffix: "...", want: "hello"},
		{text: "hello, world", n: 5, suffix: "...", want: "hello..."},
		{text: "héllo", n: 2, suffix: "~", want: "hé~"},
		{text: "hello", n: 0, suffix: "...", want: "..."},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			assert.Equal(t, tt.want, TruncateRightWithSuffix(tt.text, tt.n, tt.suffix))
		})
	}
}
