package textdecode

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecode(t *testing.T) {
	tests := []struct {
		name     string
		data     []byte
		wantText string
		wantEnc  string
	}{
		{
			name:     "plain utf-8",
			data:     []byte("SW1#show clock\n"),
			wantText: "SW1#show clock\n",
			wantEnc:  "utf-8",
		},
		{
			name:     "utf-8 with BOM",
			data:     []byte("\xef\xbb\xbfSW1#show clock"),
			wantText: "SW1#show clock",
			wantEnc:  "utf-8",
		},
		{
			name:     "utf-16 little endian with BOM",
			data:     []byte{0xff, 0xfe, 'S', 0, 'W', 0, '1', 0, '#', 0},
			wantText: "SW1#",
			wantEnc:  "utf-16",
		},
		{
			name:     "utf-16 big endian with BOM",
			data:     []byte{0xfe, 0xff, 0, 'O', 0, 'K'},
			wantText: "OK",
			wantEnc:  "utf-16",
		},
		{
			name:     "thai windows-874",
			data:     []byte{'h', 'o', 's', 't', ' ', 0xa1},
			wantText: "host ก",
			wantEnc:  "windows-874",
		},
		{
			name:     "windows-1252 when windows-874 leaves bytes undefined",
			data:     []byte("caf\xfc"),
			wantText: "cafü",
			wantEnc:  "windows-1252",
		},
		{
			name:     "CRLF and CR normalized",
			data:     []byte("a\r\nb\rc\n"),
			wantText: "a\nb\nc\n",
			wantEnc:  "utf-8",
		},
		{
			name:     "empty input",
			data:     []byte{},
			wantText: "",
			wantEnc:  "utf-8",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Decode(tt.data)
			require.NoError(t, err)
			assert.Equal(t, tt.wantText, got.Text)
			assert.Equal(t, tt.wantEnc, got.Encoding)
		})
	}
}

func TestDecodeWith_NoCandidateAccepts(t *testing.T) {
	_, err := DecodeWith([]byte("caf\xfc"), DefaultChain[:1])

	assert.True(t, errors.Is(err, ErrUndecodable))
}

func TestDecodeReader(t *testing.T) {
	got, err := DecodeReader(strings.NewReader("line 1\r\nline 2"))

	require.NoError(t, err)
	assert.Equal(t, "line 1\nline 2", got.Text)
}
