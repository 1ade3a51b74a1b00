package auth

import (
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestPlainIsVerbatim(t *testing.T) {
	stored, err := Plain{}.Seal("pw1")
	require.NoError(t, err)
	assert.Equal(t, "pw1", stored)
	assert.True(t, Plain{}.Match(stored, "pw1"))
	assert.False(t, Plain{}.Match(stored, "PW1"))
	assert.False(t, Plain{}.Match(stored, "pw1 "))
}

func TestBcrypt(t *testing.T) {
	b := Bcrypt{Cost: bcrypt.MinCost}
	stored, err := b.Seal("correct horse")
	require.NoError(t, err)
	assert.NotEqual(t, "correct horse", stored)
	assert.True(t, b.Match(stored, "correct horse"))
	assert.False(t, b.Match(stored, "wrong"))
	assert.False(t, b.Match("not a hash", "not a hash"))
}

func TestCheckPassword(t *testing.T) {
	hash, err := Bcrypt{}.Seal("testpass")
	require.NoError(t, err)
	assert.True(t, CheckPassword("testpass", hash))
	assert.False(t, CheckPassword("other", hash))
}

func TestParseMode(t *testing.T) {
	p, err := ParseMode("")
	require.NoError(t, err)
	assert.IsType(t, Plain{}, p)

	p, err = ParseMode("BCRYPT")
	require.NoError(t, err)
	assert.IsType(t, Bcrypt{}, p)

	_, err = ParseMode("md5")
	assert.Error(t, err)
}

func TestCheckStrength(t *testing.T) {
	tests := []struct {
		password  string
		ok        bool
		satisfied int
	}{
		{"", false, 0},
		{"abc", false, 1},
		{"abcdefgh", false, 2},
		{"abcdefg1", false, 3},
		{"Abcdefg1", true, 4},
		{"Abcdefg1!", true, 5},
		{"Abcdefgh123!", true, 6},
		{"Ab1!", false, 4},
	}
	for _, tt := range tests {
		t.Run(tt.password, func(t *testing.T) {
			s := CheckStrength(tt.password)
			assert.Equal(t, tt.ok, s.OK)
			assert.Equal(t, tt.satisfied, s.Satisfied)
			assert.Equal(t, 6, s.Total)
			assert.NotEmpty(t, s.Message)
		})
	}
}

func TestCheckStrengthMessage(t *testing.T) {
	s := CheckStrength("abcdefgh")
	assert.Contains(t, s.Message, "add a digit")
	assert.Contains(t, s.Message, "add an uppercase letter")

	assert.Equal(t, "strong password", CheckStrength("Abcdefgh123!").Message)
}

func TestReadPasswordFromPipe(t *testing.T) {
	pw, err := ReadPassword(strings.NewReader("s3cret\nignored\n"))
	require.NoError(t, err)
	assert.Equal(t, "s3cret", pw)

	_, err = ReadPassword(strings.NewReader(""))
	assert.ErrorIs(t, err, io.EOF)
}
