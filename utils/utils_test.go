package utils

import (
	"encoding/base64"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("correct horse")
	require.NoError(t, err)
	assert.NotEqual(t, "correct horse", hash)
	assert.True(t, CheckPassword("correct horse", hash))
	assert.False(t, CheckPassword("battery staple", hash))
}

func TestJWTRoundTrip(t *testing.T) {
	token, claims, err := GenerateJWT(42, "secret", "foodgram", time.Hour)
	require.NoError(t, err)
	assert.NotEmpty(t, claims.Id)

	parsed, err := ParseJWT(token, "secret")
	require.NoError(t, err)
	assert.Equal(t, uint(42), parsed.UserID)
	assert.Equal(t, claims.Id, parsed.Id)
	assert.WithinDuration(t, time.Now().Add(time.Hour), parsed.ExpiresAtTime(), 2*time.Second)

	_, other, err := GenerateJWT(42, "secret", "foodgram", time.Hour)
	require.NoError(t, err)
	assert.NotEqual(t, claims.Id, other.Id)
}

func TestParseJWT_Rejects(t *testing.T) {
	token, _, err := GenerateJWT(1, "secret", "foodgram", time.Hour)
	require.NoError(t, err)

	_, err = ParseJWT(token, "another-secret")
	assert.ErrorIs(t, err, ErrInvalidToken)

	expired, _, err := GenerateJWT(1, "secret", "foodgram", -time.Minute)
	require.NoError(t, err)
	_, err = ParseJWT(expired, "secret")
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = ParseJWT("not.a.token", "secret")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestDecodeImageDataURI(t *testing.T) {
	payload := base64.StdEncoding.EncodeToString([]byte("fake-png-bytes"))

	data, ext, contentType, err := DecodeImageDataURI("data:image/png;base64," + payload)
	require.NoError(t, err)
	assert.Equal(t, []byte("fake-png-bytes"), data)
	assert.Equal(t, "png", ext)
	assert.Equal(t, "image/png", contentType)

	_, ext, _, err = DecodeImageDataURI("data:image/jpeg;base64," + payload)
	require.NoError(t, err)
	assert.Equal(t, "jpg", ext)

	for _, bad := range []string{
		"",
		"http://example.com/a.png",
		"data:text/plain;base64," + payload,
		"data:image/bmp;base64," + payload,
		"data:image/png;base64,!!!",
		"data:image/png;base64,",
	} {
		_, _, _, err := DecodeImageDataURI(bad)
		assert.ErrorIs(t, err, ErrInvalidImage, bad)
	}
}

type signUp struct {
	Email    string `json:"email" validate:"required,email,max=254"`
	Username string `json:"username" validate:"required,max=150,username"`
	Slug     string `json:"slug" validate:"omitempty,slug"`
	Color    string `json:"color" validate:"omitempty,hexcolor"`
}

func TestValidatorRules(t *testing.T) {
	v := NewValidator()

	assert.NoError(t, v.Struct(signUp{Email: "a@b.co", Username: "chef.bob+1", Slug: "breakfast", Color: "#E26C2D"}))

	err := v.Struct(signUp{Email: "nope", Username: "bad name!", Slug: "bad slug", Color: "red"})
	require.Error(t, err)
	msgs := ValidationMessages(err)
	assert.Contains(t, msgs, "email")
	assert.Contains(t, msgs, "username")
	assert.Contains(t, msgs, "slug")
	assert.Contains(t, msgs, "color")

	err = v.Struct(signUp{Username: strings.Repeat("a", 151)})
	require.Error(t, err)
	msgs = ValidationMessages(err)
	assert.Equal(t, []string{"This field is required."}, msgs["email"])
	assert.Contains(t, msgs["username"][0], "150")

	assert.Empty(t, ValidationMessages(errors.New("unexpected EOF")))
}
