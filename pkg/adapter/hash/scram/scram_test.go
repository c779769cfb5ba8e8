package scram_test

import (
	"strings"
	"testing"

	"github.com/momeni/phoenix/pkg/adapter/hash/scram"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashFormat(t *testing.T) {
	m := scram.SHA256()
	salt, err := m.NewSalt()
	require.NoError(t, err)
	h, err := m.Hash("s3cret", salt, 4096)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(h, "SCRAM-SHA-256$4096:"+salt+"$"))

	again, err := m.Hash("s3cret", salt, 4096)
	require.NoError(t, err)
	assert.Equal(t, h, again, "same inputs must hash identically")
}

func TestHashRejectsBadInput(t *testing.T) {
	m := scram.SHA1()
	_, err := m.Hash("", "", 4096)
	assert.Error(t, err)
	_, err = m.Hash("pass", "", 1000)
	assert.Error(t, err)
	_, err = m.Hash("pass", "not base64!", 4096)
	assert.Error(t, err)
}

func TestVerify(t *testing.T) {
	for _, m := range []*scram.Mechanism{scram.SHA1(), scram.SHA256()} {
		t.Run(m.Name(), func(t *testing.T) {
			h, err := m.Hash("correct horse", "", 4096)
			require.NoError(t, err)

			ok, err := m.Verify("correct horse", h)
			require.NoError(t, err)
			assert.True(t, ok)

			ok, err = m.Verify("battery staple", h)
			require.NoError(t, err)
			assert.False(t, ok)

			ok, err = m.Verify("", h)
			require.NoError(t, err)
			assert.False(t, ok)
		})
	}
}

func TestVerifyMalformed(t *testing.T) {
	m := scram.SHA256()
	other, err := scram.SHA1().Hash("pass", "", 4096)
	require.NoError(t, err)
	for _, h := range []string{
		"", "garbage", other,
		"SCRAM-SHA-256$abc:c2FsdA==$x:y",
		"SCRAM-SHA-256$4096$x:y",
	} {
		_, err := m.Verify("pass", h)
		assert.ErrorIs(t, err, scram.ErrMalformedHash, "hash: %q", h)
	}
}
