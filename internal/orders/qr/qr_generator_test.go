package qr

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestEncryptDecryptRoundTrip(t *testing.T) {
	gen := NewQRGenerator("test-secret")
	issued := time.Date(2022, 9, 2, 9, 0, 0, 0, time.UTC)

	claim := TicketClaim{
		OrderReference: "c6a1f2aa-0000-4000-8000-000000000001",
		MovieSession:   1,
		Row:            3,
		Seat:           9,
		IssuedAt:       issued,
	}

	encrypted, err := encryptAES(mustJSON(t, claim), gen.secret)
	assert.NoError(t, err)
	assert.NotEmpty(t, encrypted)

	decrypted, err := gen.DecryptClaim(encrypted)
	assert.NoError(t, err)
	assert.Equal(t, claim.OrderReference, decrypted.OrderReference)
	assert.Equal(t, claim.MovieSession, decrypted.MovieSession)
	assert.Equal(t, claim.Row, decrypted.Row)
	assert.Equal(t, claim.Seat, decrypted.Seat)
	assert.True(t, claim.IssuedAt.Equal(decrypted.IssuedAt))
}

func TestDecryptWithWrongSecret(t *testing.T) {
	gen := NewQRGenerator("test-secret")
	other := NewQRGenerator("different-secret")

	encrypted, err := encryptAES(mustJSON(t, TicketClaim{MovieSession: 1, Row: 1, Seat: 1}), gen.secret)
	assert.NoError(t, err)

	// With the wrong key the CFB stream produces garbage, not valid JSON.
	_, err = other.DecryptClaim(encrypted)
	assert.Error(t, err)
}

func TestDecryptRejectsShortCiphertext(t *testing.T) {
	gen := NewQRGenerator("test-secret")

	_, err := gen.DecryptClaim("dG9vc2hvcnQ=")
	assert.Error(t, err)
}

func TestGenerateEncryptedQR(t *testing.T) {
	gen := NewQRGenerator("test-secret")

	png, err := gen.GenerateEncryptedQR(TicketClaim{
		OrderReference: "c6a1f2aa-0000-4000-8000-000000000001",
		MovieSession:   1,
		Row:            3,
		Seat:           9,
		IssuedAt:       time.Now(),
	})

	assert.NoError(t, err)
	assert.NotEmpty(t, png)
	assert.True(t, bytes.HasPrefix(png, []byte("\x89PNG")))
}

func TestEncryptionIsSalted(t *testing.T) {
	gen := NewQRGenerator("test-secret")
	payload := mustJSON(t, TicketClaim{MovieSession: 1, Row: 1, Seat: 1})

	first, err := encryptAES(payload, gen.secret)
	assert.NoError(t, err)
	second, err := encryptAES(payload, gen.secret)
	assert.NoError(t, err)

	// A fresh IV per encryption keeps identical claims from producing
	// identical ciphertexts.
	assert.NotEqual(t, first, second)
}

func mustJSON(t *testing.T, claim TicketClaim) []byte {
	t.Helper()
	data, err := json.Marshal(claim)
	assert.NoError(t, err)
	return data
}
