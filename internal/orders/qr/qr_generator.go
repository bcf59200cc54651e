package qr

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/skip2/go-qrcode"
)

// TicketClaim is the payload baked into a ticket's QR code. Scanners decrypt
// it to verify the ticket without a database round trip.
type TicketClaim struct {
	OrderReference string    `json:"order_reference"`
	MovieSession   int64     `json:"movie_session"`
	Row            int       `json:"row"`
	Seat           int       `json:"seat"`
	IssuedAt       time.Time `json:"issued_at"`
}

type QRGenerator struct {
	secret []byte
}

func NewQRGenerator(secret string) *QRGenerator {
	hashed := sha256.Sum256([]byte(secret)) // normalize to 32 bytes
	return &QRGenerator{secret: hashed[:]}
}

// GenerateEncryptedQR renders the claim as a QR PNG whose content is the
// AES-encrypted, base64-encoded claim JSON.
func (q *QRGenerator) GenerateEncryptedQR(claim TicketClaim) ([]byte, error) {
	data, err := json.Marshal(claim)
	if err != nil {
		return nil, err
	}

	encrypted, err := encryptAES(data, q.secret)
	if err != nil {
		return nil, err
	}

	return qrcode.Encode(encrypted, qrcode.Medium, 256)
}

// DecryptClaim reverses the encryption applied by GenerateEncryptedQR, given
// the string a scanner read out of the QR code.
func (q *QRGenerator) DecryptClaim(encoded string) (*TicketClaim, error) {
	data, err := decryptAES(encoded, q.secret)
	if err != nil {
		return nil, err
	}

	var claim TicketClaim
	if err := json.Unmarshal(data, &claim); err != nil {
		return nil, fmt.Errorf("invalid ticket claim payload: %w", err)
	}
	return &claim, nil
}

func encryptAES(data []byte, key []byte) (string, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return "", err
	}

	ciphertext := make([]byte, aes.BlockSize+len(data))
	iv := ciphertext[:aes.BlockSize]
	if _, err := io.ReadFull(rand.Reader, iv); err != nil {
		return "", err
	}

	stream := cipher.NewCFBEncrypter(block, iv)
	stream.XORKeyStream(ciphertext[aes.BlockSize:], data)

	return base64.URLEncoding.EncodeToString(ciphertext), nil
}

func decryptAES(encoded string, key []byte) ([]byte, error) {
	ciphertext, err := base64.URLEncoding.DecodeString(encoded)
	if err != nil {
		return nil, err
	}
	if len(ciphertext) < aes.BlockSize {
		return nil, fmt.Errorf("ciphertext too short")
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}

	iv := ciphertext[:aes.BlockSize]
	data := make([]byte, len(ciphertext)-aes.BlockSize)
	stream := cipher.NewCFBDecrypter(block, iv)
	stream.XORKeyStream(data, ciphertext[aes.BlockSize:])

	return data, nil
}
