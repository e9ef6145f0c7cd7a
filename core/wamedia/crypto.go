package wamedia

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/hmac"
	"crypto/sha256"
	"fmt"
	"io"

	"go.mau.fi/util/random"
	"golang.org/x/crypto/hkdf"
)

const mediaKeyLen = 32
const macTrailerLen = 10

// mediaKeys is the expanded key material for one media payload.
type mediaKeys struct {
	iv        []byte
	cipherKey []byte
	macKey    []byte
}

func expandMediaKey(mediaKey []byte, mt MediaType) (*mediaKeys, error) {
	expanded := make([]byte, 112)
	r := hkdf.New(sha256.New, mediaKey, nil, []byte(mt.hkdfInfo()))
	if _, err := io.ReadFull(r, expanded); err != nil {
		return nil, fmt.Errorf("failed to expand media key: %w", err)
	}
	return &mediaKeys{
		iv:        expanded[:16],
		cipherKey: expanded[16:48],
		macKey:    expanded[48:80],
	}, nil
}

// encryptResult describes the ciphertext written by encryptStream.
type encryptResult struct {
	MediaKey      []byte
	FileSHA256    []byte
	FileEncSHA256 []byte
	FileLength    uint64
	EncLength     int64
}

// encryptStream encrypts src with a freshly generated media key:
// AES-256-CBC over HKDF-derived key material, with an HMAC-SHA256 trailer
// truncated to 10 bytes covering iv+ciphertext. Plaintext and ciphertext
// SHA-256 hashes are computed in the same pass.
func encryptStream(src io.Reader, dst io.Writer, mt MediaType) (*encryptResult, error) {
	mediaKey := random.Bytes(mediaKeyLen)
	keys, err := expandMediaKey(mediaKey, mt)
	if err != nil {
		return nil, err
	}
	block, err := aes.NewCipher(keys.cipherKey)
	if err != nil {
		return nil, fmt.Errorf("failed to init media cipher: %w", err)
	}
	cbc := cipher.NewCBCEncrypter(block, keys.iv)
	mac := hmac.New(sha256.New, keys.macKey)
	mac.Write(keys.iv)
	plainHash := sha256.New()
	encHash := sha256.New()

	var plainLen uint64
	var encLen int64
	buf := make([]byte, 32*1024)
	var pending []byte
	writeEnc := func(chunk []byte) error {
		cbc.CryptBlocks(chunk, chunk)
		mac.Write(chunk)
		encHash.Write(chunk)
		n, werr := dst.Write(chunk)
		encLen += int64(n)
		return werr
	}
	for {
		n, rerr := src.Read(buf)
		if n > 0 {
			plainHash.Write(buf[:n])
			plainLen += uint64(n)
			pending = append(pending, buf[:n]...)
			if full := len(pending) / aes.BlockSize * aes.BlockSize; full > 0 {
				if err = writeEnc(pending[:full]); err != nil {
					return nil, fmt.Errorf("failed to write ciphertext: %w", err)
				}
				pending = append(pending[:0], pending[full:]...)
			}
		}
		if rerr == io.EOF {
			break
		}
		if rerr != nil {
			return nil, fmt.Errorf("failed to read media stream: %w", rerr)
		}
	}
	// PKCS#7 padding on the final partial block.
	padLen := aes.BlockSize - len(pending)%aes.BlockSize
	for i := 0; i < padLen; i++ {
		pending = append(pending, byte(padLen))
	}
	if err = writeEnc(pending); err != nil {
		return nil, fmt.Errorf("failed to write ciphertext: %w", err)
	}
	trailer := mac.Sum(nil)[:macTrailerLen]
	encHash.Write(trailer)
	n, err := dst.Write(trailer)
	if err != nil {
		return nil, fmt.Errorf("failed to write mac trailer: %w", err)
	}
	encLen += int64(n)

	return &encryptResult{
		MediaKey:      mediaKey,
		FileSHA256:    plainHash.Sum(nil),
		FileEncSHA256: encHash.Sum(nil),
		FileLength:    plainLen,
		EncLength:     encLen,
	}, nil
}

// hashStream computes the plaintext SHA-256 and length for the
// unencrypted newsletter path.
func hashStream(src io.Reader) (hash []byte, length uint64, err error) {
	h := sha256.New()
	n, err := io.Copy(h, src)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to hash media stream: %w", err)
	}
	return h.Sum(nil), uint64(n), nil
}
