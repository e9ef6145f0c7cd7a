package wamedia

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
)

func riffWebP(chunks ...[]byte) []byte {
	var body []byte
	for _, chunk := range chunks {
		body = append(body, chunk...)
	}
	data := append([]byte("RIFF"), 0, 0, 0, 0)
	data = append(data, []byte("WEBP")...)
	data = append(data, body...)
	binary.LittleEndian.PutUint32(data[4:8], uint32(len(body)+4))
	return data
}

func chunk(fourCC string, payload []byte) []byte {
	out := append([]byte(fourCC), 0, 0, 0, 0)
	binary.LittleEndian.PutUint32(out[4:8], uint32(len(payload)))
	out = append(out, payload...)
	if len(payload)%2 == 1 {
		out = append(out, 0)
	}
	return out
}

func TestIsWebP(t *testing.T) {
	assert.True(t, IsWebP(riffWebP(chunk("VP8 ", make([]byte, 10)))))
	assert.False(t, IsWebP([]byte("RIFF....WAVE")))
	assert.False(t, IsWebP([]byte{0xFF, 0xD8, 0xFF}))
	assert.False(t, IsWebP(nil))
}

func TestIsAnimatedWebP(t *testing.T) {
	staticVP8X := make([]byte, 10)
	animatedVP8X := make([]byte, 10)
	animatedVP8X[0] = vp8xAnimationBit

	assert.False(t, IsAnimatedWebP(riffWebP(chunk("VP8 ", make([]byte, 10)))))
	assert.False(t, IsAnimatedWebP(riffWebP(chunk("VP8X", staticVP8X))))
	assert.True(t, IsAnimatedWebP(riffWebP(chunk("VP8X", animatedVP8X))))
	assert.True(t, IsAnimatedWebP(riffWebP(chunk("VP8X", staticVP8X), chunk("ANIM", make([]byte, 6)))))
	assert.True(t, IsAnimatedWebP(riffWebP(chunk("ANMF", make([]byte, 16)))))
	// Odd-sized chunks are padded; the walker must still find ANIM.
	assert.True(t, IsAnimatedWebP(riffWebP(chunk("ICCP", make([]byte, 3)), chunk("ANIM", make([]byte, 6)))))
	assert.False(t, IsAnimatedWebP([]byte("not webp at all")))
}
