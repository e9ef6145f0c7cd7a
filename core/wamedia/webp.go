package wamedia

import (
	"bytes"
	"encoding/binary"
)

// vp8xAnimationBit is bit 1 of the VP8X flags byte.
const vp8xAnimationBit = 0x02

// IsWebP checks the RIFF container magic.
func IsWebP(data []byte) bool {
	return len(data) >= 12 &&
		bytes.Equal(data[0:4], []byte("RIFF")) &&
		bytes.Equal(data[8:12], []byte("WEBP"))
}

// IsAnimatedWebP walks the RIFF chunks of a WebP buffer and reports
// whether it is animated: either the VP8X flags byte carries the animation
// bit, or an ANIM/ANMF chunk is present.
func IsAnimatedWebP(data []byte) bool {
	if !IsWebP(data) {
		return false
	}
	offset := 12
	for offset+8 <= len(data) {
		fourCC := string(data[offset : offset+4])
		size := binary.LittleEndian.Uint32(data[offset+4 : offset+8])
		payload := offset + 8
		switch fourCC {
		case "VP8X":
			if payload < len(data) && data[payload]&vp8xAnimationBit != 0 {
				return true
			}
		case "ANIM", "ANMF":
			return true
		}
		// Chunks are padded to even sizes.
		offset = payload + int(size)
		if size%2 == 1 {
			offset++
		}
	}
	return false
}
