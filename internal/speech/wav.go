package speech

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
)

const wavFormatPCM = 1

var (
	errNotWAV      = errors.New("not a RIFF/WAVE stream")
	errNoFmtChunk  = errors.New("wav: missing fmt chunk")
	errNoDataChunk = errors.New("wav: missing data chunk")
)

// DecodeWAV reads a PCM WAV stream. Chunk sizes larger than the remaining
// input are clamped, since engines writing to a pipe cannot seek back to
// patch the header and leave a placeholder size there.
func DecodeWAV(b []byte) (Audio, error) {
	if len(b) < 12 || string(b[0:4]) != "RIFF" || string(b[8:12]) != "WAVE" {
		return Audio{}, errNotWAV
	}

	var (
		audio   Audio
		haveFmt bool
	)
	off := 12
	for off+8 <= len(b) {
		id := string(b[off : off+4])
		size := int(binary.LittleEndian.Uint32(b[off+4 : off+8]))
		off += 8
		if size < 0 || size > len(b)-off {
			size = len(b) - off
		}
		body := b[off : off+size]

		switch id {
		case "fmt ":
			if len(body) < 16 {
				return Audio{}, fmt.Errorf("wav: fmt chunk too short (%d bytes)", len(body))
			}
			if format := binary.LittleEndian.Uint16(body[0:2]); format != wavFormatPCM {
				return Audio{}, fmt.Errorf("wav: unsupported format %d", format)
			}
			audio.Channels = int(binary.LittleEndian.Uint16(body[2:4]))
			audio.SampleRate = int(binary.LittleEndian.Uint32(body[4:8]))
			audio.BitDepth = int(binary.LittleEndian.Uint16(body[14:16]))
			haveFmt = true
		case "data":
			if !haveFmt {
				return Audio{}, errNoFmtChunk
			}
			audio.PCM = body
			return audio, nil
		}

		off += size
		if size%2 == 1 {
			off++
		}
	}

	if !haveFmt {
		return Audio{}, errNoFmtChunk
	}
	return Audio{}, errNoDataChunk
}

// EncodeWAV writes audio as a canonical 44-byte-header PCM WAV file.
func EncodeWAV(a Audio) []byte {
	blockAlign := a.Channels * a.BitDepth / 8
	var buf bytes.Buffer
	buf.Grow(44 + len(a.PCM))

	buf.WriteString("RIFF")
	binary.Write(&buf, binary.LittleEndian, uint32(36+len(a.PCM)))
	buf.WriteString("WAVE")

	buf.WriteString("fmt ")
	binary.Write(&buf, binary.LittleEndian, uint32(16))
	binary.Write(&buf, binary.LittleEndian, uint16(wavFormatPCM))
	binary.Write(&buf, binary.LittleEndian, uint16(a.Channels))
	binary.Write(&buf, binary.LittleEndian, uint32(a.SampleRate))
	binary.Write(&buf, binary.LittleEndian, uint32(a.SampleRate*blockAlign))
	binary.Write(&buf, binary.LittleEndian, uint16(blockAlign))
	binary.Write(&buf, binary.LittleEndian, uint16(a.BitDepth))

	buf.WriteString("data")
	binary.Write(&buf, binary.LittleEndian, uint32(len(a.PCM)))
	buf.Write(a.PCM)

	return buf.Bytes()
}
