package whisper

import (
	"encoding/binary"
	"io"

	"langprobe/internal/media/pcm"
)

// WriteWAV wraps raw mono 16 kHz s16le samples in a RIFF header.
func WriteWAV(w io.Writer, data []byte) error {
	const headerSize = 44
	dataLen := uint32(len(data))

	var header [headerSize]byte
	copy(header[0:4], "RIFF")
	binary.LittleEndian.PutUint32(header[4:8], 36+dataLen)
	copy(header[8:12], "WAVE")

	copy(header[12:16], "fmt ")
	binary.LittleEndian.PutUint32(header[16:20], 16)
	binary.LittleEndian.PutUint16(header[20:22], 1) // PCM
	binary.LittleEndian.PutUint16(header[22:24], 1) // mono
	binary.LittleEndian.PutUint32(header[24:28], pcm.SampleRate)
	binary.LittleEndian.PutUint32(header[28:32], pcm.SampleRate*pcm.BytesPerSample)
	binary.LittleEndian.PutUint16(header[32:34], pcm.BytesPerSample)
	binary.LittleEndian.PutUint16(header[34:36], 16)

	copy(header[36:40], "data")
	binary.LittleEndian.PutUint32(header[40:44], dataLen)

	if _, err := w.Write(header[:]); err != nil {
		return err
	}
	_, err := w.Write(data)
	return err
}
