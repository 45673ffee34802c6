package protocol

import (
	"bytes"
	"encoding/binary"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFrame(t *testing.T) {
	buffer := new(bytes.Buffer)
	payloads := []string{"STATUS_REQUEST", "", "TASK:1|1|2000|0"}
	for _, payload := range payloads {
		require.NoError(t, WriteFrame(buffer, []byte(payload)))
	}
	raw := buffer.Bytes()
	assert.Equal(t, uint32(len(payloads[0])), binary.LittleEndian.Uint32(raw[:HeaderSize]))

	for _, expected := range payloads {
		actual, err := ReadFrame(buffer)
		require.NoError(t, err)
		assert.Equal(t, expected, string(actual))
	}
	_, err := ReadFrame(buffer)
	assert.True(t, errors.Is(err, io.EOF))
}

func TestReadFrame_Truncated(t *testing.T) {
	frame, err := AppendFrame(nil, []byte("DONE:1|1|2000|1"))
	require.NoError(t, err)
	_, err = ReadFrame(bytes.NewReader(frame[:len(frame)-3]))
	assert.True(t, errors.Is(err, io.ErrUnexpectedEOF))
}

func TestReadFrame_TooLarge(t *testing.T) {
	header := binary.LittleEndian.AppendUint32(nil, MaxFrameSize+1)
	_, err := ReadFrame(bytes.NewReader(header))
	assert.True(t, errors.Is(err, ErrFrameTooLarge))

	_, err = AppendFrame(nil, make([]byte, MaxFrameSize+1))
	assert.True(t, errors.Is(err, ErrFrameTooLarge))
}
