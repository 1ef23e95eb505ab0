package apdu

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/ruteri/xpub-export-device/interfaces"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuffer_Reads(t *testing.T) {
	buf := NewBuffer([]byte{0x01, 0x80, 0x00, 0x00, 0x2c, 0x00, 0x00, 0x00, 0x05})

	v, ok := buf.ReadU8()
	require.True(t, ok)
	assert.Equal(t, uint8(1), v)

	path, ok := buf.ReadDerivationPath(2)
	require.True(t, ok)
	assert.Equal(t, interfaces.DerivationPath{interfaces.Hard(44), interfaces.Soft(5)}, path)
	assert.Equal(t, 0, buf.Remaining())

	_, ok = buf.ReadU8()
	assert.False(t, ok)
}

func TestBuffer_ShortReadDoesNotConsume(t *testing.T) {
	buf := NewBuffer([]byte{0x00, 0x00, 0x00, 0x01, 0xff, 0xff})

	_, ok := buf.ReadDerivationPath(2)
	assert.False(t, ok)
	assert.Equal(t, 6, buf.Remaining())

	v, ok := buf.ReadU32BE()
	require.True(t, ok)
	assert.Equal(t, uint32(1), v)

	_, ok = buf.ReadU32BE()
	assert.False(t, ok)
	assert.Equal(t, 2, buf.Remaining())
}

func TestAppendDerivationPath(t *testing.T) {
	path := interfaces.DerivationPath{interfaces.Hard(84), interfaces.Hard(1), interfaces.Soft(7)}
	encoded := AppendDerivationPath([]byte{3}, path)
	assert.Equal(t, []byte{3, 0x80, 0, 0, 84, 0x80, 0, 0, 1, 0, 0, 0, 7}, encoded)

	decoded, ok := NewBuffer(encoded[1:]).ReadDerivationPath(3)
	require.True(t, ok)
	assert.True(t, path.Equal(decoded))
}

func TestParseCommand(t *testing.T) {
	cmd, err := ParseCommand([]byte{0xE1, 0x00, 0x00, 0x01, 0x02, 0xAA, 0xBB})
	require.NoError(t, err)
	assert.Equal(t, &Command{CLA: 0xE1, INS: 0x00, P1: 0, P2: 1, Data: []byte{0xAA, 0xBB}}, cmd)

	raw, err := cmd.Bytes()
	require.NoError(t, err)
	assert.Equal(t, []byte{0xE1, 0x00, 0x00, 0x01, 0x02, 0xAA, 0xBB}, raw)

	_, err = ParseCommand([]byte{0xE1, 0x00, 0x00})
	assert.ErrorIs(t, err, ErrShortBuffer)

	_, err = ParseCommand([]byte{0xE1, 0x00, 0x00, 0x00, 0x03, 0xAA})
	assert.ErrorIs(t, err, ErrLengthMismatch)

	_, err = (&Command{Data: make([]byte, 256)}).Bytes()
	assert.ErrorIs(t, err, ErrDataTooLong)
}

func TestParseResponse(t *testing.T) {
	resp, err := ParseResponse([]byte{'x', 'p', 0x90, 0x00})
	require.NoError(t, err)
	assert.Equal(t, []byte("xp"), resp.Data)
	assert.Equal(t, SwOK, resp.Status)

	resp, err = ParseResponse(SwDeny.Bytes())
	require.NoError(t, err)
	assert.Empty(t, resp.Data)
	assert.Equal(t, SwDeny, resp.Status)

	_, err = ParseResponse([]byte{0x90})
	assert.ErrorIs(t, err, ErrShortBuffer)
}

func TestStatusWord_String(t *testing.T) {
	assert.Equal(t, "not_supported", SwNotSupported.String())
	assert.Equal(t, "0x1234", StatusWord(0x1234).String())

	err := &StatusError{Ins: 0x00, Status: SwDeny}
	assert.Contains(t, err.Error(), "denied")
}

func TestRecorder_KeepsFirstReply(t *testing.T) {
	rec := &Recorder{}
	rec.SendResponse([]byte("a"), SwOK)
	rec.SendStatus(SwBadState)

	assert.True(t, rec.Sent)
	assert.Equal(t, Response{Data: []byte("a"), Status: SwOK}, rec.Response)
}

func newTestMux() *Mux {
	mux := NewMux(CLA, slog.New(slog.NewTextHandler(io.Discard, nil)))
	mux.Handle(0x01, func(ctx context.Context, w ResponseWriter, cmd *Command) {
		w.SendResponse(append([]byte{cmd.P2}, cmd.Data...), SwOK)
	})
	mux.Handle(0x02, func(ctx context.Context, w ResponseWriter, cmd *Command) {})
	return mux
}

func TestMux_Dispatch(t *testing.T) {
	mux := newTestMux()
	ctx := context.Background()

	tests := []struct {
		name string
		cmd  Command
		want Response
	}{
		{"routed", Command{CLA: CLA, INS: 0x01, P2: 1, Data: []byte{7}}, Response{Data: []byte{1, 7}, Status: SwOK}},
		{"wrong class", Command{CLA: 0xE0, INS: 0x01}, Response{Status: SwClaNotSupported}},
		{"unknown instruction", Command{CLA: CLA, INS: 0x7F}, Response{Status: SwInsNotSupported}},
		{"non-zero P1", Command{CLA: CLA, INS: 0x01, P1: 1}, Response{Status: SwWrongP1P2}},
		{"future protocol", Command{CLA: CLA, INS: 0x01, P2: 2}, Response{Status: SwWrongP1P2}},
		{"handler without reply", Command{CLA: CLA, INS: 0x02}, Response{Status: SwBadState}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := tt.cmd
			assert.Equal(t, tt.want, mux.Serve(ctx, &cmd))
		})
	}
}

func TestMux_Exchange(t *testing.T) {
	mux := newTestMux()
	ctx := context.Background()

	frame := mux.Exchange(ctx, []byte{0xE1, 0x01, 0x00, 0x00, 0x01, 0x09})
	assert.Equal(t, []byte{0x00, 0x09, 0x90, 0x00}, frame)

	frame = mux.Exchange(ctx, []byte{0xE1, 0x01})
	assert.Equal(t, SwWrongDataLength.Bytes(), frame)
}
