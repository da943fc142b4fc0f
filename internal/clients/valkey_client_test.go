package clients

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/valkey-io/valkey-go"
)

// stubValkeyConn only needs Close; recreation is observed through it.
type stubValkeyConn struct {
	valkey.Client
	closed bool
}

func (s *stubValkeyConn) Close() { s.closed = true }

func TestHandleCommandErrorRecreatesOnConnectionError(t *testing.T) {
	conn := &stubValkeyConn{}
	vc := &ValkeyClient{Client: conn}

	vc.handleCommandError(errors.New("dial tcp 127.0.0.1:6379: connection refused"))

	assert.True(t, conn.closed, "dead connection must be discarded before the next attempt")
}

func TestHandleCommandErrorKeepsClientOnCommandError(t *testing.T) {
	conn := &stubValkeyConn{}
	vc := &ValkeyClient{Client: conn}

	vc.handleCommandError(errors.New("WRONGTYPE Operation against a key holding the wrong kind of value"))

	assert.False(t, conn.closed)
}

func TestIsConnectionError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"refused", errors.New("connection refused"), true},
		{"eof", errors.New("unexpected EOF"), true},
		{"io timeout", errors.New("read tcp: i/o timeout"), true},
		{"command error", errors.New("ERR syntax error"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, isConnectionError(tt.err))
		})
	}
}
