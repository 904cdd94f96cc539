package qup

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"os"
	"path/filepath"
	"time"
)

// commandCaller issues a single command to a running qtile instance and
// returns the decoded reply. Swapped for a fake in tests.
type commandCaller interface {
	Call(name string, args []any, kwargs map[string]any) (any, error)
}

// IPCClient talks to qtile's command socket. A successful command replies
// with JSON null; anything else means qtile rejected it.
type IPCClient struct {
	SocketPath string // empty means discover from the environment
}

type ipcRequest struct {
	Selectors []any          `json:"selectors"`
	Name      string         `json:"name"`
	Args      []any          `json:"args"`
	Kwargs    map[string]any `json:"kwargs"`
}

func (c *IPCClient) Call(name string, args []any, kwargs map[string]any) (any, error) {
	path := c.SocketPath
	if path == "" {
		p, err := defaultSocketPath()
		if err != nil {
			return nil, err
		}
		path = p
	}

	conn, err := net.DialTimeout("unix", path, 5*time.Second)
	if err != nil {
		return nil, fmt.Errorf("could not reach qtile socket %s: %w", path, err)
	}
	defer conn.Close()

	if args == nil {
		args = []any{}
	}
	if kwargs == nil {
		kwargs = map[string]any{}
	}
	payload, err := json.Marshal(ipcRequest{
		Selectors: []any{},
		Name:      name,
		Args:      args,
		Kwargs:    kwargs,
	})
	if err != nil {
		return nil, err
	}
	if _, err := conn.Write(payload); err != nil {
		return nil, fmt.Errorf("writing to qtile socket: %w", err)
	}
	// Half-close so qtile sees EOF on the request and replies.
	if uc, ok := conn.(*net.UnixConn); ok {
		uc.CloseWrite()
	}

	data, err := io.ReadAll(conn)
	if err != nil {
		return nil, fmt.Errorf("reading qtile reply: %w", err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil
	}
	var reply any
	if err := json.Unmarshal(data, &reply); err != nil {
		return nil, fmt.Errorf("bad reply from qtile: %v", err)
	}
	return reply, nil
}

// defaultSocketPath discovers where the running qtile is listening.
// QTILE_SOCKET wins; otherwise the conventional per-display socket under the
// runtime dir, falling back to the cache dir for older setups.
func defaultSocketPath() (string, error) {
	if p := os.Getenv("QTILE_SOCKET"); p != "" {
		return p, nil
	}
	display := os.Getenv("WAYLAND_DISPLAY")
	if display == "" {
		display = os.Getenv("DISPLAY")
	}
	if display == "" {
		display = ":0"
	}
	if base := os.Getenv("XDG_RUNTIME_DIR"); base != "" {
		return filepath.Join(base, "qtile", "qtilesocket."+display), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not locate qtile socket: %v", err)
	}
	return filepath.Join(home, ".cache", "qtile", "qtilesocket."+display), nil
}
