package ipc

import (
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"os"
	"time"
)

const SocketPath = "/tmp/friday.sock"

type ControlMessage struct {
	Cmd string `json:"cmd"`
}

type ControlReply struct {
	OK    bool   `json:"ok"`
	Error string `json:"error,omitempty"`
}

// Handler applies one command; a non-nil error is reported to the client.
type Handler func(ControlMessage) error

// StartServer listens on path and serves every connection on its own
// goroutine. Close the returned listener to stop.
func StartServer(path string, handler Handler) (net.Listener, error) {
	os.Remove(path)

	ln, err := net.Listen("unix", path)
	if err != nil {
		return nil, fmt.Errorf("listen: %w", err)
	}

	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				if errors.Is(err, net.ErrClosed) {
					return
				}
				continue
			}
			go handleConn(conn, handler)
		}
	}()

	return ln, nil
}

func handleConn(conn net.Conn, handler Handler) {
	defer conn.Close()
	_ = conn.SetDeadline(time.Now().Add(5 * time.Second))

	var msg ControlMessage
	if err := json.NewDecoder(conn).Decode(&msg); err != nil {
		return
	}

	reply := ControlReply{OK: true}
	if err := handler(msg); err != nil {
		reply = ControlReply{Error: err.Error()}
	}

	_ = json.NewEncoder(conn).Encode(reply)
}

func SendCommand(path, cmd string) error {
	conn, err := net.DialTimeout("unix", path, 2*time.Second)
	if err != nil {
		return err
	}
	defer conn.Close()
	_ = conn.SetDeadline(time.Now().Add(5 * time.Second))

	if err := json.NewEncoder(conn).Encode(ControlMessage{Cmd: cmd}); err != nil {
		return fmt.Errorf("send: %w", err)
	}

	var reply ControlReply
	if err := json.NewDecoder(conn).Decode(&reply); err != nil {
		return fmt.Errorf("read reply: %w", err)
	}
	if !reply.OK {
		return errors.New(reply.Error)
	}

	return nil
}
