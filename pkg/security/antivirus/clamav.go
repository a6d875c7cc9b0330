package antivirus

import (
	"bufio"
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"net"
	"strings"
	"time"
)

// clamd rejects INSTREAM chunks above StreamMaxLength; 64 KiB is always safe.
const chunkSize = 64 << 10

// ClamAVScanner talks to a clamd daemon over TCP ("host:port") or a unix
// socket (an absolute path).
type ClamAVScanner struct {
	address string
	timeout time.Duration
}

var _ Scanner = (*ClamAVScanner)(nil)

func NewClamAVScanner(address string, timeout time.Duration) *ClamAVScanner {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &ClamAVScanner{address: address, timeout: timeout}
}

func (c *ClamAVScanner) Name() string {
	return "clamav"
}

func (c *ClamAVScanner) dial(ctx context.Context) (net.Conn, error) {
	network := "tcp"
	if strings.HasPrefix(c.address, "/") {
		network = "unix"
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var d net.Dialer
	conn, err := d.DialContext(ctx, network, c.address)
	if err != nil {
		return nil, fmt.Errorf("clamd: connect: %w", err)
	}
	deadline := time.Now().Add(c.timeout)
	if dl, ok := ctx.Deadline(); ok && dl.Before(deadline) {
		deadline = dl
	}
	_ = conn.SetDeadline(deadline)
	return conn, nil
}

// Ping reports whether clamd answers PONG.
func (c *ClamAVScanner) Ping(ctx context.Context) error {
	conn, err := c.dial(ctx)
	if err != nil {
		return err
	}
	defer conn.Close()

	if _, err := conn.Write([]byte("zPING\x00")); err != nil {
		return fmt.Errorf("clamd: ping: %w", err)
	}
	reply, err := readReply(conn)
	if err != nil {
		return err
	}
	if reply != "PONG" {
		return fmt.Errorf("clamd: unexpected ping reply %q", reply)
	}
	return nil
}

// Scan streams data with the INSTREAM command.
func (c *ClamAVScanner) Scan(ctx context.Context, data []byte) (Result, error) {
	result := Result{Scanner: c.Name()}

	conn, err := c.dial(ctx)
	if err != nil {
		return result, err
	}
	defer conn.Close()

	w := bufio.NewWriter(conn)
	if _, err := w.WriteString("zINSTREAM\x00"); err != nil {
		return result, fmt.Errorf("clamd: send command: %w", err)
	}

	var size [4]byte
	for len(data) > 0 {
		n := min(len(data), chunkSize)
		binary.BigEndian.PutUint32(size[:], uint32(n))
		if _, err := w.Write(size[:]); err != nil {
			return result, fmt.Errorf("clamd: send chunk: %w", err)
		}
		if _, err := w.Write(data[:n]); err != nil {
			return result, fmt.Errorf("clamd: send chunk: %w", err)
		}
		data = data[n:]
	}
	binary.BigEndian.PutUint32(size[:], 0)
	if _, err := w.Write(size[:]); err != nil {
		return result, fmt.Errorf("clamd: send terminator: %w", err)
	}
	if err := w.Flush(); err != nil {
		return result, fmt.Errorf("clamd: send: %w", err)
	}

	reply, err := readReply(conn)
	if err != nil {
		return result, err
	}
	return parseReply(reply, result)
}

func readReply(conn net.Conn) (string, error) {
	reply, err := bufio.NewReader(conn).ReadString('\x00')
	if err != nil && reply == "" {
		return "", fmt.Errorf("clamd: read reply: %w", err)
	}
	return strings.TrimSpace(strings.TrimRight(reply, "\x00")), nil
}

// parseReply reads "stream: OK", "stream: <name> FOUND" or
// "<message> ERROR".
func parseReply(reply string, result Result) (Result, error) {
	body := strings.TrimSpace(strings.TrimPrefix(reply, "stream:"))
	switch {
	case strings.HasSuffix(body, " FOUND"):
		result.Infected = true
		result.Threat = strings.TrimSuffix(body, " FOUND")
		return result, nil
	case body == "OK":
		return result, nil
	case strings.HasSuffix(body, "ERROR"):
		return result, fmt.Errorf("clamd: %s", body)
	}
	return result, errors.New("clamd: unrecognized reply " + reply)
}
