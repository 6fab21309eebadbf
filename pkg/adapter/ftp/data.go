package ftp

import (
	"errors"
	"fmt"
	"io"
	"net"
	"time"

	"github.com/marmos91/ftpd/pkg/bufpool"
)

// dataChannel represents one pending or established data connection.
//
// A channel is armed by PORT (active) or PASV (passive) and consumed by
// exactly one transfer. Arming a new channel discards the previous one,
// and a transfer closes the channel when it completes, so every transfer
// needs a fresh PORT or PASV first.
type dataChannel struct {
	// target is the client address to dial, set in active mode.
	target string

	// listener accepts the client's connection, set in passive mode.
	// Closed after the first accept.
	listener *net.TCPListener

	conn net.Conn
}

// newActiveChannel arms a channel that will dial the client at host:port.
func newActiveChannel(host string, port int) *dataChannel {
	return &dataChannel{target: net.JoinHostPort(host, fmt.Sprintf("%d", port))}
}

// newPassiveChannel binds a listener for the client to connect to and
// returns the channel together with the bound port. When portRange is set,
// ports are probed in order; otherwise the OS picks one.
func newPassiveChannel(bindAddr string, portRange PortRange) (*dataChannel, int, error) {
	if portRange.IsZero() {
		l, err := listenTCP(bindAddr, 0)
		if err != nil {
			return nil, 0, err
		}
		return &dataChannel{listener: l}, l.Addr().(*net.TCPAddr).Port, nil
	}

	for port := portRange.Lo; port <= portRange.Hi; port++ {
		l, err := listenTCP(bindAddr, port)
		if err != nil {
			continue
		}
		return &dataChannel{listener: l}, port, nil
	}
	return nil, 0, fmt.Errorf("no free port in passive range %d-%d", portRange.Lo, portRange.Hi)
}

func listenTCP(bindAddr string, port int) (*net.TCPListener, error) {
	addr, err := net.ResolveTCPAddr("tcp", net.JoinHostPort(bindAddr, fmt.Sprintf("%d", port)))
	if err != nil {
		return nil, err
	}
	return net.ListenTCP("tcp", addr)
}

// open establishes the data connection, dialing in active mode or
// accepting in passive mode. Both sides are bounded by timeout; on expiry
// or failure the channel is left closed and the caller replies 425.
func (d *dataChannel) open(timeout time.Duration) (net.Conn, error) {
	if d.conn != nil {
		return d.conn, nil
	}

	if d.listener != nil {
		if err := d.listener.SetDeadline(time.Now().Add(timeout)); err != nil {
			d.close()
			return nil, err
		}
		conn, err := d.listener.AcceptTCP()
		// Single-shot listener: no second connection is ever accepted.
		d.listener.Close()
		d.listener = nil
		if err != nil {
			return nil, err
		}
		d.conn = conn
		return conn, nil
	}

	if d.target == "" {
		return nil, errors.New("data channel not armed")
	}
	conn, err := net.DialTimeout("tcp", d.target, timeout)
	if err != nil {
		return nil, err
	}
	d.conn = conn
	return conn, nil
}

// close releases the connection and any pending listener.
func (d *dataChannel) close() {
	if d.conn != nil {
		d.conn.Close()
		d.conn = nil
	}
	if d.listener != nil {
		d.listener.Close()
		d.listener = nil
	}
}

// pump copies src to dst through a pooled transfer buffer and returns the
// byte count alongside any error.
func pump(dst io.Writer, src io.Reader) (int64, error) {
	buf := bufpool.Get(bufpool.TransferSize)
	defer bufpool.Put(buf)
	return io.CopyBuffer(dst, src, buf)
}
