package sendeml

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net"
	"os"

	"github.com/emersion/go-smtp"
	"github.com/gabriel-vasile/mimetype"
	"github.com/gonejack/email"
)

const defaultPort = "25"

var ErrNotMessage = errors.New("file does not look like an email message")

type Relay struct {
	Options

	// Trace receives the smtp conversation when Verbose is set. Defaults to os.Stderr.
	Trace io.Writer
}

func (r *Relay) Run(ctx context.Context) (err error) {
	msg, err := r.readMessage()
	if err != nil {
		return
	}

	addr := serverAddr(r.Server)
	if r.Verbose {
		log.Printf("sending %s from %s to %s via %s", r.File, r.Sender, r.Recipient, addr)
	}

	c, err := r.dial(ctx, addr)
	if err != nil {
		return fmt.Errorf("dial %s: %w", addr, err)
	}
	defer c.Close()

	err = c.SendMail(r.Sender, []string{r.Recipient}, bytes.NewReader(msg))
	if err != nil {
		return fmt.Errorf("send %s: %w", r.File, err)
	}
	err = c.Quit()
	if err != nil {
		return fmt.Errorf("quit: %w", err)
	}

	if r.Verbose {
		log.Printf("sent %s", r.File)
	}

	return
}
// readMessage checks that the file parses as a message and returns its
// bytes unchanged apart from line endings.
func (r *Relay) readMessage() (msg []byte, err error) {
	data, err := os.ReadFile(r.File)
	if err != nil {
		return nil, fmt.Errorf("open message: %w", err)
	}

	mt := mimetype.Detect(data)
	if r.Verbose {
		log.Printf("%s detected as %s", r.File, mt)
	}
	if isBinaryFormat(mt) {
		return nil, fmt.Errorf("parse message %s: %w (%s)", r.File, ErrNotMessage, mt)
	}

	_, err = email.NewEmailFromReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("parse message %s: %w", r.File, err)
	}

	return crlf(data), nil
}
func (r *Relay) dial(ctx context.Context, addr string) (c *smtp.Client, err error) {
	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return
	}

	c = smtp.NewClient(conn)
	if r.Verbose {
		c.DebugWriter = r.Trace
		if c.DebugWriter == nil {
			c.DebugWriter = os.Stderr
		}
	}

	return
}

// serverAddr appends the default smtp port when server has none.
func serverAddr(server string) string {
	if _, _, err := net.SplitHostPort(server); err == nil {
		return server
	}
	return net.JoinHostPort(server, defaultPort)
}

// isBinaryFormat reports whether mt is a known non-text format. Plain
// application/octet-stream is not one: messages with 8-bit parts sniff as it.
func isBinaryFormat(mt *mimetype.MIME) bool {
	for m := mt; m != nil; m = m.Parent() {
		if m.Is("text/plain") || m.Is("message/rfc822") {
			return false
		}
	}
	return !mt.Is("application/octet-stream")
}

// crlf rewrites bare LF and bare CR line endings as CRLF and terminates the
// last line.
func crlf(data []byte) []byte {
	data = bytes.ReplaceAll(data, []byte("\r\n"), []byte("\n"))
	data = bytes.ReplaceAll(data, []byte("\r"), []byte("\n"))
	data = bytes.ReplaceAll(data, []byte("\n"), []byte("\r\n"))
	if len(data) > 0 && !bytes.HasSuffix(data, []byte("\r\n")) {
		data = append(data, '\r', '\n')
	}
	return data
}

// Send relays the message described by opt.
func Send(ctx context.Context, opt Options) error {
	r := Relay{Options: opt}
	return r.Run(ctx)
}
