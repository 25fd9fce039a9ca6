// Package smtptest runs an in-process smtp server that records what it receives.
package smtptest

import (
	"io"
	"net"
	"sync"
	"testing"

	"github.com/emersion/go-smtp"
)

type Message struct {
	From string
	To   []string
	Data []byte
}

type Server struct {
	Addr string

	mu       sync.Mutex
	sessions int
	messages []Message
}

// New starts a server on a random loopback port, stopped when t finishes.
func New(t testing.TB) *Server {
	t.Helper()

	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %s", err)
	}

	srv := &Server{Addr: l.Addr().String()}
	s := smtp.NewServer(srv)
	s.Domain = "localhost"
	s.AllowInsecureAuth = true

	go func() { _ = s.Serve(l) }()
	t.Cleanup(func() { _ = s.Close() })

	return srv
}

func (s *Server) NewSession(_ *smtp.Conn) (smtp.Session, error) {
	s.mu.Lock()
	s.sessions++
	s.mu.Unlock()
	return &session{srv: s}, nil
}

// Sessions counts the connections accepted so far.
func (s *Server) Sessions() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sessions
}

func (s *Server) Messages() []Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Message(nil), s.messages...)
}

type session struct {
	srv  *Server
	from string
	to   []string
}

func (s *session) Mail(from string, _ *smtp.MailOptions) error {
	s.from = from
	return nil
}
func (s *session) Rcpt(to string, _ *smtp.RcptOptions) error {
	s.to = append(s.to, to)
	return nil
}
func (s *session) Data(r io.Reader) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	s.srv.mu.Lock()
	s.srv.messages = append(s.srv.messages, Message{From: s.from, To: s.to, Data: data})
	s.srv.mu.Unlock()
	return nil
}
func (s *session) Reset() {
	s.from = ""
	s.to = nil
}
func (s *session) Logout() error {
	return nil
}
