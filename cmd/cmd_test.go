package cmd

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gonejack/send-eml/flagdef"
	"github.com/gonejack/send-eml/internal/smtptest"
	"github.com/gonejack/send-eml/sendeml"
)

func TestExecute_Sends(t *testing.T) {
	t.Parallel()

	srv := smtptest.New(t)
	path := filepath.Join(t.TempDir(), "msg.eml")
	require.NoError(t, os.WriteFile(path, []byte("Subject: hi\r\n\r\nbody\r\n"), 0644))

	prog, err := New(sendeml.Send)
	require.NoError(t, err)

	var stderr bytes.Buffer
	code, err := Execute(context.Background(), prog,
		[]string{"-d", srv.Addr, "-f", path, "-s", "a@x.com", "-r", "b@x.com"}, &stderr)

	require.NoError(t, err)
	require.Equal(t, ExitOK, code)
	msgs := srv.Messages()
	require.Len(t, msgs, 1)
	require.Equal(t, "a@x.com", msgs[0].From)
	require.Equal(t, []string{"b@x.com"}, msgs[0].To)
	got := strings.ReplaceAll(string(msgs[0].Data), "\r\n", "\n")
	require.Equal(t, "Subject: hi\n\nbody", strings.TrimSuffix(got, "\n"))
}

func TestExecute_MissingRecipient(t *testing.T) {
	t.Parallel()

	srv := smtptest.New(t)
	called := false
	prog, err := New(func(context.Context, sendeml.Options) error {
		called = true
		return nil
	})
	require.NoError(t, err)

	var stderr bytes.Buffer
	code, err := Execute(context.Background(), prog,
		[]string{"-d", srv.Addr, "-f", "missing.eml", "-s", "a@x.com"}, &stderr)

	require.Equal(t, ExitUsage, code)
	require.True(t, flagdef.IsUsage(err))
	require.Contains(t, stderr.String(), "--recipient not supplied")
	require.Contains(t, stderr.String(), "Usage:")
	require.False(t, called)
	require.Zero(t, srv.Sessions())
}

func TestExecute_MissingRecipientRealRelay(t *testing.T) {
	t.Parallel()

	srv := smtptest.New(t)
	prog, err := New(sendeml.Send)
	require.NoError(t, err)

	// the file does not exist, so reaching the relay would fail with an open error
	code, err := Execute(context.Background(), prog,
		[]string{"-d", srv.Addr, "-f", "missing.eml", "-s", "a@x.com"}, &bytes.Buffer{})

	require.Equal(t, ExitUsage, code)
	var me *flagdef.MissingError
	require.ErrorAs(t, err, &me)
	require.Equal(t, "recipient", me.Flag.Name)
	require.Zero(t, srv.Sessions())
}

func TestExecute_UnknownFlag(t *testing.T) {
	t.Parallel()

	prog, err := New(func(context.Context, sendeml.Options) error { return nil })
	require.NoError(t, err)

	var stderr bytes.Buffer
	code, err := Execute(context.Background(), prog, []string{"--bogus"}, &stderr)

	require.Equal(t, ExitUsage, code)
	require.True(t, flagdef.IsUsage(err))
	require.Contains(t, stderr.String(), "--bogus")
}

func TestExecute_OperationalError(t *testing.T) {
	t.Parallel()

	prog, err := New(sendeml.Send)
	require.NoError(t, err)

	code, err := Execute(context.Background(), prog,
		[]string{"-d", "127.0.0.1:1", "-f", filepath.Join(t.TempDir(), "nope.eml"), "-s", "a", "-r", "b"},
		&bytes.Buffer{})

	require.Equal(t, ExitError, code)
	require.ErrorIs(t, err, os.ErrNotExist)
	require.False(t, flagdef.IsUsage(err))
}

func TestExecute_PassesOptions(t *testing.T) {
	t.Parallel()

	var got sendeml.Options
	prog, err := New(func(_ context.Context, opt sendeml.Options) error {
		got = opt
		return nil
	})
	require.NoError(t, err)

	code, err := Execute(context.Background(), prog,
		[]string{"--sender", "a@x.com", "-r", "b@x.com", "--verbose", "-f", "m.eml", "--destination=smtp.example.com"},
		&bytes.Buffer{})

	require.NoError(t, err)
	require.Equal(t, ExitOK, code)
	require.Equal(t, sendeml.Options{
		Server:    "smtp.example.com",
		File:      "m.eml",
		Sender:    "a@x.com",
		Recipient: "b@x.com",
		Verbose:   true,
	}, got)
}

func TestHelpListsFlagsInOrder(t *testing.T) {
	t.Parallel()

	prog, err := New(func(context.Context, sendeml.Options) error { return nil })
	require.NoError(t, err)

	usage := prog.UsageString()
	var last int
	for _, name := range []string{"--destination", "--file", "--sender", "--recipient", "--verbose"} {
		i := bytes.Index([]byte(usage), []byte(name))
		require.Greater(t, i, last, name)
		last = i
	}
}
