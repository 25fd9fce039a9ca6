package sendeml

import (
	"github.com/gonejack/send-eml/flagdef"
)

type Options struct {
	Server    string
	File      string
	Sender    string
	Recipient string
	Verbose   bool

	Args []string
}

// Definitions lists the command line flags in the order usage prints them.
func Definitions() []flagdef.Flag {
	return []flagdef.Flag{
		{Name: "destination", Shorthand: "d", Dest: "server", Usage: "destination smtp server", TakesValue: true, Required: true},
		{Name: "file", Shorthand: "f", Dest: "file", Usage: "message FILE", TakesValue: true, Required: true},
		{Name: "sender", Shorthand: "s", Dest: "sender", Usage: "message sender", TakesValue: true, Required: true},
		{Name: "recipient", Shorthand: "r", Dest: "recipient", Usage: "message recipient", TakesValue: true, Required: true},
		{Name: "verbose", Shorthand: "v", Dest: "verbose", Usage: "print smtp conversation"},
	}
}

func FromResult(r *flagdef.Result) (opt Options) {
	opt.Server = r.String("server")
	opt.File = r.String("file")
	opt.Sender = r.String("sender")
	opt.Recipient = r.String("recipient")
	opt.Verbose = r.Bool("verbose")
	opt.Args = r.Args()
	return
}

// NewFlags returns the validating parser for Definitions.
func NewFlags() (*flagdef.Set, error) {
	return flagdef.New("send-eml", Definitions()...)
}
