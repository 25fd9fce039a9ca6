package main

import (
	"context"
	"log"
	"os"

	"github.com/gonejack/send-eml/cmd"
	"github.com/gonejack/send-eml/sendeml"
)

func main() {
	log.SetOutput(os.Stdout)

	prog, err := cmd.New(sendeml.Send)
	if err != nil {
		log.Fatal(err)
	}

	code, err := cmd.Execute(context.Background(), prog, os.Args[1:], os.Stderr)
	switch code {
	case cmd.ExitOK:
	case cmd.ExitUsage:
		os.Exit(code)
	default:
		log.Fatal(err)
	}
}
