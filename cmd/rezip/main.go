package main

import (
	"github.com/jessevdk/go-flags"
	"github.com/nguyengg/rezip/internal/cmd"
)

func main() {
	c := &cmd.Command{}

	p := flags.NewParser(c, flags.Default)
	p.Name = "rezip"
	p.Usage = "[OPTIONS] FILE..."

	_, err := p.Parse()
	if err == nil {
		err = c.Execute(nil)
	}

	exit(err)
}
