package main

import (
	"os"

	wfwcli "github.com/wfw-net/wfw/cli"
)

func main() {
	err := wfwcli.Entrypoint().Run(os.Args)
	if err != nil {
		panic(err)
	}
}
