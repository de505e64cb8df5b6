package main

import (
	"github.com/mmbazm/device-api/cmd"
)

func main() {
	cmd.Execute()
}
