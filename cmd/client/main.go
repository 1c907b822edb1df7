package main

import (
	"fleetlog/cmd/client/cmd"
)

func main() {
	cmd.Execute()
}
