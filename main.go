package main

import (
	"github.com/playtime/minecraft-bootstrap/cmd"
)

func main() {
	cmd.Execute()
}
