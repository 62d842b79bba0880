package main

import (
	"wickscan/internal/cli"
)

func main() {
	cli.Execute()
}
