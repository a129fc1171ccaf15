package main

import "github.com/hobbyloop/skein/internal/cli"

func main() {
	cli.Execute()
}
