package main

import "github.com/aalvaropc/seqyank/internal/cli"

func main() {
	cli.Execute()
}
