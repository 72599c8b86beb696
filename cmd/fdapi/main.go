package main

import "github.com/RassulYunussov/fdapi/internal/cli"

func main() {
	cli.Execute()
}
