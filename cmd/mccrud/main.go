package main

import "github.com/materials-commons/mccrud/cmd/mccrud/cmd"

func main() {
	cmd.Execute()
}
