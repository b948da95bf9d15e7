package main

import "github.com/materials-commons/mccrud/cmd/mccrudd/cmd"

func main() {
	cmd.Execute()
}
