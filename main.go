package main

import "github.com/sarchlab/pagingsim/cmd"

func main() {
	cmd.Execute()
}
