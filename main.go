package main

import "github.com/notargets/golcs/cmd"

func main() {
	cmd.Execute()
}
