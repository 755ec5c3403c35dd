package main

import "github.com/gaurav-prasanna/stampify/cmd"

func main() {
	cmd.Execute()
}
