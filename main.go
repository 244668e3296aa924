package main

import "github.com/dafioram/BookLogger/cmd"

var execute = cmd.Execute

func main() {
	execute()
}
