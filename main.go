package main

import "github.com/chris17453/goodreads-pdf/cmd"

var execute = cmd.Execute

func main() {
	execute()
}
