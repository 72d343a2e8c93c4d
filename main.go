package main

import "github.com/dotcs/kmt2es/cmd"

func main() {
	cmd.Execute()
}
