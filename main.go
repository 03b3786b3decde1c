package main

import "medconnect/cmd"

func main() {
	cmd.Execute()
}
