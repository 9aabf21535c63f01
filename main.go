package main

import "github.com/daeho-materials/daeho-web/cmd"

func main() {
	cmd.Execute()
}
