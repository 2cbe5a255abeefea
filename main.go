package main

import "github.com/twiced-technology-gmbh/roadmap/cmd"

func main() {
	cmd.Execute()
}
