package main

import "github.com/Rorical/LeadForm/cmd"

func main() {
	cmd.Execute()
}
