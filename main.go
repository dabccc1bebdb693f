package main

import "github.com/RunOnFlux/ssp-relay-sub000/cmd"

func main() {
	cmd.Execute()
}
