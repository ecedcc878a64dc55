package main

import "genezio-rs/go/cargo-genezio/cmd"

func main() {
	cmd.Execute()
}
