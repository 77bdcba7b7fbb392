package main

import "github.com/ValentinKolb/cloudkv/cmd"

func main() {
	cmd.Execute()
}
