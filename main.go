package main

import "github.com/aetrend/aetrend-cli/cmd"

func main() {
	cmd.Execute()
}
